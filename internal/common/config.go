// Package common provides shared utilities for Yardstick
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Yardstick
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Compare     CompareConfig `toml:"compare"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

// GetReadTimeout parses and returns the read timeout duration
func (c *ServerConfig) GetReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.ReadTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetWriteTimeout parses and returns the write timeout duration. Chart
// rendering is the slowest response the server produces, so the default is
// generous.
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.WriteTimeout)
	if err != nil {
		return 2 * time.Minute
	}
	return d
}

// StorageConfig holds the BadgerHold data directory path.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD EODHDConfig `toml:"eodhd"`
	FX    FXConfig    `toml:"fx"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// FXConfig holds exchange-rate client configuration
type FXConfig struct {
	BaseURL  string `toml:"base_url"`
	CacheTTL string `toml:"cache_ttl"`
	Timeout  string `toml:"timeout"`
}

// GetCacheTTL parses and returns the rate cache TTL
func (c *FXConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return FreshnessFXRate
	}
	return d
}

// GetTimeout parses and returns the timeout duration
func (c *FXConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// CompareConfig holds benchmark comparison settings.
// RiskFreeRate is the annualized rate used by the Sharpe ratio.
// AlignToleranceDays bounds the nearest-date search when the benchmark
// has no price on a portfolio date.
type CompareConfig struct {
	RiskFreeRate       float64 `toml:"risk_free_rate"`
	AlignToleranceDays int     `toml:"align_tolerance_days"`
}

// AuthConfig holds optional bearer-token authentication settings.
// An empty JWTSecret disables auth entirely.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"`
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8090,
			ReadTimeout:  "30s",
			WriteTimeout: "2m",
		},
		Storage: StorageConfig{
			Path: "data",
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			FX: FXConfig{
				BaseURL:  "https://open.er-api.com/v6",
				CacheTTL: "1h",
				Timeout:  "30s",
			},
		},
		Compare: CompareConfig{
			RiskFreeRate:       0.02,
			AlignToleranceDays: 7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateCompare(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("YARDSTICK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("YARDSTICK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("YARDSTICK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("YARDSTICK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("YARDSTICK_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}
	if key := os.Getenv("YARDSTICK_EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}

	if rf := os.Getenv("YARDSTICK_RISK_FREE_RATE"); rf != "" {
		if v, err := strconv.ParseFloat(rf, 64); err == nil {
			config.Compare.RiskFreeRate = v
		}
	}

	if v := os.Getenv("YARDSTICK_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
}

// validateCompare clamps comparison settings to usable values.
func validateCompare(config *Config) {
	if config.Compare.AlignToleranceDays <= 0 {
		config.Compare.AlignToleranceDays = 7
	}
	if config.Compare.RiskFreeRate < 0 {
		config.Compare.RiskFreeRate = 0
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
