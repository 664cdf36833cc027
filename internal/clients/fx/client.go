// Package fx provides an exchange-rate client with a TTL rate cache.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/interfaces"
)

const (
	DefaultBaseURL = "https://open.er-api.com/v6"
	DefaultTimeout = 30 * time.Second
)

// Client resolves exchange rates from an open exchange-rate API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	cache      interfaces.RateCache
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates an FX client. The cache is required; callers supply it so
// tests can inject deterministic rates and clocks.
func NewClient(cache interfaces.RateCache, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
		cache:  cache,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type ratesResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// GetRate returns the multiplier converting one unit of from into to.
// Identity pairs resolve to 1 without a lookup; everything else goes through
// the injected cache before hitting the API.
func (c *Client) GetRate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == "" || to == "" {
		return 0, fmt.Errorf("currency codes are required (from=%q, to=%q)", from, to)
	}
	if from == to {
		return 1, nil
	}

	pair := from + "/" + to
	if rate, ok := c.cache.Get(pair); ok {
		return rate, nil
	}

	reqURL := fmt.Sprintf("%s/latest/%s", c.baseURL, from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("pair", pair).Msg("FX rate request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("FX API error for %s: status %d: %s", pair, resp.StatusCode, string(body))
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("failed to decode FX response: %w", err)
	}

	rate, ok := parsed.Rates[to]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("FX API returned no usable rate for %s", pair)
	}

	c.cache.Put(pair, rate)
	return rate, nil
}

var _ interfaces.FXClient = (*Client)(nil)
