package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/models"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Benchmarks
	mux.HandleFunc("/api/benchmarks/", s.handleBenchmarkGet)
	mux.HandleFunc("/api/benchmarks", s.handleBenchmarkList)

	// Portfolios
	mux.HandleFunc("/api/portfolios/", s.routePortfolios)
	mux.HandleFunc("/api/portfolios", s.handlePortfolioRoot)
}

// routePortfolios dispatches /api/portfolios/{name}/* to the appropriate handler.
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	if path == "" {
		s.handlePortfolioRoot(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	name := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handlePortfolioItem(w, r, name)
	case "history":
		s.handlePortfolioHistory(w, r, name)
	case "comparison":
		s.handleComparison(w, r, name)
	case "comparison/chart":
		s.handleComparisonChart(w, r, name)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":          cfg.Environment,
		"storage_path":         cfg.Storage.Path,
		"risk_free_rate":       cfg.Compare.RiskFreeRate,
		"align_tolerance_days": cfg.Compare.AlignToleranceDays,
		"eodhd_api_key":        maskSecret(cfg.Clients.EODHD.APIKey),
		"auth_enabled":         cfg.Auth.JWTSecret != "",
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		s.shutdownChan <- struct{}{}
	}()
}

// --- Benchmark handlers ---

func (s *Server) handleBenchmarkList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"benchmarks": models.Benchmarks(),
	})
}

func (s *Server) handleBenchmarkGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/benchmarks/")
	if id == "" {
		s.handleBenchmarkList(w, r)
		return
	}

	bench, ok := models.BenchmarkByID(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "benchmark '"+id+"' not found")
		return
	}
	WriteJSON(w, http.StatusOK, bench)
}

// maskSecret hides all but the last 4 characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
