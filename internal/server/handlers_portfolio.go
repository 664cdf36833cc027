package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/yardstick/internal/models"
)

// parseDateRange reads optional from/to query parameters. Zero times are
// returned for absent parameters; downstream services apply their defaults.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse(models.DateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, models.NewInputError("invalid 'from' date %q, expected YYYY-MM-DD", v)
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse(models.DateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, models.NewInputError("invalid 'to' date %q, expected YYYY-MM-DD", v)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, models.NewInputError("'to' date %s precedes 'from' date %s", to.Format(models.DateLayout), from.Format(models.DateLayout))
	}
	return from, to, nil
}

// handlePortfolioRoot handles GET /api/portfolios (list) and POST (create).
func (s *Server) handlePortfolioRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		names, err := s.app.Storage.PortfolioStorage().ListPortfolios(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"portfolios": names,
			"count":      len(names),
		})

	case http.MethodPost:
		var portfolio models.Portfolio
		if !DecodeJSON(w, r, &portfolio) {
			return
		}
		if err := portfolio.Validate(); err != nil {
			WriteDomainError(w, err)
			return
		}
		portfolio.Normalize()
		if err := s.app.Storage.PortfolioStorage().SavePortfolio(r.Context(), &portfolio); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.logger.Info().Str("portfolio", portfolio.Name).Int("positions", len(portfolio.Positions)).Msg("Portfolio saved")
		WriteJSON(w, http.StatusCreated, portfolio)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handlePortfolioItem handles GET/PUT/DELETE /api/portfolios/{name}.
func (s *Server) handlePortfolioItem(w http.ResponseWriter, r *http.Request, name string) {
	switch r.Method {
	case http.MethodGet:
		portfolio, err := s.app.Storage.PortfolioStorage().GetPortfolio(r.Context(), name)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	case http.MethodPut:
		var portfolio models.Portfolio
		if !DecodeJSON(w, r, &portfolio) {
			return
		}
		portfolio.Name = name
		if err := portfolio.Validate(); err != nil {
			WriteDomainError(w, err)
			return
		}
		portfolio.Normalize()
		if err := s.app.Storage.PortfolioStorage().SavePortfolio(r.Context(), &portfolio); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	case http.MethodDelete:
		if err := s.app.Storage.PortfolioStorage().DeletePortfolio(r.Context(), name); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": name})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handlePortfolioHistory handles GET /api/portfolios/{name}/history.
func (s *Server) handlePortfolioHistory(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	points, err := s.app.ValuationService.GetPortfolioHistory(r.Context(), name, from, to)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"portfolio": name,
		"points":    points,
		"count":     len(points),
	})
}
