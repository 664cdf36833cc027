package server

import (
	"net/http"
)

// handleComparison handles GET /api/portfolios/{name}/comparison?benchmark={id}.
func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	benchmarkID := r.URL.Query().Get("benchmark")
	if benchmarkID == "" {
		WriteError(w, http.StatusBadRequest, "'benchmark' query parameter is required")
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	result, err := s.app.CompareService.Compare(r.Context(), name, benchmarkID, from, to)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// handleComparisonChart handles GET /api/portfolios/{name}/comparison/chart?benchmark={id}.
// Responds with a PNG image.
func (s *Server) handleComparisonChart(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	benchmarkID := r.URL.Query().Get("benchmark")
	if benchmarkID == "" {
		WriteError(w, http.StatusBadRequest, "'benchmark' query parameter is required")
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	png, err := s.app.CompareService.RenderChart(r.Context(), name, benchmarkID, from, to)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
