package handler

import (
	"log/slog"
	"net/http"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/usecase"
)

type SearchResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Overview     string  `json:"overview,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	PosterURL    string  `json:"poster_url,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	URL          string  `json:"url"`
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchHandler handles the show search API.
type SearchHandler struct {
	catalog usecase.CatalogService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(catalog usecase.CatalogService) *SearchHandler {
	return &SearchHandler{catalog: catalog}
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	shows, err := h.catalog.SearchShows(r.Context(), query)
	if err != nil {
		slog.Warn("show search failed",
			"query", query,
			"error", err,
		)
		Error(w, http.StatusBadGateway, "upstream_error", "Show search is temporarily unavailable")
		return
	}

	results := make([]SearchResult, 0, len(shows))
	for i := range shows {
		results = append(results, toSearchResult(&shows[i]))
	}

	JSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Results: results,
	})
}

func toSearchResult(s *model.Show) SearchResult {
	slug := s.Slug()
	return SearchResult{
		ID:           s.ID,
		Name:         s.Name,
		Slug:         slug,
		Overview:     s.Overview,
		FirstAirDate: s.FirstAirDate,
		PosterURL:    model.PosterURL(s.PosterPath),
		VoteAverage:  s.VoteAverage,
		URL:          "/show/" + slug,
	}
}
