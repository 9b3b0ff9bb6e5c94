package repository

import "context"

// CatalogSource fetches raw documents from the upstream TV catalog.
// Implementations should be provided by the infrastructure layer (e.g., TMDB).
type CatalogSource interface {
	// Show returns the raw show document, including external ids.
	// Returns ErrCatalogNotFound if the show does not exist.
	Show(ctx context.Context, showID int) (map[string]any, error)

	// Season returns the raw season document with its episode list.
	Season(ctx context.Context, showID, season int) (map[string]any, error)

	// Episode returns the raw episode document.
	Episode(ctx context.Context, showID, season, episode int) (map[string]any, error)

	// SearchShows returns the raw result list for a free-text show search.
	SearchShows(ctx context.Context, query string) ([]map[string]any, error)
}

// Limiter spaces out calls to the upstream catalog.
type Limiter interface {
	// Wait blocks until the next upstream call may proceed or ctx is done.
	Wait(ctx context.Context) error
}
