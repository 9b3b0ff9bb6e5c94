// Package tmdb is a thin client for The Movie Database v3 REST API.
// It returns raw JSON documents; normalization happens in the domain layer.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/infrastructure/metrics"
)

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)

// APIError is returned for any non-200, non-404 response.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb %s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// ClientConfig holds configuration for the TMDB client.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client implements repository.CatalogSource against the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Compile-time verification that Client implements repository.CatalogSource.
var _ repository.CatalogSource = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient creates a TMDB client.
func NewClient(cfg ClientConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("tmdb: api key required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Show fetches /tv/{id} with external ids appended.
func (c *Client) Show(ctx context.Context, showID int) (map[string]any, error) {
	params := url.Values{}
	params.Set("append_to_response", "external_ids")

	var out map[string]any
	if err := c.get(ctx, metrics.EndpointShow, "/tv/"+strconv.Itoa(showID), params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Season fetches /tv/{id}/season/{n}.
func (c *Client) Season(ctx context.Context, showID, season int) (map[string]any, error) {
	path := fmt.Sprintf("/tv/%d/season/%d", showID, season)

	var out map[string]any
	if err := c.get(ctx, metrics.EndpointSeason, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Episode fetches /tv/{id}/season/{n}/episode/{e}.
func (c *Client) Episode(ctx context.Context, showID, season, episode int) (map[string]any, error) {
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", showID, season, episode)

	var out map[string]any
	if err := c.get(ctx, metrics.EndpointEpisode, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchShows fetches the first page of /search/tv for query.
func (c *Client) SearchShows(ctx context.Context, query string) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")

	var out struct {
		Results []map[string]any `json:"results"`
	}
	if err := c.get(ctx, metrics.EndpointSearch, "/search/tv", params, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		return []map[string]any{}, nil
	}
	return out.Results, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("tmdb %s: create request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamError).Inc()
		return fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamNotFound).Inc()
		return fmt.Errorf("tmdb %s %s: %w", endpoint, path, repository.ErrCatalogNotFound)
	default:
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamError).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamError).Inc()
		return fmt.Errorf("tmdb %s: decode response: %w", endpoint, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.UpstreamSuccess).Inc()
	return nil
}
