package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hszk-dev/nextup/internal/domain/repository"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(ClientConfig{APIKey: "  "}); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestClient_Show(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1396" {
			t.Errorf("path = %q, want /tv/1396", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" {
			t.Errorf("api_key = %q, want test-key", q.Get("api_key"))
		}
		if q.Get("append_to_response") != "external_ids" {
			t.Errorf("append_to_response = %q, want external_ids", q.Get("append_to_response"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1396,"name":"Breaking Bad","poster_path":"/p.jpg"}`))
	})

	got, err := c.Show(context.Background(), 1396)
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if got["name"] != "Breaking Bad" {
		t.Errorf("name = %v, want Breaking Bad", got["name"])
	}
	if got["poster_path"] != "/p.jpg" {
		t.Errorf("poster_path = %v, want /p.jpg", got["poster_path"])
	}
}

func TestClient_SeasonAndEpisodePaths(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"id":1}`))
	})
	ctx := context.Background()

	if _, err := c.Season(ctx, 1396, 5); err != nil {
		t.Fatalf("Season() error = %v", err)
	}
	if _, err := c.Episode(ctx, 1396, 5, 16); err != nil {
		t.Fatalf("Episode() error = %v", err)
	}

	want := []string{"/tv/1396/season/5", "/tv/1396/season/5/episode/16"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestClient_SearchShows(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
	}{
		{"results", `{"page":1,"results":[{"id":1,"name":"A"},{"id":2,"name":"B"}]}`, 2},
		{"no results key", `{"page":1}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search/tv" {
					t.Errorf("path = %q, want /search/tv", r.URL.Path)
				}
				if q := r.URL.Query().Get("query"); q != "breaking bad" {
					t.Errorf("query = %q, want %q", q, "breaking bad")
				}
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := c.SearchShows(context.Background(), "breaking bad")
			if err != nil {
				t.Fatalf("SearchShows() error = %v", err)
			}
			if got == nil {
				t.Fatal("SearchShows() returned nil slice")
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantNotFound bool
		wantStatus   int
	}{
		{"not found", http.StatusNotFound, `{"status_code":34}`, true, 0},
		{"unauthorized", http.StatusUnauthorized, `{"status_code":7}`, false, http.StatusUnauthorized},
		{"server error", http.StatusInternalServerError, "boom", false, http.StatusInternalServerError},
		{"rate limited", http.StatusTooManyRequests, "", false, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Show(context.Background(), 1)
			if err == nil {
				t.Fatal("expected error")
			}

			if got := errors.Is(err, repository.ErrCatalogNotFound); got != tt.wantNotFound {
				t.Errorf("errors.Is(ErrCatalogNotFound) = %v, want %v (err = %v)", got, tt.wantNotFound, err)
			}

			var apiErr *APIError
			if tt.wantStatus != 0 {
				if !errors.As(err, &apiErr) {
					t.Fatalf("error = %v, want *APIError", err)
				}
				if apiErr.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.wantStatus)
				}
			}
		})
	}
}

func TestClient_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	if _, err := c.Episode(context.Background(), 1, 1, 1); err == nil {
		t.Fatal("expected decode error")
	}
}
