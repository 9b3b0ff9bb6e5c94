package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/hszk-dev/nextup/internal/domain/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per file under templates/.
const (
	pageHome     = "home"
	pageShow     = "show"
	pageEpisode  = "episode"
	pageUser     = "user"
	pageTerms    = "terms"
	pagePrivacy  = "privacy"
	pageNotFound = "not_found"
)

var pageNames = []string{
	pageHome,
	pageShow,
	pageEpisode,
	pageUser,
	pageTerms,
	pagePrivacy,
	pageNotFound,
}

var templateFuncs = template.FuncMap{
	"poster":   model.PosterURL,
	"backdrop": model.BackdropURL,
	"still":    model.StillURL,
	"rating":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"airDate":  formatAirDate,
	"plural": func(n int, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	// safeURL marks app deep links (nextup://) as trusted; html/template rejects unknown schemes.
	"safeURL": func(s string) template.URL { return template.URL(s) },
}

// Renderer executes the embedded page templates.
// Each page is parsed together with the shared layout into its own set.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every embedded page template.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages}, nil
}

// Render writes the named page with the given status.
// The page is buffered so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data pageData) {
	t, ok := r.pages[name]
	if !ok {
		slog.Error("unknown page template", "page", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render page",
			"page", name,
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// formatAirDate turns a TMDB "2006-01-02" date into "Jan 2, 2006".
// Unparseable input is returned unchanged.
func formatAirDate(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}
