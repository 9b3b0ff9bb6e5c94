package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/usecase"
)

// showPageEpisodes is how many episodes of the latest season the show page lists.
const showPageEpisodes = 6

type showView struct {
	Show         *model.Show
	Slug         string
	Network      *model.Network
	LatestSeason int
	Episodes     []model.Episode
	DeepLink     string
}

type episodeView struct {
	Show     *model.Show
	Episode  *model.Episode
	Slug     string
	Season   int
	Number   int
	HasPrev  bool
	DeepLink string
}

type userView struct {
	Profile  *usecase.UserProfile
	Shows    []*model.FollowedShow
	DeepLink string
}

// PageHandler serves the public HTML pages.
type PageHandler struct {
	catalog  usecase.CatalogService
	users    usecase.UserService
	warm     usecase.WarmService
	renderer *Renderer
	site     SiteInfo
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(
	catalog usecase.CatalogService,
	users usecase.UserService,
	warm usecase.WarmService,
	renderer *Renderer,
	site SiteInfo,
) *PageHandler {
	return &PageHandler{
		catalog:  catalog,
		users:    users,
		warm:     warm,
		renderer: renderer,
		site:     site,
	}
}

// Home handles GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	meta := defaultMeta()
	meta.CanonicalURL = h.site.absoluteURL("/")
	h.render(w, http.StatusOK, pageHome, meta, nil)
}

// Terms handles GET /terms
func (h *PageHandler) Terms(w http.ResponseWriter, r *http.Request) {
	meta := titleOnlyMeta("Terms of Service" + titleSuffix)
	meta.Description = "Terms of Service for the Next Up app"
	h.render(w, http.StatusOK, pageTerms, meta, nil)
}

// Privacy handles GET /privacy
func (h *PageHandler) Privacy(w http.ResponseWriter, r *http.Request) {
	meta := titleOnlyMeta("Privacy Policy" + titleSuffix)
	meta.Description = "Privacy Policy for the Next Up app"
	h.render(w, http.StatusOK, pagePrivacy, meta, nil)
}

// NotFound renders the generic 404 page for unmatched routes.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, titlePageNotFound)
}

// Show handles GET /show/{slug}
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	showID, ok := model.ParseShowSlug(chi.URLParam(r, "slug"))
	if !ok {
		h.notFound(w, titleShowNotFound)
		return
	}

	show, err := h.catalog.GetShow(ctx, showID)
	if err != nil {
		logLookupError("show", showID, err)
		h.notFound(w, titleShowNotFound)
		return
	}

	view := showView{
		Show:         show,
		Slug:         show.Slug(),
		Network:      show.PrimaryNetwork(),
		LatestSeason: show.LatestSeasonNumber(),
		DeepLink:     fmt.Sprintf("nextup://show/%d", show.ID),
	}

	if view.LatestSeason > 0 {
		// The page renders without the episode list when the season lookup fails.
		season, err := h.catalog.GetSeason(ctx, showID, view.LatestSeason)
		if err == nil {
			view.Episodes = season.Episodes
			if len(view.Episodes) > showPageEpisodes {
				view.Episodes = view.Episodes[:showPageEpisodes]
			}
		}
	}

	posterURL := model.PosterURL(show.PosterPath)
	meta := Meta{
		Title:        show.Name + titleSuffix,
		Description:  show.Overview,
		OGTitle:      show.Name,
		OGType:       "video.tv_show",
		TwitterCard:  "summary_large_image",
		Images:       images(posterURL),
		CanonicalURL: h.site.absoluteURL("/show/" + view.Slug),
	}

	h.render(w, http.StatusOK, pageShow, meta, view)

	if view.LatestSeason > 0 {
		h.warm.RequestWarm(ctx, showID, view.LatestSeason)
	}
}

// Episode handles GET /show/{slug}/season/{season}/episode/{episode}
func (h *PageHandler) Episode(w http.ResponseWriter, r *http.Request) {
	showID, ok := model.ParseShowSlug(chi.URLParam(r, "slug"))
	if !ok {
		h.notFound(w, titleEpisodeNotFound)
		return
	}
	seasonNum, err := strconv.Atoi(chi.URLParam(r, "season"))
	if err != nil {
		h.notFound(w, titleEpisodeNotFound)
		return
	}
	episodeNum, err := strconv.Atoi(chi.URLParam(r, "episode"))
	if err != nil {
		h.notFound(w, titleEpisodeNotFound)
		return
	}

	var (
		show    *model.Show
		episode *model.Episode
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		show, err = h.catalog.GetShow(gctx, showID)
		return err
	})
	g.Go(func() error {
		var err error
		episode, err = h.catalog.GetEpisode(gctx, showID, seasonNum, episodeNum)
		return err
	})
	if err := g.Wait(); err != nil {
		logLookupError("episode", showID, err)
		h.notFound(w, titleEpisodeNotFound)
		return
	}

	view := episodeView{
		Show:     show,
		Episode:  episode,
		Slug:     show.Slug(),
		Season:   seasonNum,
		Number:   episodeNum,
		HasPrev:  episodeNum > 1,
		DeepLink: fmt.Sprintf("nextup://show/%d/season/%d/episode/%d", show.ID, seasonNum, episodeNum),
	}

	description, summary := episode.Overview, episode.Overview
	if description == "" {
		description = fmt.Sprintf("Episode %d of %s", episodeNum, show.Name)
		summary = fmt.Sprintf("Episode %d", episodeNum)
	}

	meta := Meta{
		Title:         fmt.Sprintf("%s - %s S%dE%d%s", episode.Name, show.Name, seasonNum, episodeNum, titleSuffix),
		Description:   description,
		OGTitle:       episode.Name + " - " + show.Name,
		OGDescription: summary,
		OGType:        "video.episode",
		TwitterCard:   "summary_large_image",
		Images:        images(model.StillURL(episode.StillPath)),
		CanonicalURL:  h.site.absoluteURL(fmt.Sprintf("/show/%s/season/%d/episode/%d", view.Slug, seasonNum, episodeNum)),
	}
	h.render(w, http.StatusOK, pageEpisode, meta, view)
}

// User handles GET /user/{userID}
func (h *PageHandler) User(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile, err := h.users.GetPublicProfile(r.Context(), userID)
	if err != nil {
		h.notFound(w, titleUserNotFound)
		return
	}

	user := profile.User
	title := "User Profile" + titleSuffix
	switch {
	case user.Username != "":
		title = "@" + user.Username + titleSuffix
	case user.FullName != "":
		title = user.FullName + titleSuffix
	}

	description := "This profile is private."
	if !user.IsPrivate {
		who := user.DisplayName()
		if who == "" {
			who = "this user"
		}
		description = fmt.Sprintf("Check out what %s is watching on Next Up.", who)
	}

	meta := Meta{
		Title:        title,
		Description:  description,
		OGTitle:      title,
		OGType:       "profile",
		TwitterCard:  "summary",
		CanonicalURL: h.site.absoluteURL("/user/" + user.ID),
	}

	h.render(w, http.StatusOK, pageUser, meta, userView{
		Profile:  profile,
		Shows:    profile.Shows,
		DeepLink: "nextup://user/" + user.ID,
	})
}

func (h *PageHandler) notFound(w http.ResponseWriter, title string) {
	h.render(w, http.StatusNotFound, pageNotFound, titleOnlyMeta(title), nil)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, page string, meta Meta, data any) {
	h.renderer.Render(w, status, page, pageData{
		Meta: meta,
		Site: h.site,
		Data: data,
	})
}

// logLookupError logs lookups that failed for reasons other than a missing entity.
func logLookupError(kind string, showID int, err error) {
	if errors.Is(err, repository.ErrCatalogNotFound) || errors.Is(err, model.ErrInvalidEntityKey) || errors.Is(err, context.Canceled) {
		return
	}
	slog.Warn("catalog lookup failed",
		"kind", kind,
		"show_id", showID,
		"error", err,
	)
}
