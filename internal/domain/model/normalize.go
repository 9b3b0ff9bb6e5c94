package model

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrEmptyPayload is returned when a raw catalog payload has no fields to normalize.
var ErrEmptyPayload = errors.New("empty catalog payload")

// fieldAlias pairs an upstream snake_case field with its canonical camelCase name.
//
// Payloads reach the normalizer either straight from TMDB (snake_case) or from
// a cache document written by an older release (camelCase). When the snake_case
// field is present and non-null it wins.
type fieldAlias struct {
	snake string
	camel string
}

var showFields = []fieldAlias{
	{"poster_path", "posterPath"},
	{"backdrop_path", "backdropPath"},
	{"number_of_seasons", "numberOfSeasons"},
	{"number_of_episodes", "numberOfEpisodes"},
	{"vote_average", "voteAverage"},
	{"vote_count", "voteCount"},
	{"first_air_date", "firstAirDate"},
	{"last_air_date", "lastAirDate"},
	{"original_name", "originalName"},
	{"in_production", "inProduction"},
	{"genre_ids", "genreIds"},
	{"next_episode_to_air", "nextEpisodeToAir"},
	{"last_episode_to_air", "lastEpisodeToAir"},
	{"external_ids", "externalIds"},
}

var seasonFields = []fieldAlias{
	{"season_number", "seasonNumber"},
	{"poster_path", "posterPath"},
	{"air_date", "airDate"},
	{"episode_count", "episodeCount"},
	{"vote_average", "voteAverage"},
}

var episodeFields = []fieldAlias{
	{"still_path", "stillPath"},
	{"season_number", "seasonNumber"},
	{"episode_number", "episodeNumber"},
	{"air_date", "airDate"},
	{"vote_average", "voteAverage"},
	{"vote_count", "voteCount"},
	{"episode_type", "episodeType"},
}

var networkFields = []fieldAlias{
	{"logo_path", "logoPath"},
	{"origin_country", "originCountry"},
}

var externalIDFields = []fieldAlias{
	{"imdb_id", "imdbId"},
	{"tvdb_id", "tvdbId"},
	{"wikidata_id", "wikidataId"},
}

// NormalizeShow maps a raw show payload into its canonical form.
func NormalizeShow(raw map[string]any) (*Show, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyPayload
	}

	var show Show
	if err := decode(canonicalShow(raw), &show); err != nil {
		return nil, fmt.Errorf("decode show: %w", err)
	}
	return &show, nil
}

// NormalizeShows maps a list of raw show payloads (e.g. search results).
// Entries that cannot be decoded are skipped.
func NormalizeShows(raws []map[string]any) []Show {
	shows := make([]Show, 0, len(raws))
	for _, raw := range raws {
		show, err := NormalizeShow(raw)
		if err != nil {
			continue
		}
		shows = append(shows, *show)
	}
	return shows
}

// NormalizeSeason maps a raw season payload into its canonical form.
func NormalizeSeason(raw map[string]any) (*Season, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyPayload
	}

	var season Season
	if err := decode(canonicalSeason(raw), &season); err != nil {
		return nil, fmt.Errorf("decode season: %w", err)
	}
	return &season, nil
}

// NormalizeEpisode maps a raw episode payload into its canonical form.
func NormalizeEpisode(raw map[string]any) (*Episode, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyPayload
	}

	var episode Episode
	if err := decode(canonicalize(raw, episodeFields), &episode); err != nil {
		return nil, fmt.Errorf("decode episode: %w", err)
	}
	return &episode, nil
}

func canonicalShow(raw map[string]any) map[string]any {
	m := canonicalize(raw, showFields)
	mapNested(m, "seasons", canonicalSeason)
	mapNested(m, "networks", func(n map[string]any) map[string]any {
		return canonicalize(n, networkFields)
	})
	mapNested(m, "nextEpisodeToAir", canonicalEpisode)
	mapNested(m, "lastEpisodeToAir", canonicalEpisode)
	mapNested(m, "externalIds", func(n map[string]any) map[string]any {
		return canonicalize(n, externalIDFields)
	})
	return m
}

func canonicalSeason(raw map[string]any) map[string]any {
	m := canonicalize(raw, seasonFields)
	mapNested(m, "episodes", canonicalEpisode)
	return m
}

func canonicalEpisode(raw map[string]any) map[string]any {
	return canonicalize(raw, episodeFields)
}

// canonicalize returns a copy of raw with every alias rewritten to its camelCase name.
// raw is never modified; it is the form that gets persisted.
func canonicalize(raw map[string]any, fields []fieldAlias) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}

	for _, f := range fields {
		delete(out, f.snake)
		if v, ok := raw[f.snake]; ok && v != nil {
			out[f.camel] = v
		}
	}

	return out
}

// mapNested applies fn to the object or list of objects stored under key.
func mapNested(m map[string]any, key string, fn func(map[string]any) map[string]any) {
	switch v := m[key].(type) {
	case map[string]any:
		m[key] = fn(v)
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = fn(item)
		}
		m[key] = out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			if obj, ok := item.(map[string]any); ok {
				out[i] = fn(obj)
			} else {
				out[i] = item
			}
		}
		m[key] = out
	}
}

func decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
