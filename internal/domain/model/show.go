package model

import (
	"errors"
	"fmt"
)

// EntityKind identifies the type of catalog entity a cache entry holds.
type EntityKind string

const (
	KindShow    EntityKind = "show"
	KindSeason  EntityKind = "season"
	KindEpisode EntityKind = "episode"
)

func (k EntityKind) String() string {
	return string(k)
}

// ErrInvalidEntityKey is returned when an entity key has missing or out-of-range identifiers.
var ErrInvalidEntityKey = errors.New("invalid entity key")

// EntityKey addresses a single catalog entity.
// Season and Episode are only meaningful for the kinds that use them.
type EntityKey struct {
	Kind    EntityKind
	ShowID  int
	Season  int
	Episode int
}

// ShowKey returns the key for a show's detail record.
func ShowKey(showID int) EntityKey {
	return EntityKey{Kind: KindShow, ShowID: showID}
}

// SeasonKey returns the key for a season's detail record.
func SeasonKey(showID, season int) EntityKey {
	return EntityKey{Kind: KindSeason, ShowID: showID, Season: season}
}

// EpisodeKey returns the key for an episode's detail record.
func EpisodeKey(showID, season, episode int) EntityKey {
	return EntityKey{Kind: KindEpisode, ShowID: showID, Season: season, Episode: episode}
}

// Validate checks that the identifiers required by the key's kind are usable.
// Season 0 is valid (TMDB stores specials there).
func (k EntityKey) Validate() error {
	if k.ShowID <= 0 {
		return fmt.Errorf("%w: show id must be positive", ErrInvalidEntityKey)
	}

	switch k.Kind {
	case KindShow:
		return nil
	case KindSeason:
		if k.Season < 0 {
			return fmt.Errorf("%w: season must not be negative", ErrInvalidEntityKey)
		}
		return nil
	case KindEpisode:
		if k.Season < 0 {
			return fmt.Errorf("%w: season must not be negative", ErrInvalidEntityKey)
		}
		if k.Episode <= 0 {
			return fmt.Errorf("%w: episode must be positive", ErrInvalidEntityKey)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEntityKey, k.Kind)
	}
}

// CacheKey returns the document key used by the cache store.
// Format: show_{id}, season_{showId}_s{season}, episode_{showId}_s{season}_e{episode}
func (k EntityKey) CacheKey() string {
	switch k.Kind {
	case KindShow:
		return fmt.Sprintf("show_%d", k.ShowID)
	case KindSeason:
		return fmt.Sprintf("season_%d_s%d", k.ShowID, k.Season)
	case KindEpisode:
		return fmt.Sprintf("episode_%d_s%d_e%d", k.ShowID, k.Season, k.Episode)
	default:
		return ""
	}
}

func (k EntityKey) String() string {
	return k.CacheKey()
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `mapstructure:"id" json:"id"`
	Name string `mapstructure:"name" json:"name"`
}

// Network is a broadcaster or streaming service attached to a show.
type Network struct {
	ID            int    `mapstructure:"id" json:"id"`
	Name          string `mapstructure:"name" json:"name"`
	LogoPath      string `mapstructure:"logoPath" json:"logoPath,omitempty"`
	OriginCountry string `mapstructure:"originCountry" json:"originCountry,omitempty"`
}

// ExternalIDs links a show to other catalogs.
type ExternalIDs struct {
	IMDbID     string `mapstructure:"imdbId" json:"imdbId,omitempty"`
	TVDBID     int    `mapstructure:"tvdbId" json:"tvdbId,omitempty"`
	WikidataID string `mapstructure:"wikidataId" json:"wikidataId,omitempty"`
}

// Episode is the canonical view of a TMDB episode.
type Episode struct {
	ID            int     `mapstructure:"id" json:"id"`
	Name          string  `mapstructure:"name" json:"name"`
	Overview      string  `mapstructure:"overview" json:"overview,omitempty"`
	StillPath     string  `mapstructure:"stillPath" json:"stillPath,omitempty"`
	SeasonNumber  int     `mapstructure:"seasonNumber" json:"seasonNumber"`
	EpisodeNumber int     `mapstructure:"episodeNumber" json:"episodeNumber"`
	AirDate       string  `mapstructure:"airDate" json:"airDate,omitempty"`
	Runtime       int     `mapstructure:"runtime" json:"runtime,omitempty"`
	VoteAverage   float64 `mapstructure:"voteAverage" json:"voteAverage,omitempty"`
	VoteCount     int     `mapstructure:"voteCount" json:"voteCount,omitempty"`
	EpisodeType   string  `mapstructure:"episodeType" json:"episodeType,omitempty"`
}

// Season is the canonical view of a TMDB season.
// Episodes is only populated by the season detail endpoint.
type Season struct {
	ID           int       `mapstructure:"id" json:"id"`
	SeasonNumber int       `mapstructure:"seasonNumber" json:"seasonNumber"`
	Name         string    `mapstructure:"name" json:"name"`
	Overview     string    `mapstructure:"overview" json:"overview,omitempty"`
	PosterPath   string    `mapstructure:"posterPath" json:"posterPath,omitempty"`
	AirDate      string    `mapstructure:"airDate" json:"airDate,omitempty"`
	EpisodeCount int       `mapstructure:"episodeCount" json:"episodeCount,omitempty"`
	VoteAverage  float64   `mapstructure:"voteAverage" json:"voteAverage,omitempty"`
	Episodes     []Episode `mapstructure:"episodes" json:"episodes,omitempty"`
}

// Show is the canonical view of a TMDB TV show.
type Show struct {
	ID               int          `mapstructure:"id" json:"id"`
	Name             string       `mapstructure:"name" json:"name"`
	OriginalName     string       `mapstructure:"originalName" json:"originalName,omitempty"`
	Overview         string       `mapstructure:"overview" json:"overview"`
	PosterPath       string       `mapstructure:"posterPath" json:"posterPath,omitempty"`
	BackdropPath     string       `mapstructure:"backdropPath" json:"backdropPath,omitempty"`
	FirstAirDate     string       `mapstructure:"firstAirDate" json:"firstAirDate,omitempty"`
	LastAirDate      string       `mapstructure:"lastAirDate" json:"lastAirDate,omitempty"`
	VoteAverage      float64      `mapstructure:"voteAverage" json:"voteAverage,omitempty"`
	VoteCount        int          `mapstructure:"voteCount" json:"voteCount,omitempty"`
	Popularity       float64      `mapstructure:"popularity" json:"popularity,omitempty"`
	NumberOfEpisodes int          `mapstructure:"numberOfEpisodes" json:"numberOfEpisodes,omitempty"`
	NumberOfSeasons  int          `mapstructure:"numberOfSeasons" json:"numberOfSeasons,omitempty"`
	Status           string       `mapstructure:"status" json:"status,omitempty"`
	Type             string       `mapstructure:"type" json:"type,omitempty"`
	InProduction     bool         `mapstructure:"inProduction" json:"inProduction"`
	GenreIDs         []int        `mapstructure:"genreIds" json:"genreIds,omitempty"`
	Genres           []Genre      `mapstructure:"genres" json:"genres,omitempty"`
	Networks         []Network    `mapstructure:"networks" json:"networks,omitempty"`
	Seasons          []Season     `mapstructure:"seasons" json:"seasons,omitempty"`
	NextEpisodeToAir *Episode     `mapstructure:"nextEpisodeToAir" json:"nextEpisodeToAir,omitempty"`
	LastEpisodeToAir *Episode     `mapstructure:"lastEpisodeToAir" json:"lastEpisodeToAir,omitempty"`
	Homepage         string       `mapstructure:"homepage" json:"homepage,omitempty"`
	Tagline          string       `mapstructure:"tagline" json:"tagline,omitempty"`
	ExternalIDs      *ExternalIDs `mapstructure:"externalIds" json:"externalIds,omitempty"`
}

// Slug returns the canonical URL slug for the show, e.g. "1396-breaking-bad".
func (s *Show) Slug() string {
	return CreateShowSlug(s.ID, s.Name)
}

// PrimaryNetwork returns the first listed network, or nil.
func (s *Show) PrimaryNetwork() *Network {
	if len(s.Networks) == 0 {
		return nil
	}
	return &s.Networks[0]
}

// LatestSeasonNumber returns the number of the most recent season, or 0 if unknown.
func (s *Show) LatestSeasonNumber() int {
	return s.NumberOfSeasons
}
