package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// WatchHistoryVisibility controls who may see a user's followed shows.
type WatchHistoryVisibility string

const (
	VisibilityEveryone      WatchHistoryVisibility = "everyone"
	VisibilityFollowersOnly WatchHistoryVisibility = "followersOnly"
	VisibilityPrivate       WatchHistoryVisibility = "private"
)

// ParseWatchHistoryVisibility converts a stored value, falling back to private.
// Both the app's camelCase and legacy snake_case spellings are accepted.
func ParseWatchHistoryVisibility(s string) WatchHistoryVisibility {
	switch s {
	case "everyone":
		return VisibilityEveryone
	case "followersOnly", "followers_only":
		return VisibilityFollowersOnly
	default:
		return VisibilityPrivate
	}
}

func (v WatchHistoryVisibility) String() string {
	return string(v)
}

// User is a public user profile.
type User struct {
	ID                     string
	Email                  string
	Username               string
	FullName               string
	AvatarURL              string
	IsPrivate              bool
	WatchHistoryVisibility WatchHistoryVisibility
	FollowerCount          int
	FollowingCount         int
	CreatedAt              time.Time
}

// CanViewShows reports whether the user's followed shows may be shown publicly.
func (u *User) CanViewShows() bool {
	return !u.IsPrivate || u.WatchHistoryVisibility == VisibilityEveryone
}

// DisplayName returns the username or full name, whichever is set first.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.FullName
}

// Initial returns the upper-cased first letter of the display name, or "?".
func (u *User) Initial() string {
	name := strings.TrimSpace(u.DisplayName())
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// NextEpisode is the denormalized next-airing episode stored with a followed show.
type NextEpisode struct {
	AirDate       string
	SeasonNumber  int
	EpisodeNumber int
	Name          string
}

// FollowedShow is a show on a user's watch list.
type FollowedShow struct {
	ShowID               int
	Name                 string
	PosterPath           string
	BackdropPath         string
	Status               string
	InProduction         bool
	Type                 string
	TotalSeasons         int
	TotalEpisodes        int
	FollowedDate         *time.Time
	LastViewedDate       *time.Time
	NotificationsEnabled bool
	NextEpisodeToAir     *NextEpisode
	GenreIDs             []int
	WatchProviderIDs     []int
}

// Slug returns the public show slug for the followed show.
func (f *FollowedShow) Slug() string {
	return CreateShowSlug(f.ShowID, f.Name)
}

// UserStats holds aggregate watch statistics.
type UserStats struct {
	TotalEpisodesWatched int
}
