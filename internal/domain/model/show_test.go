package model

import (
	"errors"
	"testing"
)

func TestEntityKey_CacheKey(t *testing.T) {
	tests := []struct {
		name string
		key  EntityKey
		want string
	}{
		{"show", ShowKey(1396), "show_1396"},
		{"season", SeasonKey(1396, 5), "season_1396_s5"},
		{"episode", EpisodeKey(1396, 5, 16), "episode_1396_s5_e16"},
		{"specials episode", EpisodeKey(1399, 0, 3), "episode_1399_s0_e3"},
		{"unknown kind", EntityKey{Kind: "movie", ShowID: 1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.CacheKey(); got != tt.want {
				t.Errorf("CacheKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntityKey_Validate(t *testing.T) {
	tests := []struct {
		name    string
		key     EntityKey
		wantErr bool
	}{
		{"valid show", ShowKey(1), false},
		{"zero show id", ShowKey(0), true},
		{"negative show id", ShowKey(-4), true},
		{"valid season", SeasonKey(1, 2), false},
		{"specials season", SeasonKey(1, 0), false},
		{"negative season", SeasonKey(1, -1), true},
		{"valid episode", EpisodeKey(1, 1, 1), false},
		{"zero episode", EpisodeKey(1, 1, 0), true},
		{"negative episode season", EpisodeKey(1, -1, 1), true},
		{"unknown kind", EntityKey{Kind: "movie", ShowID: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidEntityKey) {
				t.Errorf("Validate() error = %v, want ErrInvalidEntityKey", err)
			}
		})
	}
}

func TestCreateShowSlug(t *testing.T) {
	tests := []struct {
		id   int
		name string
		want string
	}{
		{1396, "Breaking Bad", "1396-breaking-bad"},
		{1418, "The Big Bang Theory", "1418-the-big-bang-theory"},
		{60625, "Rick and Morty!", "60625-rick-and-morty"},
		{1, "  --Hello,   World--  ", "1-hello-world"},
		{42, "???", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := CreateShowSlug(tt.id, tt.name); got != tt.want {
				t.Errorf("CreateShowSlug(%d, %q) = %q, want %q", tt.id, tt.name, got, tt.want)
			}
		})
	}
}

func TestParseShowSlug(t *testing.T) {
	tests := []struct {
		slug   string
		wantID int
		wantOK bool
	}{
		{"1396-breaking-bad", 1396, true},
		{"1396", 1396, true},
		{"1396-", 1396, true},
		{"breaking-bad", 0, false},
		{"", 0, false},
		{"0", 0, false},
		{"12abc", 0, false},
		{"-1396", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			id, ok := ParseShowSlug(tt.slug)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ParseShowSlug(%q) = (%d, %v), want (%d, %v)", tt.slug, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestImageURL(t *testing.T) {
	if got := PosterURL("/p.jpg"); got != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Errorf("PosterURL() = %q", got)
	}
	if got := BackdropURL("/b.jpg"); got != "https://image.tmdb.org/t/p/w780/b.jpg" {
		t.Errorf("BackdropURL() = %q", got)
	}
	if got := StillURL(""); got != "" {
		t.Errorf("StillURL(\"\") = %q, want empty", got)
	}
	if got := ImageURL("/o.jpg", ImageSizeOriginal); got != "https://image.tmdb.org/t/p/original/o.jpg" {
		t.Errorf("ImageURL(original) = %q", got)
	}
}
