package model

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugWithName     = regexp.MustCompile(`^(\d+)-`)
	slugNumericOnly  = regexp.MustCompile(`^(\d+)$`)
)

// CreateShowSlug builds the public slug for a show, e.g. "1396-breaking-bad".
func CreateShowSlug(showID int, name string) string {
	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return strconv.Itoa(showID)
	}
	return strconv.Itoa(showID) + "-" + slug
}

// ParseShowSlug extracts the show ID from "1396-breaking-bad" or the legacy "1396" form.
// It returns false when the slug has no usable ID.
func ParseShowSlug(slug string) (int, bool) {
	var digits string
	if m := slugWithName.FindStringSubmatch(slug); m != nil {
		digits = m[1]
	} else if m := slugNumericOnly.FindStringSubmatch(slug); m != nil {
		digits = m[1]
	} else {
		return 0, false
	}

	id, err := strconv.Atoi(digits)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
