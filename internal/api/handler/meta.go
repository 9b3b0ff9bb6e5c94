package handler

import "strings"

const (
	siteTitle       = "Next Up - Never Miss Your Favorite Shows"
	siteDescription = "Track your favorite TV shows, get notified about new episodes, and never miss a moment. Available on iOS."
	ogDescription   = "Track your favorite TV shows, get notified about new episodes, and never miss a moment."

	titleSuffix = " - Next Up"

	titleShowNotFound    = "Show Not Found" + titleSuffix
	titleEpisodeNotFound = "Episode Not Found" + titleSuffix
	titleUserNotFound    = "User Not Found" + titleSuffix
	titlePageNotFound    = "Page Not Found" + titleSuffix
)

// Meta is the document head of a page: title, description, OpenGraph and Twitter card.
// OGDescription falls back to Description when empty.
type Meta struct {
	Title         string
	Description   string
	OGTitle       string
	OGDescription string
	OGType        string
	TwitterCard   string
	Images        []string
	CanonicalURL  string
}

func (m Meta) SocialDescription() string {
	if m.OGDescription != "" {
		return m.OGDescription
	}
	return m.Description
}

// SiteInfo holds values every page needs.
type SiteInfo struct {
	BaseURL     string
	AppStoreURL string
}

// pageData is passed to the layout. Data holds the page-specific view.
type pageData struct {
	Meta Meta
	Site SiteInfo
	Data any
}

func defaultMeta() Meta {
	return Meta{
		Title:         siteTitle,
		Description:   siteDescription,
		OGTitle:       siteTitle,
		OGDescription: ogDescription,
		OGType:        "website",
		TwitterCard:   "summary_large_image",
	}
}

func titleOnlyMeta(title string) Meta {
	m := defaultMeta()
	m.Title = title
	m.OGTitle = title
	return m
}

// images drops empty URLs.
func images(urls ...string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (s SiteInfo) absoluteURL(path string) string {
	if s.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(s.BaseURL, "/") + path
}
