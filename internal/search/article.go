// internal/search/article.go
package search

import (
	"net/url"
	"strings"
	"time"
)

// PlaceholderTitle marks a record whose extraction produced nothing usable.
// Placeholder records are never inserted into the cache.
const PlaceholderTitle = "Untitled"

// Article is one scraped blog post, keyed by its canonical URL.
type Article struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Body        string    `json:"-"` // scoring only, never rendered
	Topics      []string  `json:"topics"`
	PublishDate string    `json:"publishDate,omitempty"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// IsPlaceholder reports whether the record carries the sentinel title.
func (a Article) IsPlaceholder() bool {
	return a.Title == "" || a.Title == PlaceholderTitle
}

// Placeholder returns the minimal record for a URL that could not be scraped.
func Placeholder(pageURL string) Article {
	return Article{
		URL:       pageURL,
		Title:     PlaceholderTitle,
		ScrapedAt: time.Now(),
	}
}

// Result sources.
const (
	SourceExternal = "external"
	SourceLocal    = "local"
)

// Result is an Article paired with its relevance score for one query.
type Result struct {
	Article
	Score  int    `json:"score"`
	Source string `json:"source"`
}

// Site describes the blog being indexed.
type Site struct {
	// IndexURL is the listing page that links to individual posts.
	IndexURL string
	// ArticlePath is the path segment individual posts live under, e.g. "/blog/".
	ArticlePath string
	// Keyword must appear somewhere in every accepted article URL.
	Keyword string
}

// Origin returns the scheme://host prefix of the index URL.
func (s Site) Origin() string {
	u, err := url.Parse(s.IndexURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// AllowURL resolves an href found during discovery and decides whether it
// looks like an article link. It returns the absolute URL and true when the
// candidate is accepted.
func (s Site) AllowURL(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "mailto:") || strings.Contains(href, "#") {
		return "", false
	}
	abs := href
	if !strings.HasPrefix(abs, "http") {
		abs = s.Origin() + abs
	}
	if abs == s.IndexURL {
		return "", false
	}
	if s.Keyword != "" && !strings.Contains(abs, s.Keyword) {
		return "", false
	}
	return abs, true
}
