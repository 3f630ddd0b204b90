// internal/app/config.go
package app

import (
	"os"
	"time"
)

// Config holds runtime settings for the server.
type Config struct {
	// IndexURL is the blog listing page to scrape. Required.
	IndexURL string
	// ArticlePath is the path segment article URLs live under.
	ArticlePath string
	// Keyword must appear in every accepted article URL.
	Keyword string

	CacheTTL     time.Duration
	MaxArticles  int
	BatchSize    int
	BatchDelay   time.Duration
	FetchTimeout time.Duration
	UserAgent    string

	// Google Custom Search credentials; both empty disables external search.
	GoogleAPIKey   string
	GoogleEngineID string
}

// DefaultConfig returns sane defaults. IndexURL must still be provided.
func DefaultConfig() *Config {
	return &Config{
		ArticlePath:  "/blog/",
		Keyword:      "blog",
		CacheTTL:     30 * time.Minute,
		MaxArticles:  20,
		BatchSize:    2,
		BatchDelay:   2 * time.Second,
		FetchTimeout: 12 * time.Second,
		UserAgent:    "Mozilla/5.0 (compatible; BlogSearchBot/1.0)",
	}
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("BLOG_INDEX_URL"); v != "" {
		c.IndexURL = v
	}
	if v := os.Getenv("BLOG_ARTICLE_PATH"); v != "" {
		c.ArticlePath = v
	}
	if v := os.Getenv("BLOG_KEYWORD"); v != "" {
		c.Keyword = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.GoogleAPIKey = v
	}
	if v := os.Getenv("GOOGLE_CSE_ID"); v != "" {
		c.GoogleEngineID = v
	}
}
