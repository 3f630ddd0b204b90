// internal/app/feed.go
package app

import (
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"blogsearch/internal/logger"
	"blogsearch/internal/search"
)

// handleFeed renders the cached articles as an RSS feed, newest scrape
// first. The cache is not refreshed here; /feed reflects whatever the last
// refresh produced.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	articles := s.cache.Articles()
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].ScrapedAt.After(articles[j].ScrapedAt)
	})

	feed := &feeds.Feed{
		Title:       "blogsearch cached articles",
		Link:        &feeds.Link{Href: s.cfg.IndexURL},
		Description: "Articles scraped from " + s.cfg.IndexURL,
		Created:     time.Now(),
	}
	for _, a := range articles {
		feed.Items = append(feed.Items, feedItem(a))
	}

	rss, err := feed.ToRss()
	if err != nil {
		logger.Log.Error("rendering feed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate feed")
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(rss))
}

func feedItem(a search.Article) *feeds.Item {
	item := &feeds.Item{
		Id:          articleGUID(a.URL),
		Title:       a.Title,
		Link:        &feeds.Link{Href: a.URL},
		Description: a.Summary,
		Created:     a.ScrapedAt,
	}
	return item
}

// articleGUID derives a stable identifier from the article URL so feed
// readers do not see duplicates across refreshes.
func articleGUID(pageURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(pageURL)).String()
}
