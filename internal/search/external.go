// internal/search/external.go
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"blogsearch/internal/logger"
)

// External hit handling limits.
const (
	externalRequested = 10  // hits asked of the API
	externalProcessed = 5   // hits actually reconciled with the cache
	externalWeight    = 100 // fixed merge-ordering weight for external hits
)

// ExternalHit is one result from the external full-text search API.
type ExternalHit struct {
	URL     string
	Title   string
	Snippet string
}

// ExternalClient queries an external search API. A nil client means the
// feature is disabled and contributes no results.
type ExternalClient interface {
	Search(ctx context.Context, query string) ([]ExternalHit, error)
}

// GoogleClient backs ExternalClient with the Google Custom Search JSON API,
// restricted to a programmable search engine covering the blog.
type GoogleClient struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleClient builds a client from the API key / engine ID pair.
func NewGoogleClient(ctx context.Context, apiKey, engineID string) (*GoogleClient, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating customsearch service: %w", err)
	}
	return &GoogleClient{svc: svc, cx: engineID}, nil
}

// Search runs the query and maps the raw items to hits.
func (g *GoogleClient) Search(ctx context.Context, query string) ([]ExternalHit, error) {
	resp, err := g.svc.Cse.List().
		Q(query).
		Cx(g.cx).
		Num(externalRequested).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("custom search query: %w", err)
	}
	hits := make([]ExternalHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link == "" {
			continue
		}
		hits = append(hits, ExternalHit{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
		})
	}
	return hits, nil
}

// externalResults reconciles external hits with the cache. Cached URLs reuse
// their scraped fields; unknown URLs are scraped on the spot and cached
// opportunistically. Any API failure degrades to no external results.
func (s *Service) externalResults(ctx context.Context, query string) []Result {
	if s.external == nil {
		return nil
	}
	hits, err := s.external.Search(ctx, query)
	if err != nil {
		logger.Log.Warn("external search unavailable", zap.Error(err))
		return nil
	}
	if len(hits) > externalProcessed {
		hits = hits[:externalProcessed]
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		a, ok := s.cache.Get(hit.URL)
		if !ok {
			a = s.cache.Scrape(ctx, hit.URL)
			if a.IsPlaceholder() {
				// Fall back to what the API gave us; not worth caching.
				a = Article{URL: hit.URL, Title: hit.Title, Summary: hit.Snippet}
				if a.Title == "" {
					continue
				}
			} else {
				s.cache.Put(a)
			}
		}
		results = append(results, Result{Article: a, Score: externalWeight, Source: SourceExternal})
	}
	return results
}
