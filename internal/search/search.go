// internal/search/search.go
package search

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"blogsearch/internal/logger"
)

// MaxResults bounds every search response.
const MaxResults = 5

// Service is the search entry point: it keeps the cache fresh, scores local
// articles, merges in external hits and returns the ranked top results.
type Service struct {
	cache    *Cache
	external ExternalClient // nil when the feature is disabled
}

// NewService wires the orchestrator. external may be nil.
func NewService(cache *Cache, external ExternalClient) *Service {
	return &Service{cache: cache, external: external}
}

// Cache exposes the underlying article cache to callers that render it.
func (s *Service) Cache() *Cache { return s.cache }

// Refresh forces a cache rebuild regardless of staleness.
func (s *Service) Refresh(ctx context.Context) { s.cache.Refresh(ctx) }

// Search returns at most MaxResults ranked articles for a free-text query.
// External hits come first in the merge and win URL ties against local hits;
// the final order is by score descending, stable for ties.
func (s *Service) Search(ctx context.Context, query string) []Result {
	s.cache.EnsureFresh(ctx)

	merged := s.externalResults(ctx, query)
	seen := make(map[string]struct{}, len(merged))
	for _, r := range merged {
		seen[r.URL] = struct{}{}
	}

	for _, a := range s.cache.Articles() {
		if _, dup := seen[a.URL]; dup {
			continue
		}
		score := Score(query, a)
		if score == 0 {
			continue
		}
		merged = append(merged, Result{Article: a, Score: score, Source: SourceLocal})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > MaxResults {
		merged = merged[:MaxResults]
	}

	logger.Log.Info("search completed",
		zap.String("query", query),
		zap.Int("results", len(merged)),
		zap.Int("cache_size", s.cache.Size()))
	return merged
}
