package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExternal returns canned hits or a canned error.
type stubExternal struct {
	hits []ExternalHit
	err  error
}

func (s *stubExternal) Search(context.Context, string) ([]ExternalHit, error) {
	return s.hits, s.err
}

// primedService refreshes once so searches stay within the staleness window.
func primedService(t *testing.T, pages map[string]string, external ExternalClient) (*Service, *Cache) {
	t.Helper()
	c, _ := newTestCache(pages)
	c.Refresh(context.Background())
	require.False(t, c.LastRefresh().IsZero())
	return NewService(c, external), c
}

func TestSearchLocalRankedByScore(t *testing.T) {
	svc, _ := primedService(t, map[string]string{
		testIndexURL:                    indexHTML("/blog/guide", "/blog/aside"),
		"https://example.com/blog/guide": articleHTML("Hybrid Work Guide", "hybrid hybrid hybrid"),
		"https://example.com/blog/aside": articleHTML("Office News", "one hybrid mention"),
	}, nil)

	results := svc.Search(context.Background(), "hybrid")

	require.Len(t, results, 2)
	assert.Equal(t, "Hybrid Work Guide", results[0].Title)
	assert.Equal(t, SourceLocal, results[0].Source)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchExcludesZeroScores(t *testing.T) {
	svc, _ := primedService(t, map[string]string{
		testIndexURL:                   indexHTML("/blog/one"),
		"https://example.com/blog/one": articleHTML("Post One", "nothing relevant here"),
	}, nil)

	assert.Empty(t, svc.Search(context.Background(), "kubernetes"))
}

func TestSearchTruncatesToFive(t *testing.T) {
	pages := map[string]string{}
	var links []string
	for i := 0; i < 8; i++ {
		u := fmt.Sprintf("/blog/post-%d", i)
		links = append(links, u)
		pages["https://example.com"+u] = articleHTML(fmt.Sprintf("Hybrid Post %d", i), "hybrid work")
	}
	pages[testIndexURL] = indexHTML(links...)

	svc, _ := primedService(t, pages, nil)
	results := svc.Search(context.Background(), "hybrid")

	assert.Len(t, results, MaxResults)
}

func TestSearchIdempotentWithinWindow(t *testing.T) {
	svc, _ := primedService(t, map[string]string{
		testIndexURL:                   indexHTML("/blog/one", "/blog/two"),
		"https://example.com/blog/one": articleHTML("Hybrid Work Guide", "hybrid"),
		"https://example.com/blog/two": articleHTML("Hybrid Office", "hybrid"),
	}, nil)

	first := svc.Search(context.Background(), "hybrid")
	second := svc.Search(context.Background(), "hybrid")

	assert.Equal(t, first, second)
}

func TestSearchMergeDedupExternalWins(t *testing.T) {
	ext := &stubExternal{hits: []ExternalHit{
		{URL: "https://example.com/blog/one", Title: "ignored", Snippet: "ignored"},
	}}
	svc, _ := primedService(t, map[string]string{
		testIndexURL:                   indexHTML("/blog/one"),
		"https://example.com/blog/one": articleHTML("Hybrid Work Guide", "hybrid"),
	}, ext)

	results := svc.Search(context.Background(), "hybrid")

	require.Len(t, results, 1)
	assert.Equal(t, SourceExternal, results[0].Source)
	// Cache fields win over the raw external snippet.
	assert.Equal(t, "Hybrid Work Guide", results[0].Title)
	assert.Equal(t, externalWeight, results[0].Score)
}

func TestSearchExternalHitGrowsCache(t *testing.T) {
	ext := &stubExternal{hits: []ExternalHit{
		{URL: "https://example.com/blog/fresh", Title: "api title", Snippet: "api snippet"},
	}}
	svc, c := primedService(t, map[string]string{
		testIndexURL:                     indexHTML("/blog/one"),
		"https://example.com/blog/one":   articleHTML("Post One", "body"),
		"https://example.com/blog/fresh": articleHTML("Fresh Post", "body"),
	}, ext)
	require.Equal(t, 1, c.Size())

	results := svc.Search(context.Background(), "anything")

	require.NotEmpty(t, results)
	assert.Equal(t, "Fresh Post", results[0].Title)
	_, ok := c.Get("https://example.com/blog/fresh")
	assert.True(t, ok, "external hit should be cached opportunistically")
}

func TestSearchExternalUnfetchableHitFallsBackToSnippet(t *testing.T) {
	ext := &stubExternal{hits: []ExternalHit{
		{URL: "https://example.com/blog/gone", Title: "Gone Post", Snippet: "a snippet"},
	}}
	svc, c := primedService(t, map[string]string{
		testIndexURL: indexHTML(),
	}, ext)

	results := svc.Search(context.Background(), "anything")

	require.Len(t, results, 1)
	assert.Equal(t, "Gone Post", results[0].Title)
	assert.Equal(t, "a snippet", results[0].Summary)
	_, ok := c.Get("https://example.com/blog/gone")
	assert.False(t, ok, "placeholder must never be cached")
}

func TestSearchExternalFailureDegradesToLocal(t *testing.T) {
	ext := &stubExternal{err: errors.New("quota exceeded")}
	svc, _ := primedService(t, map[string]string{
		testIndexURL:                   indexHTML("/blog/one"),
		"https://example.com/blog/one": articleHTML("Hybrid Work Guide", "hybrid"),
	}, ext)

	results := svc.Search(context.Background(), "hybrid")

	require.Len(t, results, 1)
	assert.Equal(t, SourceLocal, results[0].Source)
}

func TestSearchExternalDisabled(t *testing.T) {
	svc, _ := primedService(t, map[string]string{
		testIndexURL:                   indexHTML("/blog/one"),
		"https://example.com/blog/one": articleHTML("Hybrid Work Guide", "hybrid"),
	}, nil)

	results := svc.Search(context.Background(), "hybrid")
	require.Len(t, results, 1)
	assert.Equal(t, SourceLocal, results[0].Source)
}

func TestSearchProcessesAtMostFiveExternalHits(t *testing.T) {
	var hits []ExternalHit
	for i := 0; i < 9; i++ {
		hits = append(hits, ExternalHit{
			URL:   fmt.Sprintf("https://example.com/blog/ext-%d", i),
			Title: fmt.Sprintf("Ext %d", i),
		})
	}
	svc, _ := primedService(t, map[string]string{
		testIndexURL: indexHTML(),
	}, &stubExternal{hits: hits})

	results := svc.Search(context.Background(), "anything")

	assert.Len(t, results, externalProcessed)
	for _, r := range results {
		assert.Equal(t, SourceExternal, r.Source)
	}
}
