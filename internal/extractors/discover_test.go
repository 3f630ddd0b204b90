package extractors

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/search"
)

var discoverSite = search.Site{
	IndexURL:    "https://example.com/blog",
	ArticlePath: "/blog/",
	Keyword:     "blog",
}

func indexDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestDiscoverCollectsArticleLinks(t *testing.T) {
	html := `<html><body>
	<a href="/blog/hybrid-work">Hybrid work</a>
	<a href="https://example.com/blog/onboarding">Onboarding</a>
	<article><a href="/blog/change-management">Change</a></article>
	<h2><a href="/blog/leadership">Leadership</a></h2>
	</body></html>`

	urls := NewDiscoverer().Discover(indexDoc(t, html), discoverSite)

	assert.ElementsMatch(t, []string{
		"https://example.com/blog/hybrid-work",
		"https://example.com/blog/onboarding",
		"https://example.com/blog/change-management",
		"https://example.com/blog/leadership",
	}, urls)
}

func TestDiscoverRejectsNonArticles(t *testing.T) {
	html := `<html><body>
	<a href="https://example.com/blog">index itself</a>
	<a href="/blog/post#comments">fragment</a>
	<a href="mailto:hello@example.com">mail</a>
	<a href="/about">no keyword</a>
	<a href="/blog/kept">kept</a>
	</body></html>`

	urls := NewDiscoverer().Discover(indexDoc(t, html), discoverSite)

	assert.Equal(t, []string{"https://example.com/blog/kept"}, urls)
}

func TestDiscoverDeduplicates(t *testing.T) {
	html := `<html><body>
	<article><a href="/blog/once">a</a></article>
	<h2><a href="/blog/once">b</a></h2>
	<a href="https://example.com/blog/once">c</a>
	</body></html>`

	urls := NewDiscoverer().Discover(indexDoc(t, html), discoverSite)

	assert.Equal(t, []string{"https://example.com/blog/once"}, urls)
}

func TestDiscoverClassedLinks(t *testing.T) {
	html := `<html><body>
	<a class="post-link" href="/blog/classed">classed</a>
	<div class="post"><a href="/blog/contained">contained</a></div>
	</body></html>`

	urls := NewDiscoverer().Discover(indexDoc(t, html), discoverSite)

	assert.ElementsMatch(t, []string{
		"https://example.com/blog/classed",
		"https://example.com/blog/contained",
	}, urls)
}

func TestDiscoverEmptyIndex(t *testing.T) {
	urls := NewDiscoverer().Discover(indexDoc(t, "<html><body></body></html>"), discoverSite)
	assert.Empty(t, urls)

	assert.Nil(t, NewDiscoverer().Discover(nil, discoverSite))
}
