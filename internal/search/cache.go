// internal/search/cache.go
package search

import (
	"context"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"blogsearch/internal/logger"
)

// DocumentFetcher retrieves a URL and parses it into a queryable tree.
type DocumentFetcher interface {
	Document(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// Extractor turns a parsed page into an Article. It never fails; extraction
// shortfalls yield a placeholder record.
type Extractor interface {
	Extract(doc *goquery.Document, pageURL string) Article
}

// Discoverer finds candidate article URLs on the index page.
type Discoverer interface {
	Discover(doc *goquery.Document, site Site) []string
}

// URLFilter vetoes discovered URLs (listing pages, author archives, ...).
type URLFilter interface {
	ShouldProcess(rawURL string) bool
}

// CacheOptions tune the refresh cycle.
type CacheOptions struct {
	TTL         time.Duration // staleness window for automatic refresh
	MaxArticles int           // cap on URLs processed per refresh
	BatchSize   int           // concurrent fetches per batch
	BatchDelay  time.Duration // politeness pause between batches
}

// DefaultCacheOptions mirror the limits the source site tolerates.
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{
		TTL:         30 * time.Minute,
		MaxArticles: 20,
		BatchSize:   2,
		BatchDelay:  2 * time.Second,
	}
}

// Cache is the in-memory store of scraped articles. Entries are only ever
// added or overwritten; nothing is evicted during the process lifetime.
// Refreshes are serialized by refreshMu so concurrent searches never
// interleave a partial refresh.
type Cache struct {
	mu          sync.RWMutex
	articles    map[string]Article
	order       []string // insertion order, for deterministic iteration
	lastRefresh time.Time

	refreshMu sync.Mutex
	limiter   *rate.Limiter

	site       Site
	fetcher    DocumentFetcher
	extractor  Extractor
	discoverer Discoverer
	filter     URLFilter      // optional
	feed       *gofeed.Parser // optional RSS discovery probe
	opts       CacheOptions
}

// NewCache builds a cache for one site.
func NewCache(site Site, fetcher DocumentFetcher, extractor Extractor, discoverer Discoverer, opts CacheOptions) *Cache {
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = 20
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 2
	}
	return &Cache{
		articles:   make(map[string]Article),
		site:       site,
		fetcher:    fetcher,
		extractor:  extractor,
		discoverer: discoverer,
		limiter:    rate.NewLimiter(rate.Every(opts.BatchDelay), 1),
		opts:       opts,
	}
}

// SetURLFilter installs an optional post-discovery URL filter.
func (c *Cache) SetURLFilter(f URLFilter) { c.filter = f }

// SetFeedParser enables the RSS discovery probe.
func (c *Cache) SetFeedParser(p *gofeed.Parser) { c.feed = p }

// Get returns the cached article for a URL.
func (c *Cache) Get(pageURL string) (Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.articles[pageURL]
	return a, ok
}

// Put inserts or overwrites an article. Placeholders are dropped.
func (c *Cache) Put(a Article) {
	if a.URL == "" || a.IsPlaceholder() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.articles[a.URL]; !exists {
		c.order = append(c.order, a.URL)
	}
	c.articles[a.URL] = a
}

// Articles returns a snapshot in insertion order.
func (c *Cache) Articles() []Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Article, 0, len(c.order))
	for _, u := range c.order {
		out = append(out, c.articles[u])
	}
	return out
}

// Size returns the number of cached articles.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.articles)
}

// LastRefresh returns when the last refresh completed, zero before the first.
func (c *Cache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}

// Stale reports whether a search should trigger a refresh first.
func (c *Cache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh.IsZero() || time.Since(c.lastRefresh) > c.opts.TTL
}

// EnsureFresh applies the staleness policy: refresh when the window has
// lapsed, and retry once more if the cache is still empty afterwards.
func (c *Cache) EnsureFresh(ctx context.Context) {
	if c.Stale() {
		c.Refresh(ctx)
	}
	if c.Size() == 0 {
		c.Refresh(ctx)
	}
}

// Refresh rebuilds the cache from the index page. It never fails: if the
// index page is unreachable the previous contents and lastRefresh are left
// untouched and the next search retries.
func (c *Cache) Refresh(ctx context.Context) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	doc, err := c.fetcher.Document(ctx, c.site.IndexURL)
	if err != nil {
		logger.Log.Warn("refresh aborted, index page unreachable",
			zap.String("url", c.site.IndexURL), zap.Error(err))
		return
	}

	urls := c.discoverer.Discover(doc, c.site)
	urls = mergeURLs(urls, c.discoverFromFeed(ctx))
	urls = c.applyFilter(urls)
	if len(urls) > c.opts.MaxArticles {
		urls = urls[:c.opts.MaxArticles]
	}
	logger.Log.Info("refreshing article cache",
		zap.Int("candidates", len(urls)), zap.String("site", c.site.IndexURL))

	for start := 0; start < len(urls); start += c.opts.BatchSize {
		if err := c.limiter.Wait(ctx); err != nil {
			logger.Log.Warn("refresh interrupted", zap.Error(err))
			return
		}
		end := start + c.opts.BatchSize
		if end > len(urls) {
			end = len(urls)
		}
		c.scrapeBatch(ctx, urls[start:end])
	}

	c.mu.Lock()
	c.lastRefresh = time.Now()
	c.mu.Unlock()
}

// scrapeBatch fetches and extracts a batch concurrently and waits for all of
// it before returning, bounding outstanding requests to the source site.
func (c *Cache) scrapeBatch(ctx context.Context, urls []string) {
	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(pageURL string) {
			defer wg.Done()
			c.Put(c.Scrape(ctx, pageURL))
		}(u)
	}
	wg.Wait()
}

// Scrape fetches and extracts a single URL. Fetch failures yield a
// placeholder record rather than an error.
func (c *Cache) Scrape(ctx context.Context, pageURL string) Article {
	doc, err := c.fetcher.Document(ctx, pageURL)
	if err != nil {
		logger.Log.Debug("scrape failed", zap.String("url", pageURL), zap.Error(err))
		return Placeholder(pageURL)
	}
	return c.extractor.Extract(doc, pageURL)
}

// discoverFromFeed tries the site's RSS feed as an extra source of article
// URLs. Blogs that expose a feed list their newest posts there before the
// index page markup does. Failure is silent.
func (c *Cache) discoverFromFeed(ctx context.Context) []string {
	if c.feed == nil {
		return nil
	}
	var urls []string
	for _, path := range []string{"/feed", "/rss"} {
		f, err := c.feed.ParseURLWithContext(c.site.IndexURL+path, ctx)
		if err != nil {
			continue
		}
		for _, item := range f.Items {
			if abs, ok := c.site.AllowURL(item.Link); ok {
				urls = append(urls, abs)
			}
		}
		break
	}
	return urls
}

func (c *Cache) applyFilter(urls []string) []string {
	if c.filter == nil {
		return urls
	}
	kept := urls[:0]
	for _, u := range urls {
		if c.filter.ShouldProcess(u) {
			kept = append(kept, u)
		}
	}
	return kept
}

// mergeURLs unions two URL lists preserving first-seen order.
func mergeURLs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, u := range append(a, b...) {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
