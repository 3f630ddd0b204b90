// internal/extractors/discover.go
package extractors

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"blogsearch/internal/search"
)

// Discoverer finds article links on the blog's index page.
type Discoverer struct{}

func NewDiscoverer() *Discoverer {
	return &Discoverer{}
}

// Discover unions several independent selector probes and returns the
// deduplicated candidate URLs in first-seen order. Each href is resolved to
// absolute form and vetted by the site rules (no index self-link, no
// fragments, no mailto:, keyword required).
func (d *Discoverer) Discover(doc *goquery.Document, site search.Site) []string {
	if doc == nil {
		return nil
	}
	selectors := []string{
		fmt.Sprintf(`a[href*=%q]`, site.ArticlePath),
		fmt.Sprintf(`a[href*=%q]`, site.Keyword),
		"a.post-link, a.article-link",
		"article a, .post a",
		"h2 a, h3 a",
	}

	seen := make(map[string]struct{})
	var urls []string
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			abs, ok := site.AllowURL(href)
			if !ok {
				return
			}
			if _, dup := seen[abs]; dup {
				return
			}
			seen[abs] = struct{}{}
			urls = append(urls, abs)
		})
	}
	return urls
}
