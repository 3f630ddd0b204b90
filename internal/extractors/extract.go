// internal/extractors/extract.go
package extractors

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"blogsearch/internal/search"
)

// Field limits.
const (
	titleMax      = 150
	summaryMax    = 250
	summaryMinPar = 30
	bodyMax       = 3000
	bodyMin       = 100
	topicsMax     = 5
	topicMinLen   = 3
)

// contentSelectors are tried in order when hunting for the main article
// container. Specific article markup first, generic layout classes last.
var contentSelectors = []string{
	"article",
	".article-body, .post-content, .entry-content",
	".content",
	"main",
	".post, .blog-post",
}

// Extractor produces an Article from a parsed page using ordered fallback
// chains per field. It never fails: when nothing can be extracted it returns
// the placeholder record so callers can filter it out.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs every field chain against the document.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) search.Article {
	if doc == nil {
		return search.Placeholder(pageURL)
	}
	a := search.Placeholder(pageURL)
	if title := extractTitle(doc); title != "" {
		a.Title = truncate(title, titleMax)
	}
	a.Summary = extractSummary(doc)
	a.Body = extractBody(doc, pageURL)
	a.Topics = extractTopics(doc)
	a.PublishDate = extractPublishDate(doc)
	return a
}

// probe is one stage of a fallback chain: empty result means "try the next".
type probe func(*goquery.Document) string

func firstHit(doc *goquery.Document, probes ...probe) string {
	for _, p := range probes {
		if v := strings.TrimSpace(p(doc)); v != "" {
			return v
		}
	}
	return ""
}

// extractTitle: primary heading, then the page title with site suffixes
// stripped, then anything classed like a title.
func extractTitle(doc *goquery.Document) string {
	return firstHit(doc,
		func(d *goquery.Document) string {
			return d.Find("h1").First().Text()
		},
		func(d *goquery.Document) string {
			return stripTitleSuffix(d.Find("title").First().Text())
		},
		func(d *goquery.Document) string {
			return d.Find(`[class*="title"]`).First().Text()
		},
	)
}

// stripTitleSuffix removes trailing " | Site Name" style decorations.
func stripTitleSuffix(title string) string {
	for _, sep := range []string{" | ", " - ", " – ", " — "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
		}
	}
	return title
}

// extractSummary: description metadata, social-preview metadata, explicitly
// classed excerpts, then the first substantial paragraph of the content.
func extractSummary(doc *goquery.Document) string {
	summary := firstHit(doc,
		func(d *goquery.Document) string {
			return d.Find(`meta[name="description"]`).AttrOr("content", "")
		},
		func(d *goquery.Document) string {
			if v := d.Find(`meta[property="og:description"]`).AttrOr("content", ""); v != "" {
				return v
			}
			return d.Find(`meta[name="twitter:description"]`).AttrOr("content", "")
		},
		func(d *goquery.Document) string {
			return d.Find(".excerpt, .summary, .intro").First().Text()
		},
		firstParagraph,
	)
	return truncateEllipsis(normalizeSpace(summary), summaryMax)
}

// firstParagraph scans the content containers for the first paragraph long
// enough to stand in as a summary.
func firstParagraph(doc *goquery.Document) string {
	selectors := append(append([]string{}, contentSelectors...), "body")
	for _, sel := range selectors {
		var found string
		doc.Find(sel + " p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := normalizeSpace(s.Text())
			if len(text) >= summaryMinPar {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// extractBody pulls the main-content text used for scoring. Container
// selectors first; short or missing results fall back to readability over
// the whole page, then to the raw page text.
func extractBody(doc *goquery.Document, pageURL string) string {
	var body string
	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			if text := normalizeSpace(s.Text()); text != "" {
				body = text
				break
			}
		}
	}
	if len(body) < bodyMin {
		if text := readabilityText(doc, pageURL); len(text) > len(body) {
			body = text
		}
	}
	if len(body) < bodyMin {
		if text := normalizeSpace(doc.Find("body").Text()); len(text) > len(body) {
			body = text
		}
	}
	return truncate(body, bodyMax)
}

// readabilityText reruns the page through go-readability, which is better at
// carving the article out of cluttered layouts than our selector list.
func readabilityText(doc *goquery.Document, pageURL string) string {
	html, err := doc.Html()
	if err != nil {
		return ""
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return ""
	}
	return normalizeSpace(article.TextContent)
}

// extractTopics collects tag/category/hashtag labels: lowercased, leading
// '#' stripped, deduplicated, first-seen order, at most five.
func extractTopics(doc *goquery.Document) []string {
	var topics []string
	seen := make(map[string]struct{})
	doc.Find(`.tags a, .tag, a[rel="tag"], .categories a, .category, .hashtag`).
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			topic := strings.ToLower(strings.TrimSpace(s.Text()))
			topic = strings.TrimPrefix(topic, "#")
			if len(topic) < topicMinLen {
				return true
			}
			if _, dup := seen[topic]; dup {
				return true
			}
			seen[topic] = struct{}{}
			topics = append(topics, topic)
			return len(topics) < topicsMax
		})
	return topics
}

// extractPublishDate: machine-readable time attribute, article metadata,
// then a visible date element. The value stays an opaque string; absence is
// not an error.
func extractPublishDate(doc *goquery.Document) string {
	return firstHit(doc,
		func(d *goquery.Document) string {
			return d.Find("time[datetime]").First().AttrOr("datetime", "")
		},
		func(d *goquery.Document) string {
			return d.Find(`meta[property="article:published_time"]`).AttrOr("content", "")
		},
		func(d *goquery.Document) string {
			return d.Find(".date, .published").First().Text()
		},
	)
}

// normalizeSpace collapses all whitespace runs to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func truncateEllipsis(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
