// internal/extractors/filters/url_filter.go
package filters

import (
	"strings"
)

// Rule defines per-site path filtering for discovered URLs. Listing pages
// (tag archives, author pages, pagination) often carry the site keyword but
// are not articles; rules weed them out before scraping.
type Rule struct {
	Site         string   // substring matching the site host
	AllowedPaths []string // if empty, allow all paths
	BlockedPaths []string // takes priority over AllowedPaths
}

// Registry holds filtering rules.
type Registry struct {
	rules []Rule
}

// NewRegistry creates an empty registry. An empty registry allows everything.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// ShouldProcess reports whether a discovered URL should be scraped.
func (r *Registry) ShouldProcess(rawURL string) bool {
	var matched *Rule
	for i := range r.rules {
		if strings.Contains(rawURL, r.rules[i].Site) {
			matched = &r.rules[i]
			break
		}
	}
	if matched == nil {
		return true
	}

	for _, blocked := range matched.BlockedPaths {
		if strings.Contains(rawURL, blocked) {
			return false
		}
	}
	if len(matched.AllowedPaths) == 0 {
		return true
	}
	for _, allowed := range matched.AllowedPaths {
		if strings.Contains(rawURL, allowed) {
			return true
		}
	}
	return false
}
