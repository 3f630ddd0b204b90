package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyRegistryAllowsEverything(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.ShouldProcess("https://example.com/blog/post"))
}

func TestBlockedPathsWin(t *testing.T) {
	r := NewRegistry()
	r.Register(Rule{
		Site:         "example.com",
		AllowedPaths: []string{"/blog/"},
		BlockedPaths: []string{"/tag/", "/author/"},
	})

	assert.False(t, r.ShouldProcess("https://example.com/blog/tag/hybrid"))
	assert.False(t, r.ShouldProcess("https://example.com/author/jane"))
	assert.True(t, r.ShouldProcess("https://example.com/blog/hybrid-work"))
}

func TestAllowedPathsRestrict(t *testing.T) {
	r := NewRegistry()
	r.Register(Rule{Site: "example.com", AllowedPaths: []string{"/blog/"}})

	assert.True(t, r.ShouldProcess("https://example.com/blog/post"))
	assert.False(t, r.ShouldProcess("https://example.com/careers"))
}

func TestUnmatchedSitePassesThrough(t *testing.T) {
	r := NewRegistry()
	r.Register(Rule{Site: "example.com", BlockedPaths: []string{"/tag/"}})

	assert.True(t, r.ShouldProcess("https://other.org/tag/whatever"))
}
