// internal/fetch/client.go
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
)

// ClientOptions for the fetch client.
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
}

// Client wraps retryablehttp with a bounded timeout and an identifying
// User-Agent, and parses responses into goquery documents.
type Client struct {
	inner     *retryablehttp.Client
	userAgent string
}

// NewClient creates a new Client.
func NewClient(opts ClientOptions) *Client {
	r := retryablehttp.NewClient()
	r.RetryMax = 2
	r.Logger = nil
	if opts.Timeout <= 0 {
		opts.Timeout = 12 * time.Second
	}
	r.HTTPClient.Timeout = opts.Timeout
	return &Client{inner: r, userAgent: opts.UserAgent}
}

// Get fetches a URL, failing on non-200 responses.
func (c *Client) Get(ctx context.Context, pageURL string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected HTTP status %d for %s", resp.StatusCode, pageURL)
	}
	return resp, nil
}

// Document fetches a URL and parses the body into a queryable tree.
func (c *Client) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return doc, nil
}

// StandardClient exposes the underlying *http.Client for libraries that
// take one directly (e.g. the feed parser).
func (c *Client) StandardClient() *http.Client {
	return c.inner.StandardClient()
}
