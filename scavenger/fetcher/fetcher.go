// Package fetcher is the HTTP+JSON client shared by every data source of the dashboard.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 2 // requests per second
	maxBodySize      = 10 << 20
	userAgent        = "Mozilla/5.0 (compatible; fin-dashboard/2.0)"
)

// Client performs rate-limited JSON GET requests.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	sanitizer  *bluemonday.Policy // strips HTML from fetched strings; nil disables it
	logger     *slog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP timeout of a single request.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the number of requests per second shared by all sources.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithSanitizer enables or disables HTML stripping of fetched strings.
func WithSanitizer(enabled bool) ClientOption {
	return func(c *Client) {
		if enabled {
			c.sanitizer = bluemonday.StrictPolicy()
		} else {
			c.sanitizer = nil
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Client with sanitizing enabled.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get requests url and decodes the JSON body into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return newError(url, ErrRateWait, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return newError(url, ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newError(url, ErrRequest, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Debug("error closing response body", "url", url, "error", err)
		}
	}(resp.Body)

	c.logger.Debug("fetched", "url", url, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(url, ErrStatus, fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(v); err != nil {
		return newError(url, ErrDecode, err)
	}

	return nil
}

// FetchJSON requests url and returns the decoded document.
// Any failure is logged and reported as absence, never as an error.
func (c *Client) FetchJSON(ctx context.Context, url string) (any, bool) {
	var v any
	if err := c.Get(ctx, url, &v); err != nil {
		c.logger.Warn("fetch failed", "url", url, "error", err)
		return nil, false
	}
	if v == nil {
		c.logger.Warn("fetch returned null", "url", url)
		return nil, false
	}

	return c.Sanitize(v), true
}

// Sanitize strips HTML tags from every string (keys included) of a decoded JSON value.
// Text outside of tags is kept as fetched: "반도체 & AI" stays "반도체 & AI".
func (c *Client) Sanitize(v any) any {
	if c.sanitizer == nil {
		return v
	}

	switch val := v.(type) {
	case string:
		return c.strip(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = c.Sanitize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[c.strip(k)] = c.Sanitize(item)
		}
		return out
	default:
		return v
	}
}

// strip removes tags and undoes the entity escaping the policy applies to plain text.
func (c *Client) strip(s string) string {
	return html.UnescapeString(c.sanitizer.Sanitize(s))
}
