// SPDX-License-Identifier: MIT

// Package km77 fetches and parses pages of the km77.com car catalog.
package km77

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrPageTooLarge is returned when a response body exceeds the configured
// size cap before being fully read.
var ErrPageTooLarge = errors.New("page exceeds size limit")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// Options tunes the client. Zero values fall back to conservative defaults.
type Options struct {
	Timeout     time.Duration
	Retries     int     // extra attempts after the first failure
	RateLimit   float64 // requests per second
	RateBurst   int
	MaxBodySize int64 // byte cap per page; lint.default_max_file_size feeds this
	UserAgent   string
}

// Client is a rate-limited, retrying fetcher for catalog pages. It is safe
// for concurrent use.
type Client struct {
	base      string
	http      *http.Client
	limiter   *rate.Limiter
	retries   int
	maxBody   int64
	userAgent string
}

// New creates a client for the given catalog base URL.
func New(base string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = 4 << 20
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "km77-scraper"
	}

	return &Client{
		base:      strings.TrimRight(base, "/"),
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		retries:   opts.Retries,
		maxBody:   opts.MaxBodySize,
		userAgent: opts.UserAgent,
	}
}

// Base returns the catalog base URL without a trailing slash.
func (c *Client) Base() string { return c.base }

// MakesURL is the catalog index listing every make.
func (c *Client) MakesURL() string { return c.base + "/coches" }

// FetchPage fetches one page respecting the rate limit, retrying failed
// requests with quadratic backoff. The returned bytes are the complete
// body, never a truncated page.
func (c *Client) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt*500) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.fetchOnce(ctx, pageURL)
		if err == nil {
			return body, nil
		}
		// Size violations and cancellations will not improve on retry.
		if errors.Is(err, ErrPageTooLarge) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fetch failed after %d retries: %w", c.retries, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{URL: pageURL, Code: res.StatusCode}
	}

	// Read one byte past the cap to distinguish "exactly at limit" from
	// "limit exceeded".
	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s (> %d bytes)", ErrPageTooLarge, pageURL, c.maxBody)
	}
	return body, nil
}
