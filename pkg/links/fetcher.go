// Package links resolves page identifiers to their outbound links: an HTTP
// fetcher that scrapes article pages, an in-memory source, and a Memo that
// caches and coalesces lookups for the lifetime of one process.
package links

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is prefixed to an identifier to form its page URL.
const DefaultBaseURL = "https://en.wikipedia.org/wiki/"

// DefaultUserAgent identifies the fetcher to page servers.
const DefaultUserAgent = "wiki_ladder/1.0 (link ladder search)"

// maxPageBytes bounds how much of one page is read.
const maxPageBytes = 16 << 20

// Fetcher returns the outbound links of a single page. Implementations
// report failures as *RetrievalError.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (Set, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id string) (Set, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, id string) (Set, error) { return f(ctx, id) }

// HTTPConfig configures an HTTPFetcher.
type HTTPConfig struct {
	BaseURL           string
	UserAgent         string
	RequestTimeout    time.Duration
	RequestsPerSecond float64 // <= 0 disables throttling
	Burst             int
}

// DefaultHTTPConfig returns sensible defaults for the public wiki.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		BaseURL:           DefaultBaseURL,
		UserAgent:         DefaultUserAgent,
		RequestTimeout:    15 * time.Second,
		RequestsPerSecond: 20,
		Burst:             10,
	}
}

// HTTPFetcher downloads article pages and scrapes their links.
type HTTPFetcher struct {
	client  *http.Client
	cfg     HTTPConfig
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewHTTPFetcher creates a fetcher. A nil client uses a client with
// cfg.RequestTimeout.
func NewHTTPFetcher(cfg HTTPConfig, client *http.Client, logger *slog.Logger) *HTTPFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return &HTTPFetcher{client: client, cfg: cfg, limiter: limiter, logger: logger}
}

// URL returns the page URL for id.
func (f *HTTPFetcher) URL(id string) string {
	return f.cfg.BaseURL + id
}

// Fetch downloads the page for id and returns the article links on it.
func (f *HTTPFetcher) Fetch(ctx context.Context, id string) (Set, error) {
	start := time.Now()
	set, err := f.fetch(ctx, id)
	if err != nil {
		fetchTotal.WithLabelValues("error").Inc()
		return nil, &RetrievalError{ID: id, Err: err}
	}
	fetchTotal.WithLabelValues("ok").Inc()
	fetchDuration.Observe(time.Since(start).Seconds())
	f.logger.Debug("fetched page", "id", id, "links", len(set), "elapsed", time.Since(start))
	return set, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, id string) (Set, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The limiter refuses waits that would outlive the deadline.
		return nil, fmt.Errorf("rate limit: %v: %w", err, context.DeadlineExceeded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	set, err := ParseLinks(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return set, nil
}
