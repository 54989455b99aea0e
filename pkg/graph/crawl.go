package graph

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"wiki_ladder/pkg/links"
)

// CrawlOptions bounds a crawl.
type CrawlOptions struct {
	MaxPages    int // pages to expand; <= 0 means 1000
	Concurrency int // concurrent fetches; <= 0 means 8
	Logger      *slog.Logger
}

// CrawlResult is the raw output of a crawl, ready for Build.
type CrawlResult struct {
	Links    []RawLink
	Expanded []string // pages whose links were collected
	Failed   []string // pages whose fetch failed
}

// Crawl expands pages breadth-first from seeds until MaxPages pages have
// been expanded or no unseen pages remain. Each level is fetched
// concurrently; fetch failures are recorded and skipped.
func Crawl(ctx context.Context, fetcher links.Fetcher, seeds []string, opts CrawlOptions) (*CrawlResult, error) {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1000
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[string]struct{}, len(seeds))
	var level []string
	for _, s := range seeds {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		level = append(level, s)
	}

	res := &CrawlResult{}
	depth := 0
	for len(level) > 0 && len(res.Expanded) < opts.MaxPages {
		if remaining := opts.MaxPages - len(res.Expanded); len(level) > remaining {
			level = level[:remaining]
		}

		var mu sync.Mutex
		type outcome struct {
			set links.Set
			ok  bool
		}
		fetched := make(map[string]outcome, len(level))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for _, page := range level {
			g.Go(func() error {
				set, err := fetcher.Fetch(gctx, page)
				if err != nil {
					// Only the caller's context ends the crawl; a page's own
					// request timeout is a failure like any other.
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
					logger.Warn("crawl fetch failed", "page", page, "err", err)
				}
				mu.Lock()
				fetched[page] = outcome{set: set, ok: err == nil}
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Walk the level in order so the next level is deterministic.
		var next []string
		for _, page := range level {
			out := fetched[page]
			if !out.ok {
				res.Failed = append(res.Failed, page)
				continue
			}
			res.Expanded = append(res.Expanded, page)
			for _, to := range out.set.Sorted() {
				res.Links = append(res.Links, RawLink{From: page, To: to})
				if _, ok := seen[to]; !ok {
					seen[to] = struct{}{}
					next = append(next, to)
				}
			}
		}
		logger.Info("crawl level complete",
			"depth", depth,
			"pages", len(level),
			"expanded_total", len(res.Expanded),
			"links_total", len(res.Links),
			"next", len(next))
		level = next
		depth++
	}

	sort.Strings(res.Failed)
	return res, nil
}
