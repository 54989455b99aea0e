package links

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultWarmConcurrency bounds the number of concurrent fetches issued by Warm.
const DefaultWarmConcurrency = 16

// memoEntry is a settled lookup: either a link set or the failure.
type memoEntry struct {
	set Set
	err error
}

// Memo memoizes a Fetcher for the lifetime of the Memo. Concurrent lookups
// of an identifier that is not yet cached share one underlying fetch, and
// every caller observes the same result afterwards, including failures.
// Lookups that fail because the caller's context ended are not memoized.
//
// A Memo is safe for concurrent use.
type Memo struct {
	fetcher     Fetcher
	logger      *slog.Logger
	concurrency int

	mu      sync.RWMutex
	entries map[string]memoEntry
	group   singleflight.Group
}

// MemoOption configures a Memo.
type MemoOption func(*Memo)

// WithLogger sets the logger used by the Memo.
func WithLogger(logger *slog.Logger) MemoOption {
	return func(m *Memo) { m.logger = logger }
}

// WithWarmConcurrency bounds the concurrent fetches issued by Warm.
func WithWarmConcurrency(n int) MemoOption {
	return func(m *Memo) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// NewMemo wraps fetcher in a fresh, empty memo.
func NewMemo(fetcher Fetcher, opts ...MemoOption) *Memo {
	m := &Memo{
		fetcher:     fetcher,
		logger:      slog.Default(),
		concurrency: DefaultWarmConcurrency,
		entries:     make(map[string]memoEntry),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Neighbors returns the outbound links of id.
func (m *Memo) Neighbors(ctx context.Context, id string) (Set, error) {
	if e, ok := m.lookup(id); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return e.set, e.err
	}

	v, err, shared := m.group.Do(id, func() (any, error) {
		// Another flight may have settled id between lookup and Do.
		if e, ok := m.lookup(id); ok {
			return e.set, e.err
		}
		set, err := m.fetcher.Fetch(ctx, id)
		if err != nil && ctx.Err() != nil {
			// The caller gave up; a fetcher's own request timeout is
			// memoized like any other failure.
			return nil, err
		}
		if err != nil {
			var re *RetrievalError
			if !errors.As(err, &re) {
				err = &RetrievalError{ID: id, Err: err}
			}
			m.logger.Debug("memoizing retrieval failure", "id", id, "err", err)
			set = nil
		} else if set == nil {
			set = Set{}
		}
		m.mu.Lock()
		m.entries[id] = memoEntry{set: set, err: err}
		m.mu.Unlock()
		return set, err
	})
	if shared {
		cacheLookups.WithLabelValues("coalesced").Inc()
	} else {
		cacheLookups.WithLabelValues("miss").Inc()
	}
	if err != nil {
		if shared && ctx.Err() == nil {
			if e, ok := m.lookup(id); ok {
				return e.set, e.err
			}
			// The flight leader's context ended, not ours.
			return m.Neighbors(ctx, id)
		}
		return nil, err
	}
	return v.(Set), nil
}

// Warm fetches every id concurrently so later Neighbors calls hit the
// cache. Individual failures are memoized, not returned; Warm only fails
// when ctx ends first.
func (m *Memo) Warm(ctx context.Context, ids ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for _, id := range ids {
		if _, ok := m.lookup(id); ok {
			continue
		}
		g.Go(func() error {
			if _, err := m.Neighbors(gctx, id); err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Len returns the number of settled identifiers.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Forget drops id from the memo so the next lookup fetches it again.
func (m *Memo) Forget(id string) {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	m.group.Forget(id)
}

func (m *Memo) lookup(id string) (memoEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok
}
