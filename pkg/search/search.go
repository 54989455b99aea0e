// Package search implements best-first ladder search over a lazily
// discovered link graph.
//
// A search keeps a frontier of partial ladders ordered by a greedy
// closeness score: the number of outbound links a candidate page shares
// with the target page. The score is a local signal, not a distance bound,
// so the ladder found is not necessarily the shortest one.
package search

import (
	"context"
	"fmt"
	"time"

	"wiki_ladder/pkg/frontier"
	"wiki_ladder/pkg/ladder"
	"wiki_ladder/pkg/links"
)

// LinkSource resolves a page to its outbound links. Returned sets are
// treated as read only. Implementations must be safe for concurrent use
// when they also implement Warmer.
type LinkSource interface {
	Neighbors(ctx context.Context, id string) (links.Set, error)
}

// Warmer is implemented by link sources that can prefetch pages
// concurrently. Warming only fills the source's own cache.
type Warmer interface {
	Warm(ctx context.Context, ids ...string) error
}

// State is the lifecycle state of a search.
type State int

const (
	Running State = iota
	Found
	NotFound
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Reason explains why a search ended NotFound.
type Reason int

const (
	ReasonNone      Reason = iota
	ReasonExhausted        // frontier emptied
	ReasonTimeout          // deadline or step budget
	ReasonAborted          // retrieval failure under the abort policy, or an internal fault
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonExhausted:
		return "exhausted"
	case ReasonTimeout:
		return "timeout"
	case ReasonAborted:
		return "aborted"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Config holds search limits and policies.
type Config struct {
	// MaxSteps bounds the number of frontier expansions. 0 means unbounded.
	MaxSteps int
	// Timeout bounds the wall-clock time of Engine.Find. 0 means unbounded.
	Timeout time.Duration
	// AbortOnRetrievalError ends the search on the first link lookup
	// failure. When false, a failing page is treated as having no links.
	AbortOnRetrievalError bool
	// Warm prefetches every candidate of an expansion concurrently before
	// scoring, when the source implements Warmer.
	Warm bool
}

// DefaultConfig returns the limits used by the commands.
func DefaultConfig() Config {
	return Config{
		MaxSteps: 5000,
		Timeout:  2 * time.Minute,
		Warm:     true,
	}
}

// Result is the outcome of a finished (or abandoned) search.
type Result struct {
	Ladder   ladder.Path
	State    State
	Reason   Reason
	Steps    int // frontier expansions
	Enqueued int // paths pushed onto the frontier, including the start
	Skipped  int // lookups that failed and were treated as empty
	Peak     int // largest frontier size
	Elapsed  time.Duration
}

// Search is one best-first search from start to target, advanced by Step.
// The frontier and visited set belong to the Search and are only touched
// from the goroutine calling Step.
type Search struct {
	source LinkSource
	cfg    Config
	opts   options

	start, target string
	frontier      *frontier.PathQueue
	visited       map[string]struct{}
	targetLinks   links.Set
	ready         bool

	state  State
	reason Reason
	err    error
	found  ladder.Path

	steps, enqueued, skipped, peak int
	began                          time.Time
}

// NewSearch seeds a search with the single-page ladder [start].
func NewSearch(source LinkSource, start, target string, cfg Config, opts ...Option) *Search {
	o := newOptions(opts)
	o.logger = o.logger.With("start", start, "target", target)
	s := &Search{
		source:   source,
		cfg:      cfg,
		opts:     o,
		start:    start,
		target:   target,
		frontier: frontier.New(),
		visited:  make(map[string]struct{}),
		state:    Running,
		began:    time.Now(),
	}
	s.push(ladder.New(start), 0)
	return s
}

// State returns the current state.
func (s *Search) State() State { return s.state }

// Err returns the terminal error, if any.
func (s *Search) Err() error { return s.err }

// Frontier returns the number of paths waiting to be expanded.
func (s *Search) Frontier() int { return s.frontier.Len() }

// Result snapshots the search outcome.
func (s *Search) Result() *Result {
	return &Result{
		Ladder:   s.found,
		State:    s.state,
		Reason:   s.reason,
		Steps:    s.steps,
		Enqueued: s.enqueued,
		Skipped:  s.skipped,
		Peak:     s.peak,
		Elapsed:  time.Since(s.began),
	}
}

// Step expands the best path on the frontier. It returns the state after
// the step; once the state is terminal, Step keeps returning it with the
// terminal error.
func (s *Search) Step(ctx context.Context) (State, error) {
	if s.state != Running {
		return s.state, s.err
	}
	if err := ctx.Err(); err != nil {
		return s.finish(NotFound, ReasonTimeout, fmt.Errorf("%w: %w", ErrTimeout, err))
	}

	if !s.ready {
		set, err := s.neighbors(ctx, s.target)
		if err != nil {
			return s.abort(err)
		}
		s.targetLinks = set
		s.ready = true
	}

	if s.cfg.MaxSteps > 0 && s.steps >= s.cfg.MaxSteps {
		return s.finish(NotFound, ReasonTimeout, fmt.Errorf("%w: step budget of %d reached", ErrTimeout, s.cfg.MaxSteps))
	}
	if s.frontier.IsEmpty() {
		return s.finish(NotFound, ReasonExhausted, ErrNotFound)
	}

	current, err := s.frontier.Dequeue()
	if err != nil {
		return s.finish(NotFound, ReasonAborted, fmt.Errorf("step %d: %w", s.steps+1, err))
	}
	s.steps++
	last := current.Last()

	out, err := s.neighbors(ctx, last)
	if err != nil {
		return s.abort(err)
	}
	if out.Has(s.target) {
		s.found = current.Append(s.target)
		return s.finish(Found, ReasonNone, nil)
	}

	candidates := make([]string, 0, len(out))
	for _, id := range out.Sorted() {
		if _, seen := s.visited[id]; !seen {
			candidates = append(candidates, id)
		}
	}

	if err := s.warm(ctx, candidates); err != nil {
		return s.abort(err)
	}

	for _, id := range candidates {
		set, err := s.neighbors(ctx, id)
		if err != nil {
			return s.abort(err)
		}
		s.push(current.Append(id), set.CountShared(s.targetLinks))
	}

	s.opts.logger.Debug("expanded",
		"step", s.steps,
		"page", last,
		"depth", current.Len(),
		"links", len(out),
		"enqueued", len(candidates),
		"frontier", s.frontier.Len())
	return Running, nil
}

// push marks the path's last page visited and queues the path.
func (s *Search) push(p ladder.Path, priority int) {
	id := p.Last()
	s.visited[id] = struct{}{}
	s.frontier.Enqueue(p, priority)
	s.enqueued++
	if n := s.frontier.Len(); n > s.peak {
		s.peak = n
	}
	if s.opts.onEnqueue != nil {
		s.opts.onEnqueue(id, priority)
	}
}

// warm prefetches candidates and the target when the source supports it.
func (s *Search) warm(ctx context.Context, candidates []string) error {
	w, ok := s.source.(Warmer)
	if !s.cfg.Warm || !ok || len(candidates) == 0 {
		return nil
	}
	ids := append(candidates[:len(candidates):len(candidates)], s.target)
	if err := w.Warm(ctx, ids...); err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
	return nil
}

// neighbors applies the retrieval failure policy to a lookup. Under the
// skip policy a failed lookup yields an empty set and a nil error.
func (s *Search) neighbors(ctx context.Context, id string) (links.Set, error) {
	set, err := s.source.Neighbors(ctx, id)
	if err == nil {
		return set, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
	}
	if s.cfg.AbortOnRetrievalError {
		return nil, err
	}
	s.skipped++
	retrievalSkipped.Inc()
	s.opts.logger.Warn("link lookup failed, treating page as a dead end", "page", id, "err", err)
	return nil, nil
}

// abort ends the search for an error returned by neighbors or warm.
func (s *Search) abort(err error) (State, error) {
	if isTimeout(err) {
		return s.finish(NotFound, ReasonTimeout, err)
	}
	return s.finish(NotFound, ReasonAborted, err)
}

func (s *Search) finish(state State, reason Reason, err error) (State, error) {
	s.state = state
	s.reason = reason
	s.err = err
	return state, err
}
