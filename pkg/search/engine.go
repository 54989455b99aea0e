package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrEmptyID is returned when the start or target identifier is empty.
var ErrEmptyID = errors.New("empty page identifier")

// Finder is the interface for ladder queries.
type Finder interface {
	Find(ctx context.Context, start, target string) (*Result, error)
}

// Engine implements Finder on top of a LinkSource. Each Find call runs an
// independent Search with its own frontier and visited set, so one Engine
// may serve concurrent queries when its source is safe for concurrent use.
type Engine struct {
	source LinkSource
	cfg    Config
	opts   []Option
	base   options
}

// NewEngine creates an engine that resolves links through source.
func NewEngine(source LinkSource, cfg Config, opts ...Option) *Engine {
	return &Engine{
		source: source,
		cfg:    cfg,
		opts:   opts,
		base:   newOptions(opts),
	}
}

// Config returns the engine's search configuration.
func (e *Engine) Config() Config { return e.cfg }

// Find searches for a ladder from start to target.
//
// On success the Result holds the ladder and err is nil. Otherwise the
// Result is still returned and err matches ErrNotFound (frontier
// exhausted), ErrTimeout (deadline or step budget), or wraps a
// *RetrievalError when the engine aborts on retrieval failures.
func (e *Engine) Find(ctx context.Context, start, target string) (*Result, error) {
	if start == "" || target == "" {
		return nil, ErrEmptyID
	}
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	ctx, span := e.base.tracer.Start(ctx, "search.Find", trace.WithAttributes(
		attribute.String("ladder.start", start),
		attribute.String("ladder.target", target),
	))
	defer span.End()

	logger := e.base.logger.With("start", start, "target", target)
	logger.Info("search started", "max_steps", e.cfg.MaxSteps, "timeout", e.cfg.Timeout)

	s := NewSearch(e.source, start, target, e.cfg, e.opts...)
	state := Running
	var err error
	for state == Running {
		state, err = s.Step(ctx)
	}
	res := s.Result()

	outcome := outcomeLabel(res)
	searchTotal.WithLabelValues(outcome).Inc()
	searchSteps.Observe(float64(res.Steps))
	searchDuration.Observe(res.Elapsed.Seconds())
	frontierPeak.Observe(float64(res.Peak))

	span.SetAttributes(
		attribute.String("ladder.outcome", outcome),
		attribute.Int("ladder.steps", res.Steps),
		attribute.Int("ladder.length", res.Ladder.Len()),
	)

	attrs := []any{
		"outcome", outcome,
		"steps", res.Steps,
		"enqueued", res.Enqueued,
		"skipped", res.Skipped,
		"elapsed", res.Elapsed.Round(time.Millisecond),
	}
	switch {
	case err == nil:
		logger.Info("search finished", append(attrs, "ladder", res.Ladder.String())...)
		return res, nil
	case errors.Is(err, ErrNotFound), isTimeout(err):
		logger.Info("search finished", append(attrs, "err", err)...)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("search aborted", append(attrs, "err", err)...)
		err = fmt.Errorf("search %q -> %q: %w", start, target, err)
	}
	return res, err
}

func outcomeLabel(res *Result) string {
	if res.State == Found {
		return "found"
	}
	return res.Reason.String()
}

func isTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
