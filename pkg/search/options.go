package search

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type options struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	onEnqueue func(id string, priority int)
}

// Option configures an Engine or a Search.
type Option func(*options)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTracer sets the tracer used for search spans. The default is the
// global provider's "wiki_ladder/search" tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// WithEnqueueHook registers fn to be called for every page pushed onto the
// frontier, the start page included. fn runs on the searching goroutine.
func WithEnqueueHook(fn func(id string, priority int)) Option {
	return func(o *options) { o.onEnqueue = fn }
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		tracer: otel.Tracer("wiki_ladder/search"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
