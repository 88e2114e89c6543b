package astar

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/pdrpinto/astar-hanoi"

// Observer receives notifications from the driver loop. Callbacks run
// synchronously on the searching goroutine.
type Observer interface {
	OnExpand(key string, depth int, cost float64)
	OnPush(key string, cost float64)
	OnStale(key string)
	OnFinish(outcome Outcome, stats Stats)
}

// Options defines parameters for the search.
type Options struct {
	// MaxExpansions bounds the number of expanded nodes. Zero means no limit.
	MaxExpansions int
	Logger        zerolog.Logger
	Observers     []Observer
	Tracer        trace.Tracer
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithMaxExpansions stops the search with ErrBudgetExceeded once n nodes
// have been expanded without reaching a goal.
func WithMaxExpansions(n int) Option {
	return func(options *Options) { options.MaxExpansions = n }
}

// WithLogger sets the logger used for loop diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithObserver registers an observer. It may be given more than once.
func WithObserver(observer Observer) Option {
	return func(options *Options) { options.Observers = append(options.Observers, observer) }
}

// WithTracer sets the tracer Search opens its span with.
func WithTracer(tracer trace.Tracer) Option {
	return func(options *Options) { options.Tracer = tracer }
}

func buildOptions(options []Option) Options {
	opts := Options{
		Logger: zerolog.Nop(),
		Tracer: otel.Tracer(tracerName),
	}
	for _, o := range options {
		o(&opts)
	}
	return opts
}
