package database

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Observer receives query and connection measurements. *metrics.QueryMetrics
// implements it.
type Observer interface {
	ObserveQuery(driver, kind string, duration time.Duration, err error)
	ConnectionOpened(driver string)
	ConnectionClosed(driver string)
}

// Tracer opens spans around statement executions. *tracer.Tracer implements it.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordErrorOnSpan(span trace.Span, err error)
	SetAttributes(span trace.Span, attrs map[string]interface{})
}

// Option customizes a Database at construction.
type Option func(*Database)

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l Logger) Option {
	return func(d *Database) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics reports every execution and connection change to o.
func WithMetrics(o Observer) Option {
	return func(d *Database) {
		d.metrics = o
	}
}

// WithTracer wraps every execution in a span.
func WithTracer(t Tracer) Option {
	return func(d *Database) {
		d.tracer = t
	}
}

// WithContext sets the context used while connecting in New and NewFromMap.
func WithContext(ctx context.Context) Option {
	return func(d *Database) {
		if ctx != nil {
			d.ctx = ctx
		}
	}
}
