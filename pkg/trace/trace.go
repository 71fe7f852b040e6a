// Package trace provides an optional OpenTelemetry tracer wrapping
// CreateEngine/DiffEngine runs as spans. Grounded on the teacher's
// pkg/middleware.OpenTelemetry (same otel.Tracer(name) + span-per-event +
// RecordError/SetStatus pattern), adapted from per-HTTP-request spans to
// per-frame mount/flush spans. Wired the same way as pkg/metrics: an
// optional observer pkg/engine never imports, constructed and passed in
// by whatever owns the frame loop (the root vireo package's Shell).
package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "vireo"

// Config configures the Tracer.
type Config struct {
	// TracerName names the tracer (default "vireo").
	TracerName string

	// IncludeMutationBytes adds the emitted buffer length as a span
	// attribute. Enabled by default.
	IncludeMutationBytes bool
}

// Option configures Config.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option { return func(c *Config) { c.TracerName = name } }

// WithMutationBytes enables/disables recording mutation buffer length.
func WithMutationBytes(include bool) Option {
	return func(c *Config) { c.IncludeMutationBytes = include }
}

func defaultConfig() Config {
	return Config{TracerName: defaultTracerName, IncludeMutationBytes: true}
}

// Tracer wraps CreateEngine/DiffEngine passes in spans. The tracer uses
// the global OpenTelemetry tracer provider; configure it in main() before
// starting the server, same as the teacher's OpenTelemetry middleware.
type Tracer struct {
	cfg    Config
	tracer trace.Tracer
}

// New constructs a Tracer resolved against the global tracer provider.
func New(opts ...Option) *Tracer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tracer{cfg: cfg, tracer: otel.Tracer(cfg.TracerName)}
}

// Span starts a span named "vireo.engine.<op>" (op is "mount", "flush", "create"
// or "diff") and returns a finish func recording the outcome. Call finish
// with the emitted buffer's length and any error the pass returned.
//
// Example:
//
//	finish := tracer.Span(ctx, "flush", scopeID)
//	err := engine.Flush(w, alloc, reg, oldStore, oldIx, newStore, newIx)
//	finish(len(w.Bytes()), err)
func (t *Tracer) Span(ctx context.Context, op string, scope uint32) func(bytes int, err error) {
	if t == nil {
		return func(int, error) {}
	}
	spanCtx, span := t.tracer.Start(ctx, "vireo.engine."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("vireo.op", op),
			attribute.Int64("vireo.scope", int64(scope)),
		),
	)
	_ = spanCtx
	return func(bytes int, err error) {
		defer span.End()
		if t.cfg.IncludeMutationBytes {
			span.SetAttributes(attribute.Int("vireo.mutation_bytes", bytes))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		span.SetStatus(codes.Ok, "")
	}
}

// SpanFromContext retrieves the current span, mirroring the teacher's
// middleware.SpanFromContext. Returns a no-op span if ctx carries none.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
