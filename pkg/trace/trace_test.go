package trace

import (
	"context"
	"errors"
	"testing"
)

func TestSpanFinishRecordsSuccess(t *testing.T) {
	tracer := New()
	finish := tracer.Span(context.Background(), "mount", 1)
	finish(128, nil)
}

func TestSpanFinishRecordsError(t *testing.T) {
	tracer := New()
	finish := tracer.Span(context.Background(), "diff", 2)
	finish(0, errors.New("boom"))
}

func TestNilTracerSpanIsNoOp(t *testing.T) {
	var tracer *Tracer
	finish := tracer.Span(context.Background(), "mount", 1)
	finish(0, nil)
}

func TestWithTracerNameOption(t *testing.T) {
	tracer := New(WithTracerName("custom"), WithMutationBytes(false))
	if tracer.cfg.TracerName != "custom" {
		t.Fatalf("TracerName = %q, want %q", tracer.cfg.TracerName, "custom")
	}
	if tracer.cfg.IncludeMutationBytes {
		t.Fatal("IncludeMutationBytes should be false")
	}
	finish := tracer.Span(context.Background(), "mount", 0)
	finish(64, nil)
}

func TestSpanFromContextNoSpan(t *testing.T) {
	span := SpanFromContext(context.Background())
	if span == nil {
		t.Fatal("SpanFromContext returned nil")
	}
}
