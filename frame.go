package vireo

import (
	"context"

	"github.com/vireo-dev/vireo/internal/vireoerr"
	"github.com/vireo-dev/vireo/pkg/engine"
	"github.com/vireo-dev/vireo/pkg/mutation"
	"github.com/vireo-dev/vireo/pkg/reactive"
)

// NewWriter constructs a mutation.Writer sized and path-capped from the
// Shell's RuntimeConfig (MaxMutationBuffer, MaxPathLen), so callers don't
// have to hand-pick buffer limits that drift from what the Shell enforces
// elsewhere (spec §7, "Backpressure / capacity").
func (s *Shell) NewWriter(buf []byte) *mutation.Writer {
	w := mutation.NewWriter(buf, s.cfg.MaxMutationBuffer)
	w.SetMaxPathLen(s.cfg.MaxPathLen)
	return w
}

// Mount drives a whole-frame CreateEngine pass over b's root VNode and
// records it as the baseline for the next Diff/Flush (spec §4.13's
// mount(writer, vnode_idx) -> bytes_written).
func (s *Shell) Mount(w *mutation.Writer, b *RenderBuilder, rootIx int) (int, error) {
	finish := s.tracer.Span(context.Background(), "mount", uint32(s.root))
	start := w.Len()
	_, err := engine.Mount(w, s.alloc, s.templates, b.store, rootIx)
	n := w.Len() - start
	finish(n, err)
	if err != nil {
		return n, err
	}
	s.metrics.RecordMutation(n)
	s.lastStore = b.store
	s.lastIx = rootIx
	s.hasMounted = true
	return n, nil
}

// Diff drives a DiffEngine pass between the previously mounted/flushed
// VNode and b's root VNode, without emitting the End sentinel (spec
// §4.13's diff(writer, new_vnode_idx)). Call Finalize to terminate the
// buffer, or use Flush for the common diff+finalize sequence.
func (s *Shell) Diff(w *mutation.Writer, b *RenderBuilder, rootIx int) error {
	if !s.hasMounted {
		return vireoerr.New(vireoerr.CodeOutOfRange, vireoerr.Reported, "vireo: Diff before Mount")
	}
	finish := s.tracer.Span(context.Background(), "diff", uint32(s.root))
	err := engine.Diff(w, s.alloc, s.templates, s.lastStore, s.lastIx, b.store, rootIx)
	finish(w.Len(), err)
	if err != nil {
		return err
	}
	s.lastStore = b.store
	s.lastIx = rootIx
	return nil
}

// Finalize terminates w with the End sentinel (spec §4.13's
// finalize(writer)).
func (s *Shell) Finalize(w *mutation.Writer) (int, error) {
	n, err := w.Finalize()
	if err == nil {
		s.metrics.RecordMutation(n)
	}
	return n, err
}

// Flush is Diff followed by Finalize in one call (spec §4.13's
// flush(writer, new_vnode_idx)) — the entry point a frame loop calls once
// per render.
func (s *Shell) Flush(w *mutation.Writer, b *RenderBuilder, rootIx int) error {
	if err := s.Diff(w, b, rootIx); err != nil {
		return err
	}
	_, err := s.Finalize(w)
	return err
}

// --- Dirty queue / scheduler surface (spec §4.13), forwarding to the
// Runtime's Scheduler (pkg/reactive). ---

// HasDirty reports whether scope is currently queued for re-render.
func (s *Shell) HasDirty(scope reactive.ScopeID) bool { return s.rt.HasDirty(scope) }

// CollectDirty drains signal-write-accumulated dirty scopes into the
// Scheduler (spec §4.6).
func (s *Shell) CollectDirty() { s.rt.CollectDirty() }

// NextDirty pops the lowest-height queued scope.
func (s *Shell) NextDirty() (reactive.ScopeID, bool) { return s.rt.NextDirty() }

// ConsumeDirty pops and discards the lowest-height queued scope,
// reporting whether one was present — used by a frame loop that only
// needs to know "is there more work" without caring which scope.
func (s *Shell) ConsumeDirty() bool {
	_, ok := s.rt.NextDirty()
	return ok
}
