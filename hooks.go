package vireo

import (
	"github.com/vireo-dev/vireo/pkg/reactive"
	"github.com/vireo-dev/vireo/pkg/strings"
)

// SignalHandle is a stable reference to an int64 signal (spec §4.2),
// returned by UseSignal/CreateSignal.
type SignalHandle struct {
	shell *Shell
	key   reactive.SignalKey
}

// Key returns the underlying SignalKey, for callers building a VNode's
// dynamic attribute/event slots directly.
func (h SignalHandle) Key() reactive.SignalKey { return h.key }

// Get reads the value, subscribing the current reactive context.
func (h SignalHandle) Get() int64 { return h.shell.rt.Read(h.key).(int64) }

// Peek reads the value without subscribing.
func (h SignalHandle) Peek() int64 { return h.shell.rt.Peek(h.key).(int64) }

// Set writes a new value (equal-value writes are suppressed, spec §4.2).
func (h SignalHandle) Set(v int64) { h.shell.rt.Write(h.key, v) }

// Add/Sub/Mul are the compound integer mutators (spec §4.2, §4.13); the
// handler surface's on_click_add/on_click_sub apply the same Runtime
// mutators directly.
func (h SignalHandle) Add(delta int64) { h.shell.rt.IAdd(h.key, delta) }
func (h SignalHandle) Sub(delta int64) { h.shell.rt.ISub(h.key, delta) }
func (h SignalHandle) Mul(factor int64) { h.shell.rt.IMul(h.key, factor) }

// BoolSignalHandle is a stable reference to a bool signal.
type BoolSignalHandle struct {
	shell *Shell
	key   reactive.SignalKey
}

func (h BoolSignalHandle) Key() reactive.SignalKey { return h.key }
func (h BoolSignalHandle) Get() bool               { return h.shell.rt.Read(h.key).(bool) }
func (h BoolSignalHandle) Peek() bool              { return h.shell.rt.Peek(h.key).(bool) }
func (h BoolSignalHandle) Set(v bool)              { h.shell.rt.Write(h.key, v) }
func (h BoolSignalHandle) Toggle()                 { h.shell.rt.Toggle(h.key) }

// StringSignalHandle wraps a strings.Key plus a version-counter signal:
// the string store write bypasses the SignalStore's equality check
// (strings.Store.Write always applies), so reactivity rides the separate
// counter signal that every Set bumps (spec §4.2 note on HookSignalString
// in pkg/reactive/scope.go's HookEntry doc comment).
type StringSignalHandle struct {
	shell  *Shell
	sigKey reactive.SignalKey
	verKey reactive.SignalKey
}

func (h StringSignalHandle) strKey() strings.Key {
	return h.shell.rt.Peek(h.sigKey).(strings.Key)
}

// Get subscribes to the version counter and returns the current string.
func (h StringSignalHandle) Get() string {
	h.shell.rt.Read(h.verKey)
	return h.shell.strs.Read(h.strKey())
}

// Peek returns the current string without subscribing.
func (h StringSignalHandle) Peek() string { return h.shell.strs.Read(h.strKey()) }

// Set writes v to the string store and bumps the version counter.
func (h StringSignalHandle) Set(v string) {
	h.shell.strs.Write(h.strKey(), v)
	h.shell.rt.Write(h.verKey, h.shell.rt.Peek(h.verKey).(int64)+1)
}

// MemoHandle is a stable reference to a computed cell (spec §4.4).
type MemoHandle struct {
	shell *Shell
	id    reactive.MemoID
}

func (h MemoHandle) ID() reactive.MemoID { return h.id }

// Get reads the memo's cached output, subscribing the current context.
func (h MemoHandle) Get() any { return h.shell.rt.Read(h.shell.rt.Memos.OutputKey(h.id)) }

// --- Hook surface (spec §4.13): positional, called in the same order on
// every render of the owning scope; see pkg/reactive/scope.go's
// NextHook for the tag-mismatch invariant this relies on. ---

// UseSignal declares (or, on a later render, re-identifies) an int64
// signal hook in the current scope.
func (s *Shell) UseSignal(initial int64) SignalHandle {
	scope := s.rt.CurrentScope()
	entry, _ := s.rt.Scopes.NextHook(scope, reactive.HookSignal, func() reactive.HookEntry {
		key := s.rt.Signals.Create(initial)
		return reactive.HookEntry{Tag: reactive.HookSignal, A: uint32(key)}
	})
	return SignalHandle{shell: s, key: reactive.SignalKey(entry.A)}
}

// UseSignalBool declares a bool signal hook.
func (s *Shell) UseSignalBool(initial bool) BoolSignalHandle {
	scope := s.rt.CurrentScope()
	entry, _ := s.rt.Scopes.NextHook(scope, reactive.HookSignalBool, func() reactive.HookEntry {
		key := s.rt.Signals.Create(initial)
		return reactive.HookEntry{Tag: reactive.HookSignalBool, A: uint32(key)}
	})
	return BoolSignalHandle{shell: s, key: reactive.SignalKey(entry.A)}
}

// UseSignalString declares a string signal hook.
func (s *Shell) UseSignalString(initial string) StringSignalHandle {
	scope := s.rt.CurrentScope()
	entry, _ := s.rt.Scopes.NextHook(scope, reactive.HookSignalString, func() reactive.HookEntry {
		strKey := s.strs.Create(initial)
		sigKey := s.rt.Signals.Create(strKey)
		verKey := s.rt.Signals.Create(int64(0))
		return reactive.HookEntry{Tag: reactive.HookSignalString, A: uint32(sigKey), B: uint32(verKey)}
	})
	return StringSignalHandle{shell: s, sigKey: reactive.SignalKey(entry.A), verKey: reactive.SignalKey(entry.B)}
}

// UseMemo declares a computed-cell hook, recomputing compute whenever the
// memo is dirty (first render, or a tracked source changed, spec §4.4).
func (s *Shell) UseMemo(compute func() any) MemoHandle {
	scope := s.rt.CurrentScope()
	entry, existed := s.rt.Scopes.NextHook(scope, reactive.HookMemo, func() reactive.HookEntry {
		id := s.rt.Memos.Create(scope, nil)
		return reactive.HookEntry{Tag: reactive.HookMemo, A: uint32(id)}
	})
	id := reactive.MemoID(entry.A)
	if !existed || s.rt.Memos.IsDirty(id) {
		s.rt.BeginMemoCompute(id)
		s.rt.EndMemoCompute(id, compute())
	}
	return MemoHandle{shell: s, id: id}
}

// UseEffect declares a side-effect hook, running run whenever the effect
// is pending (first render, or a tracked source changed, spec §4.5).
func (s *Shell) UseEffect(run func()) {
	scope := s.rt.CurrentScope()
	entry, _ := s.rt.Scopes.NextHook(scope, reactive.HookEffect, func() reactive.HookEntry {
		id := s.rt.Effects.Create(scope)
		return reactive.HookEntry{Tag: reactive.HookEffect, A: uint32(id)}
	})
	id := reactive.EffectID(entry.A)
	if s.rt.Effects.IsPending(id) {
		s.rt.BeginEffectRun(id)
		run()
		s.rt.EndEffectRun(id)
	}
}

// EndSetup seals the root scope's hook list (spec §4.13): call once,
// after the initial UseSignal/UseSignalBool/UseSignalString/UseMemo/
// UseEffect calls that declare the component's hooks, mirroring
// ScopeStore.EndRender's hook-count invariant.
func (s *Shell) EndSetup() {
	s.rt.EndRender(reactive.NoScope)
}

// --- Non-hook constructors (spec §4.13): create reactive primitives
// outside hook-list ordering, e.g. for dynamically sized lists where a
// fixed positional slot can't describe the cardinality. ---

// CreateSignal allocates an int64 signal with no hook-order tracking.
func (s *Shell) CreateSignal(initial int64) SignalHandle {
	return SignalHandle{shell: s, key: s.rt.Signals.Create(initial)}
}

// CreateSignalBool allocates a bool signal with no hook-order tracking.
func (s *Shell) CreateSignalBool(initial bool) BoolSignalHandle {
	return BoolSignalHandle{shell: s, key: s.rt.Signals.Create(initial)}
}

// CreateSignalString allocates a string signal with no hook-order tracking.
func (s *Shell) CreateSignalString(initial string) StringSignalHandle {
	strKey := s.strs.Create(initial)
	sigKey := s.rt.Signals.Create(strKey)
	verKey := s.rt.Signals.Create(int64(0))
	return StringSignalHandle{shell: s, sigKey: sigKey, verKey: verKey}
}

// CreateMemo allocates a computed cell owned by scope, with no hook-order
// tracking, and performs its first compute immediately.
func (s *Shell) CreateMemo(scope reactive.ScopeID, compute func() any) MemoHandle {
	id := s.rt.Memos.Create(scope, nil)
	s.rt.BeginMemoCompute(id)
	s.rt.EndMemoCompute(id, compute())
	return MemoHandle{shell: s, id: id}
}
