// Package reactive implements the reactive graph: signals, memos, effects,
// component scopes, and the height-ordered dirty-scope scheduler (spec
// §4.2–§4.6). Everything is index-addressed into dense arenas with free
// lists, grounded on the teacher runtime's arena-of-structs style but
// adapted from its goroutine-safe, mutex-guarded design to the spec's
// single-threaded model (§5): one explicit context stack lives on the
// Runtime, not in a per-goroutine map.
package reactive

// SignalKey indexes a cell in a SignalStore. Re-used via a free list.
type SignalKey uint32

// ScopeID indexes a component scope in a ScopeStore. -1 names "no scope"
// (the sentinel used for a root scope's parent).
type ScopeID int32

// NoScope is the sentinel parent/owner value for a root scope.
const NoScope ScopeID = -1

// MemoID indexes a computed cell in a MemoStore.
type MemoID uint32

// EffectID indexes a side-effect runner in an EffectStore.
type EffectID uint32

// ContextKind partitions a ContextID's namespace: a scope, a memo, or an
// effect can each be "the current reactive context" that signal reads
// subscribe to.
type ContextKind uint8

const (
	ContextScope ContextKind = iota
	ContextMemo
	ContextEffect
)

// ContextID identifies any reactive-context consumer: the top of the
// Runtime's context stack names the reader that an implicit Signal.Read
// should subscribe to.
type ContextID struct {
	Kind  ContextKind
	Index uint32
}

func scopeContext(id ScopeID) ContextID   { return ContextID{Kind: ContextScope, Index: uint32(id)} }
func memoContext(id MemoID) ContextID     { return ContextID{Kind: ContextMemo, Index: uint32(id)} }
func effectContext(id EffectID) ContextID { return ContextID{Kind: ContextEffect, Index: uint32(id)} }
