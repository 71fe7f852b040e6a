package reactive

// Runtime owns every reactive store plus the single explicit context
// stack and component-scope stack that implement dependency tracking
// (spec §9, "Design Notes — Dependency tracking via context stack").
// Unlike the teacher runtime's per-goroutine tracking map, this is a
// plain field on Runtime: the system is single-threaded end to end
// (spec §5), so no synchronization or goroutine-local storage is needed.
type Runtime struct {
	Signals *SignalStore
	Scopes  *ScopeStore
	Memos   *MemoStore
	Effects *EffectStore
	Dirty   *Scheduler

	contextStack []ContextID
	scopeStack   []ScopeID
	pendingDirty []ScopeID
}

// NewRuntime wires up a fresh, empty set of reactive stores.
func NewRuntime() *Runtime {
	signals := NewSignalStore()
	return &Runtime{
		Signals: signals,
		Scopes:  NewScopeStore(),
		Memos:   NewMemoStore(signals),
		Effects: NewEffectStore(),
		Dirty:   NewScheduler(),
	}
}

// CurrentContext returns the reactive context an implicit Read should
// subscribe to, or (zero, false) if the stack is empty ("no tracking").
func (rt *Runtime) CurrentContext() (ContextID, bool) {
	if n := len(rt.contextStack); n > 0 {
		return rt.contextStack[n-1], true
	}
	return ContextID{}, false
}

// CurrentScope returns the scope currently rendering, or NoScope.
func (rt *Runtime) CurrentScope() ScopeID {
	if n := len(rt.scopeStack); n > 0 {
		return rt.scopeStack[n-1]
	}
	return NoScope
}

func (rt *Runtime) pushContext(ctx ContextID) { rt.contextStack = append(rt.contextStack, ctx) }
func (rt *Runtime) popContext() {
	rt.contextStack = rt.contextStack[:len(rt.contextStack)-1]
}

// --- Signal read/write, routed through the current context ---

// Peek returns a signal's value without subscribing (SignalStore.Peek).
func (rt *Runtime) Peek(key SignalKey) any { return rt.Signals.Peek(key) }

// Read returns a signal's value and, if a reactive context is active,
// subscribes it (spec §4.2).
func (rt *Runtime) Read(key SignalKey) any {
	v := rt.Signals.Peek(key)
	if ctx, ok := rt.CurrentContext(); ok {
		rt.subscribe(key, ctx)
	}
	return v
}

func (rt *Runtime) subscribe(key SignalKey, ctx ContextID) {
	rt.Signals.addSub(key, ctx)
	switch ctx.Kind {
	case ContextScope:
		rt.Scopes.TrackSource(ScopeID(ctx.Index), key)
	case ContextMemo:
		rt.Memos.TrackSource(MemoID(ctx.Index), key)
	case ContextEffect:
		rt.Effects.TrackSource(EffectID(ctx.Index), key)
	}
}

func (rt *Runtime) unsubscribe(key SignalKey, ctx ContextID) {
	rt.Signals.removeSub(key, ctx)
}

// Write sets a signal's value, propagating to every subscriber (spec
// §4.2). A no-op write (equal value) propagates nothing.
func (rt *Runtime) Write(key SignalKey, value any) {
	for _, ctx := range rt.Signals.Write(key, value) {
		rt.notify(ctx)
	}
}

// mutate propagates the subscriber list returned by one of SignalStore's
// compound mutators.
func (rt *Runtime) mutate(subs []ContextID) {
	for _, ctx := range subs {
		rt.notify(ctx)
	}
}

func (rt *Runtime) IAdd(key SignalKey, delta int64)      { rt.mutate(rt.Signals.IAdd(key, delta)) }
func (rt *Runtime) ISub(key SignalKey, delta int64)      { rt.mutate(rt.Signals.ISub(key, delta)) }
func (rt *Runtime) IMul(key SignalKey, factor int64)     { rt.mutate(rt.Signals.IMul(key, factor)) }
func (rt *Runtime) IFloorDiv(key SignalKey, divisor int64) {
	rt.mutate(rt.Signals.IFloorDiv(key, divisor))
}
func (rt *Runtime) IMod(key SignalKey, divisor int64) { rt.mutate(rt.Signals.IMod(key, divisor)) }
func (rt *Runtime) Toggle(key SignalKey)              { rt.mutate(rt.Signals.Toggle(key)) }

// notify dispatches a single subscriber notification: a scope is marked
// dirty and enqueued; a memo sets its dirty bit, touches its
// context-marker signal, and republishes through its output signal's
// subscribers (so memo→memo and memo→scope chains propagate, spec §4.4);
// an effect is marked pending. This is the recursive "publish" described
// in spec §4.2/§4.4.
func (rt *Runtime) notify(ctx ContextID) {
	switch ctx.Kind {
	case ContextScope:
		rt.markScopeDirty(ScopeID(ctx.Index))
	case ContextMemo:
		id := MemoID(ctx.Index)
		rt.Memos.SetDirty(id)
		marker := rt.Memos.MarkerKey(id)
		rt.Signals.Write(marker, rt.Signals.Peek(marker).(int64)+1)
		for _, sub := range rt.Signals.Subs(rt.Memos.OutputKey(id)) {
			rt.notify(sub)
		}
	case ContextEffect:
		rt.Effects.MarkPending(EffectID(ctx.Index))
	}
}

func (rt *Runtime) markScopeDirty(id ScopeID) {
	rt.Scopes.SetDirty(id)
	rt.pendingDirty = append(rt.pendingDirty, id)
}

// --- Scope render nesting ---

// BeginRender pushes scope onto both stacks and returns the previously
// current scope (spec §4.3).
func (rt *Runtime) BeginRender(scope ScopeID) ScopeID {
	prev := rt.CurrentScope()
	rt.Scopes.BeginRender(scope)
	rt.pushContext(scopeContext(scope))
	rt.scopeStack = append(rt.scopeStack, scope)
	return prev
}

// EndRender pops both stacks, pruning subscriptions the scope no longer
// reads, restoring prevScope as current.
func (rt *Runtime) EndRender(prevScope ScopeID) {
	scope := rt.CurrentScope()
	rt.Scopes.EndRender(scope, func(stale SignalKey) {
		rt.unsubscribe(stale, scopeContext(scope))
	})
	rt.popContext()
	rt.scopeStack = rt.scopeStack[:len(rt.scopeStack)-1]
	_ = prevScope
}

// --- Memo compute nesting ---

// BeginMemoCompute pushes memo as the current reactive context.
func (rt *Runtime) BeginMemoCompute(memo MemoID) {
	rt.Memos.BeginCompute(memo)
	rt.pushContext(memoContext(memo))
}

// EndMemoCompute pops the context, writes value to the output signal,
// clears dirty, prunes stale sources, and propagates downstream.
func (rt *Runtime) EndMemoCompute(memo MemoID, value any) {
	rt.popContext()
	subs := rt.Memos.EndCompute(memo, value, func(stale SignalKey) {
		rt.unsubscribe(stale, memoContext(memo))
	})
	for _, ctx := range subs {
		rt.notify(ctx)
	}
}

// RecomputeMemoFrom is the push/pop-less convenience form.
func (rt *Runtime) RecomputeMemoFrom(memo MemoID, value any) {
	subs := rt.Memos.RecomputeFrom(memo, value, func(stale SignalKey) {
		rt.unsubscribe(stale, memoContext(memo))
	})
	for _, ctx := range subs {
		rt.notify(ctx)
	}
}

// DestroyMemo unsubscribes memo from all its inputs and destroys it.
func (rt *Runtime) DestroyMemo(memo MemoID) {
	rt.Memos.Destroy(memo, rt.unsubscribe)
}

// --- Effect run nesting ---

// BeginEffectRun pushes effect as the current reactive context.
func (rt *Runtime) BeginEffectRun(effect EffectID) {
	rt.Effects.BeginRun(effect)
	rt.pushContext(effectContext(effect))
}

// EndEffectRun pops the context, clears pending, and prunes stale
// sources.
func (rt *Runtime) EndEffectRun(effect EffectID) {
	rt.popContext()
	rt.Effects.EndRun(effect, func(stale SignalKey) {
		rt.unsubscribe(stale, effectContext(effect))
	})
}

// DestroyEffect unsubscribes effect from all its inputs and destroys it.
func (rt *Runtime) DestroyEffect(effect EffectID) {
	rt.Effects.Destroy(effect, rt.unsubscribe)
}

// --- Dirty queue / scheduler plumbing ---

// CollectDirty drains the per-frame dirty list accumulated by signal
// writes into the Scheduler, skipping scopes already queued (spec §4.6).
// This is the frame boundary: it resets the Scheduler's drain budget before
// queuing this frame's dirty scopes, so NextDirty can hand out up to
// MaxDrainPerFrame scopes again even if a prior frame exhausted its budget.
func (rt *Runtime) CollectDirty() {
	rt.Dirty.StartFrame()
	for _, scope := range rt.pendingDirty {
		if rt.Scopes.Alive(scope) {
			rt.Dirty.CollectOne(scope, rt.Scopes.Height(scope))
		}
	}
	rt.pendingDirty = rt.pendingDirty[:0]
}

// CollectOneDirty inserts a single scope directly into the Scheduler.
func (rt *Runtime) CollectOneDirty(scope ScopeID) {
	rt.Dirty.CollectOne(scope, rt.Scopes.Height(scope))
}

// NextDirty pops the lowest-height queued scope, subject to the
// Scheduler's per-frame drain budget (spec §7 capacity bucket).
func (rt *Runtime) NextDirty() (ScopeID, bool) { return rt.Dirty.Next() }

// StartFrame resets the Scheduler's drain-budget counter; call once per
// frame before draining dirty scopes.
func (rt *Runtime) StartFrame() { rt.Dirty.StartFrame() }

// SetDrainBudget caps how many scopes NextDirty hands out per frame.
func (rt *Runtime) SetDrainBudget(n int) { rt.Dirty.SetDrainBudget(n) }

// HasDirty, CountDirty, IsDirtyEmpty, ClearDirty forward to the Scheduler.
func (rt *Runtime) HasDirty(scope ScopeID) bool { return rt.Dirty.Has(scope) }
func (rt *Runtime) CountDirty() int             { return rt.Dirty.Count() }
func (rt *Runtime) IsDirtyEmpty() bool          { return rt.Dirty.IsEmpty() }
func (rt *Runtime) ClearDirty()                 { rt.Dirty.Clear() }
