package reactive

import "testing"

func TestSignalEqualSuppression(t *testing.T) {
	rt := NewRuntime()
	key := rt.Signals.Create(int64(0))
	scope := rt.Scopes.Create(0, NoScope)

	prev := rt.BeginRender(scope)
	rt.Read(key)
	rt.EndRender(prev)

	rt.Write(key, int64(0))
	if rt.HasDirty(scope) {
		t.Fatalf("writing an equal value should not dirty subscribers")
	}

	rt.Write(key, int64(1))
	rt.CollectDirty()
	if !rt.HasDirty(scope) {
		t.Fatalf("expected scope to be queued dirty after a real write")
	}
}

func TestScopeReRendersOnSignalWrite(t *testing.T) {
	rt := NewRuntime()
	key := rt.Signals.Create(int64(0))
	scope := rt.Scopes.Create(0, NoScope)

	for i := 0; i < 3; i++ {
		prev := rt.BeginRender(scope)
		rt.Read(key)
		rt.EndRender(prev)
	}
	if rt.Scopes.RenderCount(scope) != 3 {
		t.Fatalf("expected 3 renders, got %d", rt.Scopes.RenderCount(scope))
	}

	rt.Write(key, int64(1))
	rt.CollectDirty()
	id, ok := rt.NextDirty()
	if !ok || id != scope {
		t.Fatalf("expected scope %d queued, got %d ok=%v", scope, id, ok)
	}
}

func TestDependencyPruning(t *testing.T) {
	rt := NewRuntime()
	a := rt.Signals.Create(int64(1))
	b := rt.Signals.Create(int64(2))
	scope := rt.Scopes.Create(0, NoScope)

	prev := rt.BeginRender(scope)
	rt.Read(a)
	rt.Read(b)
	rt.EndRender(prev)

	if len(rt.Signals.Subs(a)) != 1 || len(rt.Signals.Subs(b)) != 1 {
		t.Fatalf("expected scope subscribed to both a and b")
	}

	// Second render only reads a: b should be pruned.
	prev = rt.BeginRender(scope)
	rt.Read(a)
	rt.EndRender(prev)

	if len(rt.Signals.Subs(b)) != 0 {
		t.Fatalf("expected stale subscription to b pruned, got %d", len(rt.Signals.Subs(b)))
	}
	if len(rt.Signals.Subs(a)) != 1 {
		t.Fatalf("expected subscription to a retained")
	}
}

func TestHookCursorMismatchIsFatal(t *testing.T) {
	rt := NewRuntime()
	scope := rt.Scopes.Create(0, NoScope)

	prev := rt.BeginRender(scope)
	rt.Scopes.NextHook(scope, HookSignal, func() HookEntry {
		return HookEntry{Tag: HookSignal, A: uint32(rt.Signals.Create(int64(0)))}
	})
	rt.EndRender(prev)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on hook-tag mismatch across renders")
		}
	}()

	prev = rt.BeginRender(scope)
	defer rt.EndRender(prev)
	rt.Scopes.NextHook(scope, HookEffect, func() HookEntry {
		return HookEntry{Tag: HookEffect}
	})
}

func TestMemoRecomputesAndPropagatesToScope(t *testing.T) {
	rt := NewRuntime()
	source := rt.Signals.Create(int64(2))
	memo := rt.Memos.Create(NoScope, int64(0))
	scope := rt.Scopes.Create(0, NoScope)

	recompute := func() {
		rt.BeginMemoCompute(memo)
		v := rt.Read(source).(int64) * 10
		rt.EndMemoCompute(memo, v)
	}
	recompute()

	prev := rt.BeginRender(scope)
	got := rt.Read(rt.Memos.OutputKey(memo)).(int64)
	rt.EndRender(prev)
	if got != 20 {
		t.Fatalf("expected memo output 20, got %d", got)
	}

	rt.Write(source, int64(3))
	if !rt.Memos.IsDirty(memo) {
		t.Fatalf("expected memo marked dirty after source write")
	}
	recompute()
	if rt.Memos.IsDirty(memo) {
		t.Fatalf("expected memo dirty bit cleared after recompute")
	}

	rt.CollectDirty()
	id, ok := rt.NextDirty()
	if !ok || id != scope {
		t.Fatalf("expected downstream scope queued via memo propagation, got %d ok=%v", id, ok)
	}
}

func TestEffectMarkedPendingBySourceWrite(t *testing.T) {
	rt := NewRuntime()
	key := rt.Signals.Create(int64(0))
	effect := rt.Effects.Create(NoScope)

	rt.BeginEffectRun(effect)
	rt.Read(key)
	rt.EndEffectRun(effect)
	if rt.Effects.IsPending(effect) {
		t.Fatalf("expected pending cleared after run")
	}

	rt.Write(key, int64(5))
	if !rt.Effects.IsPending(effect) {
		t.Fatalf("expected effect marked pending after its source changed")
	}
}

func TestSchedulerHeightOrderAndDedup(t *testing.T) {
	rt := NewRuntime()
	root := rt.Scopes.Create(0, NoScope)
	child := rt.Scopes.CreateChild(root)
	grandchild := rt.Scopes.CreateChild(child)

	rt.CollectOneDirty(grandchild)
	rt.CollectOneDirty(root)
	rt.CollectOneDirty(child)
	rt.CollectOneDirty(root) // duplicate, should not reorder or double-count

	if rt.CountDirty() != 3 {
		t.Fatalf("expected 3 distinct queued scopes, got %d", rt.CountDirty())
	}

	order := []ScopeID{}
	for {
		id, ok := rt.NextDirty()
		if !ok {
			break
		}
		order = append(order, id)
	}
	want := []ScopeID{root, child, grandchild}
	if len(order) != len(want) {
		t.Fatalf("expected %d scopes drained, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected ascending-height order %v, got %v", want, order)
		}
	}
}

func TestMemoDestroyUnsubscribesSources(t *testing.T) {
	rt := NewRuntime()
	source := rt.Signals.Create(int64(1))
	memo := rt.Memos.Create(NoScope, int64(0))

	rt.BeginMemoCompute(memo)
	rt.Read(source)
	rt.EndMemoCompute(memo, int64(1))

	if len(rt.Signals.Subs(source)) != 1 {
		t.Fatalf("expected memo subscribed to source")
	}
	rt.DestroyMemo(memo)
	if len(rt.Signals.Subs(source)) != 0 {
		t.Fatalf("expected source subscription removed after memo destroyed")
	}
}
