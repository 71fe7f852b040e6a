package engine

import (
	"testing"

	"github.com/vireo-dev/vireo/pkg/mutation"
	"github.com/vireo-dev/vireo/pkg/template"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

// buildCounterTemplate mirrors spec §8 scenario 1:
// <div><span>{dyntext0}</span><button>+</button><button>-</button></div>
func buildCounterTemplate() *template.Template {
	b := template.NewBuilder()
	div := b.Element(template.TagDIV, -1)
	span := b.Element(template.TagSPAN, div)
	b.DynamicText(0, span)
	plus := b.Element(template.TagBUTTON, div)
	b.DynamicAttr(0, plus)
	minus := b.Element(template.TagBUTTON, div)
	b.DynamicAttr(1, minus)
	return b.Build()
}

func counterVNode(store *vnode.Store, tmplID template.TemplateId, count string) int {
	ix := store.PushTemplateRef(tmplID)
	store.PushDynamicText(ix, count)
	store.PushDynamicAttrEvent(ix, "click", 1)
	store.PushDynamicAttrEvent(ix, "click", 2)
	return ix
}

func newBuf() *mutation.Writer {
	return mutation.NewWriter(make([]byte, 0, 4096), 4096)
}

func TestMountCounterEmitsMinimalOpcodes(t *testing.T) {
	reg := template.NewRegistry()
	tmplID := reg.Register(buildCounterTemplate())

	store := vnode.NewStore()
	ix := counterVNode(store, tmplID, "Count: 0")

	alloc := vnode.NewAllocator()
	w := newBuf()
	n, err := Mount(w, alloc, reg, store, ix)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if n != 1 {
		t.Fatalf("root count = %d, want 1", n)
	}

	r := mutation.NewReader(w.Bytes())
	instrs := r.All()

	var sawLoadTemplate, sawAssignId, sawSetText, sawListeners, sawEnd bool
	listenerCount := 0
	for _, in := range instrs {
		switch in.Op {
		case mutation.OpLoadTemplate:
			sawLoadTemplate = true
		case mutation.OpAssignId:
			sawAssignId = true
		case mutation.OpSetText:
			sawSetText = true
			if in.Text != "Count: 0" {
				t.Errorf("SetText value = %q, want %q", in.Text, "Count: 0")
			}
		case mutation.OpNewEventListener:
			listenerCount++
			sawListeners = true
		case mutation.OpEnd:
			sawEnd = true
		}
	}
	if !sawLoadTemplate || !sawAssignId || !sawSetText || !sawListeners || !sawEnd {
		t.Fatalf("missing expected opcode in mount stream: %+v", instrs)
	}
	if listenerCount != 2 {
		t.Fatalf("listener count = %d, want 2", listenerCount)
	}
}

func TestFlushCounterAfterThreeIncrements(t *testing.T) {
	reg := template.NewRegistry()
	tmplID := reg.Register(buildCounterTemplate())
	alloc := vnode.NewAllocator()

	oldStore := vnode.NewStore()
	oldIx := counterVNode(oldStore, tmplID, "Count: 0")
	mw := newBuf()
	if _, err := Mount(mw, alloc, reg, oldStore, oldIx); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	newStore := vnode.NewStore()
	newIx := counterVNode(newStore, tmplID, "Count: 3")

	fw := newBuf()
	if err := Flush(fw, alloc, reg, oldStore, oldIx, newStore, newIx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := mutation.NewReader(fw.Bytes())
	instrs := r.All()
	if len(instrs) != 2 {
		t.Fatalf("instrs = %+v, want exactly [SetText, End]", instrs)
	}
	if instrs[0].Op != mutation.OpSetText || instrs[0].Text != "Count: 3" {
		t.Fatalf("instrs[0] = %+v, want SetText(\"Count: 3\")", instrs[0])
	}
	if instrs[1].Op != mutation.OpEnd {
		t.Fatalf("instrs[1] = %+v, want End", instrs[1])
	}
}

func TestDiffEngineIdempotence(t *testing.T) {
	reg := template.NewRegistry()
	tmplID := reg.Register(buildCounterTemplate())
	alloc := vnode.NewAllocator()

	oldStore := vnode.NewStore()
	oldIx := counterVNode(oldStore, tmplID, "Count: 5")
	mw := newBuf()
	if _, err := Mount(mw, alloc, reg, oldStore, oldIx); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	newStore := vnode.NewStore()
	newIx := counterVNode(newStore, tmplID, "Count: 5")

	fw := newBuf()
	if err := Flush(fw, alloc, reg, oldStore, oldIx, newStore, newIx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := mutation.NewReader(fw.Bytes())
	instrs := r.All()
	if len(instrs) != 1 || instrs[0].Op != mutation.OpEnd {
		t.Fatalf("instrs = %+v, want only End", instrs)
	}
}

func TestCreateThenDiffTransfersRootIDs(t *testing.T) {
	reg := template.NewRegistry()
	tmplID := reg.Register(buildCounterTemplate())
	alloc := vnode.NewAllocator()

	oldStore := vnode.NewStore()
	oldIx := counterVNode(oldStore, tmplID, "Count: 1")
	mw := newBuf()
	if _, err := Mount(mw, alloc, reg, oldStore, oldIx); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	newStore := vnode.NewStore()
	newIx := counterVNode(newStore, tmplID, "Count: 2")
	fw := newBuf()
	if err := Flush(fw, alloc, reg, oldStore, oldIx, newStore, newIx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if newStore.RootIDCount(newIx) != oldStore.RootIDCount(oldIx) {
		t.Fatalf("root id count mismatch")
	}
	for i := 0; i < newStore.RootIDCount(newIx); i++ {
		if newStore.GetRootID(newIx, i) != oldStore.GetRootID(oldIx, i) {
			t.Fatalf("root id %d not transferred", i)
		}
	}
}

// TestDiffFragmentRemovedTail mirrors spec §8 scenario 3.
func TestDiffFragmentRemovedTail(t *testing.T) {
	reg := template.NewRegistry()
	alloc := vnode.NewAllocator()

	oldStore := vnode.NewStore()
	frag := oldStore.PushFragment()
	a := oldStore.PushText("A")
	b := oldStore.PushText("B")
	c := oldStore.PushText("C")
	oldStore.PushFragmentChild(frag, a)
	oldStore.PushFragmentChild(frag, b)
	oldStore.PushFragmentChild(frag, c)
	mw := newBuf()
	if _, err := Mount(mw, alloc, reg, oldStore, frag); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	bID := oldStore.GetRootID(b, 0)
	cID := oldStore.GetRootID(c, 0)
	liveBefore := alloc.Live()

	newStore := vnode.NewStore()
	newFrag := newStore.PushFragment()
	newA := newStore.PushText("A")
	newStore.PushFragmentChild(newFrag, newA)

	fw := newBuf()
	if err := Flush(fw, alloc, reg, oldStore, frag, newStore, newFrag); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := mutation.NewReader(fw.Bytes())
	instrs := r.All()
	removed := map[uint32]bool{}
	for _, in := range instrs {
		if in.Op == mutation.OpRemove {
			removed[in.ID] = true
		}
	}
	if !removed[uint32(bID)] || !removed[uint32(cID)] {
		t.Fatalf("expected Remove for B and C ids, got %+v", instrs)
	}
	if alloc.Live() != liveBefore-2 {
		t.Fatalf("freed ids did not return to allocator: live=%d want=%d", alloc.Live(), liveBefore-2)
	}
	if newStore.GetRootID(newA, 0) != oldStore.GetRootID(a, 0) {
		t.Fatalf("surviving A's id was not transferred")
	}
}

// TestDiffFragmentAddedTail mirrors spec §8 scenario 4.
func TestDiffFragmentAddedTail(t *testing.T) {
	reg := template.NewRegistry()
	alloc := vnode.NewAllocator()

	oldStore := vnode.NewStore()
	frag := oldStore.PushFragment()
	a := oldStore.PushText("A")
	oldStore.PushFragmentChild(frag, a)
	mw := newBuf()
	if _, err := Mount(mw, alloc, reg, oldStore, frag); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	aID := oldStore.GetRootID(a, 0)

	newStore := vnode.NewStore()
	newFrag := newStore.PushFragment()
	newA := newStore.PushText("A")
	newB := newStore.PushText("B")
	newC := newStore.PushText("C")
	newStore.PushFragmentChild(newFrag, newA)
	newStore.PushFragmentChild(newFrag, newB)
	newStore.PushFragmentChild(newFrag, newC)

	fw := newBuf()
	if err := Flush(fw, alloc, reg, oldStore, frag, newStore, newFrag); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := mutation.NewReader(fw.Bytes())
	instrs := r.All()
	if len(instrs) != 4 {
		t.Fatalf("instrs = %+v, want [CreateTextNode, CreateTextNode, InsertAfter, End]", instrs)
	}
	if instrs[0].Op != mutation.OpCreateTextNode || instrs[1].Op != mutation.OpCreateTextNode {
		t.Fatalf("expected two CreateTextNode ops, got %+v", instrs[:2])
	}
	if instrs[2].Op != mutation.OpInsertAfter || instrs[2].ID != uint32(aID) || instrs[2].M != 2 {
		t.Fatalf("instrs[2] = %+v, want InsertAfter(%d, 2)", instrs[2], aID)
	}
	if instrs[3].Op != mutation.OpEnd {
		t.Fatalf("instrs[3] = %+v, want End", instrs[3])
	}
}

// TestDiffKeyedFragmentReorder exercises the keyed fast path (spec
// §4.11.6/§9): two keyed items swapping position must transfer both
// nodes' ids (no recreation). Row "b" moves to the head, where there is
// no prior sibling to anchor against yet (left for the caller, same as
// the positional path's min==0 boundary); row "a" then moves via
// PushRoot + InsertAfter to land immediately after "b".
func TestDiffKeyedFragmentReorder(t *testing.T) {
	reg := template.NewRegistry()
	b := template.NewBuilder()
	b.Text("row", -1)
	tmplID := reg.Register(b.Build())
	alloc := vnode.NewAllocator()

	oldStore := vnode.NewStore()
	frag := oldStore.PushFragment()
	rowA := oldStore.PushTemplateRefKeyed(tmplID, "a")
	rowB := oldStore.PushTemplateRefKeyed(tmplID, "b")
	oldStore.PushFragmentChild(frag, rowA)
	oldStore.PushFragmentChild(frag, rowB)
	mw := newBuf()
	if _, err := Mount(mw, alloc, reg, oldStore, frag); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	aID := oldStore.GetRootID(rowA, 0)
	bID := oldStore.GetRootID(rowB, 0)
	liveBefore := alloc.Live()

	newStore := vnode.NewStore()
	newFrag := newStore.PushFragment()
	newB := newStore.PushTemplateRefKeyed(tmplID, "b")
	newA := newStore.PushTemplateRefKeyed(tmplID, "a")
	newStore.PushFragmentChild(newFrag, newB)
	newStore.PushFragmentChild(newFrag, newA)

	fw := newBuf()
	if err := Flush(fw, alloc, reg, oldStore, frag, newStore, newFrag); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := mutation.NewReader(fw.Bytes())
	instrs := r.All()

	var sawPushRoot, sawMove, sawReplace bool
	for _, in := range instrs {
		switch in.Op {
		case mutation.OpPushRoot:
			sawPushRoot = true
			if in.ID != uint32(aID) {
				t.Errorf("PushRoot id = %d, want the moved row's id %d", in.ID, aID)
			}
		case mutation.OpInsertAfter:
			sawMove = true
			if in.ID != uint32(bID) {
				t.Errorf("InsertAfter anchor = %d, want %d", in.ID, bID)
			}
		case mutation.OpReplaceWith, mutation.OpCreateTextNode:
			sawReplace = true
		}
	}
	if !sawPushRoot || !sawMove {
		t.Fatalf("expected a PushRoot+InsertAfter move, got %+v", instrs)
	}
	if sawReplace {
		t.Fatalf("keyed swap should reuse ids, not recreate: %+v", instrs)
	}
	if alloc.Live() != liveBefore {
		t.Fatalf("keyed swap should not change live id count: live=%d want=%d", alloc.Live(), liveBefore)
	}
	if newStore.GetRootID(newA, 0) != aID || newStore.GetRootID(newB, 0) != bID {
		t.Fatal("keyed swap did not transfer both rows' ids")
	}
}

// TestTemplateKindSwap mirrors spec §8 scenario 5.
func TestTemplateKindSwap(t *testing.T) {
	reg := template.NewRegistry()
	b7 := template.NewBuilder()
	b7.Text("seven", -1)
	tmpl7 := reg.Register(b7.Build())

	b8 := template.NewBuilder()
	b8.Text("eight", -1)
	tmpl8 := reg.Register(b8.Build())

	alloc := vnode.NewAllocator()
	oldStore := vnode.NewStore()
	oldIx := oldStore.PushTemplateRef(tmpl7)
	mw := newBuf()
	if _, err := Mount(mw, alloc, reg, oldStore, oldIx); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	oldRootID := oldStore.GetRootID(oldIx, 0)

	newStore := vnode.NewStore()
	newIx := newStore.PushTemplateRef(tmpl8)

	fw := newBuf()
	if err := Flush(fw, alloc, reg, oldStore, oldIx, newStore, newIx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := mutation.NewReader(fw.Bytes())
	instrs := r.All()
	if len(instrs) < 2 {
		t.Fatalf("instrs too short: %+v", instrs)
	}
	first := instrs[0]
	if first.Op != mutation.OpLoadTemplate || first.TmplID != uint32(tmpl8) || first.Root != 0 {
		t.Fatalf("instrs[0] = %+v, want LoadTemplate(%d, 0, _)", first, tmpl8)
	}
	last := instrs[len(instrs)-2]
	if last.Op != mutation.OpReplaceWith || last.ID != uint32(oldRootID) || last.M != 1 {
		t.Fatalf("penultimate = %+v, want ReplaceWith(%d, 1)", last, oldRootID)
	}
	if instrs[len(instrs)-1].Op != mutation.OpEnd {
		t.Fatalf("last instr = %+v, want End", instrs[len(instrs)-1])
	}
}

// TestPlaceholderReplacement mirrors spec §8 scenario 7:
// <div><!--ph--></div> with a VNode filling the Dynamic slot with text.
func TestPlaceholderReplacement(t *testing.T) {
	reg := template.NewRegistry()
	b := template.NewBuilder()
	div := b.Element(template.TagDIV, -1)
	b.Dynamic(0, div)
	tmplID := reg.Register(b.Build())

	alloc := vnode.NewAllocator()
	store := vnode.NewStore()
	ix := store.PushTemplateRef(tmplID)
	store.PushDynamicTextNode(ix, "hello")

	w := newBuf()
	n, err := Mount(w, alloc, reg, store, ix)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if n != 1 {
		t.Fatalf("root count = %d, want 1", n)
	}

	r := mutation.NewReader(w.Bytes())
	instrs := r.All()

	var sawLoadTemplate, sawCreateText, sawReplacePlaceholder bool
	for _, in := range instrs {
		switch in.Op {
		case mutation.OpLoadTemplate:
			sawLoadTemplate = true
		case mutation.OpCreateTextNode:
			sawCreateText = true
			if in.Text != "hello" {
				t.Errorf("CreateTextNode text = %q, want %q", in.Text, "hello")
			}
		case mutation.OpReplacePlaceholder:
			sawReplacePlaceholder = true
			if in.M != 1 {
				t.Errorf("ReplacePlaceholder m = %d, want 1", in.M)
			}
		}
	}
	if !sawLoadTemplate || !sawCreateText || !sawReplacePlaceholder {
		t.Fatalf("missing expected opcode in mount stream: %+v", instrs)
	}
	if alloc.Live() == 0 {
		t.Fatal("dynamic node slot did not receive a live ElementId")
	}
}

func TestDiffAttrTransitionEventToText(t *testing.T) {
	id := vnode.ElementId(42)
	w := newBuf()
	old := vnode.DynAttr{Kind: vnode.AttrEvent, Name: "click", HandlerID: 1}
	newer := vnode.DynAttr{Kind: vnode.AttrText, Name: "click", Text: "disabled-label"}
	if err := diffAttr(w, id, old, newer); err != nil {
		t.Fatalf("diffAttr: %v", err)
	}
	r := mutation.NewReader(w.Bytes())
	instrs := r.All()
	if len(instrs) != 2 {
		t.Fatalf("instrs = %+v, want [RemoveEventListener, SetAttribute]", instrs)
	}
	if instrs[0].Op != mutation.OpRemoveEventListener {
		t.Fatalf("instrs[0].Op = %v, want RemoveEventListener", instrs[0].Op)
	}
	if instrs[1].Op != mutation.OpSetAttribute || instrs[1].Value != "disabled-label" {
		t.Fatalf("instrs[1] = %+v", instrs[1])
	}
}
