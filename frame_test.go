package vireo

import (
	"testing"

	"github.com/vireo-dev/vireo/pkg/mutation"
	"github.com/vireo-dev/vireo/pkg/template"
)

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

func newWriter() *mutation.Writer {
	return mutation.NewWriter(make([]byte, 0, 4096), 4096)
}

// TestCounterEndToEnd mounts a counter component, resolves its click
// handlers through the VNode tree (the same path BindInterpreter's
// findHandler uses), dispatches an increment, and flushes the updated
// frame — exercising hooks.go, handlers.go, view.go and frame.go together.
func TestCounterEndToEnd(t *testing.T) {
	s := NewShell()
	count := s.UseSignal(0)
	addHandler := s.OnClickAdd(count, 1)
	subHandler := s.OnClickSub(count, 1)
	// The root's render reads count (for the "Count: N" text below), which
	// subscribes the root scope to it.
	_ = count.Get()
	s.EndSetup()

	tmplID := s.RegisterTemplate("counter", buildCounterTemplate())

	b := s.NewRenderBuilder()
	ix := b.TemplateRef(tmplID)
	b.DynText(ix, "Count: 0")
	b.DynAttrEvent(ix, "click", addHandler)
	b.DynAttrEvent(ix, "click", subHandler)

	w := newWriter()
	if _, err := s.Mount(w, b, ix); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if _, err := s.Finalize(w); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if got := count.Peek(); got != 0 {
		t.Fatalf("count after mount = %d, want 0", got)
	}

	node := b.Store().Get(ix)
	if len(node.DynAttrIDs) != 2 {
		t.Fatalf("DynAttrIDs len = %d, want 2", len(node.DynAttrIDs))
	}
	plusID := node.DynAttrIDs[0]

	handlerID, ok := s.lookupHandler(plusID, "click")
	if !ok {
		t.Fatal("lookupHandler did not resolve the + button's handler")
	}
	if handlerID != addHandler {
		t.Fatalf("handlerID = %d, want %d", handlerID, addHandler)
	}

	if err := s.DispatchEvent(handlerID, "click"); err != nil {
		t.Fatalf("DispatchEvent: %v", err)
	}
	if got := count.Peek(); got != 1 {
		t.Fatalf("count after dispatch = %d, want 1", got)
	}

	root, ok := s.NextDirty()
	if !ok {
		t.Fatal("expected root scope to be dirty after DispatchEvent")
	}
	if root != s.Root() {
		t.Fatalf("dirty scope = %v, want root %v", root, s.Root())
	}

	b2 := s.NewRenderBuilder()
	ix2 := b2.TemplateRef(tmplID)
	b2.DynText(ix2, "Count: 1")
	b2.DynAttrEvent(ix2, "click", addHandler)
	b2.DynAttrEvent(ix2, "click", subHandler)

	w2 := newWriter()
	if err := s.Flush(w2, b2, ix2); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if w2.Len() == 0 {
		t.Fatal("Flush produced an empty buffer")
	}
}

func TestDispatchEventUnknownHandlerIsReported(t *testing.T) {
	s := NewShell()
	s.EndSetup()

	if err := s.DispatchEvent(999, "click"); err == nil {
		t.Fatal("expected an error for an out-of-range handler id")
	}
}

func TestOnClickToggleFlipsBoolSignal(t *testing.T) {
	s := NewShell()
	open := s.UseSignalBool(false)
	handler := s.OnClickToggle(open)
	s.EndSetup()

	if err := s.DispatchEvent(handler, "click"); err != nil {
		t.Fatalf("DispatchEvent: %v", err)
	}
	if !open.Peek() {
		t.Fatal("expected bool signal to flip to true")
	}
}

func TestOnInputSetWritesFixedValue(t *testing.T) {
	s := NewShell()
	name := s.UseSignalString("")
	handler := s.OnInputSet(name, "hello")
	s.EndSetup()

	if err := s.DispatchEvent(handler, "input"); err != nil {
		t.Fatalf("DispatchEvent: %v", err)
	}
	if got := name.Peek(); got != "hello" {
		t.Fatalf("name = %q, want %q", got, "hello")
	}
}

func TestDiffBeforeMountIsReported(t *testing.T) {
	s := NewShell()
	s.EndSetup()
	tmplID := s.RegisterTemplate("counter", buildCounterTemplate())
	b := s.NewRenderBuilder()
	ix := b.TemplateRef(tmplID)
	b.DynText(ix, "Count: 0")
	b.DynAttrEvent(ix, "click", 0)
	b.DynAttrEvent(ix, "click", 0)

	w := newWriter()
	if err := s.Diff(w, b, ix); err == nil {
		t.Fatal("expected Diff before Mount to be reported as an error")
	}
}
