package mutation

import (
	"reflect"
	"testing"
)

func TestRoundTripAllOpcodes(t *testing.T) {
	w := NewWriter(make([]byte, 0, 4096), 4096)
	mustOK(t, w.LoadTemplate(7, 0, 1))
	mustOK(t, w.AssignId([]uint8{0, 1}, 2))
	mustOK(t, w.CreatePlaceholder(3))
	mustOK(t, w.CreateTextNode(4, "hello"))
	mustOK(t, w.SetText(4, "world"))
	mustOK(t, w.SetAttribute(2, NamespaceDefault, "class", "active"))
	mustOK(t, w.NewEventListener(2, "click"))
	mustOK(t, w.RemoveEventListener(2, "click"))
	mustOK(t, w.AppendChildren(1, 3))
	mustOK(t, w.ReplaceWith(1, 1))
	mustOK(t, w.ReplacePlaceholder([]uint8{0}, 1))
	mustOK(t, w.InsertAfter(1, 2))
	mustOK(t, w.InsertBefore(1, 2))
	mustOK(t, w.Remove(3))
	mustOK(t, w.PushRoot(0))
	if _, err := w.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	r := NewReader(w.Bytes())
	want := []Instr{
		{Op: OpLoadTemplate, TmplID: 7, Root: 0, ID: 1},
		{Op: OpAssignId, Path: []uint8{0, 1}, ID: 2},
		{Op: OpCreatePlaceholder, ID: 3},
		{Op: OpCreateTextNode, ID: 4, Text: "hello"},
		{Op: OpSetText, ID: 4, Text: "world"},
		{Op: OpSetAttribute, ID: 2, NS: NamespaceDefault, Name: "class", Value: "active"},
		{Op: OpNewEventListener, ID: 2, Name: "click"},
		{Op: OpRemoveEventListener, ID: 2, Name: "click"},
		{Op: OpAppendChildren, ID: 1, M: 3},
		{Op: OpReplaceWith, ID: 1, M: 1},
		{Op: OpReplacePlaceholder, Path: []uint8{0}, M: 1},
		{Op: OpInsertAfter, ID: 1, M: 2},
		{Op: OpInsertBefore, ID: 1, M: 2},
		{Op: OpRemove, ID: 3},
		{Op: OpPushRoot, ID: 0},
		{Op: OpEnd},
	}
	for i, w := range want {
		got := r.Next()
		if !reflect.DeepEqual(got, w) {
			t.Fatalf("instr %d: got %+v, want %+v", i, got, w)
		}
	}
	if !r.Done() {
		t.Fatalf("expected reader exhausted after End")
	}
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWriterRefusesOverflow(t *testing.T) {
	w := NewWriter(make([]byte, 0, 4), 4)
	if err := w.CreateTextNode(1, "this text is much too long to fit"); err == nil {
		t.Fatalf("expected capacity error, got nil")
	}
}

func TestEmptyBufferIsEmptyFrame(t *testing.T) {
	w := NewWriter(nil, 16)
	n, err := w.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 byte (End sentinel), got %d", n)
	}
	r := NewReader(w.Bytes())
	instr := r.Next()
	if instr.Op != OpEnd {
		t.Fatalf("expected OpEnd, got %v", instr.Op)
	}
}

func TestUnknownOpcodeIsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on unknown opcode")
		}
	}()
	r := NewReader([]byte{0xFE})
	r.Next()
}

func TestTruncatedBufferIsFatal(t *testing.T) {
	// A well-formed CreateTextNode header promising 100 bytes of text that
	// the buffer does not actually contain.
	adversarial := []byte{byte(OpCreateTextNode), 1, 0, 0, 0, 100, 0, 0, 0}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on truncated operand")
		}
	}()
	r := NewReader(adversarial)
	r.Next()
}

func TestAssignIdPathCappedAt255(t *testing.T) {
	w := NewWriter(make([]byte, 0, 1024), 1024)
	path := make([]uint8, 256)
	if err := w.AssignId(path, 1); err == nil {
		t.Fatalf("expected out-of-range error for a 256-entry path")
	}
}
