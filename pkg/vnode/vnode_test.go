package vnode

import "testing"

func TestAllocatorRecyclesViaFreeList(t *testing.T) {
	a := NewAllocator()
	id1 := a.Alloc()
	id2 := a.Alloc()
	if id1 != 1 || id2 != 2 {
		t.Fatalf("expected ids 1,2; got %d,%d", id1, id2)
	}
	a.Free(id1)
	id3 := a.Alloc()
	if id3 != id1 {
		t.Fatalf("expected freed id %d recycled, got %d", id1, id3)
	}
	if a.Live() != 2 {
		t.Fatalf("expected 2 live ids, got %d", a.Live())
	}
}

func TestAllocatorNeverHandsOutMountRoot(t *testing.T) {
	a := NewAllocator()
	for i := 0; i < 5; i++ {
		if id := a.Alloc(); id == MountRootID {
			t.Fatalf("allocator handed out the reserved mount root id")
		}
	}
}

func TestFragmentChildOrderPreserved(t *testing.T) {
	s := NewStore()
	frag := s.PushFragment()
	a := s.PushText("A")
	b := s.PushText("B")
	s.PushFragmentChild(frag, a)
	s.PushFragmentChild(frag, b)
	fragNode := s.Get(frag)
	if len(fragNode.Children) != 2 || fragNode.Children[0] != a || fragNode.Children[1] != b {
		t.Fatalf("expected fragment children [%d,%d], got %v", a, b, fragNode.Children)
	}
}

func TestMountStateTransfer(t *testing.T) {
	oldStore := NewStore()
	oldIx := oldStore.PushText("hi")
	oldStore.SetRootIDs(oldIx, []ElementId{7})

	newStore := NewStore()
	newIx := newStore.PushText("hi")
	newStore.TransferMountState(newIx, oldStore, oldIx)

	if !newStore.IsMounted(newIx) {
		t.Fatalf("expected transferred node marked mounted")
	}
	if newStore.GetRootID(newIx, 0) != 7 {
		t.Fatalf("expected transferred root id 7, got %d", newStore.GetRootID(newIx, 0))
	}
}
