package vnode

// ElementId names a live DOM node (spec §3). Id 0 is reserved for the
// mount root registered at interpreter construction; Allocator never
// hands it out.
type ElementId uint32

// MountRootID is the reserved id of the interpreter's mount root.
const MountRootID ElementId = 0

// Allocator is a monotonic id allocator with a free list, so ids are
// recycled after Remove/ReplaceWith retires their DOM node (spec §3).
// Single-threaded: no synchronization, matching spec §5.
type Allocator struct {
	next ElementId
	free []ElementId
}

// NewAllocator creates an Allocator whose first Alloc returns 1.
func NewAllocator() *Allocator {
	return &Allocator{next: 1}
}

// Alloc returns a fresh or recycled ElementId, never MountRootID.
func (a *Allocator) Alloc() ElementId {
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		return id
	}
	id := a.next
	a.next++
	return id
}

// Free returns id to the pool for reuse. Freeing MountRootID is ignored.
func (a *Allocator) Free(id ElementId) {
	if id == MountRootID {
		return
	}
	a.free = append(a.free, id)
}

// Live reports how many ids are currently allocated (not counting the
// reserved mount root).
func (a *Allocator) Live() int {
	return int(a.next) - 1 - len(a.free)
}
