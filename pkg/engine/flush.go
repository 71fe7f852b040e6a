package engine

import (
	"github.com/vireo-dev/vireo/pkg/mutation"
	"github.com/vireo-dev/vireo/pkg/template"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

// Mount drives a whole-frame CreateEngine pass over ix, splices the
// resulting roots under the reserved mount root (spec §8 scenario 1:
// "...AppendChildren to root"), and terminates the buffer with the End
// sentinel. Use this from the frame surface instead of calling Create
// directly so every emitted buffer is self-terminating and attached.
func Mount(w *mutation.Writer, alloc *vnode.Allocator, reg *template.Registry, store *vnode.Store, ix int) (int, error) {
	n, err := Create(w, alloc, reg, store, ix)
	if err != nil {
		return n, err
	}
	if n > 0 {
		if err := w.AppendChildren(uint32(vnode.MountRootID), uint32(n)); err != nil {
			return n, err
		}
	}
	if _, err := w.Finalize(); err != nil {
		return n, err
	}
	return n, nil
}

// Flush drives a whole-frame DiffEngine pass between oldIx (previous
// frame) and newIx (current frame) and terminates the buffer with the End
// sentinel (spec §4.11 step 7). This is the entry point the frame surface
// calls once per render; Diff itself is reentrant and recursion-only.
func Flush(w *mutation.Writer, alloc *vnode.Allocator, reg *template.Registry, oldStore *vnode.Store, oldIx int, newStore *vnode.Store, newIx int) error {
	if err := Diff(w, alloc, reg, oldStore, oldIx, newStore, newIx); err != nil {
		return err
	}
	_, err := w.Finalize()
	return err
}
