// Package engine implements CreateEngine and DiffEngine (spec §4.10,
// §4.11): the two traversals that turn a VNode tree into mutation
// opcodes, either materializing it fresh or patching it against a prior
// frame. Grounded on the teacher's diff engine (pkg/vdom/diff.go) for
// the overall walk/emit shape, adapted to this system's template +
// AssignId addressing scheme instead of the teacher's per-node VDOM diff.
package engine

import "github.com/vireo-dev/vireo/pkg/template"

// pathTo returns the sequence of child-position indices (not node
// indices) that locate target starting from root, per spec §4.10's
// "path is the sequence of child indices from the root to the slot's
// parent element (or to the slot itself for Dynamic)." Walking up via
// Parent and recording each step's position in its parent's Children
// keeps this O(depth) with no template-wide allocation (spec §9).
func pathTo(tmpl *template.Template, rootIx int, targetIx int) []uint8 {
	if targetIx == rootIx {
		return nil
	}
	var reversed []uint8
	cur := targetIx
	for cur != rootIx {
		parent := tmpl.Parent(cur)
		reversed = append(reversed, childPosition(tmpl, parent, cur))
		cur = parent
	}
	path := make([]uint8, len(reversed))
	for i, p := range reversed {
		path[len(reversed)-1-i] = p
	}
	return path
}

func childPosition(tmpl *template.Template, parent int, child int) uint8 {
	for i := 0; i < tmpl.ChildCount(parent); i++ {
		if tmpl.ChildAt(parent, i) == child {
			return uint8(i)
		}
	}
	return 0
}
