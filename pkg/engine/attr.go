package engine

import (
	"strconv"

	"github.com/vireo-dev/vireo/pkg/mutation"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

// emitSetAttribute writes the SetAttribute (or listener) opcode for a
// single filled dynamic-attribute slot. Bool encoding is emitter-defined
// per spec §9 ("the exact encoding of bool attributes... is
// emitter-defined"); this implementation uses "true" for true and an
// empty value for false, matching the empty-value-means-absent
// convention spec §9 offers as one of the acceptable choices.
func emitSetAttribute(w *mutation.Writer, id vnode.ElementId, attr vnode.DynAttr) error {
	switch attr.Kind {
	case vnode.AttrText:
		return w.SetAttribute(uint32(id), mutation.NamespaceDefault, attr.Name, attr.Text)
	case vnode.AttrInt:
		return w.SetAttribute(uint32(id), mutation.NamespaceDefault, attr.Name, strconv.FormatInt(attr.Int, 10))
	case vnode.AttrBool:
		if attr.Bool {
			return w.SetAttribute(uint32(id), mutation.NamespaceDefault, attr.Name, "true")
		}
		return w.SetAttribute(uint32(id), mutation.NamespaceDefault, attr.Name, "")
	case vnode.AttrNone:
		return w.SetAttribute(uint32(id), mutation.NamespaceDefault, attr.Name, "")
	case vnode.AttrEvent:
		return w.NewEventListener(uint32(id), attr.Name)
	}
	return nil
}

// attrEqual reports whether two filled attribute slots would emit
// identical DOM state (spec §4.11.4's attribute-diff comparison key:
// kind, name, value).
func attrEqual(a, b vnode.DynAttr) bool {
	if a.Kind != b.Kind || a.Name != b.Name {
		return false
	}
	switch a.Kind {
	case vnode.AttrText:
		return a.Text == b.Text
	case vnode.AttrInt:
		return a.Int == b.Int
	case vnode.AttrBool:
		return a.Bool == b.Bool
	case vnode.AttrNone:
		return true
	case vnode.AttrEvent:
		return a.HandlerID == b.HandlerID
	}
	return true
}
