package engine

import (
	"github.com/vireo-dev/vireo/internal/vireoerr"
	"github.com/vireo-dev/vireo/pkg/mutation"
	"github.com/vireo-dev/vireo/pkg/template"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

// Create walks the VNode at ix, allocating ElementIds and emitting
// create/mount opcodes into w, per spec §4.10. Returns the number of DOM
// roots the node produces. On return, ix's mount state (root ids and
// dynamic-slot ids) is populated in store.
func Create(w *mutation.Writer, alloc *vnode.Allocator, reg *template.Registry, store *vnode.Store, ix int) (int, error) {
	node := store.Get(ix)
	switch node.Kind {
	case vnode.KindText:
		id := alloc.Alloc()
		if err := w.CreateTextNode(uint32(id), node.Text); err != nil {
			return 0, err
		}
		store.SetRootIDs(ix, []vnode.ElementId{id})
		return 1, nil

	case vnode.KindPlaceholder:
		id := alloc.Alloc()
		if err := w.CreatePlaceholder(uint32(id)); err != nil {
			return 0, err
		}
		store.SetRootIDs(ix, []vnode.ElementId{id})
		return 1, nil

	case vnode.KindTemplateRef:
		return createTemplateRef(w, alloc, reg, store, ix, node)

	case vnode.KindFragment:
		total := 0
		for _, child := range node.Children {
			n, err := Create(w, alloc, reg, store, child)
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil

	default:
		return 0, vireoerr.New(vireoerr.CodeOutOfRange, vireoerr.Reported, "engine: unknown VNode kind")
	}
}

func createTemplateRef(w *mutation.Writer, alloc *vnode.Allocator, reg *template.Registry, store *vnode.Store, ix int, node *vnode.VNode) (int, error) {
	tmpl, ok := reg.Get(node.TemplateID)
	if !ok {
		return 0, vireoerr.New(vireoerr.CodeOutOfRange, vireoerr.Reported, "engine: unknown template id")
	}

	rootIDs := make([]vnode.ElementId, 0, tmpl.RootCount())
	dynTextIDs := make([]vnode.ElementId, len(node.DynText))
	dynAttrIDs := make([]vnode.ElementId, len(node.DynAttr))
	dynNodePaths := make([][]uint8, len(node.DynNode))

	// Template roots are visited in template order (spec §4.10's
	// traversal-stability contract); slot ids are assigned in
	// increasing slot index because each TNode's SlotIndex addresses
	// directly into the VNode's flat dynamic-value vectors.
	for r := 0; r < tmpl.RootCount(); r++ {
		rootNodeIx := tmpl.RootIndex(r)
		id := alloc.Alloc()
		if err := w.LoadTemplate(uint32(node.TemplateID), uint32(r), uint32(id)); err != nil {
			return 0, err
		}
		rootIDs = append(rootIDs, id)

		if err := assignSlots(w, alloc, tmpl, rootNodeIx, rootNodeIx, dynTextIDs, dynAttrIDs, dynNodePaths); err != nil {
			return 0, err
		}
	}

	for i, text := range node.DynText {
		if err := w.SetText(uint32(dynTextIDs[i]), text); err != nil {
			return 0, err
		}
	}
	for i, attr := range node.DynAttr {
		if err := emitSetAttribute(w, dynAttrIDs[i], attr); err != nil {
			return 0, err
		}
	}
	dynNodeIDs := make([]vnode.ElementId, len(node.DynNode))
	for i, dn := range node.DynNode {
		id := alloc.Alloc()
		if dn.IsText {
			if err := w.CreateTextNode(uint32(id), dn.Text); err != nil {
				return 0, err
			}
		} else {
			if err := w.CreatePlaceholder(uint32(id)); err != nil {
				return 0, err
			}
		}
		if err := w.ReplacePlaceholder(dynNodePaths[i], 1); err != nil {
			return 0, err
		}
		dynNodeIDs[i] = id
	}

	store.SetRootIDs(ix, rootIDs)
	store.SetDynTextIDs(ix, dynTextIDs)
	store.SetDynAttrIDs(ix, dynAttrIDs)
	store.SetDynNodeIDs(ix, dynNodeIDs)
	return len(rootIDs), nil
}

// assignSlots walks cur's subtree depth-first, emitting AssignId for
// every DynamicText/DynamicAttr slot encountered (naming the existing
// template-cloned node so later SetText/SetAttribute/listener ops can
// target it directly) and recording the path to every Dynamic slot for
// the later CreateTextNode/CreatePlaceholder + ReplacePlaceholder pass.
// Static structure (Element/Text/StaticAttr) needs no opcode: the
// interpreter rebuilds it once per TemplateId directly from the
// registry's accessor surface (spec §4.7).
func assignSlots(w *mutation.Writer, alloc *vnode.Allocator, tmpl *template.Template, rootIx int, cur int, dynTextIDs, dynAttrIDs []vnode.ElementId, dynNodePaths [][]uint8) error {
	switch tmpl.Kind(cur) {
	case template.KindElement:
		for j := 0; j < tmpl.AttrCount(cur); j++ {
			attrIx := tmpl.AttrAt(cur, j)
			if tmpl.Kind(attrIx) != template.KindDynamicAttr {
				continue
			}
			id := alloc.Alloc()
			path := pathTo(tmpl, rootIx, cur)
			if err := w.AssignId(path, uint32(id)); err != nil {
				return err
			}
			dynAttrIDs[tmpl.SlotIndex(attrIx)] = id
		}
		for j := 0; j < tmpl.ChildCount(cur); j++ {
			if err := assignSlots(w, alloc, tmpl, rootIx, tmpl.ChildAt(cur, j), dynTextIDs, dynAttrIDs, dynNodePaths); err != nil {
				return err
			}
		}
	case template.KindDynamicText:
		id := alloc.Alloc()
		path := pathTo(tmpl, rootIx, tmpl.Parent(cur))
		if err := w.AssignId(path, uint32(id)); err != nil {
			return err
		}
		dynTextIDs[tmpl.SlotIndex(cur)] = id
	case template.KindDynamic:
		dynNodePaths[tmpl.SlotIndex(cur)] = pathTo(tmpl, rootIx, cur)
	}
	return nil
}
