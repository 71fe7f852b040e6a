// Package template implements the immutable template registry (spec
// §4.7): interned trees of TNodes declaring static structure plus
// dynamic-text/dynamic-attr/dynamic-node slots, addressed by TemplateId
// and by a flat node index within each template. Grounded on the
// teacher's VNode tree shape (pkg/vdom/vnode.go) but restructured as a
// flat, parent-indexed node vector per spec §9 ("Template tree as a flat
// node vector... paths are resolved by walking parent pointers").
package template

import (
	"github.com/vireo-dev/vireo/internal/vireocfg"
	"github.com/vireo-dev/vireo/internal/vireoerr"
)

// TemplateId indexes a registered template. Never recycled: templates
// are immutable for the runtime's lifetime (spec §3 invariant).
type TemplateId uint32

// NodeKind discriminates a TNode's role in the template tree.
type NodeKind uint8

const (
	KindElement NodeKind = iota
	KindText
	KindDynamicText
	KindDynamicAttr
	KindDynamic
	KindStaticAttr
)

func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindDynamicText:
		return "DynamicText"
	case KindDynamicAttr:
		return "DynamicAttr"
	case KindDynamic:
		return "Dynamic"
	case KindStaticAttr:
		return "StaticAttr"
	default:
		return "Unknown"
	}
}

// TNode is one entry in a template's flat node vector. Only the fields
// relevant to Kind are populated.
type TNode struct {
	Kind   NodeKind
	Parent int // index of the parent TNode, or -1 for a root

	// KindElement
	Tag      Tag
	Children []int // child TNode indices, in document order
	Attrs    []int // StaticAttr/DynamicAttr node indices attached to this element

	// KindText / KindStaticAttr (Value)
	Literal string

	// KindDynamicText / KindDynamicAttr / KindDynamic
	SlotIndex uint32

	// KindStaticAttr
	Name  string
	Value string
}

// Template is an immutable, pre-registered node tree (spec §3
// "TemplateId"). Nodes is the flat vector; Roots names the top-level
// node indices, visited in order by CreateEngine/DiffEngine.
type Template struct {
	Nodes []TNode
	Roots []int
}

// RootCount returns the number of top-level roots.
func (t *Template) RootCount() int { return len(t.Roots) }

// RootIndex returns the node index of root i.
func (t *Template) RootIndex(i int) int { return t.Roots[i] }

// Tag returns the element tag at node ix (meaningless for non-Element kinds).
func (t *Template) Tag(ix int) Tag { return t.Nodes[ix].Tag }

// Kind returns the kind of node ix.
func (t *Template) Kind(ix int) NodeKind { return t.Nodes[ix].Kind }

// ChildCount returns the number of children of element node ix.
func (t *Template) ChildCount(ix int) int { return len(t.Nodes[ix].Children) }

// ChildAt returns the node index of element node ix's j-th child.
func (t *Template) ChildAt(ix int, j int) int { return t.Nodes[ix].Children[j] }

// AttrCount returns the number of Static/DynamicAttr nodes attached to
// element node ix.
func (t *Template) AttrCount(ix int) int { return len(t.Nodes[ix].Attrs) }

// AttrAt returns the node index of element node ix's j-th attribute node.
func (t *Template) AttrAt(ix int, j int) int { return t.Nodes[ix].Attrs[j] }

// Parent returns the parent node index of ix, or -1 for a root.
func (t *Template) Parent(ix int) int { return t.Nodes[ix].Parent }

// SlotIndex returns the dynamic-slot index of a DynamicText/DynamicAttr/
// Dynamic node.
func (t *Template) SlotIndex(ix int) uint32 { return t.Nodes[ix].SlotIndex }

// Literal returns the static text of a Text node.
func (t *Template) Literal(ix int) string { return t.Nodes[ix].Literal }

// AttrName returns a StaticAttr node's attribute name.
func (t *Template) AttrName(ix int) string { return t.Nodes[ix].Name }

// AttrValue returns a StaticAttr node's attribute value.
func (t *Template) AttrValue(ix int) string { return t.Nodes[ix].Value }

// Registry is the interned store of immutable templates (spec §4.7).
type Registry struct {
	templates []*Template
	maxDepth  uint8
}

// NewRegistry creates an empty Registry enforcing the default
// MaxTemplateDepth (internal/vireocfg.DefaultMaxTemplateDepth).
func NewRegistry() *Registry {
	return &Registry{maxDepth: vireocfg.DefaultMaxTemplateDepth}
}

// SetMaxDepth overrides the depth a registered template's node tree may
// reach (internal/vireocfg.RuntimeConfig.MaxTemplateDepth). Zero disables
// the check.
func (r *Registry) SetMaxDepth(n uint8) { r.maxDepth = n }

// Register interns tmpl and returns its freshly assigned TemplateId.
// Templates are developer-authored structure fixed at startup, not live
// data, so a tree exceeding the registry's configured MaxTemplateDepth is
// a programming error: Register panics via vireoerr.Fatalf rather than
// returning an error a caller could plausibly handle and continue from.
func (r *Registry) Register(tmpl *Template) TemplateId {
	if err := r.checkDepth(tmpl); err != nil {
		vireoerr.Fatalf(vireoerr.CodeOutOfRange, "%s", err.Error())
	}
	r.templates = append(r.templates, tmpl)
	return TemplateId(len(r.templates) - 1)
}

// RegisterWithID interns tmpl at a caller-chosen id (used by a consumer
// registering templates with the same ids the emitter assigned). Returns
// a Reported error (spec §7) if id is already in use or tmpl exceeds the
// registry's configured MaxTemplateDepth.
func (r *Registry) RegisterWithID(id TemplateId, tmpl *Template) error {
	if err := r.checkDepth(tmpl); err != nil {
		return err
	}
	if int(id) < len(r.templates) && r.templates[id] != nil {
		return vireoerr.New(vireoerr.CodeDuplicateTemplate, vireoerr.Reported,
			"template: id already registered")
	}
	for int(id) >= len(r.templates) {
		r.templates = append(r.templates, nil)
	}
	r.templates[id] = tmpl
	return nil
}

// checkDepth rejects tmpl if any root-to-leaf path in its flat node
// vector exceeds r.maxDepth (spec §7 capacity bucket, extended to
// templates per SPEC_FULL.md §C — a pathological deeply-nested template
// shouldn't be allowed to blow out AssignId's own path-length cap).
func (r *Registry) checkDepth(tmpl *Template) error {
	if r.maxDepth == 0 {
		return nil
	}
	for _, root := range tmpl.Roots {
		if depthFrom(tmpl, root, 1) > int(r.maxDepth) {
			return vireoerr.New(vireoerr.CodeOutOfRange, vireoerr.Reported,
				"template: node tree exceeds configured max depth")
		}
	}
	return nil
}

func depthFrom(tmpl *Template, ix int, depth int) int {
	max := depth
	for _, child := range tmpl.Nodes[ix].Children {
		if d := depthFrom(tmpl, child, depth+1); d > max {
			max = d
		}
	}
	return max
}

func (r *Registry) valid(id TemplateId) bool {
	return int(id) >= 0 && int(id) < len(r.templates) && r.templates[id] != nil
}

// Get returns the template for id, or (nil, false) if out of range.
func (r *Registry) Get(id TemplateId) (*Template, bool) {
	if !r.valid(id) {
		return nil, false
	}
	return r.templates[id], true
}

// Count returns the number of registered templates.
func (r *Registry) Count() int { return len(r.templates) }

// --- builder helpers used by callers assembling a Template by hand ---

// Builder assembles a Template's flat node vector incrementally.
type Builder struct {
	nodes []TNode
	roots []int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) push(n TNode) int {
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}

// Element appends an element node with the given tag and parent (-1 for
// a root), returning its index. Children are attached by passing this
// index as the parent argument when they are appended.
func (b *Builder) Element(tag Tag, parent int) int {
	ix := b.push(TNode{Kind: KindElement, Tag: tag, Parent: parent})
	if parent < 0 {
		b.roots = append(b.roots, ix)
	} else {
		b.nodes[parent].Children = append(b.nodes[parent].Children, ix)
	}
	return ix
}

// Text appends a static text leaf.
func (b *Builder) Text(literal string, parent int) int {
	ix := b.push(TNode{Kind: KindText, Literal: literal, Parent: parent})
	b.attach(ix, parent)
	return ix
}

// DynamicText appends a dynamic-text slot.
func (b *Builder) DynamicText(slot uint32, parent int) int {
	ix := b.push(TNode{Kind: KindDynamicText, SlotIndex: slot, Parent: parent})
	b.attach(ix, parent)
	return ix
}

// Dynamic appends an arbitrary dynamic child-node slot.
func (b *Builder) Dynamic(slot uint32, parent int) int {
	ix := b.push(TNode{Kind: KindDynamic, SlotIndex: slot, Parent: parent})
	b.attach(ix, parent)
	return ix
}

// DynamicAttr appends a dynamic-attribute slot, attached to parent
// element (attributes are not children in the document-order sense but
// share the flat vector so their path addressing stays uniform).
func (b *Builder) DynamicAttr(slot uint32, parent int) int {
	ix := b.push(TNode{Kind: KindDynamicAttr, SlotIndex: slot, Parent: parent})
	b.nodes[parent].Attrs = append(b.nodes[parent].Attrs, ix)
	return ix
}

// StaticAttr attaches a static name/value attribute to a parent element.
func (b *Builder) StaticAttr(name, value string, parent int) int {
	ix := b.push(TNode{Kind: KindStaticAttr, Name: name, Value: value, Parent: parent})
	b.nodes[parent].Attrs = append(b.nodes[parent].Attrs, ix)
	return ix
}

func (b *Builder) attach(ix, parent int) {
	if parent < 0 {
		b.roots = append(b.roots, ix)
		return
	}
	b.nodes[parent].Children = append(b.nodes[parent].Children, ix)
}

// Build finalizes the Template. The Builder must not be reused afterward.
func (b *Builder) Build() *Template {
	return &Template{Nodes: b.nodes, Roots: b.roots}
}
