// Package vnode implements the per-frame VNode arena (spec §4.8) and the
// ElementId allocator (spec §3). A VNodeStore is built fresh by a
// component render; once the frame's CreateEngine/DiffEngine pass has
// run and mount state has been transferred, the whole store becomes
// garbage (spec §3 "Lifecycles"). Grounded on the teacher's VNode tree
// (pkg/vdom/vnode.go) but restructured as a flat, builder-populated
// arena per spec §9's arena-everywhere design note.
package vnode

import "github.com/vireo-dev/vireo/pkg/template"

// Kind discriminates a VNode's shape.
type Kind uint8

const (
	KindText Kind = iota
	KindPlaceholder
	KindTemplateRef
	KindFragment
)

// AttrKind discriminates a dynamic attribute slot's payload (spec §4.10:
// "DynamicAttr(slot) with kind Text/Int/Bool" plus an Event kind and a
// None kind meaning "remove").
type AttrKind uint8

const (
	AttrText AttrKind = iota
	AttrInt
	AttrBool
	AttrNone
	AttrEvent
)

// DynAttr is one filled dynamic-attribute slot.
type DynAttr struct {
	Kind AttrKind
	Name string
	Text string
	Int  int64
	Bool bool
	// HandlerID names the handler to invoke for an Event-kind slot,
	// routed back through ComponentContext.DispatchEvent.
	HandlerID uint32
}

// DynNode is one filled Dynamic (arbitrary child) slot: either a text
// value or a placeholder, per spec §4.10.
type DynNode struct {
	IsText bool
	Text   string
}

// VNode is one arena entry. Only the fields relevant to Kind are
// populated; mount-state fields are filled in by CreateEngine and
// transferred by DiffEngine (spec §3).
type VNode struct {
	Kind Kind

	// KindText
	Text string

	// KindTemplateRef
	TemplateID template.TemplateId
	DynText    []string
	DynAttr    []DynAttr
	DynNode    []DynNode
	HasKey     bool
	Key        string

	// KindFragment
	Children []int

	// Mount state (spec §3 "VNode... mount state").
	RootIDs    []ElementId
	DynTextIDs []ElementId
	DynAttrIDs []ElementId
	DynNodeIDs []ElementId
	mounted    bool
}

// Store is a per-frame arena of VNodes, populated by the Push* builder
// API and consumed by CreateEngine/DiffEngine.
type Store struct {
	nodes []VNode
}

// NewStore creates an empty, fresh-frame Store.
func NewStore() *Store { return &Store{} }

func (s *Store) push(n VNode) int {
	s.nodes = append(s.nodes, n)
	return len(s.nodes) - 1
}

// Get returns a pointer to the VNode at ix for direct inspection/mutation
// by the engines. The pointer is only valid for this Store's lifetime.
func (s *Store) Get(ix int) *VNode { return &s.nodes[ix] }

// Count returns the number of VNodes pushed so far.
func (s *Store) Count() int { return len(s.nodes) }

// PushText appends a static-text leaf.
func (s *Store) PushText(content string) int {
	return s.push(VNode{Kind: KindText, Text: content})
}

// PushPlaceholder appends a placeholder leaf.
func (s *Store) PushPlaceholder() int {
	return s.push(VNode{Kind: KindPlaceholder})
}

// PushTemplateRef appends a TemplateRef with no key. Dynamic slots are
// filled afterward with PushDynamicText/PushDynamicAttr*/PushDynamicTextNode/
// PushDynamicPlaceholder, in ascending slot-index order.
func (s *Store) PushTemplateRef(tmplID template.TemplateId) int {
	return s.push(VNode{Kind: KindTemplateRef, TemplateID: tmplID})
}

// PushTemplateRefKeyed is PushTemplateRef with an optional reconciliation
// key (spec §4.8, §9 "keyed fragments").
func (s *Store) PushTemplateRefKeyed(tmplID template.TemplateId, key string) int {
	return s.push(VNode{Kind: KindTemplateRef, TemplateID: tmplID, HasKey: true, Key: key})
}

// PushFragment appends an (initially empty) fragment.
func (s *Store) PushFragment() int {
	return s.push(VNode{Kind: KindFragment})
}

// PushFragmentChild appends child's index to fragment's child list, in
// document order.
func (s *Store) PushFragmentChild(fragment int, child int) {
	s.nodes[fragment].Children = append(s.nodes[fragment].Children, child)
}

// PushDynamicText appends the next DynamicText slot's literal value.
func (s *Store) PushDynamicText(ref int, text string) {
	s.nodes[ref].DynText = append(s.nodes[ref].DynText, text)
}

// PushDynamicAttrText appends a Text-kind dynamic attribute value.
func (s *Store) PushDynamicAttrText(ref int, name, value string) {
	s.nodes[ref].DynAttr = append(s.nodes[ref].DynAttr, DynAttr{Kind: AttrText, Name: name, Text: value})
}

// PushDynamicAttrInt appends an Int-kind dynamic attribute value.
func (s *Store) PushDynamicAttrInt(ref int, name string, value int64) {
	s.nodes[ref].DynAttr = append(s.nodes[ref].DynAttr, DynAttr{Kind: AttrInt, Name: name, Int: value})
}

// PushDynamicAttrBool appends a Bool-kind dynamic attribute value.
func (s *Store) PushDynamicAttrBool(ref int, name string, value bool) {
	s.nodes[ref].DynAttr = append(s.nodes[ref].DynAttr, DynAttr{Kind: AttrBool, Name: name, Bool: value})
}

// PushDynamicAttrNone appends a None-kind dynamic attribute (meaning
// "absent"/"remove").
func (s *Store) PushDynamicAttrNone(ref int, name string) {
	s.nodes[ref].DynAttr = append(s.nodes[ref].DynAttr, DynAttr{Kind: AttrNone, Name: name})
}

// PushDynamicAttrEvent appends an Event-kind dynamic attribute slot.
func (s *Store) PushDynamicAttrEvent(ref int, name string, handlerID uint32) {
	s.nodes[ref].DynAttr = append(s.nodes[ref].DynAttr, DynAttr{Kind: AttrEvent, Name: name, HandlerID: handlerID})
}

// PushDynamicTextNode fills the next Dynamic (arbitrary child) slot with
// a text value.
func (s *Store) PushDynamicTextNode(ref int, text string) {
	s.nodes[ref].DynNode = append(s.nodes[ref].DynNode, DynNode{IsText: true, Text: text})
}

// PushDynamicPlaceholder fills the next Dynamic slot with a placeholder.
func (s *Store) PushDynamicPlaceholder(ref int) {
	s.nodes[ref].DynNode = append(s.nodes[ref].DynNode, DynNode{IsText: false})
}

// --- mount-state accessors (spec §4.8) ---

// RootIDCount returns how many root ElementIds ix currently holds.
func (s *Store) RootIDCount(ix int) int { return len(s.nodes[ix].RootIDs) }

// GetRootID returns ix's i-th root ElementId.
func (s *Store) GetRootID(ix int, i int) ElementId { return s.nodes[ix].RootIDs[i] }

// GetDynNodeID returns ix's i-th dynamic-node-slot ElementId.
func (s *Store) GetDynNodeID(ix int, i int) ElementId { return s.nodes[ix].DynNodeIDs[i] }

// IsMounted reports whether ix has had mount state assigned.
func (s *Store) IsMounted(ix int) bool { return s.nodes[ix].mounted }

// SetRootIDs installs ix's root ElementIds and marks it mounted.
func (s *Store) SetRootIDs(ix int, ids []ElementId) {
	s.nodes[ix].RootIDs = ids
	s.nodes[ix].mounted = true
}

// SetDynTextIDs installs ix's dynamic-text-slot ElementIds.
func (s *Store) SetDynTextIDs(ix int, ids []ElementId) { s.nodes[ix].DynTextIDs = ids }

// SetDynAttrIDs installs ix's dynamic-attr-slot ElementIds.
func (s *Store) SetDynAttrIDs(ix int, ids []ElementId) { s.nodes[ix].DynAttrIDs = ids }

// SetDynNodeIDs installs ix's dynamic-node-slot ElementIds.
func (s *Store) SetDynNodeIDs(ix int, ids []ElementId) { s.nodes[ix].DynNodeIDs = ids }

// TransferMountState copies all mount-state fields from src (an older
// frame's Store) node oldIx onto this Store's node newIx, as required
// when DiffEngine keeps a subtree rather than replacing it (spec §3:
// "after being processed by CreateEngine or inherited by DiffEngine").
func (s *Store) TransferMountState(newIx int, src *Store, oldIx int) {
	old := &src.nodes[oldIx]
	s.nodes[newIx].RootIDs = old.RootIDs
	s.nodes[newIx].DynTextIDs = old.DynTextIDs
	s.nodes[newIx].DynAttrIDs = old.DynAttrIDs
	s.nodes[newIx].DynNodeIDs = old.DynNodeIDs
	s.nodes[newIx].mounted = old.mounted
}
