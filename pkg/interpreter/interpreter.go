package interpreter

import (
	"github.com/vireo-dev/vireo/internal/vireoerr"
	"github.com/vireo-dev/vireo/pkg/mutation"
	"github.com/vireo-dev/vireo/pkg/template"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

// EventCallback is invoked when a DOM event fires on a node the
// interpreter attached a listener to. The interpreter itself does not
// know about handler ids (the wire format's NewEventListener carries only
// an ElementId and an event name, spec §4.9); mapping (id, eventName)
// back to a handler id and dispatching the signal mutation is the host's
// job, wired in by whatever owns both the interpreter and the emitter
// side (see vireo.Shell.BindInterpreter in the root package).
type EventCallback func(id vnode.ElementId, eventName string)

type cachedTemplate struct {
	roots []Node
}

// Interpreter applies mutation buffers to a Document's nodes (spec
// §4.12). Single-threaded: a buffer must be applied to completion before
// the next one starts.
type Interpreter struct {
	doc       Document
	ids       map[vnode.ElementId]Node
	stack     []Node
	templates map[template.TemplateId]*cachedTemplate
	onEvent   EventCallback
}

// New creates an Interpreter with mountRoot registered at the reserved
// mount-root id (spec §3 MountRootID == 0).
func New(doc Document, mountRoot Node) *Interpreter {
	i := &Interpreter{
		doc:       doc,
		ids:       map[vnode.ElementId]Node{vnode.MountRootID: mountRoot},
		templates: map[template.TemplateId]*cachedTemplate{},
	}
	return i
}

// SetEventCallback installs the host's (id, eventName) -> dispatch hook.
func (i *Interpreter) SetEventCallback(cb EventCallback) { i.onEvent = cb }

// MountRoot returns the node registered at id 0.
func (i *Interpreter) MountRoot() Node { return i.ids[vnode.MountRootID] }

// RegisterTemplate builds tmpl's canonical DOM subtree (once per root)
// from the registry's accessor surface, per spec §6: "the interpreter may
// register templates... by reading the registry's accessor surface."
// Subsequent LoadTemplate opcodes clone from this canonical tree.
func (i *Interpreter) RegisterTemplate(id template.TemplateId, tmpl *template.Template) error {
	if _, exists := i.templates[id]; exists {
		return vireoerr.New(vireoerr.CodeDuplicateTemplate, vireoerr.Reported,
			"interpreter: template id already registered")
	}
	roots := make([]Node, tmpl.RootCount())
	for r := 0; r < tmpl.RootCount(); r++ {
		roots[r] = i.buildStatic(tmpl, tmpl.RootIndex(r))
	}
	i.templates[id] = &cachedTemplate{roots: roots}
	return nil
}

// buildStatic materializes the static structure of a template subtree:
// real elements/text for Element/Text/StaticAttr nodes, and a placeholder
// node standing in for Dynamic (named later via ReplacePlaceholder).
// DynamicText produces no node of its own — its AssignId path resolves to
// its parent element, which later receives the value directly via
// SetText — and DynamicAttr likewise only annotates its owning element
// once SetAttribute/NewEventListener arrives.
func (i *Interpreter) buildStatic(tmpl *template.Template, ix int) Node {
	switch tmpl.Kind(ix) {
	case template.KindElement:
		el := i.doc.CreateElement(tmpl.Tag(ix).String())
		for j := 0; j < tmpl.AttrCount(ix); j++ {
			attrIx := tmpl.AttrAt(ix, j)
			if tmpl.Kind(attrIx) == template.KindStaticAttr {
				name, value := staticAttrNameValue(tmpl, attrIx)
				el.SetAttribute(name, value)
			}
		}
		for j := 0; j < tmpl.ChildCount(ix); j++ {
			childIx := tmpl.ChildAt(ix, j)
			// A DynamicText slot's AssignId path names its parent
			// element directly (spec §4.10: "path... to the slot's
			// parent element, or to the slot itself for Dynamic") —
			// SetText later targets the element's own text content, so
			// no separate child node is materialized for the slot.
			if tmpl.Kind(childIx) == template.KindDynamicText {
				continue
			}
			el.AppendChild(i.buildStatic(tmpl, childIx))
		}
		return el
	case template.KindText:
		return i.doc.CreateTextNode(staticTextLiteral(tmpl, ix))
	case template.KindDynamic:
		return i.doc.CreatePlaceholder()
	default:
		return i.doc.CreatePlaceholder()
	}
}

// Apply decodes and executes every opcode in buf in order, per spec
// §4.9/§4.12. Fatal errors (stack underflow, unknown ElementId, unknown
// opcode — spec §7) are recovered at this boundary and returned as a
// plain error rather than propagating a panic to the caller.
func (i *Interpreter) Apply(buf []byte) (err error) {
	defer vireoerr.Recover(&err)
	r := mutation.NewReader(buf)
	for {
		instr := r.Next()
		if instr.Op == mutation.OpEnd {
			return nil
		}
		i.apply(instr)
	}
}

func (i *Interpreter) apply(in mutation.Instr) {
	switch in.Op {
	case mutation.OpLoadTemplate:
		i.opLoadTemplate(in)
	case mutation.OpCreateTextNode:
		node := i.doc.CreateTextNode(in.Text)
		i.ids[vnode.ElementId(in.ID)] = node
		i.stack = append(i.stack, node)
	case mutation.OpCreatePlaceholder:
		node := i.doc.CreatePlaceholder()
		i.ids[vnode.ElementId(in.ID)] = node
		i.stack = append(i.stack, node)
	case mutation.OpAssignId:
		top := i.stackTop()
		resolved := resolvePath(top, in.Path)
		i.ids[vnode.ElementId(in.ID)] = resolved
	case mutation.OpAppendChildren:
		parent := i.lookup(vnode.ElementId(in.ID))
		children := i.pop(int(in.M))
		for _, c := range children {
			parent.AppendChild(c)
		}
	case mutation.OpReplaceWith:
		old := i.lookup(vnode.ElementId(in.ID))
		replacements := i.pop(int(in.M))
		spliceReplace(old, replacements)
		delete(i.ids, vnode.ElementId(in.ID))
	case mutation.OpReplacePlaceholder:
		top := i.stackTop()
		placeholder := resolvePath(top, in.Path)
		replacements := i.pop(int(in.M))
		spliceReplace(placeholder, replacements)
	case mutation.OpInsertAfter:
		anchor := i.lookup(vnode.ElementId(in.ID))
		nodes := i.pop(int(in.M))
		insertAfter(anchor, nodes)
	case mutation.OpInsertBefore:
		anchor := i.lookup(vnode.ElementId(in.ID))
		nodes := i.pop(int(in.M))
		parent := anchor.Parent()
		if parent == nil {
			vireoerr.Fatalf(vireoerr.CodeUnknownElement, "interpreter: InsertBefore anchor has no parent")
		}
		for _, n := range nodes {
			parent.InsertBefore(n, anchor)
		}
	case mutation.OpSetAttribute:
		node := i.lookup(vnode.ElementId(in.ID))
		if in.Value == "" {
			node.RemoveAttribute(in.Name)
		} else {
			node.SetAttribute(in.Name, in.Value)
		}
	case mutation.OpSetText:
		node := i.lookup(vnode.ElementId(in.ID))
		node.SetText(in.Text)
	case mutation.OpNewEventListener:
		node := i.lookup(vnode.ElementId(in.ID))
		id := vnode.ElementId(in.ID)
		name := in.Name
		node.AddEventListener(name, func() {
			if i.onEvent != nil {
				i.onEvent(id, name)
			}
		})
	case mutation.OpRemoveEventListener:
		node := i.lookup(vnode.ElementId(in.ID))
		node.RemoveEventListener(in.Name)
	case mutation.OpRemove:
		node := i.lookup(vnode.ElementId(in.ID))
		node.Remove()
		delete(i.ids, vnode.ElementId(in.ID))
	case mutation.OpPushRoot:
		node := i.lookup(vnode.ElementId(in.ID))
		i.stack = append(i.stack, node)
	default:
		vireoerr.Fatalf(vireoerr.CodeUnknownOpcode, "interpreter: unhandled opcode %v", in.Op)
	}
}

func (i *Interpreter) opLoadTemplate(in mutation.Instr) {
	cached, ok := i.templates[template.TemplateId(in.TmplID)]
	if !ok {
		vireoerr.Fatalf(vireoerr.CodeUnknownElement, "interpreter: LoadTemplate of unregistered template %d", in.TmplID)
	}
	if int(in.Root) >= len(cached.roots) {
		vireoerr.Fatalf(vireoerr.CodeUnknownElement, "interpreter: LoadTemplate root index %d out of range", in.Root)
	}
	clone := cached.roots[in.Root].Clone(true)
	i.ids[vnode.ElementId(in.ID)] = clone
	i.stack = append(i.stack, clone)
}

func (i *Interpreter) stackTop() Node {
	if len(i.stack) == 0 {
		vireoerr.Fatalf(vireoerr.CodeStackUnderflow, "interpreter: path op with empty stack")
	}
	return i.stack[len(i.stack)-1]
}

func (i *Interpreter) pop(m int) []Node {
	if m > len(i.stack) {
		vireoerr.Fatalf(vireoerr.CodeStackUnderflow, "interpreter: pop(%d) exceeds stack depth %d", m, len(i.stack))
	}
	n := len(i.stack)
	out := append([]Node(nil), i.stack[n-m:]...)
	i.stack = i.stack[:n-m]
	return out
}

func (i *Interpreter) lookup(id vnode.ElementId) Node {
	node, ok := i.ids[id]
	if !ok {
		vireoerr.Fatalf(vireoerr.CodeUnknownElement, "interpreter: reference to unknown ElementId %d", id)
	}
	return node
}

// resolvePath walks path (child-position indices) from top, per spec
// §4.12's "AssignId(path, id): resolve the path relative to the stack
// top... Empty path ⇒ stack top itself."
func resolvePath(top Node, path []uint8) Node {
	cur := top
	for _, p := range path {
		children := cur.Children()
		if int(p) >= len(children) {
			vireoerr.Fatalf(vireoerr.CodeUnknownElement, "interpreter: path index %d out of range", p)
		}
		cur = children[p]
	}
	return cur
}

// spliceReplace substitutes old's position in its parent's child list
// with replacements, in order, then removes old.
func spliceReplace(old Node, replacements []Node) {
	parent := old.Parent()
	if parent == nil {
		return
	}
	for _, r := range replacements {
		parent.InsertBefore(r, old)
	}
	parent.RemoveChild(old)
}

// insertAfter splices nodes immediately after anchor within anchor's
// parent, preserving order.
func insertAfter(anchor Node, nodes []Node) {
	parent := anchor.Parent()
	if parent == nil {
		vireoerr.Fatalf(vireoerr.CodeUnknownElement, "interpreter: InsertAfter anchor has no parent")
	}
	siblings := parent.Children()
	var ref Node
	for idx, c := range siblings {
		if c == anchor && idx+1 < len(siblings) {
			ref = siblings[idx+1]
			break
		}
	}
	for _, n := range nodes {
		parent.InsertBefore(n, ref)
	}
}

func staticTextLiteral(tmpl *template.Template, ix int) string {
	return tmpl.Literal(ix)
}

func staticAttrNameValue(tmpl *template.Template, ix int) (string, string) {
	return tmpl.AttrName(ix), tmpl.AttrValue(ix)
}
