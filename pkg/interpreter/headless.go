package interpreter

import "strings"

// headlessNode is an in-memory Node for tests and `vireo replay`, which
// has no real browser to drive. Grounded on vango's pkg/vtest fake DOM.
type headlessNode struct {
	tag         string
	text        string
	placeholder bool
	attrs       map[string]string
	children    []Node
	parent      Node
	listeners   map[string]func()
}

func newHeadlessElement(tag string) *headlessNode {
	return &headlessNode{tag: tag, attrs: map[string]string{}, listeners: map[string]func(){}}
}

func newHeadlessText(text string) *headlessNode {
	return &headlessNode{tag: "#text", text: text, attrs: map[string]string{}, listeners: map[string]func(){}}
}

func newHeadlessPlaceholder() *headlessNode {
	return &headlessNode{tag: "#placeholder", placeholder: true, attrs: map[string]string{}, listeners: map[string]func(){}}
}

func (n *headlessNode) AppendChild(child Node) {
	c := child.(*headlessNode)
	c.parent = n
	n.children = append(n.children, c)
}

func (n *headlessNode) InsertBefore(newNode Node, ref Node) {
	nn := newNode.(*headlessNode)
	nn.parent = n
	if ref == nil {
		n.children = append(n.children, nn)
		return
	}
	for i, c := range n.children {
		if c == ref {
			n.children = append(n.children[:i], append([]Node{nn}, n.children[i:]...)...)
			return
		}
	}
	n.children = append(n.children, nn)
}

func (n *headlessNode) RemoveChild(child Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *headlessNode) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
		n.parent = nil
	}
}

func (n *headlessNode) Parent() Node { return n.parent }

func (n *headlessNode) Children() []Node { return n.children }

func (n *headlessNode) SetAttribute(name, value string) { n.attrs[name] = value }

func (n *headlessNode) RemoveAttribute(name string) { delete(n.attrs, name) }

func (n *headlessNode) SetText(text string) { n.text = text }

func (n *headlessNode) AddEventListener(name string, handler func()) { n.listeners[name] = handler }

func (n *headlessNode) RemoveEventListener(name string) { delete(n.listeners, name) }

func (n *headlessNode) Clone(deep bool) Node {
	clone := &headlessNode{
		tag: n.tag, text: n.text, placeholder: n.placeholder,
		attrs: make(map[string]string, len(n.attrs)), listeners: map[string]func(){},
	}
	for k, v := range n.attrs {
		clone.attrs[k] = v
	}
	if deep {
		for _, c := range n.children {
			childClone := c.Clone(true)
			clone.AppendChild(childClone)
		}
	}
	return clone
}

// Dispatch fires event name on n, invoking its registered listener if any.
// Used by tests to simulate DOM interaction.
func (n *headlessNode) Dispatch(name string) {
	if fn, ok := n.listeners[name]; ok {
		fn()
	}
}

// HeadlessDocument is a Document backed entirely by headlessNode trees.
type HeadlessDocument struct{}

// NewHeadlessDocument creates a Document with no real DOM behind it.
func NewHeadlessDocument() *HeadlessDocument { return &HeadlessDocument{} }

func (HeadlessDocument) CreateElement(tag string) Node { return newHeadlessElement(tag) }

func (HeadlessDocument) CreateTextNode(text string) Node { return newHeadlessText(text) }

func (HeadlessDocument) CreatePlaceholder() Node { return newHeadlessPlaceholder() }

// Print renders n as an indented tree, for `vireo replay`'s output.
func Print(n Node, indent int) string {
	var b strings.Builder
	printNode(&b, n, indent)
	return b.String()
}

func printNode(b *strings.Builder, n Node, indent int) {
	hn, ok := n.(*headlessNode)
	if !ok {
		return
	}
	b.WriteString(strings.Repeat("  ", indent))
	switch {
	case hn.placeholder:
		b.WriteString("<placeholder>\n")
		return
	case hn.tag == "#text":
		b.WriteString(hn.text)
		b.WriteByte('\n')
		return
	default:
		b.WriteByte('<')
		b.WriteString(hn.tag)
		for k, v := range hn.attrs {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteString(`="`)
			b.WriteString(v)
			b.WriteString(`"`)
		}
		b.WriteString(">\n")
	}
	// An element with no structural children but a SetText-assigned
	// value is rendering its own text content (spec §4.10/§4.12: a
	// DynamicText slot's AssignId target is its parent element, and
	// SetText sets that element's text directly — see buildStatic).
	if len(hn.children) == 0 && hn.text != "" {
		b.WriteString(strings.Repeat("  ", indent+1))
		b.WriteString(hn.text)
		b.WriteByte('\n')
		return
	}
	for _, c := range hn.children {
		printNode(b, c, indent+1)
	}
}
