// Package interpreter implements the consumer side of the mutation
// protocol (spec §4.12): applying a MutationReader's opcode stream to a
// real DOM through a small node abstraction, so the same interpreter can
// run against a browser DOM, a headless test double, or the replay CLI's
// printer without code changes. Grounded on vango's client-apply test
// doubles (pkg/vtest) for the overall shape; the Node/Document method
// names mirror honnef.co/go/js/dom/v2 (AppendChild, SetAttribute,
// RemoveAttribute, Remove) per the teacher pack's interpreter-adjacent
// example (ozanturksever-uiwgo), even though that package itself is
// GOOS=js-only and therefore not imported.
package interpreter

// Node is the minimal DOM surface the interpreter needs. Implementations
// back a real browser node, a headless in-memory tree, or any other
// renderer target.
type Node interface {
	AppendChild(child Node)
	InsertBefore(newNode Node, ref Node)
	RemoveChild(child Node)
	Remove()
	Parent() Node
	Children() []Node
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	SetText(text string)
	AddEventListener(name string, handler func())
	RemoveEventListener(name string)
	Clone(deep bool) Node
}

// Document constructs fresh nodes. A template's canonical DOM subtree
// (built once per TemplateId at registration) is cloned from Document's
// output via Node.Clone on every LoadTemplate.
type Document interface {
	CreateElement(tag string) Node
	CreateTextNode(text string) Node
	// CreatePlaceholder returns a marker node occupying a Dynamic slot's
	// position until ReplacePlaceholder splices in real content.
	CreatePlaceholder() Node
}
