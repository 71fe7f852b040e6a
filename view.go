package vireo

import (
	"github.com/vireo-dev/vireo/internal/vireolog"
	"github.com/vireo-dev/vireo/pkg/template"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

// RegisterTemplate interns descriptor under name, returning its freshly
// assigned TemplateId (spec §4.13's register_template(descriptor, name)).
func (s *Shell) RegisterTemplate(name string, descriptor *template.Template) template.TemplateId {
	id := s.templates.Register(descriptor)
	vireolog.Debugf("vireo: registered template %q as id %d", name, id)
	return id
}

// RenderBuilder is the typed builder a component body uses to describe
// one frame's VNode tree (spec §4.13's vnode_builder/render_builder): it
// wraps a fresh vnode.Store and tracks slot-fill ordering implicitly by
// forwarding directly to the Store's Push* methods, which themselves
// require ascending slot order per TemplateRef (spec §4.8).
type RenderBuilder struct {
	store *vnode.Store
}

// NewRenderBuilder creates a builder over a fresh, per-frame VNode arena.
func (s *Shell) NewRenderBuilder() *RenderBuilder {
	return &RenderBuilder{store: vnode.NewStore()}
}

// Store returns the underlying arena, for passing to CreateEngine/DiffEngine.
func (b *RenderBuilder) Store() *vnode.Store { return b.store }

// Text appends a static-text leaf and returns its index.
func (b *RenderBuilder) Text(content string) int { return b.store.PushText(content) }

// Placeholder appends a placeholder leaf and returns its index.
func (b *RenderBuilder) Placeholder() int { return b.store.PushPlaceholder() }

// TemplateRef begins a TemplateRef VNode. Fill its dynamic slots
// afterward with DynText/DynAttr*/DynNode* in ascending slot order.
func (b *RenderBuilder) TemplateRef(id template.TemplateId) int { return b.store.PushTemplateRef(id) }

// TemplateRefKeyed is TemplateRef carrying a reconciliation key (spec
// §4.11.7's optional keyed-fragment fast path).
func (b *RenderBuilder) TemplateRefKeyed(id template.TemplateId, key string) int {
	return b.store.PushTemplateRefKeyed(id, key)
}

// Fragment appends an (initially empty) fragment and returns its index.
func (b *RenderBuilder) Fragment() int { return b.store.PushFragment() }

// FragmentChild appends child's index to fragment's child list, in
// document order.
func (b *RenderBuilder) FragmentChild(fragment, child int) { b.store.PushFragmentChild(fragment, child) }

// DynText fills the next DynamicText slot of ref.
func (b *RenderBuilder) DynText(ref int, text string) { b.store.PushDynamicText(ref, text) }

// DynAttrText fills the next DynamicAttr slot of ref with a text value.
func (b *RenderBuilder) DynAttrText(ref int, name, value string) {
	b.store.PushDynamicAttrText(ref, name, value)
}

// DynAttrInt fills the next DynamicAttr slot of ref with an int value.
func (b *RenderBuilder) DynAttrInt(ref int, name string, value int64) {
	b.store.PushDynamicAttrInt(ref, name, value)
}

// DynAttrBool fills the next DynamicAttr slot of ref with a bool value.
func (b *RenderBuilder) DynAttrBool(ref int, name string, value bool) {
	b.store.PushDynamicAttrBool(ref, name, value)
}

// DynAttrNone fills the next DynamicAttr slot of ref with "absent".
func (b *RenderBuilder) DynAttrNone(ref int, name string) { b.store.PushDynamicAttrNone(ref, name) }

// DynAttrEvent fills the next DynamicAttr slot of ref with an event
// listener bound to handlerID (returned by the handler surface, handlers.go).
func (b *RenderBuilder) DynAttrEvent(ref int, name string, handlerID uint32) {
	b.store.PushDynamicAttrEvent(ref, name, handlerID)
}

// DynTextNode fills the next Dynamic (arbitrary child) slot with text.
func (b *RenderBuilder) DynTextNode(ref int, text string) { b.store.PushDynamicTextNode(ref, text) }

// DynPlaceholder fills the next Dynamic slot with a placeholder.
func (b *RenderBuilder) DynPlaceholder(ref int) { b.store.PushDynamicPlaceholder(ref) }
