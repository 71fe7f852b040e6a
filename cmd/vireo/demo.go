package main

import (
	"github.com/vireo-dev/vireo/internal/vireocfg"
	"github.com/vireo-dev/vireo/pkg/mutation"
	"github.com/vireo-dev/vireo/pkg/template"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

// demoCounterTemplate is the fixture both replay and bench exercise:
// <div><span>{dyntext0}</span><button>+</button><button>-</button></div>,
// mirroring pkg/engine's own scenario-1 test fixture (spec §8 scenario 1).
// replay assumes a buffer was produced against this exact template, since
// the wire format carries only TemplateId integers, never schemas — a
// real host registers templates out of band, with the same ids on both
// sides (spec.md's template-cache note).
func demoCounterTemplate() *template.Template {
	b := template.NewBuilder()
	div := b.Element(template.TagDIV, -1)
	span := b.Element(template.TagSPAN, div)
	b.DynamicText(0, span)
	plus := b.Element(template.TagBUTTON, div)
	b.DynamicAttr(0, plus)
	minus := b.Element(template.TagBUTTON, div)
	b.DynamicAttr(1, minus)
	return b.Build()
}

// demoCounterVNode appends one counter instance rooted at tmplID, with
// count as its display text and click handlers 1 (increment) and 2
// (decrement) on the two buttons.
func demoCounterVNode(store *vnode.Store, tmplID template.TemplateId, count string) int {
	ix := store.PushTemplateRef(tmplID)
	store.PushDynamicText(ix, count)
	store.PushDynamicAttrEvent(ix, "click", 1)
	store.PushDynamicAttrEvent(ix, "click", 2)
	return ix
}

func newDemoWriter() *mutation.Writer {
	cfg := vireocfg.DefaultRuntimeConfig()
	w := mutation.NewWriter(make([]byte, 0, 4096), cfg.MaxMutationBuffer)
	w.SetMaxPathLen(cfg.MaxPathLen)
	return w
}
