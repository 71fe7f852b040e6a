package template

import "testing"

// buildCounterTemplate builds spec §8 scenario 1's template:
// <div><span>{dyntext0}</span><button>+</button><button>-</button></div>
func buildCounterTemplate() *Template {
	b := NewBuilder()
	div := b.Element(TagDIV, -1)
	span := b.Element(TagSPAN, div)
	b.DynamicText(0, span)
	plus := b.Element(TagBUTTON, div)
	b.Text("+", plus)
	b.DynamicAttr(0, plus) // click handler slot
	minus := b.Element(TagBUTTON, div)
	b.Text("-", minus)
	b.DynamicAttr(1, minus)
	return b.Build()
}

func TestTemplateAccessors(t *testing.T) {
	tmpl := buildCounterTemplate()
	if tmpl.RootCount() != 1 {
		t.Fatalf("expected 1 root, got %d", tmpl.RootCount())
	}
	div := tmpl.RootIndex(0)
	if tmpl.Tag(div) != TagDIV {
		t.Fatalf("expected root tag DIV, got %v", tmpl.Tag(div))
	}
	if tmpl.ChildCount(div) != 3 {
		t.Fatalf("expected 3 children of div, got %d", tmpl.ChildCount(div))
	}
	span := tmpl.ChildAt(div, 0)
	if tmpl.Kind(span) != KindElement || tmpl.Tag(span) != TagSPAN {
		t.Fatalf("expected span child, got kind %v tag %v", tmpl.Kind(span), tmpl.Tag(span))
	}
	dynText := tmpl.ChildAt(span, 0)
	if tmpl.Kind(dynText) != KindDynamicText {
		t.Fatalf("expected dynamic text slot, got %v", tmpl.Kind(dynText))
	}
}

func TestRegistryRegisterAssignsSequentialIds(t *testing.T) {
	r := NewRegistry()
	id0 := r.Register(buildCounterTemplate())
	id1 := r.Register(buildCounterTemplate())
	if id0 != 0 || id1 != 1 {
		t.Fatalf("expected sequential ids 0,1; got %d,%d", id0, id1)
	}
	if r.Count() != 2 {
		t.Fatalf("expected count 2, got %d", r.Count())
	}
}

func TestRegisterWithIDRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterWithID(5, buildCounterTemplate()); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}
	if err := r.RegisterWithID(5, buildCounterTemplate()); err == nil {
		t.Fatalf("expected duplicate-template error")
	}
}

func TestGetUnknownTemplate(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get(42); ok {
		t.Fatalf("expected unknown template id to miss")
	}
}

// TestRegisterEnforcesMaxDepth exercises internal/vireocfg.RuntimeConfig's
// MaxTemplateDepth: a chain of nested elements past the configured cap
// must panic the registration rather than silently intern the template.
func TestRegisterEnforcesMaxDepth(t *testing.T) {
	r := NewRegistry()
	r.SetMaxDepth(3)

	b := NewBuilder()
	parent := b.Element(TagDIV, -1)
	for i := 0; i < 5; i++ {
		parent = b.Element(TagDIV, parent)
	}
	deep := b.Build()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Register to panic on a template exceeding MaxTemplateDepth")
		}
	}()
	r.Register(deep)
}

func TestRegisterAllowsShallowTemplateUnderMaxDepth(t *testing.T) {
	r := NewRegistry()
	r.SetMaxDepth(3)
	r.Register(buildCounterTemplate()) // div > span > dyntext: depth 3, at the cap
}
