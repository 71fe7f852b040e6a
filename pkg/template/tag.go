package template

// Tag is the enumerated u16 element-tag namespace shared by the emitter
// (CreateEngine/DiffEngine) and the consumer (Interpreter) — spec §6:
// "the tag set is an enumerated u16 namespace ordered by registration
// convention... implementers must make the tag enumeration globally
// consistent between emitter and consumer." The ordering below matches
// spec §6's worked example exactly (DIV=0, SPAN=1, P=2, H1=3, LI=11,
// BUTTON=12) and extends it with the rest of the element set the
// teacher's void-element table (pkg/vdom/elements.go) and common
// templates exercise.
type Tag uint16

const (
	TagDIV Tag = iota
	TagSPAN
	TagP
	TagH1
	TagH2
	TagH3
	TagUL
	TagOL
	TagA
	TagIMG
	TagINPUT
	TagLI
	TagBUTTON
	TagFORM
	TagLABEL
	TagTEXTAREA
	TagSELECT
	TagOPTION
	TagTABLE
	TagTR
	TagTD
	TagTH
	TagTHEAD
	TagTBODY
	TagNAV
	TagHEADER
	TagFOOTER
	TagSECTION
	TagARTICLE
	TagSTRONG
	TagEM
	TagBR
	TagHR
	TagPRE
	TagCODE
)

var tagNames = [...]string{
	"div", "span", "p", "h1", "h2", "h3", "ul", "ol", "a", "img", "input",
	"li", "button", "form", "label", "textarea", "select", "option",
	"table", "tr", "td", "th", "thead", "tbody", "nav", "header", "footer",
	"section", "article", "strong", "em", "br", "hr", "pre", "code",
}

// String returns the lowercase HTML tag name, or "unknown" if out of range.
func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// voidTags cannot have children, mirroring the teacher's IsVoidElement.
var voidTags = map[Tag]bool{
	TagIMG: true, TagINPUT: true, TagBR: true, TagHR: true,
}

// IsVoid reports whether t is a void element.
func IsVoid(t Tag) bool { return voidTags[t] }
