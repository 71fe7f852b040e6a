// Package mutation implements the little-endian binary edit-script format
// that crosses the runtime↔interpreter boundary: a MutationWriter
// (emitter side, used by pkg/engine) and a MutationReader (consumer side,
// used by pkg/interpreter). The opcode table is fixed-width, unlike the
// teacher protocol package's varint encoding — grounded on the teacher's
// Encoder/Decoder method shapes (pkg/protocol/encoder.go,
// pkg/protocol/decoder.go) but adapted to the exact byte layout this
// system's wire format requires.
package mutation

// Op is one opcode in the mutation stream.
type Op uint8

const (
	OpEnd                 Op = 0x00
	OpAppendChildren      Op = 0x01
	OpAssignId            Op = 0x02
	OpCreatePlaceholder   Op = 0x03
	OpCreateTextNode      Op = 0x04
	OpLoadTemplate        Op = 0x05
	OpReplaceWith         Op = 0x06
	OpReplacePlaceholder  Op = 0x07
	OpInsertAfter         Op = 0x08
	OpInsertBefore        Op = 0x09
	OpSetAttribute        Op = 0x0A
	OpSetText             Op = 0x0B
	OpNewEventListener    Op = 0x0C
	OpRemoveEventListener Op = 0x0D
	OpRemove              Op = 0x0E
	OpPushRoot            Op = 0x0F
)

func (op Op) String() string {
	switch op {
	case OpEnd:
		return "End"
	case OpAppendChildren:
		return "AppendChildren"
	case OpAssignId:
		return "AssignId"
	case OpCreatePlaceholder:
		return "CreatePlaceholder"
	case OpCreateTextNode:
		return "CreateTextNode"
	case OpLoadTemplate:
		return "LoadTemplate"
	case OpReplaceWith:
		return "ReplaceWith"
	case OpReplacePlaceholder:
		return "ReplacePlaceholder"
	case OpInsertAfter:
		return "InsertAfter"
	case OpInsertBefore:
		return "InsertBefore"
	case OpSetAttribute:
		return "SetAttribute"
	case OpSetText:
		return "SetText"
	case OpNewEventListener:
		return "NewEventListener"
	case OpRemoveEventListener:
		return "RemoveEventListener"
	case OpRemove:
		return "Remove"
	case OpPushRoot:
		return "PushRoot"
	default:
		return "Unknown"
	}
}

// Namespace is the attribute namespace tag carried by SetAttribute (spec
// §4.9's "ns: u8"). 0 means the default (HTML) namespace; other values
// are reserved for SVG/MathML-style extensions a consumer may define.
type Namespace uint8

const NamespaceDefault Namespace = 0
