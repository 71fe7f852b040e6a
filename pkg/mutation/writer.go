package mutation

import "github.com/vireo-dev/vireo/internal/vireoerr"

// maxPathLenCeiling is the wire format's absolute limit: AssignId and
// ReplacePlaceholder prefix their path with a u8 length byte (spec §9,
// "Paths use u8-indexed child positions capped at 255 per level"), so no
// configured MaxPathLen can push past this regardless of RuntimeConfig.
const maxPathLenCeiling = 255

// Writer encodes the opcode stream into a caller-owned buffer with a
// fixed maximum capacity (spec §4.9's "caller-owned byte buffer with a
// maximum capacity"). Exceeding that capacity is a Capacity/backpressure
// error (spec §7), never a panic: callers size buffers and decide how to
// react to refusal.
type Writer struct {
	buf        []byte
	max        int
	maxPathLen int
}

// NewWriter wraps buf (len 0, cap maxLen) as the writer's backing store.
// maxLen is the hard ceiling; buf may have a smaller starting capacity
// and will be grown up to maxLen.
func NewWriter(buf []byte, maxLen int) *Writer {
	return &Writer{buf: buf[:0], max: maxLen, maxPathLen: maxPathLenCeiling}
}

// SetMaxPathLen tightens the path-length cap AssignId/ReplacePlaceholder
// enforce (internal/vireocfg.RuntimeConfig.MaxPathLen). Values above the
// wire format's own 255 ceiling are clamped down to it.
func (w *Writer) SetMaxPathLen(n uint8) {
	w.maxPathLen = int(n)
	if w.maxPathLen > maxPathLenCeiling {
		w.maxPathLen = maxPathLenCeiling
	}
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) ensure(n int) error {
	if len(w.buf)+n > w.max {
		return vireoerr.New(vireoerr.CodeBufferOverflow, vireoerr.Capacity,
			"mutation writer: would exceed max capacity")
	}
	return nil
}

func (w *Writer) writeByte(b byte) error {
	if err := w.ensure(1); err != nil {
		return err
	}
	w.buf = append(w.buf, b)
	return nil
}

func (w *Writer) writeU16(v uint16) error {
	if err := w.ensure(2); err != nil {
		return err
	}
	w.buf = append(w.buf, byte(v), byte(v>>8))
	return nil
}

func (w *Writer) writeU32(v uint32) error {
	if err := w.ensure(4); err != nil {
		return err
	}
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	return nil
}

func (w *Writer) writeBytes(b []byte) error {
	if err := w.ensure(len(b)); err != nil {
		return err
	}
	w.buf = append(w.buf, b...)
	return nil
}

func (w *Writer) op(o Op) error { return w.writeByte(byte(o)) }

// End writes the End sentinel (the zero byte).
func (w *Writer) End() error { return w.op(OpEnd) }

// AppendChildren: id u32, m u32.
func (w *Writer) AppendChildren(id uint32, m uint32) error {
	if err := w.op(OpAppendChildren); err != nil {
		return err
	}
	if err := w.writeU32(id); err != nil {
		return err
	}
	return w.writeU32(m)
}

// AssignId: path_len u8, path u8×n, id u32. Path length is capped at 255
// per spec §9 ("Paths use u8-indexed child positions capped at 255 per
// level").
func (w *Writer) AssignId(path []uint8, id uint32) error {
	if len(path) > w.maxPathLen {
		return vireoerr.New(vireoerr.CodeOutOfRange, vireoerr.Reported,
			"mutation writer: AssignId path exceeds configured max path length")
	}
	if err := w.op(OpAssignId); err != nil {
		return err
	}
	if err := w.writeByte(byte(len(path))); err != nil {
		return err
	}
	if err := w.writeBytes(path); err != nil {
		return err
	}
	return w.writeU32(id)
}

// CreatePlaceholder: id u32.
func (w *Writer) CreatePlaceholder(id uint32) error {
	if err := w.op(OpCreatePlaceholder); err != nil {
		return err
	}
	return w.writeU32(id)
}

// CreateTextNode: id u32, len u32, bytes.
func (w *Writer) CreateTextNode(id uint32, text string) error {
	if err := w.op(OpCreateTextNode); err != nil {
		return err
	}
	if err := w.writeU32(id); err != nil {
		return err
	}
	if err := w.writeU32(uint32(len(text))); err != nil {
		return err
	}
	return w.writeBytes([]byte(text))
}

// LoadTemplate: tmpl_id u32, root_index u32, id u32.
func (w *Writer) LoadTemplate(tmplID uint32, rootIndex uint32, id uint32) error {
	if err := w.op(OpLoadTemplate); err != nil {
		return err
	}
	if err := w.writeU32(tmplID); err != nil {
		return err
	}
	if err := w.writeU32(rootIndex); err != nil {
		return err
	}
	return w.writeU32(id)
}

// ReplaceWith: id u32, m u32.
func (w *Writer) ReplaceWith(id uint32, m uint32) error {
	if err := w.op(OpReplaceWith); err != nil {
		return err
	}
	if err := w.writeU32(id); err != nil {
		return err
	}
	return w.writeU32(m)
}

// ReplacePlaceholder: path_len u8, path, m u32.
func (w *Writer) ReplacePlaceholder(path []uint8, m uint32) error {
	if len(path) > w.maxPathLen {
		return vireoerr.New(vireoerr.CodeOutOfRange, vireoerr.Reported,
			"mutation writer: ReplacePlaceholder path exceeds configured max path length")
	}
	if err := w.op(OpReplacePlaceholder); err != nil {
		return err
	}
	if err := w.writeByte(byte(len(path))); err != nil {
		return err
	}
	if err := w.writeBytes(path); err != nil {
		return err
	}
	return w.writeU32(m)
}

// InsertAfter: id u32, m u32.
func (w *Writer) InsertAfter(id uint32, m uint32) error {
	if err := w.op(OpInsertAfter); err != nil {
		return err
	}
	if err := w.writeU32(id); err != nil {
		return err
	}
	return w.writeU32(m)
}

// InsertBefore: id u32, m u32.
func (w *Writer) InsertBefore(id uint32, m uint32) error {
	if err := w.op(OpInsertBefore); err != nil {
		return err
	}
	if err := w.writeU32(id); err != nil {
		return err
	}
	return w.writeU32(m)
}

// SetAttribute: id u32, ns u8, name_len u16, name, value_len u32, value.
func (w *Writer) SetAttribute(id uint32, ns Namespace, name string, value string) error {
	if len(name) > 0xFFFF {
		return vireoerr.New(vireoerr.CodeOutOfRange, vireoerr.Reported,
			"mutation writer: attribute name exceeds u16 length")
	}
	if err := w.op(OpSetAttribute); err != nil {
		return err
	}
	if err := w.writeU32(id); err != nil {
		return err
	}
	if err := w.writeByte(byte(ns)); err != nil {
		return err
	}
	if err := w.writeU16(uint16(len(name))); err != nil {
		return err
	}
	if err := w.writeBytes([]byte(name)); err != nil {
		return err
	}
	if err := w.writeU32(uint32(len(value))); err != nil {
		return err
	}
	return w.writeBytes([]byte(value))
}

// SetText: id u32, len u32, bytes.
func (w *Writer) SetText(id uint32, text string) error {
	if err := w.op(OpSetText); err != nil {
		return err
	}
	if err := w.writeU32(id); err != nil {
		return err
	}
	if err := w.writeU32(uint32(len(text))); err != nil {
		return err
	}
	return w.writeBytes([]byte(text))
}

func (w *Writer) writeEventOp(op Op, id uint32, name string) error {
	if len(name) > 0xFFFF {
		return vireoerr.New(vireoerr.CodeOutOfRange, vireoerr.Reported,
			"mutation writer: event name exceeds u16 length")
	}
	if err := w.op(op); err != nil {
		return err
	}
	if err := w.writeU32(id); err != nil {
		return err
	}
	if err := w.writeU16(uint16(len(name))); err != nil {
		return err
	}
	return w.writeBytes([]byte(name))
}

// NewEventListener: id u32, name_len u16, name.
func (w *Writer) NewEventListener(id uint32, name string) error {
	return w.writeEventOp(OpNewEventListener, id, name)
}

// RemoveEventListener: id u32, name_len u16, name.
func (w *Writer) RemoveEventListener(id uint32, name string) error {
	return w.writeEventOp(OpRemoveEventListener, id, name)
}

// Remove: id u32.
func (w *Writer) Remove(id uint32) error {
	if err := w.op(OpRemove); err != nil {
		return err
	}
	return w.writeU32(id)
}

// PushRoot: id u32.
func (w *Writer) PushRoot(id uint32) error {
	if err := w.op(OpPushRoot); err != nil {
		return err
	}
	return w.writeU32(id)
}

// Finalize writes the End sentinel and returns the total bytes written.
func (w *Writer) Finalize() (int, error) {
	if err := w.End(); err != nil {
		return len(w.buf), err
	}
	return len(w.buf), nil
}
