package vireo

import (
	"github.com/vireo-dev/vireo/internal/vireoerr"
	"github.com/vireo-dev/vireo/pkg/interpreter"
	"github.com/vireo-dev/vireo/pkg/reactive"
	"github.com/vireo-dev/vireo/pkg/strings"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

type handlerKind uint8

const (
	handlerAdd handlerKind = iota
	handlerSub
	handlerSet
	handlerToggle
	handlerStringSet
	handlerCustom
)

// handlerEntry is one registered handler (spec §4.13: "the runtime may
// register a handler for a (scope, signal, delta, event_name) tuple that,
// when dispatched, performs a specific signal mutation").
type handlerEntry struct {
	kind   handlerKind
	signal reactive.SignalKey
	delta  int64
	value  int64
	strVal string
	verKey reactive.SignalKey
	custom func(eventType string)
}

// handlerTable is a dense, append-only namespace of handler ids (spec
// §4.13: "handler ids are small integers from a dense namespace; they
// must not be reused across runtime restarts").
type handlerTable struct {
	entries []handlerEntry
}

func (t *handlerTable) register(e handlerEntry) uint32 {
	t.entries = append(t.entries, e)
	return uint32(len(t.entries) - 1)
}

// OnClickAdd registers a handler that adds delta to h when dispatched.
func (s *Shell) OnClickAdd(h SignalHandle, delta int64) uint32 {
	return s.handlers.register(handlerEntry{kind: handlerAdd, signal: h.key, delta: delta})
}

// OnClickSub registers a handler that subtracts delta from h.
func (s *Shell) OnClickSub(h SignalHandle, delta int64) uint32 {
	return s.handlers.register(handlerEntry{kind: handlerSub, signal: h.key, delta: delta})
}

// OnClickSet registers a handler that sets h to a fixed value.
func (s *Shell) OnClickSet(h SignalHandle, value int64) uint32 {
	return s.handlers.register(handlerEntry{kind: handlerSet, signal: h.key, value: value})
}

// OnClickToggle registers a handler that flips a bool signal.
func (s *Shell) OnClickToggle(h BoolSignalHandle) uint32 {
	return s.handlers.register(handlerEntry{kind: handlerToggle, signal: h.key})
}

// OnInputSet registers a handler that sets a string signal to a fixed
// value. The wire format's dispatch_event carries only (handler_id,
// event_type) — no payload (spec §4.9, §4.13) — so unlike a live "set to
// whatever the user typed" input binding, the value dispatched here is
// fixed at registration time; a host wanting live input echo would need
// to extend the wire format with an event-value opcode, which is out of
// scope.
func (s *Shell) OnInputSet(h StringSignalHandle, value string) uint32 {
	return s.handlers.register(handlerEntry{kind: handlerStringSet, signal: h.sigKey, verKey: h.verKey, strVal: value})
}

// OnEvent registers a generic handler for any event name, running fn
// with the dispatched event type.
func (s *Shell) OnEvent(fn func(eventType string)) uint32 {
	return s.handlers.register(handlerEntry{kind: handlerCustom, custom: fn})
}

// DispatchEvent routes a dispatched (handler_id, event_type) pair to the
// registered mutation (spec §4.13's dispatch_event), then drains newly
// dirtied scopes into the scheduler.
func (s *Shell) DispatchEvent(handlerID uint32, eventType string) error {
	if int(handlerID) >= len(s.handlers.entries) {
		return vireoerr.New(vireoerr.CodeOutOfRange, vireoerr.Reported, "vireo: unknown handler id")
	}
	e := s.handlers.entries[handlerID]
	switch e.kind {
	case handlerAdd:
		s.rt.IAdd(e.signal, e.delta)
	case handlerSub:
		s.rt.ISub(e.signal, e.delta)
	case handlerSet:
		s.rt.Write(e.signal, e.value)
	case handlerToggle:
		s.rt.Toggle(e.signal)
	case handlerStringSet:
		strKey := s.rt.Peek(e.signal).(strings.Key)
		s.strs.Write(strKey, e.strVal)
		s.rt.Write(e.verKey, s.rt.Peek(e.verKey).(int64)+1)
	case handlerCustom:
		if e.custom != nil {
			e.custom(eventType)
		}
	}
	s.rt.CollectDirty()
	return nil
}

// BindInterpreter wires interp's event callback to DispatchEvent,
// resolving (ElementId, eventName) back to a handler id by walking the
// most recently mounted/flushed VNode tree's DynAttrIDs (populated by
// CreateEngine/DiffEngine, spec §3/§4.10) — the wiring
// pkg/interpreter.EventCallback's doc comment defers to "whatever owns
// both the interpreter and the emitter side".
func (s *Shell) BindInterpreter(interp *interpreter.Interpreter) {
	interp.SetEventCallback(func(id vnode.ElementId, eventName string) {
		if handlerID, ok := s.lookupHandler(id, eventName); ok {
			_ = s.DispatchEvent(handlerID, eventName)
		}
	})
}

func (s *Shell) lookupHandler(id vnode.ElementId, eventName string) (uint32, bool) {
	if s.lastStore == nil {
		return 0, false
	}
	return findHandler(s.lastStore, s.lastIx, id, eventName)
}

func findHandler(store *vnode.Store, ix int, id vnode.ElementId, eventName string) (uint32, bool) {
	n := store.Get(ix)
	switch n.Kind {
	case vnode.KindTemplateRef:
		for i, attrID := range n.DynAttrIDs {
			if attrID != id || i >= len(n.DynAttr) {
				continue
			}
			attr := n.DynAttr[i]
			if attr.Kind == vnode.AttrEvent && attr.Name == eventName {
				return attr.HandlerID, true
			}
		}
	case vnode.KindFragment:
		for _, child := range n.Children {
			if hid, ok := findHandler(store, child, id, eventName); ok {
				return hid, true
			}
		}
	}
	return 0, false
}
