package reactive

// memoEntry backs a MemoId: the owning scope, the output signal (cached
// value, subscribable like any other signal), the context-marker signal
// (used purely as a write target to identify "this memo became dirty" —
// spec §4.4, §9), the dirty bit, and the set of input signals read during
// the last compute.
type memoEntry struct {
	alive       bool
	owner       ScopeID
	output      SignalKey
	marker      SignalKey
	dirty       bool
	sources     []SignalKey
	prevSources []SignalKey
}

// MemoStore holds computed cells (spec §4.4).
type MemoStore struct {
	entries []memoEntry
	free    []MemoID
	signals *SignalStore
}

// NewMemoStore creates a MemoStore backed by signals for its output and
// marker cells.
func NewMemoStore(signals *SignalStore) *MemoStore {
	return &MemoStore{signals: signals}
}

// Create allocates output and marker signals and starts the memo dirty.
func (m *MemoStore) Create(owner ScopeID, initial any) MemoID {
	output := m.signals.Create(initial)
	marker := m.signals.Create(int64(0))

	e := memoEntry{alive: true, owner: owner, output: output, marker: marker, dirty: true}
	if n := len(m.free); n > 0 {
		id := m.free[n-1]
		m.free = m.free[:n-1]
		m.entries[id] = e
		return id
	}
	m.entries = append(m.entries, e)
	return MemoID(len(m.entries) - 1)
}

func (m *MemoStore) valid(id MemoID) bool {
	return int(id) >= 0 && int(id) < len(m.entries) && m.entries[id].alive
}

// Alive reports whether id currently names a live memo.
func (m *MemoStore) Alive(id MemoID) bool { return m.valid(id) }

// OutputKey returns the SignalKey holding the memo's cached value.
func (m *MemoStore) OutputKey(id MemoID) SignalKey { return m.entries[id].output }

// MarkerKey returns the memo's context-marker SignalKey.
func (m *MemoStore) MarkerKey(id MemoID) SignalKey { return m.entries[id].marker }

// Owner returns the scope that owns id.
func (m *MemoStore) Owner(id MemoID) ScopeID { return m.entries[id].owner }

// IsDirty returns id's dirty bit.
func (m *MemoStore) IsDirty(id MemoID) bool {
	return m.valid(id) && m.entries[id].dirty
}

// SetDirty sets id's dirty bit (used when the marker signal fires).
func (m *MemoStore) SetDirty(id MemoID) {
	if m.valid(id) {
		m.entries[id].dirty = true
	}
}

// BeginCompute snapshots the memo's current input subscriptions so stale
// ones can be pruned once the new set is known (spec §4.4).
func (m *MemoStore) BeginCompute(id MemoID) {
	e := &m.entries[id]
	e.prevSources = e.sources
	e.sources = nil
}

// TrackSource records that the compute in progress read key.
func (m *MemoStore) TrackSource(id MemoID, key SignalKey) {
	e := &m.entries[id]
	if !containsKey(e.sources, key) {
		e.sources = append(e.sources, key)
	}
}

// EndCompute writes value to the output signal (equal-value suppressed),
// clears the dirty bit, and reports stale sources to prune via the
// supplied callback. Returns the output signal's subscriber list if the
// write actually changed the value (nil otherwise), for the Runtime to
// propagate.
func (m *MemoStore) EndCompute(id MemoID, value any, prune func(stale SignalKey)) []ContextID {
	e := &m.entries[id]
	for _, old := range e.prevSources {
		if !containsKey(e.sources, old) {
			prune(old)
		}
	}
	e.prevSources = nil
	e.dirty = false
	return m.signals.Write(e.output, value)
}

// RecomputeFrom is a push/pop-less convenience equivalent to
// BeginCompute+EndCompute with no source tracking in between (used when
// the caller already knows there are no new dependencies to track).
func (m *MemoStore) RecomputeFrom(id MemoID, value any, prune func(stale SignalKey)) []ContextID {
	m.BeginCompute(id)
	return m.EndCompute(id, value, prune)
}

// Destroy unsubscribes from all input signals, destroys both the output
// and marker signals, and recycles the slot.
func (m *MemoStore) Destroy(id MemoID, unsubscribe func(key SignalKey, ctx ContextID)) {
	if !m.valid(id) {
		return
	}
	e := m.entries[id]
	ctx := memoContext(id)
	for _, src := range e.sources {
		unsubscribe(src, ctx)
	}
	m.signals.Destroy(e.output)
	m.signals.Destroy(e.marker)
	m.entries[id] = memoEntry{}
	m.free = append(m.free, id)
}
