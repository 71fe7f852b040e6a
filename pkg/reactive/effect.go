package reactive

// effectEntry backs an EffectId: the owning scope, the pending bit, and
// the set of input signals read during the last run (spec §4.5).
type effectEntry struct {
	alive       bool
	owner       ScopeID
	pending     bool
	sources     []SignalKey
	prevSources []SignalKey
}

// EffectStore holds side-effect runners (spec §4.5).
type EffectStore struct {
	entries []effectEntry
	free    []EffectID
}

// NewEffectStore creates an empty EffectStore.
func NewEffectStore() *EffectStore {
	return &EffectStore{}
}

// Create allocates an effect, starting pending.
func (s *EffectStore) Create(owner ScopeID) EffectID {
	e := effectEntry{alive: true, owner: owner, pending: true}
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.entries[id] = e
		return id
	}
	s.entries = append(s.entries, e)
	return EffectID(len(s.entries) - 1)
}

func (s *EffectStore) valid(id EffectID) bool {
	return int(id) >= 0 && int(id) < len(s.entries) && s.entries[id].alive
}

// Alive reports whether id currently names a live effect.
func (s *EffectStore) Alive(id EffectID) bool { return s.valid(id) }

// Owner returns the scope that owns id.
func (s *EffectStore) Owner(id EffectID) ScopeID { return s.entries[id].owner }

// IsPending reports id's pending bit.
func (s *EffectStore) IsPending(id EffectID) bool {
	return s.valid(id) && s.entries[id].pending
}

// MarkPending sets id's pending bit (called when an input signal fires).
func (s *EffectStore) MarkPending(id EffectID) {
	if s.valid(id) {
		s.entries[id].pending = true
	}
}

// BeginRun snapshots the effect's current subscriptions for pruning.
func (s *EffectStore) BeginRun(id EffectID) {
	e := &s.entries[id]
	e.prevSources = e.sources
	e.sources = nil
}

// TrackSource records that the run in progress read key.
func (s *EffectStore) TrackSource(id EffectID, key SignalKey) {
	e := &s.entries[id]
	if !containsKey(e.sources, key) {
		e.sources = append(e.sources, key)
	}
}

// EndRun clears the pending bit and prunes stale subscriptions.
func (s *EffectStore) EndRun(id EffectID, prune func(stale SignalKey)) {
	e := &s.entries[id]
	for _, old := range e.prevSources {
		if !containsKey(e.sources, old) {
			prune(old)
		}
	}
	e.prevSources = nil
	e.pending = false
}

// Destroy unsubscribes from all inputs and recycles the slot.
func (s *EffectStore) Destroy(id EffectID, unsubscribe func(key SignalKey, ctx ContextID)) {
	if !s.valid(id) {
		return
	}
	e := s.entries[id]
	ctx := effectContext(id)
	for _, src := range e.sources {
		unsubscribe(src, ctx)
	}
	s.entries[id] = effectEntry{}
	s.free = append(s.free, id)
}
