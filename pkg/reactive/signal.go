package reactive

// signalEntry is one cell of the SignalStore. Value is type-erased: a
// scalar integer (int64), a boolean (encoded as Go bool), or a
// strings.Key, per spec §4.2. Equal lets a signal use a caller-supplied
// equality instead of Go's `==` (still used by default, since every
// payload kind above is comparable).
type signalEntry struct {
	alive   bool
	value   any
	version uint32
	subs    []ContextID
	equal   func(a, b any) bool
}

func defaultEqual(a, b any) bool { return a == b }

// SignalStore is a dense arena of reactive cells with a free list.
type SignalStore struct {
	entries []signalEntry
	free    []SignalKey
}

// NewSignalStore creates an empty SignalStore.
func NewSignalStore() *SignalStore {
	return &SignalStore{}
}

// Create allocates a signal with the given initial value, reusing a freed
// slot when available. Write-version starts at 0.
func (s *SignalStore) Create(initial any) SignalKey {
	return s.CreateWithEquals(initial, defaultEqual)
}

// CreateWithEquals is Create with a custom equality function.
func (s *SignalStore) CreateWithEquals(initial any, equal func(a, b any) bool) SignalKey {
	if n := len(s.free); n > 0 {
		k := s.free[n-1]
		s.free = s.free[:n-1]
		s.entries[k] = signalEntry{alive: true, value: initial, equal: equal}
		return k
	}
	s.entries = append(s.entries, signalEntry{alive: true, value: initial, equal: equal})
	return SignalKey(len(s.entries) - 1)
}

func (s *SignalStore) valid(key SignalKey) bool {
	return int(key) >= 0 && int(key) < len(s.entries) && s.entries[key].alive
}

// Alive reports whether key currently names a live signal.
func (s *SignalStore) Alive(key SignalKey) bool { return s.valid(key) }

// Peek returns the current value without subscribing anything.
func (s *SignalStore) Peek(key SignalKey) any {
	if !s.valid(key) {
		return nil
	}
	return s.entries[key].value
}

// Version returns the signal's write-version.
func (s *SignalStore) Version(key SignalKey) uint32 {
	if !s.valid(key) {
		return 0
	}
	return s.entries[key].version
}

// Write sets value and bumps the version, unless value equals the
// current one (equal-value suppression, spec §4.2): no version
// bump, no subscriber returned. Returns the subscriber list to notify
// (nil when suppressed or unknown key) — the caller (Runtime) is
// responsible for actually dispatching notifications, since only it knows
// how to route a Scope/Memo/Effect ContextID.
func (s *SignalStore) Write(key SignalKey, value any) []ContextID {
	if !s.valid(key) {
		return nil
	}
	e := &s.entries[key]
	if e.equal(e.value, value) {
		return nil
	}
	e.value = value
	e.version++
	return e.subs
}

// addSub subscribes ctx to key, deduplicating by ContextID.
func (s *SignalStore) addSub(key SignalKey, ctx ContextID) {
	if !s.valid(key) {
		return
	}
	e := &s.entries[key]
	for _, existing := range e.subs {
		if existing == ctx {
			return
		}
	}
	e.subs = append(e.subs, ctx)
}

// removeSub unsubscribes ctx from key, if present.
func (s *SignalStore) removeSub(key SignalKey, ctx ContextID) {
	if !s.valid(key) {
		return
	}
	e := &s.entries[key]
	for i, existing := range e.subs {
		if existing == ctx {
			e.subs[i] = e.subs[len(e.subs)-1]
			e.subs = e.subs[:len(e.subs)-1]
			return
		}
	}
}

// Subs returns the live subscriber list for key (read-only view).
func (s *SignalStore) Subs(key SignalKey) []ContextID {
	if !s.valid(key) {
		return nil
	}
	return s.entries[key].subs
}

// Destroy removes key's membership from the peer direction is the
// caller's job (Runtime tracks which contexts subscribed to which keys);
// Destroy itself just frees the slot. Destroying an already-destroyed or
// unknown key is a silent no-op (spec §7).
func (s *SignalStore) Destroy(key SignalKey) {
	if !s.valid(key) {
		return
	}
	s.entries[key] = signalEntry{}
	s.free = append(s.free, key)
}

// --- compound mutators (spec §4.2) ---

// IAdd adds delta to an int64 signal, read-then-write.
func (s *SignalStore) IAdd(key SignalKey, delta int64) []ContextID {
	return s.Write(key, s.Peek(key).(int64)+delta)
}

// ISub subtracts delta from an int64 signal.
func (s *SignalStore) ISub(key SignalKey, delta int64) []ContextID {
	return s.Write(key, s.Peek(key).(int64)-delta)
}

// IMul multiplies an int64 signal by factor.
func (s *SignalStore) IMul(key SignalKey, factor int64) []ContextID {
	return s.Write(key, s.Peek(key).(int64)*factor)
}

// IFloorDiv floor-divides an int64 signal by divisor.
func (s *SignalStore) IFloorDiv(key SignalKey, divisor int64) []ContextID {
	v := s.Peek(key).(int64)
	q := v / divisor
	if (v%divisor != 0) && ((v < 0) != (divisor < 0)) {
		q--
	}
	return s.Write(key, q)
}

// IMod computes a floor-modulo of an int64 signal by divisor.
func (s *SignalStore) IMod(key SignalKey, divisor int64) []ContextID {
	v := s.Peek(key).(int64)
	m := v % divisor
	if m != 0 && ((m < 0) != (divisor < 0)) {
		m += divisor
	}
	return s.Write(key, m)
}

// Toggle flips a bool signal.
func (s *SignalStore) Toggle(key SignalKey) []ContextID {
	return s.Write(key, !s.Peek(key).(bool))
}
