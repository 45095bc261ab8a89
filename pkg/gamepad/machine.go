package gamepad

// Snapshot is the last known raw hardware level per button. It is the piece
// of state that survives page navigations: a button still physically held
// when the script context restarts must not be re-reported as a fresh press.
type Snapshot map[Button]bool

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for b, v := range s {
		out[b] = v
	}
	return out
}

// Machine is the per-button two-state press/release edge detector.
//
// Raw levels and edge state are tracked independently: the raw snapshot is
// unconditionally overwritten on every sample so a machine (re)started
// mid-press sees the held level immediately, while the edge state only moves
// on detected transitions and is what the rest of the engine trusts.
type Machine struct {
	raw  Snapshot
	edge [buttonCount]bool

	// confirmLatched suppresses a second Confirm action until the matching
	// release edge has been seen. Press-to-action, not time-based.
	confirmLatched bool
}

// NewMachine returns a machine with every button released.
func NewMachine() *Machine {
	return &Machine{raw: make(Snapshot, buttonCount)}
}

// Sample compares the given raw levels against the previous tick and
// returns the buttons that were newly pressed and newly released. Called
// once per poll tick.
func (m *Machine) Sample(levels Levels) (pressed, released []Button) {
	for i := 0; i < int(buttonCount); i++ {
		b := Button(i)
		raw := levels[b]
		prev := m.raw[b]
		m.raw[b] = raw

		switch {
		case raw && !prev && !m.edge[b]:
			m.edge[b] = true
			pressed = append(pressed, b)
		case !raw && m.edge[b]:
			m.edge[b] = false
			released = append(released, b)
			if b == Confirm {
				m.confirmLatched = false
			}
		}
	}
	return pressed, released
}

// Held reports the edge-state view of a button: true only between a
// detected press and its detected release.
func (m *Machine) Held(b Button) bool {
	if int(b) >= len(m.edge) {
		return false
	}
	return m.edge[b]
}

// LatchConfirm arms the Confirm action latch. It returns true if the caller
// may act on this press; further calls return false until the release edge
// for Confirm has been sampled.
func (m *Machine) LatchConfirm() bool {
	if m.confirmLatched {
		return false
	}
	m.confirmLatched = true
	return true
}

// Snapshot returns a copy of the raw level map for persistence.
func (m *Machine) Snapshot() Snapshot {
	return m.raw.Clone()
}

// Restore seeds the raw level map from a persisted snapshot. Edge state is
// left untouched: a button that was held before navigation stays logically
// released until a fresh press edge, which the seeded raw level prevents
// from firing spuriously.
func (m *Machine) Restore(s Snapshot) {
	for b, v := range s {
		if int(b) < int(buttonCount) {
			m.raw[b] = v
		}
	}
	// A held button whose release happened while no context was alive can
	// never deliver its release edge; edge state starts false so it simply
	// re-arms.
	for i := range m.edge {
		m.edge[i] = false
	}
	m.confirmLatched = false
}
