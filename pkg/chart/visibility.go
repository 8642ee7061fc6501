package chart

import "sync"

// OverlayKey names one togglable overlay. The key set is closed.
type OverlayKey string

const (
	OverlaySMAShort   OverlayKey = "sma-short"
	OverlaySMALong    OverlayKey = "sma-long"
	OverlaySAR        OverlayKey = "sar"
	OverlayPrediction OverlayKey = "prediction"
	OverlayOscillator OverlayKey = "oscillator"
)

// OverlayKeys returns the closed set of togglable overlay keys.
func OverlayKeys() []OverlayKey {
	return []OverlayKey{
		OverlaySMAShort,
		OverlaySMALong,
		OverlaySAR,
		OverlayPrediction,
		OverlayOscillator,
	}
}

// Visibility is an immutable snapshot of the store, consumed by a render
// pass.
type Visibility map[OverlayKey]bool

// VisibilityStore holds the per-series toggle state. It is a user-interface
// preference, independent of data fetching: switching symbols does not
// reset it.
type VisibilityStore struct {
	sync.Mutex
	visible map[OverlayKey]bool
}

// NewVisibilityStore creates a store with every overlay visible.
func NewVisibilityStore() *VisibilityStore {
	visible := make(map[OverlayKey]bool, len(OverlayKeys()))
	for _, key := range OverlayKeys() {
		visible[key] = true
	}

	return &VisibilityStore{visible: visible}
}

// Get returns the current visibility of one overlay. Unknown keys are
// reported hidden.
func (s *VisibilityStore) Get(key OverlayKey) bool {
	s.Lock()
	defer s.Unlock()
	return s.visible[key]
}

// Toggle flips exactly one entry and returns its new state. Keys outside
// the closed set are ignored.
func (s *VisibilityStore) Toggle(key OverlayKey) bool {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.visible[key]; !ok {
		return false
	}

	s.visible[key] = !s.visible[key]
	return s.visible[key]
}

// Snapshot returns a copy of the current toggle state for a render pass.
func (s *VisibilityStore) Snapshot() Visibility {
	s.Lock()
	defer s.Unlock()

	snapshot := make(Visibility, len(s.visible))
	for key, visible := range s.visible {
		snapshot[key] = visible
	}

	return snapshot
}
