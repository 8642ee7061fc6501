package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibilityStore_DefaultsVisible(t *testing.T) {
	store := NewVisibilityStore()

	for _, key := range OverlayKeys() {
		assert.True(t, store.Get(key), "overlay %s should start visible", key)
	}
}

func TestVisibilityStore_ToggleFlipsOneKey(t *testing.T) {
	store := NewVisibilityStore()

	visible := store.Toggle(OverlaySAR)
	assert.False(t, visible)
	assert.False(t, store.Get(OverlaySAR))

	// Every other key is untouched.
	for _, key := range OverlayKeys() {
		if key == OverlaySAR {
			continue
		}
		assert.True(t, store.Get(key))
	}

	visible = store.Toggle(OverlaySAR)
	assert.True(t, visible)
	assert.True(t, store.Get(OverlaySAR))
}

func TestVisibilityStore_UnknownKeyIgnored(t *testing.T) {
	store := NewVisibilityStore()

	assert.False(t, store.Toggle(OverlayKey("bollinger")))
	assert.False(t, store.Get(OverlayKey("bollinger")))

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, len(OverlayKeys()))
}

func TestVisibilityStore_SnapshotIsCopy(t *testing.T) {
	store := NewVisibilityStore()

	snapshot := store.Snapshot()
	snapshot[OverlaySAR] = false

	assert.True(t, store.Get(OverlaySAR))
}
