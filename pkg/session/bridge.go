// Package session persists the raw button snapshot across page-navigation
// boundaries. The browser resets script state on every navigation; without
// this bridge a button held across a page load would re-trigger as a fresh
// press on the next page.
package session

import (
	"encoding/json"
	"log/slog"

	"github.com/Alia5/padnav/pkg/gamepad"
)

// SnapshotKey is the fixed storage key for the raw button snapshot.
const SnapshotKey = "padnav.buttons"

// Store is the persistence backend: browser session storage behind the
// bridge, a state file for the demo, memory for tests.
type Store interface {
	// Load returns the stored value. The second result is false when the
	// key is absent, which is a valid, expected state (first visit).
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
}

// Bridge serializes button snapshots through a Store. Storage failures
// (quota, disabled storage) are never propagated: they are logged and
// degrade to "no prior snapshot".
type Bridge struct {
	store  Store
	logger *slog.Logger
}

// NewBridge wraps the given store.
func NewBridge(store Store, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{store: store, logger: logger}
}

// Save writes the snapshot as a JSON object mapping button name to level.
func (b *Bridge) Save(snap gamepad.Snapshot) {
	named := make(map[string]bool, len(snap))
	for btn, v := range snap {
		named[btn.String()] = v
	}
	data, err := json.Marshal(named)
	if err != nil {
		b.logger.Warn("encode button snapshot", "error", err)
		return
	}
	if err := b.store.Save(SnapshotKey, data); err != nil {
		b.logger.Warn("persist button snapshot", "error", err)
	}
}

// Load restores the last saved snapshot. Unknown button names are skipped;
// any failure reads as "no prior snapshot".
func (b *Bridge) Load() (gamepad.Snapshot, bool) {
	data, ok, err := b.store.Load(SnapshotKey)
	if err != nil {
		b.logger.Warn("read button snapshot", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var named map[string]bool
	if err := json.Unmarshal(data, &named); err != nil {
		b.logger.Warn("decode button snapshot", "error", err)
		return nil, false
	}
	snap := make(gamepad.Snapshot, len(named))
	for name, v := range named {
		if btn, known := gamepad.ButtonFromName(name); known {
			snap[btn] = v
		}
	}
	return snap, true
}
