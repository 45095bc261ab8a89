package ui

import (
	"sync"

	"github.com/Alia5/padnav/pkg/gamepad"
)

// axisPulsePolls is how many polls a keyboard cursor nudge stays deflected.
const axisPulsePolls = 2

// KeyPad turns discrete key presses into the continuous pad levels the
// engine samples. A terminal only reports key-down, so presses are pulses:
// a pressed button reads held for exactly one poll and released on the
// next, which yields one clean press edge and one release edge. Held
// modifiers (cursor boost) are toggles instead.
type KeyPad struct {
	mu     sync.Mutex
	pulses map[gamepad.Button]int
	held   gamepad.Levels
	axes   [4]float64
	axisN  int
}

func NewKeyPad() *KeyPad {
	return &KeyPad{
		pulses: make(map[gamepad.Button]int),
		held:   make(gamepad.Levels),
	}
}

// Press queues one press pulse for b.
func (k *KeyPad) Press(b gamepad.Button) {
	k.mu.Lock()
	k.pulses[b] = 1
	k.mu.Unlock()
}

// ToggleHold flips b between held and released and reports the new state.
func (k *KeyPad) ToggleHold(b gamepad.Button) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.held[b] = !k.held[b]
	return k.held[b]
}

// Nudge deflects the cursor stick for a couple of polls.
func (k *KeyPad) Nudge(dx, dy float64) {
	k.mu.Lock()
	k.axes[gamepad.AxisCursorX] = dx
	k.axes[gamepad.AxisCursorY] = dy
	k.axisN = axisPulsePolls
	k.mu.Unlock()
}

// Poll implements gamepad.Sampler. Each call consumes pending pulses.
func (k *KeyPad) Poll() []gamepad.Pad {
	k.mu.Lock()
	defer k.mu.Unlock()

	lv := make(gamepad.Levels, len(k.pulses)+len(k.held))
	for b, n := range k.pulses {
		if n > 0 {
			lv[b] = true
			k.pulses[b] = n - 1
		} else {
			delete(k.pulses, b)
		}
	}
	for b, on := range k.held {
		if on {
			lv[b] = true
		}
	}

	axes := make([]float64, 4)
	if k.axisN > 0 {
		copy(axes, k.axes[:])
		k.axisN--
	}

	return []gamepad.Pad{gamepad.PadFromLevels(lv, axes...)}
}
