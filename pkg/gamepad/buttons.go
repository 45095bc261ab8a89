// Package gamepad converts continuously sampled controller state into
// discrete edge events. The hardware reports levels (pressed right now);
// everything downstream wants edges (became pressed this tick), and the two
// must never drift apart across page navigations or polling restarts.
package gamepad

// Button is a logical controller button the engine understands.
type Button uint8

const (
	Up Button = iota
	Down
	Left
	Right
	Confirm
	Cancel
	Start
	ShoulderL
	TriggerL
	TriggerR
	Share

	buttonCount
)

var buttonNames = [buttonCount]string{
	"up", "down", "left", "right",
	"confirm", "cancel", "start",
	"shoulder-l", "trigger-l", "trigger-r", "share",
}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return "unknown"
}

// ButtonFromName is the inverse of String, used when restoring a persisted
// snapshot. The second result is false for unrecognized names.
func ButtonFromName(name string) (Button, bool) {
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}
	return 0, false
}

// buttonIndex is the fixed standard-layout mapping from hardware button
// index to logical button. Indices absent from the map are ignored; there
// is deliberately no vendor abstraction here.
var buttonIndex = map[int]Button{
	0:  Confirm,
	1:  Cancel,
	4:  ShoulderL,
	6:  TriggerL,
	7:  TriggerR,
	8:  Share,
	9:  Start,
	12: Up,
	13: Down,
	14: Left,
	15: Right,
}

// Buttons returns every logical button, in a stable order.
func Buttons() []Button {
	out := make([]Button, buttonCount)
	for i := range out {
		out[i] = Button(i)
	}
	return out
}

// Levels is a raw per-tick reading: which logical buttons the hardware
// currently reports as held. Missing keys mean released.
type Levels map[Button]bool
