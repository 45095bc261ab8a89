package gamepad

// Axis indices into Pad.Axes for the standard layout.
const (
	AxisCursorX = 0
	AxisCursorY = 1
	AxisNavX    = 2
	AxisNavY    = 3
)

// PadButton mirrors the platform's per-button reading.
type PadButton struct {
	Pressed bool
	Value   float64
}

// Pad is one connected controller's point-in-time state.
type Pad struct {
	Axes    []float64
	Buttons []PadButton
}

// Sampler provides the per-tick snapshot of connected controllers. It is an
// external collaborator: the platform's controller API, a websocket bridge,
// or a test fake.
type Sampler interface {
	Poll() []Pad
}

// Levels flattens the pad's button array through the fixed index map.
// Buttons at indices outside the map are silently ignored.
func (p Pad) Levels() Levels {
	lv := make(Levels, len(buttonIndex))
	for i, pb := range p.Buttons {
		b, ok := buttonIndex[i]
		if !ok {
			continue
		}
		if pb.Pressed {
			lv[b] = true
		}
	}
	return lv
}

// Axis returns the named axis, or 0 when the pad reports fewer axes.
func (p Pad) Axis(i int) float64 {
	if i < 0 || i >= len(p.Axes) {
		return 0
	}
	return p.Axes[i]
}

// PadFromLevels builds a pad reporting the given logical buttons as held,
// laid out through the fixed index map. Synthetic samplers (tests, the demo
// keyboard pad) use it so they never touch raw hardware indices.
func PadFromLevels(lv Levels, axes ...float64) Pad {
	maxIdx := 0
	for i := range buttonIndex {
		if i > maxIdx {
			maxIdx = i
		}
	}
	buttons := make([]PadButton, maxIdx+1)
	for i, b := range buttonIndex {
		if lv[b] {
			buttons[i] = PadButton{Pressed: true, Value: 1}
		}
	}
	return Pad{Axes: axes, Buttons: buttons}
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func() []Pad

func (f SamplerFunc) Poll() []Pad { return f() }
