package gamepad

// NavDeadzone is deliberately larger than the cursor stick's deadzone
// because each crossing fires a discrete move.
const NavDeadzone = 0.5

// StickLatch converts analog deflection of the navigation stick into
// first-deflection-only direction events. A direction fires once when its
// axis crosses the nav deadzone and re-arms only after the axis drops back
// below it, so holding the stick does not auto-repeat.
type StickLatch struct {
	armed [4]bool // indexed by Up, Down, Left, Right
}

// NewStickLatch returns a latch with every direction armed.
func NewStickLatch() *StickLatch {
	l := &StickLatch{}
	for i := range l.armed {
		l.armed[i] = true
	}
	return l
}

// Sample evaluates the stick position and returns the directions that fired
// this tick (at most one per axis).
func (l *StickLatch) Sample(x, y float64) []Button {
	var fired []Button
	fired = l.axis(fired, x, Left, Right)
	fired = l.axis(fired, y, Up, Down)
	return fired
}

func (l *StickLatch) axis(fired []Button, v float64, neg, pos Button) []Button {
	switch {
	case v <= -NavDeadzone:
		if l.armed[neg] {
			l.armed[neg] = false
			fired = append(fired, neg)
		}
	case v >= NavDeadzone:
		if l.armed[pos] {
			l.armed[pos] = false
			fired = append(fired, pos)
		}
	default:
		l.armed[neg] = true
		l.armed[pos] = true
	}
	return fired
}
