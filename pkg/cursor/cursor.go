// Package cursor integrates analog stick input into a free-floating 2D
// pointer, bounded to the viewport, with idle auto-hide.
package cursor

import (
	"time"
)

const (
	// Deadzone is the per-axis magnitude below which deflection is
	// treated as neutral. Compared per axis, not as a squared sum.
	Deadzone = 0.18
	// Size is the rendered cursor square in pixels; the position is
	// clamped so the cursor never leaves the viewport.
	Size = 24.0

	baseSensitivity = 14.0
	boostMultiplier = 3.0
	hideDelay       = 3 * time.Second
)

// Sensitivity returns the per-tick pixel travel at full deflection.
func Sensitivity(boosted bool) float64 {
	if boosted {
		return baseSensitivity * boostMultiplier
	}
	return baseSensitivity
}

// Controller owns the cursor position and visibility. Not safe for
// concurrent use; the poll loop is the only caller.
type Controller struct {
	x, y     float64
	visible  bool
	hideAt   time.Time
	viewport func() (w, h float64)
	now      func() time.Time
}

// New returns a controller centered in the viewport. The viewport func is
// queried live on every update because the window can resize between polls.
func New(viewport func() (w, h float64)) *Controller {
	c := &Controller{viewport: viewport, now: time.Now}
	w, h := viewport()
	c.x, c.y = c.clampX(w/2), c.clampY(h/2)
	return c
}

// SetNowFunc overrides the clock used for the auto-hide deadline.
func (c *Controller) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		c.now = fn
	}
}

// Update integrates one tick of stick input. Each axis moves the cursor
// only past its own deadzone; any qualifying deflection shows the cursor
// and pushes the auto-hide deadline out.
func (c *Controller) Update(axisX, axisY float64, boosted bool) {
	sens := Sensitivity(boosted)

	qualifying := false
	if abs(axisX) > Deadzone {
		c.x = c.clampX(c.x + axisX*sens)
		qualifying = true
	}
	if abs(axisY) > Deadzone {
		c.y = c.clampY(c.y + axisY*sens)
		qualifying = true
	}

	if qualifying {
		c.visible = true
		c.hideAt = c.now().Add(hideDelay)
	} else if c.visible && !c.now().Before(c.hideAt) {
		c.visible = false
	}
}

// Place moves the cursor to an absolute position, clamped into bounds.
func (c *Controller) Place(x, y float64) {
	c.x, c.y = c.clampX(x), c.clampY(y)
}

// Position returns the current top-left cursor position.
func (c *Controller) Position() (x, y float64) { return c.x, c.y }

// Visible reports whether the cursor should be rendered.
func (c *Controller) Visible() bool { return c.visible }

func (c *Controller) clampX(x float64) float64 {
	w, _ := c.viewport()
	return clamp(x, 0, w-Size)
}

func (c *Controller) clampY(y float64) float64 {
	_, h := c.viewport()
	return clamp(y, 0, h-Size)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
