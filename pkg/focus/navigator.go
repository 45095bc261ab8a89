package focus

import (
	"math"
	"sort"

	"github.com/Alia5/padnav/pkg/surface"
)

// Direction is a requested focus movement.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	}
	return "right"
}

func (d Direction) vertical() bool { return d == DirUp || d == DirDown }

// axisTolerance filters out targets whose center sits on (nearly) the same
// row/column as the current one, so a vertical move never lands on a
// same-row tie.
const axisTolerance = 10

// Weights for the direction-biased distance metric: drift along the cross
// axis is penalized hard so navigation stays within a visual column or row.
const (
	alongWeight = 0.8
	crossWeight = 5
)

// Move selects the next focus target. The boolean is false when focus
// should not move (no candidate on that side, or a row has nothing to its
// left). Targets with zero rendered size are never destinations.
func Move(current surface.Target, dir Direction, targets []surface.Target, ctx surface.Context) (surface.Target, bool) {
	if len(targets) == 0 {
		return surface.Target{}, false
	}
	// A single target, or no established focus: take the first target with
	// rendered size.
	if len(targets) == 1 || current.Node == nil {
		for _, t := range targets {
			if !t.Node.Bounds().Empty() {
				return t, true
			}
		}
		return surface.Target{}, false
	}

	if !ctx.Modal() {
		switch current.Role {
		case surface.Row:
			if dir.vertical() {
				return nearestRow(current, dir, targets)
			}
			return enterRowActions(current, dir, targets)
		case surface.AddNew:
			// The add control navigates vertically as a last row: action
			// buttons between it and the rows are never destinations.
			if dir.vertical() {
				return nearestRow(current, dir, targets)
			}
		case surface.RowAction:
			if dir.vertical() {
				// One hop per input event: return to the owning row and
				// let the next event move between rows.
				return ownerRow(current, targets)
			}
			return nextSibling(current, dir, targets)
		}
	}
	return nearestByMetric(current, dir, targets)
}

// nearestByMetric is the generic geometric rule used in modal scope and for
// plain targets.
func nearestByMetric(current surface.Target, dir Direction, targets []surface.Target) (surface.Target, bool) {
	curX, curY := current.Node.Bounds().Center()

	best := surface.Target{}
	bestScore := math.Inf(1)
	for _, t := range targets {
		if t.Node == current.Node {
			continue
		}
		b := t.Node.Bounds()
		if b.Empty() {
			continue
		}
		cx, cy := b.Center()
		dx, dy := cx-curX, cy-curY
		if !onSide(dir, dx, dy) {
			continue
		}
		var score float64
		if dir.vertical() {
			score = alongWeight*math.Abs(dy) + crossWeight*math.Abs(dx)
		} else {
			score = alongWeight*math.Abs(dx) + crossWeight*math.Abs(dy)
		}
		if score < bestScore {
			best, bestScore = t, score
		}
	}
	if best.Node == nil {
		return surface.Target{}, false
	}
	return best, true
}

func onSide(dir Direction, dx, dy float64) bool {
	switch dir {
	case DirUp:
		return dy < -axisTolerance
	case DirDown:
		return dy > axisTolerance
	case DirLeft:
		return dx < -axisTolerance
	default:
		return dx > axisTolerance
	}
}

// nearestRow restricts vertical movement from a row to other rows and the
// add-new control, by vertical center distance only. The row hierarchy
// dominates raw distance: an action button halfway between two rows is
// never the destination.
func nearestRow(current surface.Target, dir Direction, targets []surface.Target) (surface.Target, bool) {
	_, curY := current.Node.Bounds().Center()

	best := surface.Target{}
	bestDist := math.Inf(1)
	for _, t := range targets {
		if t.Node == current.Node || (t.Role != surface.Row && t.Role != surface.AddNew) {
			continue
		}
		b := t.Node.Bounds()
		if b.Empty() {
			continue
		}
		_, cy := b.Center()
		dy := cy - curY
		if dir == DirUp && dy >= 0 || dir == DirDown && dy <= 0 {
			continue
		}
		if d := math.Abs(dy); d < bestDist {
			best, bestDist = t, d
		}
	}
	if best.Node == nil {
		return surface.Target{}, false
	}
	return best, true
}

// enterRowActions moves from a row into its first nested action control.
// Rows have no action to their left, so DirLeft never moves.
func enterRowActions(current surface.Target, dir Direction, targets []surface.Target) (surface.Target, bool) {
	if dir != DirRight {
		return surface.Target{}, false
	}
	acts := rowActions(current.Node, targets)
	if len(acts) == 0 {
		return surface.Target{}, false
	}
	return acts[0], true
}

// nextSibling traverses a row's action controls left-to-right. Moving past
// either end returns focus to the owning row instead of wrapping.
func nextSibling(current surface.Target, dir Direction, targets []surface.Target) (surface.Target, bool) {
	acts := rowActions(current.Owner, targets)
	idx := -1
	for i, a := range acts {
		if a.Node == current.Node {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ownerRow(current, targets)
	}
	if dir == DirRight {
		idx++
	} else {
		idx--
	}
	if idx < 0 || idx >= len(acts) {
		return ownerRow(current, targets)
	}
	return acts[idx], true
}

func ownerRow(current surface.Target, targets []surface.Target) (surface.Target, bool) {
	for _, t := range targets {
		if t.Node == current.Owner && !t.Node.Bounds().Empty() {
			return t, true
		}
	}
	return surface.Target{}, false
}

// rowActions collects the visible action controls owned by the given row,
// ordered left-to-right by on-screen position.
func rowActions(row surface.Node, targets []surface.Target) []surface.Target {
	var acts []surface.Target
	for _, t := range targets {
		if t.Role == surface.RowAction && t.Owner == row && !t.Node.Bounds().Empty() {
			acts = append(acts, t)
		}
	}
	sort.SliceStable(acts, func(i, j int) bool {
		return acts[i].Node.Bounds().X < acts[j].Node.Bounds().X
	})
	return acts
}
