// Package surface defines the contract between the navigation engine and
// whatever renders the dashboard. The engine never touches a DOM directly;
// it sees an unordered collection of rectangles with roles, queried live on
// every tick because the underlying layout can change between polls.
package surface

// Rect is an element's bounding box in viewport coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Empty reports whether the rectangle has no rendered area. Zero-size
// elements are never valid navigation destinations.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether other lies strictly inside r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.W <= r.X+r.W && other.Y+other.H <= r.Y+r.H
}

// Node is an opaque reference to a screen element. Implementations must be
// comparable (pointer types); identity comparison is how focus survives a
// registry rebuild. Bounds are queried live, never cached.
type Node interface {
	// Label is a human-readable name, used for events and the jump palette.
	Label() string
	// Bounds returns the current bounding box. A point-in-time query.
	Bounds() Rect
	// Visible reports whether the element is rendered at all.
	Visible() bool
	// Excluded reports the element's opt-out marker.
	Excluded() bool
	// Cloaked reports whether the element or any ancestor container carries
	// the cloaked marker.
	Cloaked() bool
}

// Role tags a navigation target at construction time so the navigator does
// not re-derive hierarchy ad hoc on every move.
type Role uint8

const (
	// Plain is any ordinary focusable control.
	Plain Role = iota
	// Row is a structured list row, the primary vertical navigation unit.
	Row
	// RowAction is an inline control nested in a row's last cell, reached
	// only via explicit lateral movement from its owning row.
	RowAction
	// AddNew is the designated "add entry" control, grouped with rows for
	// vertical movement.
	AddNew
)

func (r Role) String() string {
	switch r {
	case Row:
		return "row"
	case RowAction:
		return "row-action"
	case AddNew:
		return "add-new"
	default:
		return "plain"
	}
}

// Target is a Node tagged with its navigation role. Owner is set only for
// RowAction targets and refers to the owning row's node.
type Target struct {
	Node  Node
	Role  Role
	Owner Node
}

// Surface is what the engine consumes each tick. Every method is a
// synchronous point-in-time query; results must not be cached by callers.
//
// Implementations: internal/sim (in-process dashboard used by the demo and
// tests) and internal/bridge (snapshots streamed from a browser page).
type Surface interface {
	// Controls returns every generic candidate control on the page.
	Controls() []Node
	// Rows returns the structured list rows.
	Rows() []Node
	// RowActions returns the action controls nested in the given row's
	// last cell, in document order.
	RowActions(row Node) []Node
	// Overlays returns modal containers in discovery order. The first one
	// that is visible with nonzero size scopes all navigation.
	Overlays() []Node
	// Within returns the candidate controls strictly contained in the
	// given container.
	Within(container Node) []Node
	// GridOptions returns "option card" shaped clickables inside the given
	// container that generic discovery may have missed.
	GridOptions(container Node) []Node
	// NavLinks returns primary navigation links (first fallback tier).
	NavLinks() []Node
	// HeaderButtons returns header-area buttons (second fallback tier).
	HeaderButtons() []Node
	// AddControl returns the designated add-new control, or nil.
	AddControl() Node
	// Viewport returns the current viewport size in pixels.
	Viewport() (w, h float64)
	// Activate performs the host-side activation (click) of a node.
	Activate(Node)
}

// Context scopes which targets are eligible for navigation.
type Context struct {
	// Container is nil for the global page scope, or the visible modal
	// container that currently traps navigation.
	Container Node
}

// Modal reports whether the context is scoped to a modal overlay.
func (c Context) Modal() bool { return c.Container != nil }
