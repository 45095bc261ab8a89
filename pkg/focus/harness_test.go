package focus_test

import (
	"github.com/Alia5/padnav/pkg/surface"
)

// fakeNode implements surface.Node with fixed geometry. Pointer identity is
// the node identity, mirroring how real elements are compared.
type fakeNode struct {
	label    string
	bounds   surface.Rect
	hidden   bool
	excluded bool
	cloaked  bool
}

func (n *fakeNode) Label() string        { return n.label }
func (n *fakeNode) Bounds() surface.Rect { return n.bounds }
func (n *fakeNode) Visible() bool        { return !n.hidden }
func (n *fakeNode) Excluded() bool       { return n.excluded }
func (n *fakeNode) Cloaked() bool        { return n.cloaked }

func node(label string, x, y, w, h float64) *fakeNode {
	return &fakeNode{label: label, bounds: surface.Rect{X: x, Y: y, W: w, H: h}}
}

// fakeSurface is a hand-assembled page: plain controls, rows with action
// controls, overlays, and fallback tiers.
type fakeSurface struct {
	controls   []surface.Node
	rows       []surface.Node
	rowActions map[surface.Node][]surface.Node
	overlays   []surface.Node
	within     map[surface.Node][]surface.Node
	gridOpts   map[surface.Node][]surface.Node
	navLinks   []surface.Node
	headerBtns []surface.Node
	addControl surface.Node
	viewportW  float64
	viewportH  float64
	activated  []surface.Node
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		rowActions: make(map[surface.Node][]surface.Node),
		within:     make(map[surface.Node][]surface.Node),
		gridOpts:   make(map[surface.Node][]surface.Node),
		viewportW:  1280,
		viewportH:  800,
	}
}

func (s *fakeSurface) Controls() []surface.Node { return s.controls }
func (s *fakeSurface) Rows() []surface.Node     { return s.rows }
func (s *fakeSurface) RowActions(row surface.Node) []surface.Node {
	return s.rowActions[row]
}
func (s *fakeSurface) Overlays() []surface.Node { return s.overlays }
func (s *fakeSurface) Within(c surface.Node) []surface.Node {
	return s.within[c]
}
func (s *fakeSurface) GridOptions(c surface.Node) []surface.Node {
	return s.gridOpts[c]
}
func (s *fakeSurface) NavLinks() []surface.Node      { return s.navLinks }
func (s *fakeSurface) HeaderButtons() []surface.Node { return s.headerBtns }
func (s *fakeSurface) AddControl() surface.Node      { return s.addControl }
func (s *fakeSurface) Viewport() (float64, float64)  { return s.viewportW, s.viewportH }
func (s *fakeSurface) Activate(n surface.Node)       { s.activated = append(s.activated, n) }
