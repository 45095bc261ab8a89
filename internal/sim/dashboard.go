package sim

import (
	"sync"

	"github.com/Alia5/padnav/pkg/surface"
)

// Element implements surface.Node. Pointer identity is element identity.
type Element struct {
	label    string
	rect     surface.Rect
	hidden   bool
	excluded bool
	cloaked  bool
	parent   *Element
}

func (e *Element) Label() string        { return e.label }
func (e *Element) Bounds() surface.Rect { return e.rect }
func (e *Element) Visible() bool        { return !e.hidden }
func (e *Element) Excluded() bool       { return e.excluded }

// Cloaked walks the ancestor chain, matching the page-side rule that a
// cloaked container hides everything inside it.
func (e *Element) Cloaked() bool {
	for n := e; n != nil; n = n.parent {
		if n.cloaked {
			return true
		}
	}
	return false
}

type modal struct {
	el       *Element
	trigger  string
	controls []*Element
	cards    []*Element
}

// Dashboard is the simulated page. All state is mutex-guarded because the
// engine's poll goroutine reads it while the demo UI mutates it.
type Dashboard struct {
	mu sync.Mutex

	viewportW, viewportH float64

	navLinks []*Element
	header   []*Element
	rows     []*Element
	actions  map[*Element][]*Element
	addBtn   *Element
	modals   []*modal

	clicks []string
}

// New builds a dashboard from a fixture.
func New(f Fixture) *Dashboard {
	d := &Dashboard{
		viewportW: f.Viewport.W,
		viewportH: f.Viewport.H,
		actions:   make(map[*Element][]*Element),
	}

	for _, s := range f.NavLinks {
		d.navLinks = append(d.navLinks, elementOf(s, nil))
	}
	for _, s := range f.Header {
		d.header = append(d.header, elementOf(s, nil))
	}
	for _, m := range f.Machines {
		row := &Element{label: m.Name, rect: surface.Rect{X: m.X, Y: m.Y, W: m.W, H: m.H}}
		d.rows = append(d.rows, row)
		for _, a := range m.Actions {
			d.actions[row] = append(d.actions[row], elementOf(a, row))
		}
	}
	if f.AddButton != nil {
		d.addBtn = elementOf(*f.AddButton, nil)
	}
	for _, ms := range f.Modals {
		el := &Element{
			label:   ms.Label,
			rect:    surface.Rect{X: ms.X, Y: ms.Y, W: ms.W, H: ms.H},
			hidden:  !ms.Visible,
			cloaked: ms.Cloaked,
		}
		mo := &modal{el: el, trigger: ms.Trigger}
		for _, c := range ms.Controls {
			mo.controls = append(mo.controls, elementOf(c, el))
		}
		for _, c := range ms.Cards {
			mo.cards = append(mo.cards, elementOf(c, el))
		}
		d.modals = append(d.modals, mo)
	}
	return d
}

func elementOf(s ElementSpec, parent *Element) *Element {
	return &Element{
		label:    s.Label,
		rect:     surface.Rect{X: s.X, Y: s.Y, W: s.W, H: s.H},
		excluded: s.Excluded,
		cloaked:  s.Cloaked,
		parent:   parent,
	}
}

// Controls returns the generic candidate controls. Row actions and the add
// button are deliberately not here; the registry discovers those through
// their own channels, like the real page.
func (d *Dashboard) Controls() []surface.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]surface.Node, 0, len(d.navLinks)+len(d.header))
	for _, e := range d.navLinks {
		out = append(out, e)
	}
	for _, e := range d.header {
		out = append(out, e)
	}
	return out
}

func (d *Dashboard) Rows() []surface.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return nodes(d.rows)
}

func (d *Dashboard) RowActions(row surface.Node) []surface.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := row.(*Element)
	if !ok {
		return nil
	}
	return nodes(d.actions[el])
}

func (d *Dashboard) Overlays() []surface.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]surface.Node, 0, len(d.modals))
	for _, m := range d.modals {
		out = append(out, m.el)
	}
	return out
}

func (d *Dashboard) Within(container surface.Node) []surface.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.modals {
		if surface.Node(m.el) == container {
			return nodes(m.controls)
		}
	}
	return nil
}

func (d *Dashboard) GridOptions(container surface.Node) []surface.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.modals {
		if surface.Node(m.el) == container {
			return nodes(m.cards)
		}
	}
	return nil
}

func (d *Dashboard) NavLinks() []surface.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return nodes(d.navLinks)
}

func (d *Dashboard) HeaderButtons() []surface.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return nodes(d.header)
}

func (d *Dashboard) AddControl() surface.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.addBtn == nil {
		return nil
	}
	return d.addBtn
}

func (d *Dashboard) Viewport() (float64, float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewportW, d.viewportH
}

// Activate records the click and applies the page's modal behavior:
// matching triggers open their modal, Cancel/Confirm inside an open modal
// closes it.
func (d *Dashboard) Activate(n surface.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := n.(*Element)
	if !ok {
		return
	}
	d.clicks = append(d.clicks, el.label)

	for _, m := range d.modals {
		if el.parent == m.el && !m.el.hidden {
			if el.label == "Cancel" || el.label == "Confirm" {
				m.el.hidden = true
			}
			return
		}
	}
	for _, m := range d.modals {
		if m.trigger != "" && m.trigger == el.label {
			m.el.hidden = false
			return
		}
	}
}

// OpenModal shows the named modal; unknown names are ignored.
func (d *Dashboard) OpenModal(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.modals {
		if m.el.label == label {
			m.el.hidden = false
		}
	}
}

// CloseModals hides every modal.
func (d *Dashboard) CloseModals() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.modals {
		m.el.hidden = true
	}
}

// SetViewport resizes the page.
func (d *Dashboard) SetViewport(w, h float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewportW, d.viewportH = w, h
}

// Clicks returns the activation history.
func (d *Dashboard) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

func nodes(els []*Element) []surface.Node {
	out := make([]surface.Node, len(els))
	for i, e := range els {
		out[i] = e
	}
	return out
}
