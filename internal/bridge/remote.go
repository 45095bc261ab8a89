// Package bridge exposes the engine over a websocket: a browser page
// streams controller frames and surface snapshots in, and receives focus,
// cursor and menu events back. The page keeps doing what only it can do
// (DOM discovery, clicking, rendering); the engine owns all state.
package bridge

import (
	"sync"

	"github.com/Alia5/padnav/pkg/gamepad"
	"github.com/Alia5/padnav/pkg/surface"
)

// elementFrame is one discovered element in a surface snapshot.
type elementFrame struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Kind     string  `json:"kind"`
	Owner    string  `json:"owner,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Visible  bool    `json:"visible"`
	Excluded bool    `json:"excluded,omitempty"`
	Cloaked  bool    `json:"cloaked,omitempty"`
}

// Element kinds the page may report.
const (
	kindControl = "control"
	kindRow     = "row"
	kindAction  = "action"
	kindOverlay = "overlay"
	kindCard    = "card"
	kindNavLink = "navlink"
	kindHeader  = "header"
	kindAdd     = "add"
)

type surfaceFrame struct {
	Viewport struct {
		W float64 `json:"w"`
		H float64 `json:"h"`
	} `json:"viewport"`
	Elements []elementFrame `json:"elements"`
}

type padFrame struct {
	Axes    []float64 `json:"axes"`
	Buttons []struct {
		Pressed bool    `json:"pressed"`
		Value   float64 `json:"value"`
	} `json:"buttons"`
}

// clientFrame is any message the page sends.
type clientFrame struct {
	Type    string        `json:"type"`
	Pads    []padFrame    `json:"pads,omitempty"`
	Surface *surfaceFrame `json:"surface,omitempty"`
}

// serverFrame is any message pushed to the page. Fire-and-forget.
type serverFrame struct {
	Type      string  `json:"type"`
	ID        string  `json:"id,omitempty"`
	Label     string  `json:"label,omitempty"`
	Button    string  `json:"button,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Visible   bool    `json:"visible,omitempty"`
	Connected bool    `json:"connected,omitempty"`
}

// RemoteNode is a proxy for one page element. The same *RemoteNode is
// reused across snapshots for the same element ID, so focus identity
// survives a re-discovery exactly like it does on the live page.
type RemoteNode struct {
	rs *RemoteSurface
	id string

	label    string
	rect     surface.Rect
	visible  bool
	excluded bool
	cloaked  bool
	kind     string
	owner    string
	stale    bool
}

// ID returns the page-side element identifier.
func (n *RemoteNode) ID() string { return n.id }

func (n *RemoteNode) Label() string {
	n.rs.mu.Lock()
	defer n.rs.mu.Unlock()
	return n.label
}

func (n *RemoteNode) Bounds() surface.Rect {
	n.rs.mu.Lock()
	defer n.rs.mu.Unlock()
	return n.rect
}

// Visible is false for elements missing from the latest snapshot, which
// removes them from navigation without breaking anchored identity.
func (n *RemoteNode) Visible() bool {
	n.rs.mu.Lock()
	defer n.rs.mu.Unlock()
	return n.visible && !n.stale
}

func (n *RemoteNode) Excluded() bool {
	n.rs.mu.Lock()
	defer n.rs.mu.Unlock()
	return n.excluded
}

func (n *RemoteNode) Cloaked() bool {
	n.rs.mu.Lock()
	defer n.rs.mu.Unlock()
	if n.cloaked {
		return true
	}
	// Ancestor cloaking via the owner chain.
	for owner := n.owner; owner != ""; {
		parent, ok := n.rs.nodes[owner]
		if !ok {
			return false
		}
		if parent.cloaked {
			return true
		}
		owner = parent.owner
	}
	return false
}

// RemoteSurface implements surface.Surface from the latest streamed
// snapshot. Reads are point-in-time against whatever the page last sent.
type RemoteSurface struct {
	mu        sync.Mutex
	nodes     map[string]*RemoteNode
	order     []string
	viewportW float64
	viewportH float64
}

// NewRemoteSurface returns an empty surface; until the first snapshot
// arrives every query is empty and navigation declines.
func NewRemoteSurface() *RemoteSurface {
	return &RemoteSurface{
		nodes:     make(map[string]*RemoteNode),
		viewportW: 1280,
		viewportH: 800,
	}
}

// apply ingests a snapshot, updating existing nodes in place.
func (rs *RemoteSurface) apply(f surfaceFrame) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if f.Viewport.W > 0 && f.Viewport.H > 0 {
		rs.viewportW, rs.viewportH = f.Viewport.W, f.Viewport.H
	}

	for _, n := range rs.nodes {
		n.stale = true
	}
	rs.order = rs.order[:0]
	for _, el := range f.Elements {
		n, ok := rs.nodes[el.ID]
		if !ok {
			n = &RemoteNode{rs: rs, id: el.ID}
			rs.nodes[el.ID] = n
		}
		n.label = el.Label
		n.rect = surface.Rect{X: el.X, Y: el.Y, W: el.W, H: el.H}
		n.visible = el.Visible
		n.excluded = el.Excluded
		n.cloaked = el.Cloaked
		n.kind = el.Kind
		n.owner = el.Owner
		n.stale = false
		rs.order = append(rs.order, el.ID)
	}
}

func (rs *RemoteSurface) byKind(kinds ...string) []surface.Node {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	var out []surface.Node
	for _, id := range rs.order {
		n := rs.nodes[id]
		for _, k := range kinds {
			if n.kind == k {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

func (rs *RemoteSurface) byKindOwned(kind, owner string) []surface.Node {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	var out []surface.Node
	for _, id := range rs.order {
		n := rs.nodes[id]
		if n.kind == kind && n.owner == owner {
			out = append(out, n)
		}
	}
	return out
}

func (rs *RemoteSurface) Controls() []surface.Node {
	return rs.byKind(kindControl, kindNavLink, kindHeader)
}

func (rs *RemoteSurface) Rows() []surface.Node { return rs.byKind(kindRow) }

func (rs *RemoteSurface) RowActions(row surface.Node) []surface.Node {
	rn, ok := row.(*RemoteNode)
	if !ok {
		return nil
	}
	return rs.byKindOwned(kindAction, rn.id)
}

func (rs *RemoteSurface) Overlays() []surface.Node { return rs.byKind(kindOverlay) }

func (rs *RemoteSurface) Within(container surface.Node) []surface.Node {
	rn, ok := container.(*RemoteNode)
	if !ok {
		return nil
	}
	return rs.byKindOwned(kindControl, rn.id)
}

func (rs *RemoteSurface) GridOptions(container surface.Node) []surface.Node {
	rn, ok := container.(*RemoteNode)
	if !ok {
		return nil
	}
	return rs.byKindOwned(kindCard, rn.id)
}

func (rs *RemoteSurface) NavLinks() []surface.Node      { return rs.byKind(kindNavLink) }
func (rs *RemoteSurface) HeaderButtons() []surface.Node { return rs.byKind(kindHeader) }

func (rs *RemoteSurface) AddControl() surface.Node {
	if nodes := rs.byKind(kindAdd); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func (rs *RemoteSurface) Viewport() (float64, float64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.viewportW, rs.viewportH
}

// Activate is a no-op here: the click reaches the page as an activate
// frame through the event forwarder, keyed by element ID.
func (rs *RemoteSurface) Activate(surface.Node) {}

// RemoteSampler implements gamepad.Sampler from streamed pad frames. When
// no client is connected it reports no controllers.
type RemoteSampler struct {
	mu   sync.Mutex
	pads []gamepad.Pad
}

// NewRemoteSampler returns a sampler with no pads.
func NewRemoteSampler() *RemoteSampler { return &RemoteSampler{} }

func (s *RemoteSampler) Poll() []gamepad.Pad {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pads
}

func (s *RemoteSampler) set(frames []padFrame) {
	pads := make([]gamepad.Pad, len(frames))
	for i, f := range frames {
		p := gamepad.Pad{Axes: f.Axes, Buttons: make([]gamepad.PadButton, len(f.Buttons))}
		for j, b := range f.Buttons {
			p.Buttons[j] = gamepad.PadButton{Pressed: b.Pressed, Value: b.Value}
		}
		pads[i] = p
	}
	s.mu.Lock()
	s.pads = pads
	s.mu.Unlock()
}

func (s *RemoteSampler) clear() {
	s.mu.Lock()
	s.pads = nil
	s.mu.Unlock()
}
