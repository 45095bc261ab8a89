package focus

import (
	"github.com/Alia5/padnav/pkg/surface"
)

// Anchor is the active focus: an index into the current target list plus
// the remembered node reference. The index drifts as the list is rebuilt;
// the node is the durable identity that survives rebuilds.
type Anchor struct {
	Index int
	Node  surface.Node
}

// Relocate re-finds the anchored node in a freshly built target list. If it
// has disappeared, focus re-anchors at index 0. The boolean is false only
// when the list is empty.
func (a *Anchor) Relocate(targets []surface.Target) (surface.Target, bool) {
	if len(targets) == 0 {
		a.Index = 0
		a.Node = nil
		return surface.Target{}, false
	}
	for i, t := range targets {
		if t.Node == a.Node {
			a.Index = i
			return t, true
		}
	}
	a.Index = 0
	a.Node = targets[0].Node
	return targets[0], true
}

// SetTo anchors on the given target within the list.
func (a *Anchor) SetTo(t surface.Target, targets []surface.Target) {
	a.Node = t.Node
	for i, c := range targets {
		if c.Node == t.Node {
			a.Index = i
			return
		}
	}
	a.Index = 0
}

// Set anchors at an index, clamping out-of-range values instead of failing.
func (a *Anchor) Set(i int, targets []surface.Target) {
	if len(targets) == 0 {
		a.Index = 0
		a.Node = nil
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(targets) {
		i = len(targets) - 1
	}
	a.Index = i
	a.Node = targets[i].Node
}
