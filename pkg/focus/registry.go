// Package focus maintains the set of navigable targets and decides where
// directional input moves the active focus. The target list is rebuilt from
// the surface on every navigation request rather than cached: the host page
// mutates between polls, and a stale rectangle is worse than a slow query.
package focus

import (
	"github.com/Alia5/padnav/pkg/surface"
)

// Registry builds the ordered, context-scoped target list.
type Registry struct {
	surf surface.Surface
}

// NewRegistry returns a registry reading from the given surface.
func NewRegistry(s surface.Surface) *Registry {
	return &Registry{surf: s}
}

// Context determines the active scope. The first overlay that is present,
// not hidden, and has nonzero rendered size wins; there is no priority
// between simultaneously visible overlays beyond discovery order.
func (r *Registry) Context() surface.Context {
	for _, ov := range r.surf.Overlays() {
		if ov == nil || !ov.Visible() || ov.Bounds().Empty() {
			continue
		}
		return surface.Context{Container: ov}
	}
	return surface.Context{}
}

// Rebuild returns the eligible targets for the current context, in
// discovery order. An empty result is a normal outcome, not an error;
// callers decline navigation.
func (r *Registry) Rebuild() ([]surface.Target, surface.Context) {
	ctx := r.Context()
	if ctx.Modal() {
		return r.modalTargets(ctx.Container), ctx
	}
	return r.globalTargets(), ctx
}

func (r *Registry) modalTargets(container surface.Node) []surface.Target {
	seen := make(map[surface.Node]struct{})
	var out []surface.Target

	bounds := container.Bounds()
	for _, n := range r.surf.Within(container) {
		if !eligible(n) || !bounds.Contains(n.Bounds()) {
			continue
		}
		out = appendTarget(out, seen, surface.Target{Node: n, Role: surface.Plain})
	}
	// Grid option cards are clickable containers generic discovery misses.
	for _, n := range r.surf.GridOptions(container) {
		if !eligible(n) {
			continue
		}
		out = appendTarget(out, seen, surface.Target{Node: n, Role: surface.Plain})
	}
	return out
}

func (r *Registry) globalTargets() []surface.Target {
	seen := make(map[surface.Node]struct{})
	var out []surface.Target

	for _, n := range r.surf.Controls() {
		if !eligible(n) {
			continue
		}
		out = appendTarget(out, seen, surface.Target{Node: n, Role: surface.Plain})
	}
	for _, row := range r.surf.Rows() {
		if !eligible(row) {
			continue
		}
		out = appendTarget(out, seen, surface.Target{Node: row, Role: surface.Row})
		// Row actions are added explicitly: they are often not natively
		// focusable and generic discovery skips them.
		for _, act := range r.surf.RowActions(row) {
			if !eligible(act) {
				continue
			}
			out = appendTarget(out, seen, surface.Target{Node: act, Role: surface.RowAction, Owner: row})
		}
	}
	if add := r.surf.AddControl(); add != nil && eligible(add) {
		out = appendTarget(out, seen, surface.Target{Node: add, Role: surface.AddNew})
	}
	if len(out) > 0 {
		return out
	}
	return r.fallbackTargets()
}

// fallbackTargets is tried only when regular discovery finds nothing:
// primary nav links, then header buttons, then list rows.
func (r *Registry) fallbackTargets() []surface.Target {
	tiers := []struct {
		nodes []surface.Node
		role  surface.Role
	}{
		{r.surf.NavLinks(), surface.Plain},
		{r.surf.HeaderButtons(), surface.Plain},
		{r.surf.Rows(), surface.Row},
	}
	for _, tier := range tiers {
		seen := make(map[surface.Node]struct{})
		var out []surface.Target
		for _, n := range tier.nodes {
			if !eligible(n) {
				continue
			}
			out = appendTarget(out, seen, surface.Target{Node: n, Role: tier.role})
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func eligible(n surface.Node) bool {
	return n != nil && n.Visible() && !n.Excluded() && !n.Cloaked()
}

func appendTarget(out []surface.Target, seen map[surface.Node]struct{}, t surface.Target) []surface.Target {
	if _, dup := seen[t.Node]; dup {
		return out
	}
	seen[t.Node] = struct{}{}
	return append(out, t)
}
