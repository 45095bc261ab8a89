package sim_test

import (
	"testing"

	"github.com/Alia5/padnav/internal/sim"
	"github.com/Alia5/padnav/pkg/focus"
	"github.com/Alia5/padnav/pkg/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFixtureParses(t *testing.T) {
	f := sim.DefaultFixture()
	assert.Equal(t, 1280.0, f.Viewport.W)
	assert.Len(t, f.Machines, 3)
	require.Len(t, f.Modals, 1)
	assert.Equal(t, "Assign OS", f.Modals[0].Trigger)
}

func TestDashboardDiscovery(t *testing.T) {
	d := sim.New(sim.DefaultFixture())
	reg := focus.NewRegistry(d)

	targets, ctx := reg.Rebuild()
	require.False(t, ctx.Modal())

	roles := map[surface.Role]int{}
	for _, tgt := range targets {
		roles[tgt.Role]++
	}
	assert.Equal(t, 5, roles[surface.Plain], "nav links and header buttons")
	assert.Equal(t, 3, roles[surface.Row])
	assert.Equal(t, 9, roles[surface.RowAction])
	assert.Equal(t, 1, roles[surface.AddNew])
}

func TestActivateTriggerOpensModalAndScopesNavigation(t *testing.T) {
	d := sim.New(sim.DefaultFixture())
	reg := focus.NewRegistry(d)

	targets, _ := reg.Rebuild()
	var assign surface.Target
	for _, tgt := range targets {
		if tgt.Node.Label() == "Assign OS" && tgt.Role == surface.RowAction {
			assign = tgt
			break
		}
	}
	require.NotNil(t, assign.Node)

	d.Activate(assign.Node)
	assert.Equal(t, []string{"Assign OS"}, d.Clicks())

	targets, ctx := reg.Rebuild()
	require.True(t, ctx.Modal())
	require.Len(t, targets, 5, "2 modal controls + 3 grid option cards")
	for _, tgt := range targets {
		assert.Equal(t, surface.Plain, tgt.Role)
	}

	// Cancel inside the modal closes it again.
	var cancel surface.Node
	for _, tgt := range targets {
		if tgt.Node.Label() == "Cancel" {
			cancel = tgt.Node
		}
	}
	require.NotNil(t, cancel)
	d.Activate(cancel)
	_, ctx = reg.Rebuild()
	assert.False(t, ctx.Modal())
}

func TestCloakedModalContentExcluded(t *testing.T) {
	fixture, err := sim.ParseFixture([]byte(`
viewport: { w: 800, h: 600 }
modals:
  - label: Ghost
    visible: true
    cloaked: true
    x: 100
    y: 100
    w: 400
    h: 300
    controls:
      - { label: Hidden Save, x: 120, y: 300, w: 80, h: 30 }
`))
	require.NoError(t, err)
	d := sim.New(fixture)

	// The overlay is visible by geometry but cloaked, so its content is
	// not navigable and it does not capture the context either way: the
	// container itself is cloaked, its children inherit that.
	targets, _ := focus.NewRegistry(d).Rebuild()
	for _, tgt := range targets {
		assert.NotEqual(t, "Hidden Save", tgt.Node.Label())
	}
}

func TestParseFixtureRejectsMissingViewport(t *testing.T) {
	_, err := sim.ParseFixture([]byte(`nav_links: []`))
	assert.Error(t, err)
}
