package focus_test

import (
	"testing"

	"github.com/Alia5/padnav/pkg/focus"
	"github.com/Alia5/padnav/pkg/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func global() surface.Context { return surface.Context{} }

// tableTargets builds two rows with three action controls on the second
// row, the shape of a machines table.
func tableTargets() (targets []surface.Target, rows []*fakeNode, actions []*fakeNode) {
	row1 := node("row-1", 0, 100, 600, 40)
	row2 := node("row-2", 0, 200, 600, 40)
	a1 := node("assign", 500, 210, 30, 20)
	a2 := node("power", 535, 210, 30, 20)
	a3 := node("delete", 570, 210, 30, 20)

	targets = []surface.Target{
		{Node: row1, Role: surface.Row},
		{Node: row2, Role: surface.Row},
		{Node: a1, Role: surface.RowAction, Owner: row2},
		{Node: a2, Role: surface.RowAction, Owner: row2},
		{Node: a3, Role: surface.RowAction, Owner: row2},
	}
	return targets, []*fakeNode{row1, row2}, []*fakeNode{a1, a2, a3}
}

func TestMoveFirstTargetWhenUnanchored(t *testing.T) {
	targets, _, _ := tableTargets()

	got, ok := focus.Move(surface.Target{}, focus.DirDown, targets, global())
	require.True(t, ok)
	assert.Equal(t, targets[0], got)
}

func TestMoveSingleTarget(t *testing.T) {
	only := node("lonely", 10, 10, 50, 20)
	targets := []surface.Target{{Node: only, Role: surface.Plain}}

	got, ok := focus.Move(targets[0], focus.DirLeft, targets, global())
	require.True(t, ok)
	assert.Equal(t, only, got.Node)
}

func TestMoveEmptyTargets(t *testing.T) {
	_, ok := focus.Move(surface.Target{}, focus.DirDown, nil, global())
	assert.False(t, ok)
}

func TestActionSiblingTraversalNoWrap(t *testing.T) {
	targets, rows, actions := tableTargets()
	second := targets[3] // middle action control

	got, ok := focus.Move(second, focus.DirLeft, targets, global())
	require.True(t, ok)
	assert.Equal(t, actions[0], got.Node, "left from middle action goes to first action")

	got, ok = focus.Move(got, focus.DirLeft, targets, global())
	require.True(t, ok)
	assert.Equal(t, rows[1], got.Node, "left past the first action returns to the owning row")

	// Right past the last action also returns to the row.
	last := targets[4]
	got, ok = focus.Move(last, focus.DirRight, targets, global())
	require.True(t, ok)
	assert.Equal(t, rows[1], got.Node)
}

func TestRowVerticalPrefersRowsOverCloserActions(t *testing.T) {
	row1 := node("row-1", 0, 100, 600, 20)
	row2 := node("row-2", 0, 200, 600, 20)
	// An action-only candidate sits between the rows, nearer to row1.
	stray := node("stray-action", 500, 150, 30, 20)

	targets := []surface.Target{
		{Node: row1, Role: surface.Row},
		{Node: row2, Role: surface.Row},
		{Node: stray, Role: surface.RowAction, Owner: row2},
	}

	got, ok := focus.Move(targets[0], focus.DirDown, targets, global())
	require.True(t, ok)
	assert.Equal(t, row2, got.Node, "row hierarchy dominates raw distance")
}

func TestRowVerticalIncludesAddNewControl(t *testing.T) {
	row := node("row-1", 0, 100, 600, 20)
	add := node("add-machine", 0, 160, 120, 30)
	targets := []surface.Target{
		{Node: row, Role: surface.Row},
		{Node: add, Role: surface.AddNew},
	}

	got, ok := focus.Move(targets[0], focus.DirDown, targets, global())
	require.True(t, ok)
	assert.Equal(t, add, got.Node)
}

func TestMoveUnanchoredSkipsCollapsedFirstTarget(t *testing.T) {
	collapsed := node("collapsed", 0, 0, 0, 0)
	real := node("real", 0, 100, 600, 40)
	targets := []surface.Target{
		{Node: collapsed, Role: surface.Plain},
		{Node: real, Role: surface.Row},
	}

	got, ok := focus.Move(surface.Target{}, focus.DirDown, targets, global())
	require.True(t, ok)
	assert.Equal(t, real, got.Node)

	// Only collapsed targets: no move at all.
	_, ok = focus.Move(surface.Target{}, focus.DirDown, targets[:1], global())
	assert.False(t, ok)
}

func TestAddNewVerticalPrefersRowsOverCloserActions(t *testing.T) {
	row1 := node("row-1", 0, 100, 600, 20)
	row2 := node("row-2", 0, 200, 600, 20)
	// row2's action sits directly above the add control; the generic metric
	// would pick it.
	act := node("delete", 45, 250, 30, 20)
	add := node("add-machine", 0, 290, 120, 30)

	targets := []surface.Target{
		{Node: row1, Role: surface.Row},
		{Node: row2, Role: surface.Row},
		{Node: act, Role: surface.RowAction, Owner: row2},
		{Node: add, Role: surface.AddNew},
	}

	got, ok := focus.Move(targets[3], focus.DirUp, targets, global())
	require.True(t, ok)
	assert.Equal(t, row2, got.Node, "the add control navigates vertically as a last row")
}

func TestRowHorizontalEntersFirstAction(t *testing.T) {
	targets, rows, actions := tableTargets()
	row2 := surface.Target{Node: rows[1], Role: surface.Row}

	got, ok := focus.Move(row2, focus.DirRight, targets, global())
	require.True(t, ok)
	assert.Equal(t, actions[0], got.Node)

	_, ok = focus.Move(row2, focus.DirLeft, targets, global())
	assert.False(t, ok, "a row has no action to its left")
}

func TestActionVerticalReturnsToRowOneHop(t *testing.T) {
	targets, rows, _ := tableTargets()
	action := targets[3]

	got, ok := focus.Move(action, focus.DirUp, targets, global())
	require.True(t, ok)
	assert.Equal(t, rows[1], got.Node, "vertical from an action is one hop back to the row, not two rows away")
}

func TestGenericRuleStaysInColumn(t *testing.T) {
	cur := node("cur", 100, 100, 40, 40)
	sameCol := node("below-far", 100, 300, 40, 40)
	offCol := node("below-near", 300, 160, 40, 40)

	targets := []surface.Target{
		{Node: cur, Role: surface.Plain},
		{Node: sameCol, Role: surface.Plain},
		{Node: offCol, Role: surface.Plain},
	}

	// offCol is nearer vertically but drifts 200px sideways; the 5x cross
	// penalty keeps focus in the column.
	got, ok := focus.Move(targets[0], focus.DirDown, targets, global())
	require.True(t, ok)
	assert.Equal(t, sameCol, got.Node)
}

func TestGenericRuleToleranceSkipsSameRowTies(t *testing.T) {
	cur := node("cur", 100, 100, 40, 40)
	tie := node("tie", 300, 105, 40, 40) // center within 10px vertically

	targets := []surface.Target{
		{Node: cur, Role: surface.Plain},
		{Node: tie, Role: surface.Plain},
	}

	_, ok := focus.Move(targets[0], focus.DirDown, targets, global())
	assert.False(t, ok, "same-row candidate is not below")

	got, ok := focus.Move(targets[0], focus.DirRight, targets, global())
	require.True(t, ok)
	assert.Equal(t, tie, got.Node)
}

func TestGenericRuleNoCandidateNoMove(t *testing.T) {
	cur := node("cur", 100, 100, 40, 40)
	above := node("above", 100, 20, 40, 40)
	targets := []surface.Target{
		{Node: cur, Role: surface.Plain},
		{Node: above, Role: surface.Plain},
	}

	_, ok := focus.Move(targets[0], focus.DirDown, targets, global())
	assert.False(t, ok)
}

func TestZeroSizeTargetsAreNeverDestinations(t *testing.T) {
	cur := node("cur", 100, 100, 40, 40)
	collapsed := node("collapsed", 100, 200, 0, 0)
	real := node("real", 100, 300, 40, 40)

	targets := []surface.Target{
		{Node: cur, Role: surface.Plain},
		{Node: collapsed, Role: surface.Plain},
		{Node: real, Role: surface.Plain},
	}

	got, ok := focus.Move(targets[0], focus.DirDown, targets, global())
	require.True(t, ok)
	assert.Equal(t, real, got.Node)
}

func TestModalContextUsesGenericRuleForRows(t *testing.T) {
	// Inside a modal even row-tagged targets use the geometric rule.
	rowish := node("modal-row", 100, 100, 200, 30)
	below := node("modal-btn", 100, 160, 80, 30)
	container := node("modal", 50, 50, 400, 300)

	targets := []surface.Target{
		{Node: rowish, Role: surface.Row},
		{Node: below, Role: surface.Plain},
	}
	ctx := surface.Context{Container: container}

	got, ok := focus.Move(targets[0], focus.DirDown, targets, ctx)
	require.True(t, ok)
	assert.Equal(t, below, got.Node)
}

func TestAnchorRelocate(t *testing.T) {
	targets, rows, _ := tableTargets()

	a := &focus.Anchor{}
	a.Set(1, targets)
	assert.Equal(t, rows[1], a.Node)

	// Rebuild with the anchored row shifted to a new index.
	reordered := []surface.Target{targets[2], targets[1], targets[0]}
	got, ok := a.Relocate(reordered)
	require.True(t, ok)
	assert.Equal(t, rows[1], got.Node)
	assert.Equal(t, 1, a.Index)

	// Anchored node removed: fall back to index 0.
	without := []surface.Target{targets[0], targets[2]}
	got, ok = a.Relocate(without)
	require.True(t, ok)
	assert.Equal(t, 0, a.Index)
	assert.Equal(t, targets[0].Node, got.Node)

	// Empty list is a normal outcome.
	_, ok = a.Relocate(nil)
	assert.False(t, ok)
	assert.Nil(t, a.Node)
}

func TestAnchorSetClampsOutOfRange(t *testing.T) {
	targets, _, _ := tableTargets()
	a := &focus.Anchor{}

	a.Set(99, targets)
	assert.Equal(t, len(targets)-1, a.Index)
	a.Set(-3, targets)
	assert.Equal(t, 0, a.Index)
}
