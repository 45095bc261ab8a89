package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padnav/internal/sim"
	"github.com/Alia5/padnav/pkg/engine"
	"github.com/Alia5/padnav/pkg/gamepad"
	"github.com/Alia5/padnav/pkg/session"
	"github.com/Alia5/padnav/pkg/surface"
)

func newTestModel(t *testing.T) (*Model, *sim.Dashboard) {
	t.Helper()
	dash := sim.New(sim.DefaultFixture())
	pad := NewKeyPad()
	eng, err := engine.New(engine.Config{}, pad, dash, session.NewMemStore(), nil)
	require.NoError(t, err)
	t.Cleanup(eng.Close)

	m := NewModel(dash, eng, pad)
	t.Cleanup(m.Close)
	return m, dash
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestKeyPadPressIsOnePollPulse(t *testing.T) {
	pad := NewKeyPad()
	pad.Press(gamepad.Confirm)

	first := pad.Poll()[0].Levels()
	assert.True(t, first[gamepad.Confirm])

	second := pad.Poll()[0].Levels()
	assert.False(t, second[gamepad.Confirm], "pulse lasts exactly one poll")
}

func TestKeyPadToggleHold(t *testing.T) {
	pad := NewKeyPad()
	assert.True(t, pad.ToggleHold(gamepad.TriggerR))
	assert.True(t, pad.Poll()[0].Levels()[gamepad.TriggerR])
	assert.True(t, pad.Poll()[0].Levels()[gamepad.TriggerR], "held until toggled off")

	assert.False(t, pad.ToggleHold(gamepad.TriggerR))
	assert.False(t, pad.Poll()[0].Levels()[gamepad.TriggerR])
}

func TestKeyPadNudgeDecays(t *testing.T) {
	pad := NewKeyPad()
	pad.Nudge(1, 0)

	p := pad.Poll()[0]
	assert.Equal(t, 1.0, p.Axis(gamepad.AxisCursorX))
	pad.Poll()
	p = pad.Poll()[0]
	assert.Zero(t, p.Axis(gamepad.AxisCursorX))
}

func TestDirectionKeysPressDpad(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(key("down"))
	lv := m.pad.Poll()[0].Levels()
	assert.True(t, lv[gamepad.Down])
}

func TestFocusEventHighlightsNode(t *testing.T) {
	m, dash := newTestModel(t)

	rows := dash.Rows()
	require.NotEmpty(t, rows)
	m.applyEngineEvent(engine.FocusEvent{Target: surface.Target{Node: rows[0], Role: surface.Row}})

	out := m.View()
	assert.Contains(t, out, focusedStyle.Render("["+rows[0].Label()+"]"))
}

func TestMenuOpenTogglesMenuMode(t *testing.T) {
	m, _ := newTestModel(t)

	m.applyEngineEvent(engine.MenuOpenEvent{})
	assert.True(t, m.menuOpen)
	assert.Contains(t, m.View(), "[menu]")

	m.applyEngineEvent(engine.MenuButtonEvent{Button: gamepad.Cancel})
	assert.False(t, m.menuOpen)
}

func TestPaletteJumpRequestsFocus(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(key("/"))
	require.True(t, m.paletteOpen)
	for _, r := range "phobos" {
		m.Update(key(string(r)))
	}

	target, ok := m.paletteMatch()
	require.True(t, ok)
	assert.Equal(t, "phobos-01", target.Node.Label())

	m.Update(key("enter"))
	assert.False(t, m.paletteOpen)
}

func TestPaletteEscCloses(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(key("/"))
	m.Update(key("x"))
	m.Update(key("esc"))
	assert.False(t, m.paletteOpen)
	assert.NotContains(t, m.View(), "jump>")
}

func TestModalRendersWhenOpen(t *testing.T) {
	m, dash := newTestModel(t)

	dash.OpenModal("Assign OS")
	out := m.View()
	assert.Contains(t, out, "Assign OS")
	assert.True(t, strings.Contains(out, "Ubuntu"))
}
