// Package ui is the demo terminal front end: a simulated machine dashboard
// driven entirely through the navigation engine, with the keyboard standing
// in for a controller.
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Alia5/padnav/internal/sim"
	"github.com/Alia5/padnav/pkg/engine"
	"github.com/Alia5/padnav/pkg/focus"
	"github.com/Alia5/padnav/pkg/gamepad"
	"github.com/Alia5/padnav/pkg/surface"
)

// eventBuffer bounds the engine-to-UI queue; the poll loop must never block
// on a slow terminal, so overflow drops the oldest semantics-free way: the
// next event carries the current state anyway.
const eventBuffer = 64

type engineEventMsg struct {
	event engine.Event
}

// Model implements tea.Model over the simulated dashboard.
type Model struct {
	dash *sim.Dashboard
	eng  *engine.Engine
	pad  *KeyPad

	events chan engine.Event
	sub    *engine.Subscription

	width  int
	height int

	focused   surface.Node
	lastClick string
	cursorX   float64
	cursorY   float64
	cursorOn  bool
	menuOpen  bool
	connected bool

	paletteOpen  bool
	paletteQuery string
}

// NewModel wires the model to a started engine and its keyboard pad. The
// subscription lives until the program exits.
func NewModel(dash *sim.Dashboard, eng *engine.Engine, pad *KeyPad) *Model {
	m := &Model{
		dash:   dash,
		eng:    eng,
		pad:    pad,
		events: make(chan engine.Event, eventBuffer),
	}
	m.sub = eng.Events().Subscribe(func(ev engine.Event) {
		select {
		case m.events <- ev:
		default:
		}
	})
	return m
}

// Close releases the engine subscription.
func (m *Model) Close() {
	if m.sub != nil {
		m.sub.Close()
	}
}

func waitForEngineEvent(ch chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		return engineEventMsg{event: <-ch}
	}
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return waitForEngineEvent(m.events)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case engineEventMsg:
		m.applyEngineEvent(msg.event)
		return m, waitForEngineEvent(m.events)
	case tea.KeyMsg:
		if m.paletteOpen {
			return m, m.handlePaletteKey(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applyEngineEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.FocusEvent:
		m.focused = e.Target.Node
	case engine.ActivateEvent:
		if clicks := m.dash.Clicks(); len(clicks) > 0 {
			m.lastClick = clicks[len(clicks)-1]
		}
	case engine.CursorEvent:
		m.cursorX, m.cursorY, m.cursorOn = e.X, e.Y, e.Visible
	case engine.MenuOpenEvent:
		m.menuOpen = !m.menuOpen
		m.eng.SetMenuActive(m.menuOpen)
	case engine.MenuButtonEvent:
		if e.Button == gamepad.Cancel {
			m.menuOpen = false
			m.eng.SetMenuActive(false)
		}
	case engine.ConnectionEvent:
		m.connected = e.Connected
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "up":
		m.pad.Press(gamepad.Up)
	case "down":
		m.pad.Press(gamepad.Down)
	case "left":
		m.pad.Press(gamepad.Left)
	case "right":
		m.pad.Press(gamepad.Right)
	case "enter":
		m.pad.Press(gamepad.Confirm)
	case "esc":
		m.pad.Press(gamepad.Cancel)
	case "m":
		m.pad.Press(gamepad.Start)
	case "w":
		m.pad.Nudge(0, -1)
	case "s":
		m.pad.Nudge(0, 1)
	case "a":
		m.pad.Nudge(-1, 0)
	case "d":
		m.pad.Nudge(1, 0)
	case "b":
		m.pad.ToggleHold(gamepad.TriggerR)
	case "/":
		m.paletteOpen = true
		m.paletteQuery = ""
	}
	return nil
}

func (m *Model) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.paletteOpen = false
	case "enter":
		if t, ok := m.paletteMatch(); ok {
			m.eng.RequestFocus(t.Node)
		}
		m.paletteOpen = false
	case "backspace":
		if len(m.paletteQuery) > 0 {
			runes := []rune(m.paletteQuery)
			m.paletteQuery = string(runes[:len(runes)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.paletteQuery += string(msg.Runes)
		}
	}
	return nil
}

// paletteMatch resolves the query to the best-ranked reachable target.
func (m *Model) paletteMatch() (surface.Target, bool) {
	targets, _ := focus.NewRegistry(m.dash).Rebuild()
	if len(targets) == 0 {
		return surface.Target{}, false
	}
	query := strings.TrimSpace(m.paletteQuery)
	if query == "" {
		return targets[0], true
	}
	labels := make([]string, len(targets))
	for i, t := range targets {
		labels[i] = t.Node.Label()
	}
	ranks := fuzzy.RankFindNormalizedFold(query, labels)
	if len(ranks) == 0 {
		return surface.Target{}, false
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return targets[best.OriginalIndex], true
}

// paletteMatches returns the ranked labels shown under the palette input.
func (m *Model) paletteMatches(limit int) []string {
	targets, _ := focus.NewRegistry(m.dash).Rebuild()
	labels := make([]string, len(targets))
	for i, t := range targets {
		labels[i] = t.Node.Label()
	}
	query := strings.TrimSpace(m.paletteQuery)
	if query == "" {
		if len(labels) > limit {
			labels = labels[:limit]
		}
		return labels
	}
	ranks := fuzzy.RankFindNormalizedFold(query, labels)
	out := make([]string, 0, limit)
	for _, r := range ranks {
		out = append(out, r.Target)
		if len(out) == limit {
			break
		}
	}
	return out
}
