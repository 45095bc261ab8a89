package bridge

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padnav/pkg/engine"
	"github.com/Alia5/padnav/pkg/gamepad"
	"github.com/Alia5/padnav/pkg/surface"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer("127.0.0.1:0", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, s.Start())
	t.Cleanup(s.Close)
	return s
}

func dial(t *testing.T, s *Server, tab string) *websocket.Conn {
	t.Helper()
	url := "ws://" + s.Addr() + "/ws"
	if tab != "" {
		url += "?tab=" + tab
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sampleFrame() clientFrame {
	var sf surfaceFrame
	sf.Viewport.W = 1280
	sf.Viewport.H = 720
	sf.Elements = []elementFrame{
		{ID: "m1", Label: "mars-01", Kind: kindRow, X: 10, Y: 100, W: 800, H: 40, Visible: true},
		{ID: "m1-del", Label: "Delete", Kind: kindAction, Owner: "m1", X: 700, Y: 105, W: 60, H: 30, Visible: true},
		{ID: "nav-home", Label: "Home", Kind: kindNavLink, X: 10, Y: 10, W: 80, H: 24, Visible: true},
	}
	return clientFrame{Type: "surface", Surface: &sf}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSurfaceFrameBuildsTargets(t *testing.T) {
	s := startTestServer(t)
	conn := dial(t, s, "")

	require.NoError(t, conn.WriteJSON(sampleFrame()))

	waitFor(t, func() bool { return len(s.Surface().Rows()) == 1 })

	rows := s.Surface().Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "mars-01", rows[0].Label())
	actions := s.Surface().RowActions(rows[0])
	require.Len(t, actions, 1)
	assert.Equal(t, "Delete", actions[0].Label())
	w, h := s.Surface().Viewport()
	assert.Equal(t, 1280.0, w)
	assert.Equal(t, 720.0, h)
}

func TestNodeIdentitySurvivesResync(t *testing.T) {
	s := startTestServer(t)
	conn := dial(t, s, "")

	require.NoError(t, conn.WriteJSON(sampleFrame()))
	waitFor(t, func() bool { return len(s.Surface().Rows()) == 1 })
	before := s.Surface().Rows()[0]

	// Same element ID in a fresh snapshot must yield the same node, so a
	// held anchor relocates by identity instead of falling back to index 0.
	frame := sampleFrame()
	frame.Surface.Elements[0].Y = 160
	require.NoError(t, conn.WriteJSON(frame))
	waitFor(t, func() bool { return s.Surface().Rows()[0].Bounds().Y == 160 })

	after := s.Surface().Rows()[0]
	assert.True(t, before == after)
}

func TestPadsFrameFeedsSampler(t *testing.T) {
	s := startTestServer(t)
	conn := dial(t, s, "")

	frame := clientFrame{Type: "pads", Pads: []padFrame{{
		Axes: []float64{0.5, -0.25, 0, 0},
	}}}
	frame.Pads[0].Buttons = make([]struct {
		Pressed bool    `json:"pressed"`
		Value   float64 `json:"value"`
	}, 13)
	frame.Pads[0].Buttons[0].Pressed = true

	require.NoError(t, conn.WriteJSON(frame))
	waitFor(t, func() bool { return len(s.Sampler().Poll()) == 1 })

	pad := s.Sampler().Poll()[0]
	assert.InDelta(t, 0.5, pad.Axis(gamepad.AxisCursorX), 1e-9)
	assert.True(t, pad.Levels()[gamepad.Confirm])
}

func TestDisconnectClearsSampler(t *testing.T) {
	s := startTestServer(t)
	conn := dial(t, s, "")

	frame := clientFrame{Type: "pads", Pads: []padFrame{{Axes: []float64{0, 0, 0, 0}}}}
	require.NoError(t, conn.WriteJSON(frame))
	waitFor(t, func() bool { return len(s.Sampler().Poll()) == 1 })

	require.NoError(t, conn.Close())
	waitFor(t, func() bool { return len(s.Sampler().Poll()) == 0 })
}

func TestForwardTranslatesEvents(t *testing.T) {
	s := startTestServer(t)
	conn := dial(t, s, "")

	require.NoError(t, conn.WriteJSON(sampleFrame()))
	waitFor(t, func() bool { return len(s.Surface().Rows()) == 1 })
	row := s.Surface().Rows()[0]

	bus := engine.NewBus()
	sub := s.Forward(bus)
	defer sub.Close()

	bus.Publish(engine.FocusEvent{Target: surface.Target{Node: row, Role: surface.Row}})
	bus.Publish(engine.CursorEvent{X: 42, Y: 7, Visible: true})
	bus.Publish(engine.MenuButtonEvent{Button: gamepad.Cancel})

	var frames []serverFrame
	for len(frames) < 3 {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var f serverFrame
		require.NoError(t, json.Unmarshal(data, &f))
		frames = append(frames, f)
	}

	assert.Equal(t, "focus", frames[0].Type)
	assert.Equal(t, "m1", frames[0].ID)
	assert.Equal(t, "mars-01", frames[0].Label)
	assert.Equal(t, "cursor", frames[1].Type)
	assert.Equal(t, 42.0, frames[1].X)
	assert.True(t, frames[1].Visible)
	assert.Equal(t, "menu-button", frames[2].Type)
	assert.Equal(t, "Cancel", frames[2].Button)
}

func TestSessionHooksSeeTheTabStore(t *testing.T) {
	s := startTestServer(t)

	var mu sync.Mutex
	var reloads, flushes int
	s.SetSessionHooks(
		func() {
			mu.Lock()
			reloads++
			mu.Unlock()
			// The connecting tab's store is active when the hook runs.
			_ = s.Save("seen", []byte("y"))
		},
		func() {
			mu.Lock()
			flushes++
			mu.Unlock()
		},
	)

	conn := dial(t, s, "alpha")
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloads == 1
	})

	_, ok, err := s.Load("seen")
	require.NoError(t, err)
	assert.True(t, ok, "connect hook writes landed in alpha's store")

	require.NoError(t, conn.Close())
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return flushes == 1
	})
}

func TestPerTabStores(t *testing.T) {
	s := startTestServer(t)

	dial(t, s, "alpha")
	waitFor(t, func() bool {
		s.storeMu.Lock()
		defer s.storeMu.Unlock()
		return s.activeTab == "alpha"
	})
	require.NoError(t, s.Save("k", []byte("one")))

	dial(t, s, "beta")
	waitFor(t, func() bool {
		s.storeMu.Lock()
		defer s.storeMu.Unlock()
		return s.activeTab == "beta"
	})
	_, ok, err := s.Load("k")
	require.NoError(t, err)
	assert.False(t, ok, "beta tab must not see alpha's snapshot")

	dial(t, s, "alpha")
	waitFor(t, func() bool {
		s.storeMu.Lock()
		defer s.storeMu.Unlock()
		return s.activeTab == "alpha"
	})
	data, ok, err := s.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("one"), data)
}
