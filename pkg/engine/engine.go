// Package engine ties the input state machine, focus navigation, analog
// cursor and session persistence together behind one fixed-rate poll loop.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Alia5/padnav/pkg/cursor"
	"github.com/Alia5/padnav/pkg/focus"
	"github.com/Alia5/padnav/pkg/gamepad"
	"github.com/Alia5/padnav/pkg/session"
	"github.com/Alia5/padnav/pkg/surface"
)

// ErrAlreadyInitialized is returned by New while another engine instance is
// live. At most one engine may exist per process; Close releases the slot.
var ErrAlreadyInitialized = errors.New("engine: already initialized")

var live atomic.Bool

// Config carries the poll timing. Zero values select the defaults.
type Config struct {
	// PollInterval drives input sampling and everything downstream.
	PollInterval time.Duration
	// ContextInterval independently re-evaluates modal visibility.
	ContextInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 100 * time.Millisecond
	}
	if c.ContextInterval <= 0 {
		c.ContextInterval = 500 * time.Millisecond
	}
	return c
}

// Engine is the controller-navigation core. All navigation state is owned
// by the poll goroutine; the public methods only flip guarded flags.
type Engine struct {
	cfg     Config
	sampler gamepad.Sampler
	surf    surface.Surface
	bridge  *session.Bridge
	logger  *slog.Logger
	bus     *Bus

	machine  *gamepad.Machine
	latch    *gamepad.StickLatch
	registry *focus.Registry
	anchor   focus.Anchor
	cur      *cursor.Controller

	mu         sync.Mutex
	running    bool
	cancel     context.CancelFunc
	done       chan struct{}
	menuActive bool

	connected     bool
	lastContainer surface.Node
	lastCursor    CursorEvent
	closed        bool

	focusRequest  surface.Node
	reloadSession bool
	flushSession  bool
}

// New builds the single engine instance. The store backs session
// persistence of the raw button snapshot; a nil logger uses slog.Default.
func New(cfg Config, sampler gamepad.Sampler, surf surface.Surface, store session.Store, logger *slog.Logger) (*Engine, error) {
	if !live.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInitialized
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:      cfg.withDefaults(),
		sampler:  sampler,
		surf:     surf,
		bridge:   session.NewBridge(store, logger),
		logger:   logger,
		bus:      NewBus(),
		machine:  gamepad.NewMachine(),
		latch:    gamepad.NewStickLatch(),
		registry: focus.NewRegistry(surf),
		cur:      cursor.New(surf.Viewport),
	}
	return e, nil
}

// Events returns the engine's event bus.
func (e *Engine) Events() *Bus { return e.bus }

// SetMenuActive is the host's context-update call. While the menu is
// active, direction/confirm/cancel edges are redirected to menu events and
// normal navigation is suspended.
func (e *Engine) SetMenuActive(active bool) {
	e.mu.Lock()
	e.menuActive = active
	e.mu.Unlock()
}

// RequestFocus asks the poll loop to move focus to n on the next tick.
// Hosts use it for focus sources outside the controller, such as a jump
// palette or pointer hover. Unknown or currently ineligible nodes are
// silently dropped.
func (e *Engine) RequestFocus(n surface.Node) {
	e.mu.Lock()
	e.focusRequest = n
	e.mu.Unlock()
}

// FlushSession asks the poll loop to persist the raw button snapshot on the
// next tick, before that tick's sample runs. Hosts whose store identity
// changes at runtime (the bridge routes saves to the connected tab) call it
// when the page goes away, so the snapshot lands in the departing tab's
// store while the raw levels are still held.
func (e *Engine) FlushSession() {
	e.mu.Lock()
	e.flushSession = true
	e.mu.Unlock()
}

// ReloadSession asks the poll loop to re-read the persisted snapshot on the
// next tick. The bridge calls it when a tab (re)connects, after switching
// the active store, so a button held across a page navigation is seeded as
// already-down and does not re-fire.
func (e *Engine) ReloadSession() {
	e.mu.Lock()
	e.reloadSession = true
	e.mu.Unlock()
}

// Start begins polling. Starting an already started engine is a no-op, not
// an error. A previously persisted button snapshot is restored so presses
// spanning a navigation are not re-triggered.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return errors.New("engine: closed")
	}
	if e.running {
		return nil
	}

	if snap, ok := e.bridge.Load(); ok {
		e.machine.Restore(snap)
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	e.running = true
	go e.run(runCtx, e.done)
	e.logger.Info("engine started", "poll", e.cfg.PollInterval)
	return nil
}

// Stop halts polling synchronously and flushes the raw button snapshot
// exactly once per Start. Stopping twice is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel, done := e.cancel, e.done
	e.mu.Unlock()

	cancel()
	<-done
	e.bridge.Save(e.machine.Snapshot())
	e.logger.Info("engine stopped")
}

// Close stops the engine and releases the process-wide instance slot.
func (e *Engine) Close() {
	e.Stop()
	e.mu.Lock()
	alreadyClosed := e.closed
	e.closed = true
	e.mu.Unlock()
	if !alreadyClosed {
		live.Store(false)
	}
}

func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	poll := time.NewTicker(e.cfg.PollInterval)
	defer poll.Stop()
	scope := time.NewTicker(e.cfg.ContextInterval)
	defer scope.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			e.safeTick()
		case <-scope.C:
			e.safeScopeCheck()
		}
	}
}

// safeTick guards a tick so one faulty element reference cannot stop
// subsequent ticks.
func (e *Engine) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("poll tick panicked", "panic", r)
		}
	}()
	e.tick()
}

func (e *Engine) safeScopeCheck() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("scope check panicked", "panic", r)
		}
	}()
	e.scopeCheck()
}

func (e *Engine) tick() {
	e.applySessionRequests()

	pads := e.sampler.Poll()
	e.trackConnection(len(pads) > 0)

	var pad gamepad.Pad
	if len(pads) > 0 {
		pad = pads[0]
	}

	// An empty sample still runs the machine so pending release edges are
	// delivered after a disconnect.
	pressed, released := e.machine.Sample(pad.Levels())
	for _, b := range pressed {
		e.bus.Publish(ButtonEvent{Button: b, Pressed: true})
	}
	for _, b := range released {
		e.bus.Publish(ButtonEvent{Button: b, Pressed: false})
	}

	dirs := directionalEdges(pressed)
	dirs = append(dirs, e.latch.Sample(pad.Axis(gamepad.AxisNavX), pad.Axis(gamepad.AxisNavY))...)

	e.applyFocusRequest()

	if e.isMenuActive() {
		e.menuTick(pressed, dirs)
	} else {
		e.navTick(pressed, dirs)
	}

	e.cur.Update(pad.Axis(gamepad.AxisCursorX), pad.Axis(gamepad.AxisCursorY), e.machine.Held(gamepad.TriggerR))
	e.publishCursor()
}

// applySessionRequests runs before the tick's sample so a flush still sees
// the raw levels from before a disconnect cleared the sampler, and a reload
// seeds them before the next press-edge decision.
func (e *Engine) applySessionRequests() {
	e.mu.Lock()
	flush, reload := e.flushSession, e.reloadSession
	e.flushSession, e.reloadSession = false, false
	e.mu.Unlock()

	if flush {
		e.bridge.Save(e.machine.Snapshot())
	}
	if reload {
		if snap, ok := e.bridge.Load(); ok {
			e.machine.Restore(snap)
		}
	}
}

// menuTick redirects edges to the host menu instead of navigating.
func (e *Engine) menuTick(pressed, dirs []gamepad.Button) {
	for _, b := range pressed {
		switch b {
		case gamepad.Confirm:
			if e.machine.LatchConfirm() {
				e.bus.Publish(MenuButtonEvent{Button: gamepad.Confirm})
			}
		case gamepad.Cancel:
			e.bus.Publish(MenuButtonEvent{Button: gamepad.Cancel})
		case gamepad.Start:
			e.bus.Publish(MenuOpenEvent{})
		}
	}
	for _, d := range dirs {
		if d == gamepad.Up || d == gamepad.Down {
			e.bus.Publish(MenuButtonEvent{Button: d})
		}
	}
}

func (e *Engine) navTick(pressed, dirs []gamepad.Button) {
	for _, d := range dirs {
		e.moveFocus(direction(d))
	}
	for _, b := range pressed {
		switch b {
		case gamepad.Confirm:
			if e.machine.LatchConfirm() {
				e.activateFocus()
			}
		case gamepad.Start:
			e.bus.Publish(MenuOpenEvent{})
		}
	}
}

// moveFocus rebuilds the target list (pull-based; the page mutates between
// ticks), re-anchors, and applies one directional move.
func (e *Engine) moveFocus(dir focus.Direction) {
	targets, ctx := e.registry.Rebuild()
	if len(targets) == 0 {
		return
	}

	// First directional input with no established focus just lands on the
	// first target.
	if e.anchor.Node == nil {
		e.anchor.Set(0, targets)
		e.bus.Publish(FocusEvent{Target: targets[e.anchor.Index]})
		return
	}

	current, ok := e.anchor.Relocate(targets)
	if !ok {
		return
	}
	next, moved := focus.Move(current, dir, targets, ctx)
	if !moved || next.Node == current.Node {
		return
	}
	e.anchor.SetTo(next, targets)
	e.bus.Publish(FocusEvent{Target: next})
}

func (e *Engine) applyFocusRequest() {
	e.mu.Lock()
	req := e.focusRequest
	e.focusRequest = nil
	e.mu.Unlock()
	if req == nil {
		return
	}

	targets, _ := e.registry.Rebuild()
	for i, t := range targets {
		if t.Node == req {
			e.anchor.Set(i, targets)
			e.bus.Publish(FocusEvent{Target: t})
			return
		}
	}
}

func (e *Engine) activateFocus() {
	targets, _ := e.registry.Rebuild()
	current, ok := e.anchor.Relocate(targets)
	if !ok {
		return
	}
	e.surf.Activate(current.Node)
	e.bus.Publish(ActivateEvent{Target: current})
}

// scopeCheck runs on the slower ticker: when modal visibility changes the
// focus is forced into (or out of) the overlay without waiting for input.
func (e *Engine) scopeCheck() {
	ctx := e.registry.Context()
	if ctx.Container == e.lastContainer {
		return
	}
	e.lastContainer = ctx.Container

	targets, _ := e.registry.Rebuild()
	if current, ok := e.anchor.Relocate(targets); ok {
		e.bus.Publish(FocusEvent{Target: current})
	}
}

func (e *Engine) trackConnection(connected bool) {
	if connected == e.connected {
		return
	}
	e.connected = connected
	e.logger.Debug("controller connection changed", "connected", connected)
	e.bus.Publish(ConnectionEvent{Connected: connected})
}

func (e *Engine) publishCursor() {
	x, y := e.cur.Position()
	ev := CursorEvent{X: x, Y: y, Visible: e.cur.Visible()}
	if ev == e.lastCursor {
		return
	}
	e.lastCursor = ev
	e.bus.Publish(ev)
}

func (e *Engine) isMenuActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.menuActive
}

func directionalEdges(pressed []gamepad.Button) []gamepad.Button {
	var dirs []gamepad.Button
	for _, b := range pressed {
		switch b {
		case gamepad.Up, gamepad.Down, gamepad.Left, gamepad.Right:
			dirs = append(dirs, b)
		}
	}
	return dirs
}

func direction(b gamepad.Button) focus.Direction {
	switch b {
	case gamepad.Up:
		return focus.DirUp
	case gamepad.Down:
		return focus.DirDown
	case gamepad.Left:
		return focus.DirLeft
	default:
		return focus.DirRight
	}
}
