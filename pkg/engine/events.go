package engine

import (
	"sync"

	"github.com/Alia5/padnav/pkg/gamepad"
	"github.com/Alia5/padnav/pkg/surface"
)

// Event is anything the engine reports to the host application. Events are
// fire-and-forget; no acknowledgement is expected.
type Event interface{ event() }

// ConnectionEvent fires when the first controller appears or the last one
// disappears.
type ConnectionEvent struct {
	Connected bool
}

// FocusEvent fires whenever the active focus target changes.
type FocusEvent struct {
	Target surface.Target
}

// CursorEvent fires when the analog cursor moves or changes visibility.
type CursorEvent struct {
	X, Y    float64
	Visible bool
}

// MenuOpenEvent asks the host to open its menu. The host owns the
// menu-active flag and reports it back via Engine.SetMenuActive.
type MenuOpenEvent struct{}

// MenuButtonEvent carries a redirected edge while the host menu is active.
// Only Up, Down, Confirm and Cancel are redirected.
type MenuButtonEvent struct {
	Button gamepad.Button
}

// ActivateEvent fires when Confirm actions the focused target.
type ActivateEvent struct {
	Target surface.Target
}

// ButtonEvent is the raw edge stream for glue concerns (theme toggles,
// fullscreen) that are outside the engine's scope.
type ButtonEvent struct {
	Button  gamepad.Button
	Pressed bool
}

func (ConnectionEvent) event() {}
func (FocusEvent) event()      {}
func (CursorEvent) event()     {}
func (MenuOpenEvent) event()   {}
func (MenuButtonEvent) event() {}
func (ActivateEvent) event()   {}
func (ButtonEvent) event()     {}

// Bus is a small publish/subscribe mechanism with explicit subscription
// handles and explicit teardown. Callbacks run synchronously on the poll
// goroutine and must not block.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe registers a callback for every published event.
func (b *Bus) Subscribe(fn func(Event)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return &Subscription{bus: b, id: id}
}

// Publish delivers ev to every current subscriber.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Subscription is a handle for one subscriber.
type Subscription struct {
	bus  *Bus
	id   int
	once sync.Once
}

// Close tears the subscription down. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.id)
		s.bus.mu.Unlock()
	})
}
