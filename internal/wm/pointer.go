package wm

import (
	"sync"

	"github.com/mominos/mominos/internal/tiling"
)

// PointerEvent is a pointer position in desktop coordinates.
type PointerEvent struct {
	tiling.Point
}

// At builds a PointerEvent for (x, y).
func At(x, y int) PointerEvent {
	return PointerEvent{Point: tiling.Point{X: x, Y: y}}
}

// PointerListener receives global pointer events while a gesture is live.
type PointerListener interface {
	PointerMove(ev PointerEvent)
	PointerUp(ev PointerEvent)
}

// PointerSource hands out global pointer subscriptions. The returned detach
// function is safe to call more than once.
type PointerSource interface {
	Attach(l PointerListener) (detach func())
}

var (
	_ PointerSource   = (*Dispatcher)(nil)
	_ PointerListener = (*Manager)(nil)
)

type listenerEntry struct {
	id int
	l  PointerListener
}

// Dispatcher is the global pointer surface. The host feeds raw move/up
// events into it; they reach only the listeners attached at that moment.
type Dispatcher struct {
	mu        sync.Mutex
	nextID    int
	listeners []listenerEntry
}

// NewDispatcher creates a dispatcher with no listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Attach subscribes l until the returned function is called.
func (d *Dispatcher) Attach(l PointerListener) func() {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, listenerEntry{id: id, l: l})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(id) })
	}
}

func (d *Dispatcher) remove(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, e := range d.listeners {
		if e.id == id {
			d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
			return
		}
	}
}

// Active returns the number of attached listeners.
func (d *Dispatcher) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Move delivers a pointer-move to every attached listener.
func (d *Dispatcher) Move(ev PointerEvent) {
	for _, l := range d.snapshot() {
		l.PointerMove(ev)
	}
}

// Up delivers a pointer-up to every attached listener.
func (d *Dispatcher) Up(ev PointerEvent) {
	for _, l := range d.snapshot() {
		l.PointerUp(ev)
	}
}

// snapshot copies the listener list so callbacks may detach themselves.
func (d *Dispatcher) snapshot() []PointerListener {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]PointerListener, len(d.listeners))
	for i, e := range d.listeners {
		out[i] = e.l
	}
	return out
}
