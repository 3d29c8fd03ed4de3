package gesture

import (
	"fmt"
	"sort"
	"sync"

	"canvasd/internal/domain"
)

// Kind is the type of a document-level pointer event
type Kind string

const (
	KindMove   Kind = "move"   // pointer moved while a button is held
	KindUp     Kind = "up"     // button released, commits the gesture
	KindCancel Kind = "cancel" // pointer cancelled by the input system
	KindBlur   Kind = "blur"   // window lost focus
)

// ParseKind validates a kind received from outside the process
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindMove, KindUp, KindCancel, KindBlur:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownEventKind, s)
}

// Point is a pointer location in screen coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is a pointer event delivered to document-level listeners.
// Point is ignored for cancel and blur.
type Event struct {
	Kind  Kind  `json:"kind"`
	Point Point `json:"point"`
}

// Handler receives events from an EventSource
type Handler func(Event)

// EventSource delivers document-level pointer events. Subscribe returns a
// function that removes the listener; calling it more than once is harmless.
type EventSource interface {
	Subscribe(h Handler) (unsubscribe func())
}

// Document is an EventSource that fans events out to its listeners in
// subscription order. Listeners may unsubscribe while an event is being
// dispatched.
type Document struct {
	mu        sync.Mutex
	listeners map[uint64]Handler
	nextID    uint64
}

// NewDocument creates a document with no listeners
func NewDocument() *Document {
	return &Document{
		listeners: make(map[uint64]Handler),
	}
}

// Subscribe registers h for every subsequent event
func (d *Document) Subscribe(h Handler) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = h
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// Dispatch delivers ev synchronously to the listeners registered when the
// call starts.
func (d *Document) Dispatch(ev Event) {
	d.mu.Lock()
	ids := make([]uint64, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, d.listeners[id])
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Listeners returns the number of registered listeners
func (d *Document) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
