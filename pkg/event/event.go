// Package event provides a small synchronous event emitter.
//
// Each client runtime owns its own Emitter instance, so listeners for one
// browser session never observe another session's state changes. Fire
// notifies listeners synchronously, in registration order, after every
// mutation — subscribers therefore always see the post-mutation state and
// no update is lost under rapid successive writes.
package event

import "sync"

// Handler receives an event payload.
type Handler func(payload interface{})

// Emitter dispatches named events to registered handlers.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// New returns an empty Emitter.
func New() *Emitter {
	return &Emitter{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (e *Emitter) Listen(name string, handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[name] = append(e.handlers[name], handler)
}

// Fire dispatches an event synchronously to all registered listeners,
// in the order they were registered.
func (e *Emitter) Fire(name string, payload interface{}) {
	e.mu.RLock()
	hs := make([]Handler, len(e.handlers[name]))
	copy(hs, e.handlers[name])
	e.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and
// returns without waiting for them.
func (e *Emitter) FireAsync(name string, payload interface{}) {
	e.mu.RLock()
	hs := make([]Handler, len(e.handlers[name]))
	copy(hs, e.handlers[name])
	e.mu.RUnlock()

	for _, h := range hs {
		go h(payload)
	}
}

// Flush removes all listeners (useful in tests).
func (e *Emitter) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = map[string][]Handler{}
}
