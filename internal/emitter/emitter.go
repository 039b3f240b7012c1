package emitter

import (
	"sync"

	"github.com/google/uuid"

	"github.com/luciancaetano/censusstream"
)

type entry struct {
	id       censusstream.ListenerID
	listener censusstream.Listener
	once     bool
}

// Registry stores listeners by event name and calls them synchronously.
// It is safe for concurrent use; listeners may register or remove listeners
// while being called.
type Registry struct {
	mu        sync.RWMutex
	listeners map[string][]entry
	onPanic   PanicHandler
}

// PanicHandler is called with the recovered value when a listener panics.
type PanicHandler func(name string, recovered any)

// New creates an empty registry. A listener panic is recovered and passed to
// onPanic so the remaining listeners still run; a nil onPanic re-panics.
func New(onPanic PanicHandler) *Registry {
	return &Registry{
		listeners: make(map[string][]entry),
		onPanic:   onPanic,
	}
}

// On registers listener under name.
func (r *Registry) On(name string, listener censusstream.Listener) censusstream.ListenerID {
	return r.add(name, listener, false)
}

// Once registers listener under name for a single call.
func (r *Registry) Once(name string, listener censusstream.Listener) censusstream.ListenerID {
	return r.add(name, listener, true)
}

func (r *Registry) add(name string, listener censusstream.Listener, once bool) censusstream.ListenerID {
	id := censusstream.ListenerID(uuid.New().String())
	if listener == nil {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners[name] = append(r.listeners[name], entry{id: id, listener: listener, once: once})
	return id
}

// Off removes the listener with the given ID. Unknown IDs are ignored.
func (r *Registry) Off(name string, id censusstream.ListenerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(name, id)
}

func (r *Registry) removeLocked(name string, id censusstream.ListenerID) bool {
	entries := r.listeners[name]
	for i, e := range entries {
		if e.id != id {
			continue
		}
		// Copy so snapshots held by a running Emit stay intact
		next := make([]entry, 0, len(entries)-1)
		next = append(next, entries[:i]...)
		next = append(next, entries[i+1:]...)
		if len(next) == 0 {
			delete(r.listeners, name)
		} else {
			r.listeners[name] = next
		}
		return true
	}
	return false
}

// Count returns the number of listeners registered under name.
func (r *Registry) Count(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[name])
}

// Emit calls every listener registered under ev.Name in registration order
// and returns how many were called. Listeners registered during the call are
// not called for this event.
func (r *Registry) Emit(ev censusstream.Event) int {
	r.mu.RLock()
	snapshot := r.listeners[ev.Name]
	r.mu.RUnlock()

	called := 0
	for _, e := range snapshot {
		if e.once {
			r.mu.Lock()
			removed := r.removeLocked(ev.Name, e.id)
			r.mu.Unlock()
			if !removed {
				// Already fired or removed by an earlier listener
				continue
			}
		}
		r.call(e.listener, ev)
		called++
	}
	return called
}

func (r *Registry) call(listener censusstream.Listener, ev censusstream.Event) {
	if r.onPanic != nil {
		defer func() {
			if rec := recover(); rec != nil {
				r.onPanic(ev.Name, rec)
			}
		}()
	}
	listener(ev)
}
