// Package event provides per-instance publish/subscribe channels. Each
// component owns its own emitters; there is no global bus.
package event

// listener is a registered handler.
type listener[T any] struct {
	id       int
	callback func(T)
	once     bool
	removed  bool
}

// Emitter delivers values of type T to registered listeners in registration
// order. It is meant to be used from a single control thread and holds no lock.
//
// Listeners may subscribe or unsubscribe while an emit is in progress. A
// listener removed during an emit is not called for the rest of it; a
// listener added during an emit first fires on the next one.
type Emitter[T any] struct {
	listeners []*listener[T]
	nextID    int
}

// On registers fn and returns a function that removes it. The returned
// function is safe to call more than once.
func (e *Emitter[T]) On(fn func(T)) func() {
	return e.add(fn, false)
}

// Once registers fn for a single delivery.
func (e *Emitter[T]) Once(fn func(T)) func() {
	return e.add(fn, true)
}

func (e *Emitter[T]) add(fn func(T), once bool) func() {
	e.nextID++
	l := &listener[T]{id: e.nextID, callback: fn, once: once}
	e.listeners = append(e.listeners, l)
	return func() { e.remove(l) }
}

func (e *Emitter[T]) remove(l *listener[T]) {
	if l.removed {
		return
	}
	l.removed = true
	for i, cur := range e.listeners {
		if cur == l {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Emit calls every listener with v.
func (e *Emitter[T]) Emit(v T) {
	if len(e.listeners) == 0 {
		return
	}
	snapshot := make([]*listener[T], len(e.listeners))
	copy(snapshot, e.listeners)

	for _, l := range snapshot {
		if l.removed {
			continue
		}
		if l.once {
			e.remove(l)
		}
		l.callback(v)
	}
}

// Len returns the number of registered listeners.
func (e *Emitter[T]) Len() int {
	return len(e.listeners)
}

// Clear removes every listener.
func (e *Emitter[T]) Clear() {
	for _, l := range e.listeners {
		l.removed = true
	}
	e.listeners = nil
}

// Subscriptions collects unsubscribe functions so a component can detach
// everything it registered in one call.
type Subscriptions []func()

// Add appends an unsubscribe function.
func (s *Subscriptions) Add(unsubscribe func()) {
	*s = append(*s, unsubscribe)
}

// Release calls every collected function once and forgets them.
func (s *Subscriptions) Release() {
	subs := *s
	*s = nil
	for _, unsubscribe := range subs {
		if unsubscribe != nil {
			unsubscribe()
		}
	}
}

// Len returns the number of collected subscriptions.
func (s Subscriptions) Len() int {
	return len(s)
}
