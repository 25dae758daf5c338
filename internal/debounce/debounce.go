// Package debounce delays a function call until calls stop arriving.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs fn with the argument of the most recent Call once delay has
// passed without another Call. Each Debouncer owns a single timer slot, so
// independent instances never interfere.
type Debouncer[T any] struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(T)
	timer *time.Timer
	gen   uint64 // bumped on every Call and Cancel; stale timers check it
}

// New returns a Debouncer that calls fn after delay of quiet.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Call schedules fn(arg), replacing any call still pending. The returned
// cancel drops this call only: once a later Call has replaced it, or it has
// already run, cancel does nothing.
func (d *Debouncer[T]) Call(arg T) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn(arg)
	})
	return func() { d.cancelGen(gen) }
}

// cancelGen drops the pending call if it is still the one scheduled as gen.
func (d *Debouncer[T]) cancelGen(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen || d.timer == nil {
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
}

// Cancel drops the pending call, if any. It is safe to call at any time,
// including after the call has already run.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending returns true while a call is scheduled and has not run.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Func wraps fn and returns the debounced callable and its cancel function.
func Func[T any](delay time.Duration, fn func(T)) (call func(T), cancel func()) {
	d := New(delay, fn)
	return func(arg T) { d.Call(arg) }, d.Cancel
}
