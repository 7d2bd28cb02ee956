package broadcast

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into a single trailing invocation:
// each Trigger restarts the window and only the last function runs when the
// window elapses. The zero window degenerates to immediate execution.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
}

// NewDebouncer returns a Debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Trigger schedules fn to run after the window, replacing any pending call.
// It reports whether a previously scheduled call was superseded.
func (d *Debouncer) Trigger(fn func()) bool {
	if d.window <= 0 {
		fn()
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	superseded := d.pending
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		d.pending = false
		d.mu.Unlock()
		fn()
	})
	return superseded
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
}
