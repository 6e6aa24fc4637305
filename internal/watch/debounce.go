package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one call of onFlush, fired
// delay after the last trigger.
type Debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	onFlush func()
	stopped bool
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration, onFlush func()) *Debouncer {
	return &Debouncer{delay: delay, onFlush: onFlush}
}

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()

	if !stopped && d.onFlush != nil {
		d.onFlush()
	}
}

// Stop cancels any pending flush. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
