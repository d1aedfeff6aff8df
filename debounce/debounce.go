// Package debounce coalesces rapid text-input changes into a single delayed
// emission. The state machine has two states, idle and pending; any change
// while pending rearms the timer and only the most recent text survives.
package debounce

import (
	"sync"
	"time"
)

type Debouncer struct {
	delay time.Duration
	emit  func(string)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	text    string
	stopped bool
}

// New creates a debouncer that calls emit with the coalesced text. emit runs
// on the timer goroutine; callers needing UI-thread delivery wrap it in
// fyne.Do themselves.
func New(delay time.Duration, emit func(string)) *Debouncer {
	return &Debouncer{delay: delay, emit: emit}
}

// Change records a new text value and (re)arms the delay timer, canceling
// any previously armed one. Last write wins.
func (d *Debouncer) Change(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.text = text
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush cancels any pending timer and emits the given text immediately,
// bypassing the delay. Used for explicit "search now" actions.
func (d *Debouncer) Flush(text string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.text = text
	emit := d.emit
	d.mu.Unlock()

	emit(text)
}

// Stop cancels any pending emission and prevents further ones.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire runs on the timer goroutine. The generation check discards a timer
// that lost the race against a rearm or flush between expiry and lock
// acquisition.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	text := d.text
	emit := d.emit
	d.mu.Unlock()

	emit(text)
}
