package logic

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the minimum time between accepted edges on one pin.
const DefaultDebounceWindow = 300 * time.Millisecond

// Debouncer suppresses repeated edge events on a single input. It owns only
// the timestamp of the last accepted event and may be called from the edge
// handler goroutine while the main loop runs.
type Debouncer struct {
	window time.Duration

	mu       sync.Mutex
	last     time.Time
	accepted bool
}

// NewDebouncer creates a Debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// ShouldAccept reports whether an edge at now is a genuine press. The first
// edge is always accepted; later edges are accepted only once the window has
// elapsed since the last accepted one. Rejected edges leave the state untouched.
func (d *Debouncer) ShouldAccept(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.accepted && now.Sub(d.last) < d.window {
		return false
	}
	d.last = now
	d.accepted = true
	return true
}

// LastAccepted returns the time of the last accepted edge, and false if no
// edge has been accepted yet.
func (d *Debouncer) LastAccepted() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.accepted
}

// Window returns the configured debounce window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}
