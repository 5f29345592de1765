package console

import (
	"sync/atomic"
	"time"

	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

// Queue is a single-slot hand-off from edge handlers to the main loop.
// A press that finds the slot occupied is dropped.
type Queue struct {
	slot    chan logic.Press
	dropped atomic.Int64
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{slot: make(chan logic.Press, 1)}
}

// Offer stores p without blocking. It returns false if the slot was full.
func (q *Queue) Offer(p logic.Press) bool {
	select {
	case q.slot <- p:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Take removes the pending press, if any.
func (q *Queue) Take() (logic.Press, bool) {
	select {
	case p := <-q.slot:
		return p, true
	default:
		return logic.Press{}, false
	}
}

// Dropped returns how many presses were lost to a full slot.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}

// Dispatcher turns raw falling edges into debounced presses. HandleEdge is
// meant to be called from the GPIO event goroutine.
type Dispatcher struct {
	queue      *Queue
	debouncers map[logic.Button]*logic.Debouncer
	log        *logger.Logger
}

// NewDispatcher creates a Dispatcher with one Debouncer per button.
func NewDispatcher(q *Queue, window time.Duration, l *logger.Logger) *Dispatcher {
	if l == nil {
		l = logger.Discard()
	}
	d := &Dispatcher{
		queue:      q,
		debouncers: make(map[logic.Button]*logic.Debouncer, len(logic.Buttons)),
		log:        l,
	}
	for _, b := range logic.Buttons {
		d.debouncers[b] = logic.NewDebouncer(window)
	}
	return d
}

// HandleEdge records a falling edge on b at the given time. It returns true
// if the edge became a queued press.
func (d *Dispatcher) HandleEdge(b logic.Button, at time.Time) bool {
	db, ok := d.debouncers[b]
	if !ok {
		return false
	}
	if !db.ShouldAccept(at) {
		if last, ok := db.LastAccepted(); ok {
			d.log.Debugf("press %s bounced %v after the last one (window %v)", b, at.Sub(last), db.Window())
		}
		return false
	}
	if !d.queue.Offer(logic.Press{Button: b, Time: at}) {
		d.log.Debugf("press %s dropped, previous press not yet handled", b)
		return false
	}
	return true
}
