package logic

import "time"

// Step is one bounded stage of a Sequence.
type Step struct {
	// Name is used for logging and status.
	Name string

	// Enter runs once when the step becomes current.
	Enter func(now time.Time)

	// Hold is how long the step stays current. A zero Hold ends the step on
	// the tick it was entered.
	Hold time.Duration

	// Poll, if set, runs on every tick while the step holds, including the
	// entry tick. Returning true ends the hold early.
	Poll func(now time.Time) bool

	// Exit runs once when the step ends. expired is true when the hold ran
	// out and false when Poll ended it.
	Exit func(now time.Time, expired bool)
}

// Sequence runs steps one after another against deadlines on an injected
// clock. It never sleeps: Advance is called once per tick and returns
// immediately.
type Sequence struct {
	steps    []Step
	cur      int
	entered  bool
	deadline time.Time
}

// NewSequence creates a Sequence over steps.
func NewSequence(steps ...Step) *Sequence {
	return &Sequence{steps: steps}
}

// Insert queues steps to run right after the current one. Calling it from
// Enter, Poll or Exit branches the sequence.
func (s *Sequence) Insert(steps ...Step) {
	at := s.cur + 1
	if at > len(s.steps) {
		at = len(s.steps)
	}
	rest := append([]Step(nil), s.steps[at:]...)
	s.steps = append(append(s.steps[:at], steps...), rest...)
}

// Append queues steps at the end of the sequence.
func (s *Sequence) Append(steps ...Step) {
	s.steps = append(s.steps, steps...)
}

// Advance runs the sequence up to now. Steps whose hold has elapsed are
// exited and the following steps entered in the same call. It returns true
// once every step has finished.
func (s *Sequence) Advance(now time.Time) bool {
	for s.cur < len(s.steps) {
		if !s.entered {
			st := s.steps[s.cur]
			s.entered = true
			s.deadline = now.Add(st.Hold)
			if st.Enter != nil {
				st.Enter(now)
			}
		}

		st := s.steps[s.cur]
		expired := !now.Before(s.deadline)
		if !expired {
			if st.Poll == nil || !st.Poll(now) {
				return false
			}
		}

		if st.Exit != nil {
			st.Exit(now, expired)
		}
		s.cur++
		s.entered = false
	}
	return true
}

// Done reports whether every step has finished.
func (s *Sequence) Done() bool {
	return s.cur >= len(s.steps)
}

// Current returns the name of the running step, or "" when done.
func (s *Sequence) Current() string {
	if s.Done() {
		return ""
	}
	return s.steps[s.cur].Name
}
