package gpio

import (
	"errors"
	"sync"
	"time"

	"github.com/sweeney/access-console/internal/logic"
)

// FakeBoard is a test double with scripted inputs that records outputs.
type FakeBoard struct {
	mu sync.Mutex

	// Analog contains scripted samples per channel. Each call to ReadAnalog
	// consumes the next sample; the last one repeats.
	Analog map[logic.AnalogChannel][]uint16
	index  map[logic.AnalogChannel]int

	// Buttons holds the logical level of each button.
	Buttons map[logic.Button]bool

	// ReadError, if set, will be returned by ReadAnalog and Pressed.
	ReadError error

	// Indicators holds the last state set for each colour.
	Indicators map[logic.Indicator]bool

	// Tones records every tone played, in order.
	Tones []logic.Tone

	// Closed tracks if Close was called
	Closed bool

	onEdge EdgeFunc
}

// NewFakeBoard creates a FakeBoard. onEdge may be nil.
func NewFakeBoard(onEdge EdgeFunc) *FakeBoard {
	return &FakeBoard{
		Analog:     make(map[logic.AnalogChannel][]uint16),
		index:      make(map[logic.AnalogChannel]int),
		Buttons:    make(map[logic.Button]bool),
		Indicators: make(map[logic.Indicator]bool),
		onEdge:     onEdge,
	}
}

// SetAnalog replaces the scripted samples of ch.
func (f *FakeBoard) SetAnalog(ch logic.AnalogChannel, samples ...uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Analog[ch] = samples
	f.index[ch] = 0
}

// ReadAnalog returns the next scripted sample of ch.
func (f *FakeBoard) ReadAnalog(ch logic.AnalogChannel) (uint16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	samples := f.Analog[ch]
	if len(samples) == 0 {
		return 0, errors.New("no samples configured")
	}
	i := f.index[ch]
	if i < len(samples)-1 {
		f.index[ch] = i + 1
	}
	return samples[i], nil
}

// SetPressed sets the level of b without generating an edge.
func (f *FakeBoard) SetPressed(b logic.Button, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Buttons[b] = down
}

// Pressed returns the scripted level of b.
func (f *FakeBoard) Pressed(b logic.Button) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadError != nil {
		return false, f.ReadError
	}
	return f.Buttons[b], nil
}

// Edge simulates a falling edge on b.
func (f *FakeBoard) Edge(b logic.Button, at time.Time) {
	if f.onEdge != nil {
		f.onEdge(b, at)
	}
}

// SetIndicator records the state of i.
func (f *FakeBoard) SetIndicator(i logic.Indicator, on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Indicators[i] = on
}

// Indicator returns the last state set for i.
func (f *FakeBoard) Indicator(i logic.Indicator) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Indicators[i]
}

// PlayTone records t.
func (f *FakeBoard) PlayTone(t logic.Tone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tones = append(f.Tones, t)
}

// PlayedTones returns a copy of the recorded tones.
func (f *FakeBoard) PlayedTones() []logic.Tone {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]logic.Tone, len(f.Tones))
	copy(out, f.Tones)
	return out
}

// Close marks the board as closed.
func (f *FakeBoard) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}
