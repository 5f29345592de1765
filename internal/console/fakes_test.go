package console

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sweeney/access-console/internal/logic"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

// fakeOutputs records everything shown to the user.
type fakeOutputs struct {
	messages   []string
	menus      []int
	frames     []logic.Frame
	tones      []logic.Tone
	indicators map[logic.Indicator]bool
	toggles    []string
}

func newFakeOutputs() *fakeOutputs {
	return &fakeOutputs{indicators: make(map[logic.Indicator]bool)}
}

func (f *fakeOutputs) ShowMessage(l1, l2, l3 string) {
	var parts []string
	for _, l := range []string{l1, l2, l3} {
		if l != "" {
			parts = append(parts, l)
		}
	}
	f.messages = append(f.messages, strings.Join(parts, " "))
}

func (f *fakeOutputs) ShowMenu(_ string, _ []string, selected int) {
	f.menus = append(f.menus, selected)
}

func (f *fakeOutputs) ShowFrame(fr logic.Frame) {
	f.frames = append(f.frames, fr)
}

func (f *fakeOutputs) SetIndicator(i logic.Indicator, on bool) {
	f.indicators[i] = on
	f.toggles = append(f.toggles, fmt.Sprintf("%s=%v", i, on))
}

func (f *fakeOutputs) PlayTone(t logic.Tone) {
	f.tones = append(f.tones, t)
}

func (f *fakeOutputs) sawMessage(msg string) bool {
	for _, m := range f.messages {
		if m == msg {
			return true
		}
	}
	return false
}

func (f *fakeOutputs) lastMessage() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

// fakeSensors returns fixed analog levels and button states.
type fakeSensors struct {
	analog  map[logic.AnalogChannel]uint16
	buttons map[logic.Button]bool
	err     error
}

func newFakeSensors() *fakeSensors {
	return &fakeSensors{
		analog: map[logic.AnalogChannel]uint16{
			logic.AnalogAxisY:      logic.DefaultAxisCenter,
			logic.AnalogAxisX:      logic.DefaultAxisCenter,
			logic.AnalogMicrophone: 0,
		},
		buttons: make(map[logic.Button]bool),
	}
}

func (s *fakeSensors) ReadAnalog(ch logic.AnalogChannel) (uint16, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.analog[ch], nil
}

func (s *fakeSensors) Pressed(b logic.Button) (bool, error) {
	return s.buttons[b], nil
}

// fakeChannel delivers queued bytes one per Poll and records echoes.
type fakeChannel struct {
	mu     sync.Mutex
	in     []byte
	echoed []byte
}

func (c *fakeChannel) Type(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in = append(c.in, s...)
}

func (c *fakeChannel) Poll() (byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.in) == 0 {
		return 0, false
	}
	b := c.in[0]
	c.in = c.in[1:]
	return b, true
}

func (c *fakeChannel) Echo(b byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.echoed = append(c.echoed, b)
	return nil
}

func (c *fakeChannel) Echoed() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.echoed)
}

type eventLog struct {
	events []logic.Event
}

func (l *eventLog) Record(e logic.Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) types() []logic.EventType {
	out := make([]logic.EventType, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}

func (l *eventLog) has(t logic.EventType) bool {
	for _, e := range l.events {
		if e.Type == t {
			return true
		}
	}
	return false
}

// runSequence advances s on a 50ms tick until it finishes or limit elapses.
func runSequence(s *logic.Sequence, clk *fakeClock, limit time.Duration) bool {
	end := clk.Now().Add(limit)
	for !s.Advance(clk.Now()) {
		if !clk.Now().Before(end) {
			return false
		}
		clk.Advance(50 * time.Millisecond)
	}
	return true
}
