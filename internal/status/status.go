// Package status provides a thread-safe status tracker for the access console.
// The main loop is the only writer; HTTP handlers read snapshots.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/access-console/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	Serial      string
	Display     string
}

// Snapshot is a point-in-time view of console state.
// It is a value type: safe to use after the lock is released.
type Snapshot struct {
	Console       logic.ConsoleState
	Screen        []string
	Frame         logic.Frame
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable console state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Console:   logic.ConsoleState{Mode: logic.ModeMenu},
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update stores the console state.
// Called from runLoop on every tick.
func (t *Tracker) Update(st logic.ConsoleState) {
	t.mu.Lock()
	t.snap.Console = st
	t.mu.Unlock()
}

// SetScreen stores the lines currently on the display.
func (t *Tracker) SetScreen(lines []string) {
	cp := make([]string, len(lines))
	copy(cp, lines)
	t.mu.Lock()
	t.snap.Screen = cp
	t.mu.Unlock()
}

// SetFrame stores the frame currently on the LED matrix.
func (t *Tracker) SetFrame(f logic.Frame) {
	t.mu.Lock()
	t.snap.Frame = f
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the console state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Screen = append([]string(nil), t.snap.Screen...)
	s.Console.Results = append([]logic.StageResult(nil), t.snap.Console.Results...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
