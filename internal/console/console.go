// Package console implements the access console's arbitration and sequencing
// engine: the debounced button dispatch, the single active mode state machine,
// the post-passcode verification sequence and the self-diagnostics.
//
// All console state is owned by the goroutine that calls Controller.Tick.
// Edge handlers only touch their Debouncer and the single-slot Queue.
package console

import (
	"time"

	"github.com/sweeney/access-console/internal/logic"
)

// Display renders text on the character display.
type Display interface {
	ShowMessage(line1, line2, line3 string)
	ShowMenu(title string, items []string, selected int)
}

// Matrix renders a frame on the LED matrix.
type Matrix interface {
	ShowFrame(f logic.Frame)
}

// Indicators drives the RGB status LED and the buzzers.
type Indicators interface {
	SetIndicator(i logic.Indicator, on bool)
	PlayTone(t logic.Tone)
}

// Feedback is everything the console uses to talk to the user.
type Feedback interface {
	Display
	Matrix
	Indicators
}

// Outputs assembles a Feedback from separate devices.
type Outputs struct {
	Display
	Matrix
	Indicators
}

// Sensors reads the analog inputs and the button levels.
type Sensors interface {
	ReadAnalog(ch logic.AnalogChannel) (uint16, error)
	// Pressed returns the logical state of a button (true = held down).
	Pressed(b logic.Button) (bool, error)
}

// Channel is a character stream a passcode can be typed on.
type Channel interface {
	// Poll returns the next received byte without blocking.
	Poll() (byte, bool)
	// Echo writes b back to the sender.
	Echo(b byte) error
}

// Recorder receives auditable console events.
type Recorder interface {
	Record(e logic.Event)
}

// RecorderFunc adapts a function to a Recorder.
type RecorderFunc func(e logic.Event)

// Record calls f(e).
func (f RecorderFunc) Record(e logic.Event) { f(e) }

// Config holds the console's tunables.
type Config struct {
	Title          string
	PassCode       string
	UnlockCode     string
	SoundThreshold uint16
	AxisCenter     uint16
	AxisDeadZone   uint16
	// NavInterval is the minimum time between menu moves while the stick is held.
	NavInterval time.Duration
}

// DefaultConfig returns the factory settings.
func DefaultConfig() Config {
	return Config{
		Title:          "ACCESS CONSOLE",
		PassCode:       "1234",
		UnlockCode:     "0000",
		SoundThreshold: logic.DefaultSoundThreshold,
		AxisCenter:     logic.DefaultAxisCenter,
		AxisDeadZone:   logic.DefaultAxisDeadZone,
		NavInterval:    150 * time.Millisecond,
	}
}

// Fixed feedback timings.
const (
	EnteredHold    = 200 * time.Millisecond
	GrantedHold    = time.Second
	DeniedHold     = 2 * time.Second
	UnlockedHold   = time.Second
	StageGap       = 2 * time.Second
	VoiceSettle    = time.Second
	VoiceBlink     = 500 * time.Millisecond
	VoiceVerdict   = time.Second
	IrisPreview    = 3 * time.Second
	IrisWindow     = 3 * time.Second
	IrisResultHold = 2 * time.Second

	KeypadSettle    = 2 * time.Second
	KeypadWindow    = 3 * time.Second
	BuzzerPause     = time.Second
	BuzzerFaultHold = 2 * time.Second
	MicSettle       = 3 * time.Second
	MicSamples      = 5
	MicInterval     = 500 * time.Millisecond
	MicDoneHold     = time.Second
	SweepWindow     = 3 * time.Second
	SweepInterval   = 250 * time.Millisecond
	SweepResultHold = 500 * time.Millisecond

	ReportHold = time.Second
	HaltBlink  = time.Second
)

var actionLabels = map[logic.Action]string{
	logic.ActionDiagnostics: "DIAGNOSTICS",
	logic.ActionUnlock:      "UNLOCK",
	logic.ActionLock:        "LOCK",
	logic.ActionStatus:      "STATUS",
}

// Label returns the display text for a menu action.
func Label(a logic.Action) string {
	if s, ok := actionLabels[a]; ok {
		return s
	}
	return string(a)
}

func pressed(s Sensors, b logic.Button) bool {
	on, err := s.Pressed(b)
	return err == nil && on
}
