// Package logic contains pure business logic for the access console.
// This package has NO external dependencies (no GPIO, serial, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Mode is the single active top-level behavior of the console.
type Mode string

const (
	ModeMenu             Mode = "MENU"
	ModePasscodeEntry    Mode = "PASSCODE_ENTRY"
	ModeKeypadDiagnostic Mode = "KEYPAD_DIAGNOSTIC"
	ModeLockdown         Mode = "LOCKDOWN"
)

// Action identifies a menu entry.
type Action string

const (
	ActionDiagnostics Action = "DIAGNOSTICS"
	ActionUnlock      Action = "UNLOCK"
	ActionLock        Action = "LOCK"
	ActionStatus      Action = "STATUS"
)

// MenuActions is the fixed menu order shown on the display.
var MenuActions = []Action{ActionDiagnostics, ActionUnlock, ActionLock, ActionStatus}

// Button identifies one of the three interrupt-driven push buttons.
type Button string

const (
	ButtonA        Button = "A"
	ButtonB        Button = "B"
	ButtonJoystick Button = "JOYSTICK"
)

// Buttons lists every monitored button.
var Buttons = []Button{ButtonA, ButtonB, ButtonJoystick}

// Press is a debounced button press, produced by the edge handler and
// consumed by the main loop.
type Press struct {
	Button Button
	Time   time.Time
}

// AnalogChannel identifies an ADC input.
type AnalogChannel int

const (
	AnalogAxisY      AnalogChannel = 0
	AnalogAxisX      AnalogChannel = 1
	AnalogMicrophone AnalogChannel = 2
)

// Indicator is one colour of the RGB status LED.
type Indicator string

const (
	IndicatorRed   Indicator = "RED"
	IndicatorGreen Indicator = "GREEN"
	IndicatorBlue  Indicator = "BLUE"
)

// Indicators lists every indicator colour.
var Indicators = []Indicator{IndicatorRed, IndicatorGreen, IndicatorBlue}

// Result is the outcome of one verification stage.
type Result string

const (
	ResultPass Result = "PASS"
	ResultFail Result = "FAIL"
)

// Stage identifies a secondary verification stage.
type Stage string

const (
	StageVoice Stage = "VOICE"
	StageIris  Stage = "IRIS"
)

// StageResult records the outcome of a verification stage.
type StageResult struct {
	Stage  Stage
	Result Result
}

// EventType represents an auditable console event.
type EventType string

const (
	EventAccessGranted   EventType = "ACCESS_GRANTED"
	EventAccessDenied    EventType = "ACCESS_DENIED"
	EventVoicePass       EventType = "VOICE_PASS"
	EventVoiceFail       EventType = "VOICE_FAIL"
	EventIrisPass        EventType = "IRIS_PASS"
	EventIrisFail        EventType = "IRIS_FAIL"
	EventLockdown        EventType = "LOCKDOWN"
	EventUnlocked        EventType = "UNLOCKED"
	EventDiagnosticsDone EventType = "DIAGNOSTICS_DONE"
	EventFaultLatched    EventType = "FAULT_LATCHED"
	EventHalted          EventType = "HALTED"
)

// Event is an auditable console event.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      Mode
	Detail    string
}

// StageEvent maps a stage outcome to its event type.
func StageEvent(r StageResult) EventType {
	switch {
	case r.Stage == StageVoice && r.Result == ResultPass:
		return EventVoicePass
	case r.Stage == StageVoice:
		return EventVoiceFail
	case r.Result == ResultPass:
		return EventIrisPass
	default:
		return EventIrisFail
	}
}

// Counts tracks console activity since startup.
type Counts struct {
	Granted        int
	Denied         int
	Lockdowns      int
	Unlocks        int
	Diagnostics    int
	IgnoredPresses int
}

// ConsoleState is a point-in-time view of the console, published to the
// status tracker by the main loop.
type ConsoleState struct {
	Mode     Mode
	Selected Action
	Index    int
	Halted   bool
	Busy     bool
	Faults   FaultFlags
	Counts   Counts
	Results  []StageResult
	// Step names the running step of a busy console.
	Step string
	// DroppedPresses counts presses lost because the previous one was
	// still pending.
	DroppedPresses int64
}
