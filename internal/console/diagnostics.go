package console

import (
	"fmt"
	"time"

	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

// Diagnostics builds the self-test run: keypad echo, buzzers, microphone and
// the scanner colour sweep, in that order. Holding the joystick button during
// a check simulates a failure of that subsystem and latches its fault.
type Diagnostics struct {
	Out       Feedback
	Sensors   Sensors
	Reader    *Reader
	Faults    *logic.FaultFlags
	Threshold uint16
	Log       *logger.Logger

	// OnFault, if set, is called when a fault is newly latched.
	OnFault func(now time.Time, f logic.Fault)
}

// Steps returns every check for s. Branches are inserted into s while it runs.
func (d *Diagnostics) Steps(s *logic.Sequence) []logic.Step {
	var steps []logic.Step
	steps = append(steps, d.keypadSteps(s)...)
	steps = append(steps, d.buzzerSteps(s)...)
	steps = append(steps, d.microphoneSteps()...)
	steps = append(steps, d.sweepSteps(s)...)
	return steps
}

func (d *Diagnostics) keypadSteps(s *logic.Sequence) []logic.Step {
	window := logic.Step{
		Name:  "keypad-window",
		Enter: func(time.Time) { d.Out.ShowMessage("TYPE", "ANY", "KEY") },
		Hold:  KeypadWindow,
		Poll: func(now time.Time) bool {
			for _, k := range d.Reader.Next() {
				d.Reader.Echo(k, k.Digit)
				d.Out.ShowMessage("KEY", string(k.Digit), "")
				d.log().Infof("keypad: %c on channel %s", k.Digit, k.Source)
			}
			d.checkFault(now, logic.FaultKeypad)
			return false
		},
	}

	return []logic.Step{{
		Name: "keypad-prompt",
		Enter: func(time.Time) {
			d.Out.SetIndicator(logic.IndicatorBlue, true)
			d.Out.ShowMessage("TESTING", "KEYPAD", "")
			d.log().Infof("keypad test started")
		},
		Hold: KeypadSettle,
		Poll: func(now time.Time) bool {
			d.checkFault(now, logic.FaultKeypad)
			return pressed(d.Sensors, logic.ButtonB)
		},
		Exit: func(_ time.Time, expired bool) {
			if !expired {
				d.log().Infof("keypad test ended by button B")
				d.Out.ShowMessage("TEST", "ENDED", "")
				s.Insert(logic.Step{Name: "keypad-ended", Hold: time.Second})
				return
			}
			s.Insert(window)
		},
	}}
}

func (d *Diagnostics) buzzerSteps(s *logic.Sequence) []logic.Step {
	failed := false
	poll := func(now time.Time) bool {
		if d.checkFault(now, logic.FaultBuzzer) {
			failed = true
		}
		return false
	}

	return []logic.Step{
		{
			Name: "buzzer-error-melody",
			Enter: func(time.Time) {
				failed = false
				d.Out.SetIndicator(logic.IndicatorRed, true)
				d.Out.ShowMessage("TESTING", "BUZZERS", "")
				d.Out.PlayTone(logic.ToneTestError)
			},
			Hold: logic.ToneDuration(logic.ToneTestError) + BuzzerPause,
			Poll: poll,
		},
		{
			Name:  "buzzer-success-melody",
			Enter: func(time.Time) { d.Out.PlayTone(logic.ToneTestSuccess) },
			Hold:  logic.ToneDuration(logic.ToneTestSuccess) + BuzzerPause,
			Poll:  poll,
			Exit: func(time.Time, bool) {
				if failed {
					d.Out.ShowMessage("BUZZER", "", "ERROR")
					s.Insert(logic.Step{Name: "buzzer-fault", Hold: BuzzerFaultHold})
				}
			},
		},
	}
}

func (d *Diagnostics) microphoneSteps() []logic.Step {
	steps := []logic.Step{{
		Name: "mic-prompt",
		Enter: func(time.Time) {
			d.Out.SetIndicator(logic.IndicatorGreen, true)
			d.Out.ShowMessage("TESTING", "MICROPHONE", "")
		},
		Hold: MicSettle,
	}}

	for i := 0; i < MicSamples; i++ {
		n := i + 1
		steps = append(steps, logic.Step{
			Name: fmt.Sprintf("mic-sample-%d", n),
			Enter: func(time.Time) {
				level, err := d.Sensors.ReadAnalog(logic.AnalogMicrophone)
				if err != nil {
					d.log().Warnf("microphone sample %d: %v", n, err)
					d.Out.ShowMessage("MIC", "READ", "ERROR")
					return
				}
				d.log().Infof("microphone sample %d: %d", n, level)
				if level > d.Threshold {
					d.Out.ShowMessage("SOUND", "DETECTED", "")
				} else {
					d.Out.ShowMessage("SOUND", "NOT", "DETECTED")
				}
			},
			Hold: MicInterval,
		})
	}

	return append(steps, logic.Step{
		Name:  "mic-done",
		Enter: func(time.Time) { d.Out.ShowMessage("MIC TEST", "", "DONE") },
		Hold:  MicDoneHold,
		Exit: func(time.Time, bool) {
			for _, i := range logic.Indicators {
				d.Out.SetIndicator(i, false)
			}
		},
	})
}

func (d *Diagnostics) sweepSteps(s *logic.Sequence) []logic.Step {
	palette := logic.SweepPalette()
	var (
		idx     int
		changed time.Time
		faulted bool
	)

	return []logic.Step{{
		Name: "scan-sweep",
		Enter: func(now time.Time) {
			idx, changed, faulted = 0, now, false
			d.Out.ShowMessage("TESTING", "IRIS", "READER")
			d.Out.ShowFrame(logic.Fill(palette[0]))
		},
		Hold: SweepWindow,
		Poll: func(now time.Time) bool {
			if d.checkFault(now, logic.FaultScan) {
				faulted = true
				return true
			}
			if now.Sub(changed) >= SweepInterval {
				idx++
				if idx >= len(palette) {
					return true
				}
				d.Out.ShowFrame(logic.Fill(palette[idx]))
				changed = now
			}
			return false
		},
		Exit: func(time.Time, bool) {
			d.Out.ShowFrame(logic.Frame{})
			if faulted {
				d.Out.ShowMessage("SCAN", "FAULT", "DETECTED")
				s.Insert(logic.Step{Name: "scan-fault", Hold: time.Second})
				return
			}
			d.Out.ShowMessage("READER", "", "OK")
			s.Insert(logic.Step{Name: "scan-ok", Hold: SweepResultHold})
		},
	}}
}

// checkFault latches f if the failure input is held. It returns true if the
// input was held, whether or not f was already latched.
func (d *Diagnostics) checkFault(now time.Time, f logic.Fault) bool {
	if !pressed(d.Sensors, logic.ButtonJoystick) {
		return false
	}
	if d.Faults.Latch(f) {
		d.log().Warnf("%s fault latched", f)
		if d.OnFault != nil {
			d.OnFault(now, f)
		}
	}
	return true
}

func (d *Diagnostics) log() *logger.Logger {
	if d.Log == nil {
		return logger.Discard()
	}
	return d.Log
}
