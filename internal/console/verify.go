package console

import (
	"time"

	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

// Verifier builds the secondary checks that follow a correct passcode: a
// voice check gated on the microphone level, then an iris scan. Each stage
// reports its own result; neither blocks the next.
type Verifier struct {
	Out       Feedback
	Sensors   Sensors
	Threshold uint16
	Log       *logger.Logger

	// OnResult, if set, is called as each stage completes.
	OnResult func(now time.Time, r logic.StageResult)
}

// Steps returns the verification stages for s. Branches are inserted into s
// while it runs.
func (v *Verifier) Steps(s *logic.Sequence) []logic.Step {
	return []logic.Step{
		{
			Name:  "voice-prompt",
			Enter: func(time.Time) { v.Out.ShowMessage("VOICE", "RECOGNITION", "") },
			Hold:  VoiceSettle,
		},
		{
			Name: "voice-sample",
			Enter: func(time.Time) {
				level, err := v.Sensors.ReadAnalog(logic.AnalogMicrophone)
				if err != nil {
					v.log().Warnf("voice: read microphone: %v", err)
					return
				}
				if level <= v.Threshold {
					v.log().Infof("voice: no sound (level %d), check skipped", level)
					return
				}
				v.log().Infof("voice: sound detected (level %d)", level)
				s.Insert(v.voiceCheck()...)
			},
		},
		{Name: "voice-gap", Hold: StageGap},
		{
			Name: "iris-preview",
			Enter: func(time.Time) {
				v.Out.ShowMessage("SCANNING", "IRIS", "")
				v.Out.ShowFrame(logic.EyeGlyph.Paint(logic.Blue))
			},
			Hold: IrisPreview,
		},
		{
			Name: "iris-window",
			Hold: IrisWindow,
			Poll: func(time.Time) bool { return pressed(v.Sensors, logic.ButtonB) },
			Exit: func(now time.Time, expired bool) {
				if !expired {
					v.Out.ShowFrame(logic.EyeGlyph.Paint(logic.Red))
					v.Out.ShowMessage("IRIS", "NOT", "RECOGNIZED")
					v.report(now, logic.StageIris, logic.ResultFail)
					return
				}
				v.Out.ShowFrame(logic.EyeGlyph.Paint(logic.Green))
				v.Out.ShowMessage("IRIS", "", "RECOGNIZED")
				v.report(now, logic.StageIris, logic.ResultPass)
			},
		},
		{
			Name: "iris-result",
			Hold: IrisResultHold,
			Exit: func(time.Time, bool) { v.Out.ShowFrame(logic.Frame{}) },
		},
		{Name: "iris-gap", Hold: StageGap},
	}
}

// voiceCheck is inserted only when the microphone heard something. The
// joystick button stands in for an unrecognised voice.
func (v *Verifier) voiceCheck() []logic.Step {
	var lit logic.Indicator
	return []logic.Step{
		{
			Name:  "voice-blink",
			Enter: func(time.Time) { v.Out.SetIndicator(logic.IndicatorRed, true) },
			Hold:  VoiceBlink,
			Exit:  func(time.Time, bool) { v.Out.SetIndicator(logic.IndicatorRed, false) },
		},
		{Name: "voice-listen", Hold: VoiceSettle},
		{
			Name: "voice-verdict",
			Enter: func(now time.Time) {
				if pressed(v.Sensors, logic.ButtonJoystick) {
					lit = logic.IndicatorRed
					v.Out.ShowMessage("VOICE", "NOT", "RECOGNIZED")
					v.report(now, logic.StageVoice, logic.ResultFail)
				} else {
					lit = logic.IndicatorGreen
					v.Out.ShowMessage("VOICE", "RECOGNIZED", "")
					v.Out.PlayTone(logic.ToneSuccess)
					v.report(now, logic.StageVoice, logic.ResultPass)
				}
				v.Out.SetIndicator(lit, true)
			},
			Hold: VoiceVerdict,
			Exit: func(time.Time, bool) { v.Out.SetIndicator(lit, false) },
		},
		{Name: "voice-after", Hold: time.Second},
	}
}

func (v *Verifier) report(now time.Time, stage logic.Stage, result logic.Result) {
	v.log().Infof("%s check: %s", stage, result)
	if v.OnResult != nil {
		v.OnResult(now, logic.StageResult{Stage: stage, Result: result})
	}
}

func (v *Verifier) log() *logger.Logger {
	if v.Log == nil {
		return logger.Discard()
	}
	return v.Log
}
