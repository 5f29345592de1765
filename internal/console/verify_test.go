package console

import (
	"reflect"
	"testing"
	"time"

	"github.com/sweeney/access-console/internal/logic"
)

func newTestVerifier() (*Verifier, *fakeOutputs, *fakeSensors, *[]logic.StageResult) {
	out := newFakeOutputs()
	sensors := newFakeSensors()
	var results []logic.StageResult
	v := &Verifier{
		Out:       out,
		Sensors:   sensors,
		Threshold: logic.DefaultSoundThreshold,
		OnResult: func(_ time.Time, r logic.StageResult) {
			results = append(results, r)
		},
	}
	return v, out, sensors, &results
}

func TestVerifierQuietSkipsVoice(t *testing.T) {
	v, out, _, results := newTestVerifier()
	clk := newFakeClock()
	s := logic.NewSequence()
	s.Append(v.Steps(s)...)

	if !runSequence(s, clk, 30*time.Second) {
		t.Fatal("verification did not finish")
	}

	want := []logic.StageResult{{Stage: logic.StageIris, Result: logic.ResultPass}}
	if !reflect.DeepEqual(*results, want) {
		t.Errorf("got %v, want %v", *results, want)
	}
	if out.sawMessage("VOICE RECOGNIZED") {
		t.Error("voice check should be skipped without sound")
	}
	if !out.sawMessage("IRIS RECOGNIZED") {
		t.Errorf("expected iris pass message, got %v", out.messages)
	}
	if last := out.frames[len(out.frames)-1]; last != (logic.Frame{}) {
		t.Error("matrix should be cleared after iris result")
	}
}

func TestVerifierVoicePass(t *testing.T) {
	v, out, sensors, results := newTestVerifier()
	sensors.analog[logic.AnalogMicrophone] = 3000
	clk := newFakeClock()
	s := logic.NewSequence()
	s.Append(v.Steps(s)...)

	runSequence(s, clk, 30*time.Second)

	want := []logic.StageResult{
		{Stage: logic.StageVoice, Result: logic.ResultPass},
		{Stage: logic.StageIris, Result: logic.ResultPass},
	}
	if !reflect.DeepEqual(*results, want) {
		t.Errorf("got %v, want %v", *results, want)
	}
	if len(out.tones) != 1 || out.tones[0] != logic.ToneSuccess {
		t.Errorf("tones: got %v, want [SUCCESS]", out.tones)
	}
	for _, i := range logic.Indicators {
		if out.indicators[i] {
			t.Errorf("%s indicator left on", i)
		}
	}
}

func TestVerifierVoiceFailDoesNotBlockIris(t *testing.T) {
	v, _, sensors, results := newTestVerifier()
	sensors.analog[logic.AnalogMicrophone] = 3000
	sensors.buttons[logic.ButtonJoystick] = true
	clk := newFakeClock()
	s := logic.NewSequence()
	s.Append(v.Steps(s)...)

	runSequence(s, clk, 30*time.Second)

	want := []logic.StageResult{
		{Stage: logic.StageVoice, Result: logic.ResultFail},
		{Stage: logic.StageIris, Result: logic.ResultPass},
	}
	if !reflect.DeepEqual(*results, want) {
		t.Errorf("got %v, want %v", *results, want)
	}
}

func TestVerifierIrisFailOnButtonB(t *testing.T) {
	v, out, sensors, results := newTestVerifier()
	clk := newFakeClock()
	s := logic.NewSequence()
	s.Append(v.Steps(s)...)

	// Run into the iris window, then press B.
	for s.Current() != "iris-window" {
		s.Advance(clk.Now())
		clk.Advance(50 * time.Millisecond)
	}
	sensors.buttons[logic.ButtonB] = true
	runSequence(s, clk, 30*time.Second)

	want := []logic.StageResult{{Stage: logic.StageIris, Result: logic.ResultFail}}
	if !reflect.DeepEqual(*results, want) {
		t.Errorf("got %v, want %v", *results, want)
	}
	if !out.sawMessage("IRIS NOT RECOGNIZED") {
		t.Errorf("expected iris failure message, got %v", out.messages)
	}
	red := logic.EyeGlyph.Paint(logic.Red)
	found := false
	for _, f := range out.frames {
		if f == red {
			found = true
		}
	}
	if !found {
		t.Error("expected red eye frame")
	}
}

func TestVerifierSoundAtThresholdIsQuiet(t *testing.T) {
	v, _, sensors, results := newTestVerifier()
	sensors.analog[logic.AnalogMicrophone] = logic.DefaultSoundThreshold
	clk := newFakeClock()
	s := logic.NewSequence()
	s.Append(v.Steps(s)...)

	runSequence(s, clk, 30*time.Second)

	if len(*results) != 1 || (*results)[0].Stage != logic.StageIris {
		t.Errorf("got %v, want iris result only", *results)
	}
}
