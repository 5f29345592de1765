package logic

import "time"

// Tone identifies a melody and the buzzer that plays it.
type Tone string

const (
	// ToneSuccess is played on buzzer 1 after a granted check.
	ToneSuccess Tone = "SUCCESS"
	// ToneError is played on buzzer 2 after a denied passcode.
	ToneError Tone = "ERROR"
	// ToneTestError and ToneTestSuccess swap buzzers so the self-test
	// exercises both melodies on both outputs.
	ToneTestError   Tone = "TEST_ERROR"
	ToneTestSuccess Tone = "TEST_SUCCESS"
)

// Note is a single frequency held for a duration.
type Note struct {
	Hz  int
	Dur time.Duration
}

var (
	errorMelody = []Note{
		{262, 300 * time.Millisecond},
		{294, 300 * time.Millisecond},
		{330, 300 * time.Millisecond},
		{349, 300 * time.Millisecond},
	}
	successMelody = []Note{
		{400, 200 * time.Millisecond},
		{500, 200 * time.Millisecond},
		{600, 400 * time.Millisecond},
	}
)

// Melody returns the notes of t.
func Melody(t Tone) []Note {
	switch t {
	case ToneError, ToneTestError:
		return errorMelody
	case ToneSuccess, ToneTestSuccess:
		return successMelody
	}
	return nil
}

// Buzzer returns the buzzer number (1 or 2) that plays t.
func Buzzer(t Tone) int {
	switch t {
	case ToneError, ToneTestSuccess:
		return 2
	}
	return 1
}

// ToneDuration returns the total playing time of t.
func ToneDuration(t Tone) time.Duration {
	var d time.Duration
	for _, n := range Melody(t) {
		d += n.Dur
	}
	return d
}
