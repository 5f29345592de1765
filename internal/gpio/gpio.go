// Package gpio provides the console's board I/O with hardware abstraction:
// push buttons (edge events and levels), the RGB status LED, two buzzers and
// the analog inputs.
// The real implementation uses the Linux GPIO character device and the IIO
// sysfs ADC. The fake implementation allows testing without hardware.
package gpio

import (
	"time"

	"github.com/sweeney/access-console/internal/logic"
)

// Board is everything the console reads from and drives on the board.
type Board interface {
	// ReadAnalog returns the raw reading of an ADC channel.
	ReadAnalog(ch logic.AnalogChannel) (uint16, error)

	// Pressed returns the logical state of a button (true = held down).
	// Buttons are wired active-low: raw 0 = pressed.
	Pressed(b logic.Button) (bool, error)

	// SetIndicator switches one colour of the status LED.
	SetIndicator(i logic.Indicator, on bool)

	// PlayTone starts a melody without blocking. A tone that arrives while
	// another is playing is dropped.
	PlayTone(t logic.Tone)

	// Close releases GPIO resources.
	Close() error
}

// EdgeFunc receives a falling edge on a button. It is called from the GPIO
// event goroutine and must not block.
type EdgeFunc func(b logic.Button, at time.Time)

// Pins maps board functions to line offsets (BCM numbering).
type Pins struct {
	ButtonA  int
	ButtonB  int
	Joystick int
	Red      int
	Green    int
	Blue     int
	Buzzer1  int
	Buzzer2  int
}

// DefaultPins returns the console HAT wiring.
func DefaultPins() Pins {
	return Pins{
		ButtonA:  5,
		ButtonB:  6,
		Joystick: 13,
		Red:      17,
		Green:    27,
		Blue:     22,
		Buzzer1:  18,
		Buzzer2:  19,
	}
}

// Button returns the pin of b, or -1 if b is unknown.
func (p Pins) Button(b logic.Button) int {
	switch b {
	case logic.ButtonA:
		return p.ButtonA
	case logic.ButtonB:
		return p.ButtonB
	case logic.ButtonJoystick:
		return p.Joystick
	}
	return -1
}

// Indicator returns the pin of i, or -1 if i is unknown.
func (p Pins) Indicator(i logic.Indicator) int {
	switch i {
	case logic.IndicatorRed:
		return p.Red
	case logic.IndicatorGreen:
		return p.Green
	case logic.IndicatorBlue:
		return p.Blue
	}
	return -1
}

// Buzzer returns the pin of buzzer n (1 or 2).
func (p Pins) Buzzer(n int) int {
	if n == 2 {
		return p.Buzzer2
	}
	return p.Buzzer1
}
