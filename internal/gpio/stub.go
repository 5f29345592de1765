//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported")

// RealBoard is not available on non-Linux platforms.
type RealBoard struct{}

// NewRealBoard returns an error on non-Linux platforms.
func NewRealBoard(chipName string, pins Pins, adc *ADC, onEdge EdgeFunc, l *logger.Logger) (*RealBoard, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// ReadAnalog is not implemented on non-Linux platforms.
func (b *RealBoard) ReadAnalog(ch logic.AnalogChannel) (uint16, error) {
	return 0, errUnsupported
}

// Pressed is not implemented on non-Linux platforms.
func (b *RealBoard) Pressed(btn logic.Button) (bool, error) {
	return false, errUnsupported
}

// SetIndicator is a no-op on non-Linux platforms.
func (b *RealBoard) SetIndicator(i logic.Indicator, on bool) {}

// PlayTone is a no-op on non-Linux platforms.
func (b *RealBoard) PlayTone(t logic.Tone) {}

// Close is not implemented on non-Linux platforms.
func (b *RealBoard) Close() error {
	return nil
}
