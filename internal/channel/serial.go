package channel

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"github.com/sweeney/access-console/internal/logger"
)

// SerialConfig holds serial port configuration.
type SerialConfig struct {
	// Device path (e.g., "/dev/ttyS0", "/dev/ttyUSB0")
	Device string

	// Baud rate
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultSerialConfig returns the console UART settings.
func DefaultSerialConfig(device string) SerialConfig {
	return SerialConfig{
		Device:      device,
		Baud:        9600,
		ReadTimeout: 100,
	}
}

// OpenSerial opens the UART and returns it as a polled Stream.
func OpenSerial(cfg SerialConfig, l *logger.Logger) (*Stream, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("open serial: no device")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}

	return newStream("serial "+cfg.Device, port, port, cfg.ReadTimeout > 0, l), nil
}
