package gpio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sweeney/access-console/internal/logic"
)

// DefaultIIORoot is where the kernel exposes IIO devices.
const DefaultIIORoot = "/sys/bus/iio/devices"

// ErrADCNotFound is returned when the channel's sysfs file does not exist.
var ErrADCNotFound = errors.New("adc: sysfs channel not found")

// ADC reads raw samples from an IIO ADC through sysfs. Console channels map
// directly to in_voltage<N>_raw.
type ADC struct {
	Root   string
	Device string
}

// NewADC creates an ADC for device (e.g. "iio:device0") under DefaultIIORoot.
func NewADC(device string) *ADC {
	return &ADC{Root: DefaultIIORoot, Device: device}
}

// Read returns the raw value of ch.
func (a *ADC) Read(ch logic.AnalogChannel) (uint16, error) {
	path := filepath.Join(a.Root, a.Device, fmt.Sprintf("in_voltage%d_raw", int(ch)))
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s", ErrADCNotFound, path)
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("parse adc value from %s: %w", path, err)
	}
	return uint16(v), nil
}
