package gpio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sweeney/access-console/internal/logic"
)

func writeChannel(t *testing.T, root string, ch int, content string) {
	t.Helper()
	dir := filepath.Join(root, "iio:device0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	name := filepath.Join(dir, fmt.Sprintf("in_voltage%d_raw", ch))
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestADCRead(t *testing.T) {
	root := t.TempDir()
	writeChannel(t, root, 2, "1234\n")

	a := &ADC{Root: root, Device: "iio:device0"}
	got, err := a.Read(logic.AnalogMicrophone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1234 {
		t.Errorf("expected 1234, got %d", got)
	}
}

func TestADCMissingChannel(t *testing.T) {
	a := &ADC{Root: t.TempDir(), Device: "iio:device0"}
	_, err := a.Read(logic.AnalogAxisX)
	if !errors.Is(err, ErrADCNotFound) {
		t.Errorf("expected ErrADCNotFound, got %v", err)
	}
}

func TestADCBadValue(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "abc"},
		{"negative", "-5"},
		{"too large", "70000"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeChannel(t, root, 0, tt.content)
			a := &ADC{Root: root, Device: "iio:device0"}
			if _, err := a.Read(logic.AnalogAxisY); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestNewADCUsesSysfsRoot(t *testing.T) {
	a := NewADC("iio:device1")
	if a.Root != DefaultIIORoot || a.Device != "iio:device1" {
		t.Errorf("got %+v", a)
	}
}
