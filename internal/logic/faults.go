package logic

// Fault identifies a subsystem that can fail its diagnostic.
type Fault string

const (
	FaultKeypad Fault = "KEYPAD"
	FaultBuzzer Fault = "BUZZER"
	FaultScan   Fault = "SCAN"
)

// FaultFlags holds latched diagnostic failures. Flags are set once and
// never cleared for the lifetime of the process.
type FaultFlags struct {
	Keypad bool
	Buzzer bool
	Scan   bool
}

// Latch sets the flag for f. It returns true if the flag was not already set.
func (f *FaultFlags) Latch(fault Fault) bool {
	var flag *bool
	switch fault {
	case FaultKeypad:
		flag = &f.Keypad
	case FaultBuzzer:
		flag = &f.Buzzer
	case FaultScan:
		flag = &f.Scan
	default:
		return false
	}
	if *flag {
		return false
	}
	*flag = true
	return true
}

// Any reports whether any fault is latched.
func (f FaultFlags) Any() bool {
	return f.Keypad || f.Buzzer || f.Scan
}

// Latched lists the latched faults in report order.
func (f FaultFlags) Latched() []Fault {
	var out []Fault
	if f.Keypad {
		out = append(out, FaultKeypad)
	}
	if f.Buzzer {
		out = append(out, FaultBuzzer)
	}
	if f.Scan {
		out = append(out, FaultScan)
	}
	return out
}
