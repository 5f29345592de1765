package logic

// Direction is a discretized joystick movement.
type Direction int

const (
	DirectionUp   Direction = -1
	DirectionNone Direction = 0
	DirectionDown Direction = 1
)

// Joystick axis defaults for a 12-bit ADC.
const (
	DefaultAxisCenter     uint16 = 2048
	DefaultAxisDeadZone   uint16 = 512
	DefaultSoundThreshold uint16 = 1900
)

// DirectionFromAxis thresholds a raw axis reading against a dead zone around
// center. Pushing the stick up lowers the reading and moves the selection down
// the list, matching the board's mounting.
func DirectionFromAxis(raw, center, deadZone uint16) Direction {
	switch {
	case int(raw) < int(center)-int(deadZone):
		return DirectionDown
	case int(raw) > int(center)+int(deadZone):
		return DirectionUp
	default:
		return DirectionNone
	}
}

// Menu is a selection index over a fixed ordered list of actions.
type Menu struct {
	items    []Action
	selected int
}

// NewMenu creates a Menu over items with the first item selected.
func NewMenu(items []Action) *Menu {
	cp := make([]Action, len(items))
	copy(cp, items)
	return &Menu{items: cp}
}

// Advance moves the selection one step in dir, wrapping at both ends.
// It returns true if the selection changed.
func (m *Menu) Advance(dir Direction) bool {
	n := len(m.items)
	if n == 0 {
		return false
	}
	switch {
	case dir < 0:
		if m.selected == 0 {
			m.selected = n - 1
		} else {
			m.selected--
		}
	case dir > 0:
		m.selected = (m.selected + 1) % n
	default:
		return false
	}
	return n > 1
}

// Index returns the selected position.
func (m *Menu) Index() int {
	return m.selected
}

// Selected returns the selected action.
func (m *Menu) Selected() Action {
	if len(m.items) == 0 {
		return ""
	}
	return m.items[m.selected]
}

// Items returns a copy of the menu entries.
func (m *Menu) Items() []Action {
	cp := make([]Action, len(m.items))
	copy(cp, m.items)
	return cp
}

// Len returns the number of entries.
func (m *Menu) Len() int {
	return len(m.items)
}
