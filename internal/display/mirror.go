package display

import "github.com/sweeney/access-console/internal/logic"

// Mirror forwards to a Screen and a Matrix and reports what was shown, so
// the status page can show the same content.
type Mirror struct {
	Screen Screen
	Matrix Matrix

	// OnScreen, if set, receives the lines of every screen drawn.
	OnScreen func(lines []string)
	// OnFrame, if set, receives every frame shown.
	OnFrame func(f logic.Frame)
}

func (m *Mirror) ShowMessage(line1, line2, line3 string) {
	if m.Screen != nil {
		m.Screen.ShowMessage(line1, line2, line3)
	}
	if m.OnScreen != nil {
		m.OnScreen(MessageLines(line1, line2, line3))
	}
}

func (m *Mirror) ShowMenu(title string, items []string, selected int) {
	if m.Screen != nil {
		m.Screen.ShowMenu(title, items, selected)
	}
	if m.OnScreen != nil {
		m.OnScreen(MenuLines(title, items, selected))
	}
}

func (m *Mirror) ShowFrame(f logic.Frame) {
	if m.Matrix != nil {
		m.Matrix.ShowFrame(f)
	}
	if m.OnFrame != nil {
		m.OnFrame(f)
	}
}
