package display

import (
	"sync"

	"github.com/sweeney/access-console/internal/logic"
)

// FakeDisplay is a test double that records screens and frames.
type FakeDisplay struct {
	mu      sync.Mutex
	Screens [][]string
	Frames  []logic.Frame
}

func (f *FakeDisplay) ShowMessage(line1, line2, line3 string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Screens = append(f.Screens, MessageLines(line1, line2, line3))
}

func (f *FakeDisplay) ShowMenu(title string, items []string, selected int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Screens = append(f.Screens, MenuLines(title, items, selected))
}

func (f *FakeDisplay) ShowFrame(fr logic.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Frames = append(f.Frames, fr)
}

// Last returns the most recent screen, or nil.
func (f *FakeDisplay) Last() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Screens) == 0 {
		return nil
	}
	return f.Screens[len(f.Screens)-1]
}
