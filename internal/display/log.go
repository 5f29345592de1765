package display

import (
	"strings"
	"sync"

	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

// LogScreen writes screens to the log. Repeats of the current screen are
// suppressed.
type LogScreen struct {
	mu   sync.Mutex
	log  *logger.Logger
	last string
}

// NewLogScreen creates a LogScreen.
func NewLogScreen(l *logger.Logger) *LogScreen {
	if l == nil {
		l = logger.Discard()
	}
	return &LogScreen{log: l}
}

func (s *LogScreen) ShowMessage(line1, line2, line3 string) {
	s.show(MessageLines(line1, line2, line3))
}

func (s *LogScreen) ShowMenu(title string, items []string, selected int) {
	s.show(MenuLines(title, items, selected))
}

func (s *LogScreen) show(lines []string) {
	var parts []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	text := strings.Join(parts, " | ")

	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.last {
		return
	}
	s.last = text
	s.log.Infof("[%s]", text)
}

// LogMatrix writes frames to the log at debug level.
type LogMatrix struct {
	log *logger.Logger
}

// NewLogMatrix creates a LogMatrix.
func NewLogMatrix(l *logger.Logger) *LogMatrix {
	if l == nil {
		l = logger.Discard()
	}
	return &LogMatrix{log: l}
}

func (m *LogMatrix) ShowFrame(f logic.Frame) {
	if f.Lit() == 0 {
		m.log.Debugf("matrix off")
		return
	}
	m.log.Debugf("matrix %s", strings.Join(FrameRows(f), "/"))
}
