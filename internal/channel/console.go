package channel

import (
	"os"

	"github.com/sweeney/access-console/internal/logger"
)

// OpenConsole returns the process's stdin and stdout as a polled Stream.
// With a terminal in canonical mode, digits arrive once Enter is pressed.
func OpenConsole(l *logger.Logger) *Stream {
	return NewStream("console", os.Stdin, os.Stdout, l)
}
