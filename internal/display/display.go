// Package display renders the console's text screens and LED matrix frames.
// The OLED implementation drives an SSD1306 over I2C via periph.io; the log
// implementations stand in when no panel is attached.
package display

import (
	"strings"

	"github.com/sweeney/access-console/internal/logic"
)

// Screen renders text on the character display.
type Screen interface {
	ShowMessage(line1, line2, line3 string)
	ShowMenu(title string, items []string, selected int)
}

// Matrix renders a frame on the LED matrix.
type Matrix interface {
	ShowFrame(f logic.Frame)
}

// MenuRows is the number of menu items visible below the title.
const MenuRows = 4

// Marker prefixes the selected menu item.
const Marker = ">"

// MessageLines returns the lines of a message screen.
func MessageLines(line1, line2, line3 string) []string {
	return []string{line1, line2, line3}
}

// MenuLines returns the title followed by at most MenuRows items, scrolled so
// the selected one is visible and marked.
func MenuLines(title string, items []string, selected int) []string {
	first := 0
	if selected >= MenuRows {
		first = selected - MenuRows + 1
	}
	lines := []string{title}
	for i := first; i < len(items) && i < first+MenuRows; i++ {
		prefix := "  "
		if i == selected {
			prefix = Marker + " "
		}
		lines = append(lines, prefix+items[i])
	}
	return lines
}

// FrameRows renders f as MatrixSize rows of colour initials, '.' for off.
func FrameRows(f logic.Frame) []string {
	rows := make([]string, 0, logic.MatrixSize)
	var sb strings.Builder
	for y := 0; y < logic.MatrixSize; y++ {
		sb.Reset()
		for x := 0; x < logic.MatrixSize; x++ {
			sb.WriteByte(pixelRune(f[y*logic.MatrixSize+x]))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func pixelRune(c logic.RGB) byte {
	switch c {
	case logic.Black:
		return '.'
	case logic.Red:
		return 'R'
	case logic.Green:
		return 'G'
	case logic.Blue:
		return 'B'
	}
	return '#'
}
