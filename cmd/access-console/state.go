package main

import (
	"fmt"
	"io"

	"github.com/sweeney/access-console/internal/console"
	"github.com/sweeney/access-console/internal/logic"
)

var analogNames = []struct {
	ch   logic.AnalogChannel
	name string
}{
	{logic.AnalogAxisX, "X"},
	{logic.AnalogAxisY, "Y"},
	{logic.AnalogMicrophone, "MIC"},
}

// printState writes one line with the current analog readings and button
// levels.
func printState(w io.Writer, s console.Sensors) error {
	for _, a := range analogNames {
		v, err := s.ReadAnalog(a.ch)
		if err != nil {
			return fmt.Errorf("read %s: %w", a.name, err)
		}
		fmt.Fprintf(w, "%s: %d, ", a.name, v)
	}
	for i, b := range logic.Buttons {
		down, err := s.Pressed(b)
		if err != nil {
			return fmt.Errorf("read button %s: %w", b, err)
		}
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "%s: %s", b, levelString(down))
	}
	fmt.Fprintln(w)
	return nil
}

func levelString(down bool) string {
	if down {
		return "DOWN"
	}
	return "UP"
}
