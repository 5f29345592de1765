package console

import (
	"time"

	"github.com/sweeney/access-console/internal/logic"
)

var faultMessages = map[logic.Fault][3]string{
	logic.FaultKeypad: {"KEYPAD", "FAULT", ""},
	logic.FaultBuzzer: {"BUZZER", "FAULT", ""},
	logic.FaultScan:   {"IRIS", "READER", "FAULT"},
}

// runReport shows each latched fault in turn. Any latched fault halts the
// console; otherwise the system is reported healthy.
func (c *Controller) runReport(now time.Time) {
	s := logic.NewSequence()
	latched := c.faults.Latched()
	for _, f := range latched {
		msg := faultMessages[f]
		s.Append(logic.Step{
			Name:  "report-" + string(f),
			Enter: func(time.Time) { c.out.ShowMessage(msg[0], msg[1], msg[2]) },
			Hold:  ReportHold,
		})
	}

	if len(latched) > 0 {
		s.Append(logic.Step{Name: "halt", Enter: c.halt})
		c.run(now, s)
		return
	}

	s.Append(
		logic.Step{
			Name: "system-ok",
			Enter: func(time.Time) {
				c.out.ShowMessage("SYSTEM", "", "OK")
				c.out.SetIndicator(logic.IndicatorGreen, true)
			},
			Hold: ReportHold,
			Exit: func(time.Time, bool) { c.out.SetIndicator(logic.IndicatorGreen, false) },
		},
		logic.Step{Name: "menu", Enter: c.returnToMenu},
	)
	c.run(now, s)
}

// halt stops the console for good. Only a restart clears it.
func (c *Controller) halt(now time.Time) {
	c.log.Errorf("system fault: %v, halting", c.faults.Latched())
	c.halted = true
	c.out.ShowMessage("SYSTEM FAULT", "", "RESTART")
	for _, i := range logic.Indicators {
		c.out.SetIndicator(i, false)
	}
	c.haltLit = false
	c.haltNext = now
	c.record(now, logic.EventHalted, "")
}

// blink toggles the red indicator once per HaltBlink.
func (c *Controller) blink(now time.Time) {
	c.discardPresses()
	if now.Before(c.haltNext) {
		return
	}
	c.haltLit = !c.haltLit
	c.out.SetIndicator(logic.IndicatorRed, c.haltLit)
	c.haltNext = now.Add(HaltBlink)
}
