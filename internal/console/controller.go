package console

import (
	"time"

	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

// Controller is the console's single active mode state machine. Exactly one
// mode is active at a time and Tick runs exactly one step per call. Long
// actions run as a logic.Sequence; button presses that arrive while one is
// in progress are discarded.
type Controller struct {
	cfg     Config
	out     Feedback
	sensors Sensors
	reader  *Reader
	queue   *Queue
	rec     Recorder
	log     *logger.Logger

	verifier    *Verifier
	diagnostics *Diagnostics

	mode    logic.Mode
	menu    *logic.Menu
	code    logic.CodeBuffer
	faults  logic.FaultFlags
	counts  logic.Counts
	results []logic.StageResult

	task    *logic.Sequence
	lastNav time.Time

	halted   bool
	haltLit  bool
	haltNext time.Time
}

// NewController creates a Controller in Menu mode.
func NewController(cfg Config, out Feedback, sensors Sensors, reader *Reader, queue *Queue, l *logger.Logger) *Controller {
	if l == nil {
		l = logger.Discard()
	}
	c := &Controller{
		cfg:     cfg,
		out:     out,
		sensors: sensors,
		reader:  reader,
		queue:   queue,
		log:     l,
		mode:    logic.ModeMenu,
		menu:    logic.NewMenu(logic.MenuActions),
	}
	c.verifier = &Verifier{
		Out:       out,
		Sensors:   sensors,
		Threshold: cfg.SoundThreshold,
		Log:       l,
		OnResult:  c.onStageResult,
	}
	c.diagnostics = &Diagnostics{
		Out:       out,
		Sensors:   sensors,
		Reader:    reader,
		Faults:    &c.faults,
		Threshold: cfg.SoundThreshold,
		Log:       l,
		OnFault: func(now time.Time, f logic.Fault) {
			c.record(now, logic.EventFaultLatched, string(f))
		},
	}
	return c
}

// SetRecorder sets the sink for audit events.
func (c *Controller) SetRecorder(r Recorder) {
	c.rec = r
}

// Start draws the menu.
func (c *Controller) Start() {
	c.drawMenu()
}

// Tick advances the console by one cycle.
func (c *Controller) Tick(now time.Time) {
	if c.halted {
		c.blink(now)
		return
	}

	if c.task != nil {
		c.discardPresses()
		if c.task.Advance(now) {
			c.task = nil
		}
		return
	}

	switch c.mode {
	case logic.ModeMenu:
		c.stepMenu(now)
	case logic.ModePasscodeEntry:
		c.stepPasscode(now)
	case logic.ModeLockdown:
		c.stepLockdown(now)
	case logic.ModeKeypadDiagnostic:
		// Diagnostics always run as a task; an idle diagnostic mode has
		// nothing left to do.
		c.returnToMenu(now)
	}
}

// Mode returns the active mode.
func (c *Controller) Mode() logic.Mode {
	return c.mode
}

// Faults returns the latched fault flags.
func (c *Controller) Faults() logic.FaultFlags {
	return c.faults
}

// Halted reports whether a fault report stopped the console.
func (c *Controller) Halted() bool {
	return c.halted
}

// Busy reports whether an action is in progress.
func (c *Controller) Busy() bool {
	return c.task != nil
}

// State returns a snapshot for status consumers.
func (c *Controller) State() logic.ConsoleState {
	results := make([]logic.StageResult, len(c.results))
	copy(results, c.results)
	var step string
	if c.task != nil {
		step = c.task.Current()
	}
	return logic.ConsoleState{
		Mode:     c.mode,
		Selected: c.menu.Selected(),
		Index:    c.menu.Index(),
		Halted:   c.halted,
		Busy:     c.task != nil,
		Faults:   c.faults,
		Counts:   c.counts,
		Results:  results,
		Step:     step,

		DroppedPresses: c.queue.Dropped(),
	}
}

func (c *Controller) stepMenu(now time.Time) {
	if p, ok := c.queue.Take(); ok {
		c.log.Debugf("press %s", p.Button)
		if p.Button == logic.ButtonA {
			c.execute(now, c.menu.Selected())
			return
		}
	}

	if c.navigate(now) {
		c.drawMenu()
	}
}

// navigate moves the menu selection from the joystick Y axis, at most once
// per NavInterval. It reports whether the selection changed.
func (c *Controller) navigate(now time.Time) bool {
	if now.Sub(c.lastNav) < c.cfg.NavInterval {
		return false
	}
	raw, err := c.sensors.ReadAnalog(logic.AnalogAxisY)
	if err != nil {
		c.log.Warnf("read joystick: %v", err)
		return false
	}
	if !c.menu.Advance(logic.DirectionFromAxis(raw, c.cfg.AxisCenter, c.cfg.AxisDeadZone)) {
		return false
	}
	c.lastNav = now
	return true
}

func (c *Controller) execute(now time.Time, a logic.Action) {
	c.log.Infof("action %s", a)
	switch a {
	case logic.ActionUnlock:
		c.enterPasscode()
	case logic.ActionLock:
		c.enterLockdown(now)
	case logic.ActionDiagnostics:
		c.runDiagnostics(now)
	case logic.ActionStatus:
		c.runReport(now)
	}
}

func (c *Controller) enterPasscode() {
	c.setMode(logic.ModePasscodeEntry)
	c.code.Reset()
	c.drain()
	c.showEntry()
}

// showEntry prompts for the code. The last line names what button A does
// when another menu action is highlighted.
func (c *Controller) showEntry() {
	hint := ""
	if a := c.menu.Selected(); a != logic.ActionUnlock {
		hint = "A: " + Label(a)
	}
	c.out.ShowMessage("ENTER", "CODE", hint)
}

// stepPasscode collects digits while the menu stays live. Button A runs the
// highlighted action; with Unlock still highlighted it abandons the entry.
func (c *Controller) stepPasscode(now time.Time) {
	for {
		p, ok := c.queue.Take()
		if !ok {
			break
		}
		if p.Button != logic.ButtonA {
			c.ignore(p)
			continue
		}
		c.code.Reset()
		a := c.menu.Selected()
		if a == logic.ActionUnlock {
			c.log.Infof("passcode entry cancelled")
			c.returnToMenu(now)
			return
		}
		c.setMode(logic.ModeMenu)
		c.execute(now, a)
		return
	}

	if c.navigate(now) {
		c.showEntry()
	}
	if c.reader.Fill(&c.code) > 0 {
		c.log.Debugf("passcode: %d of %d digits", c.code.Len(), logic.CodeLength)
	}
	if c.code.Full() {
		c.evaluate(now)
	}
}

// evaluate compares the complete passcode and runs the matching feedback.
// On success the verification stages follow; access stands whatever they
// report.
func (c *Controller) evaluate(now time.Time) {
	match := c.code.Matches(c.cfg.PassCode)
	c.code.Reset()
	c.results = nil

	s := logic.NewSequence(logic.Step{
		Name:  "code-entered",
		Enter: func(time.Time) { c.out.ShowMessage("CODE", "ENTERED", "") },
		Hold:  EnteredHold,
	})

	if match {
		c.counts.Granted++
		c.record(now, logic.EventAccessGranted, "")
		s.Append(logic.Step{
			Name: "code-correct",
			Enter: func(time.Time) {
				c.out.PlayTone(logic.ToneSuccess)
				c.out.ShowMessage("CODE", "CORRECT", "")
				c.out.SetIndicator(logic.IndicatorRed, false)
				c.out.SetIndicator(logic.IndicatorGreen, true)
			},
			Hold: GrantedHold,
			Exit: func(time.Time, bool) { c.out.SetIndicator(logic.IndicatorGreen, false) },
		})
		s.Append(c.verifier.Steps(s)...)
	} else {
		c.counts.Denied++
		c.record(now, logic.EventAccessDenied, "")
		s.Append(logic.Step{
			Name: "code-incorrect",
			Enter: func(time.Time) {
				c.out.PlayTone(logic.ToneError)
				c.out.ShowMessage("CODE", "INCORRECT", "")
				c.out.SetIndicator(logic.IndicatorRed, true)
			},
			Hold: DeniedHold,
			Exit: func(time.Time, bool) { c.out.SetIndicator(logic.IndicatorRed, false) },
		})
	}

	s.Append(logic.Step{Name: "menu", Enter: c.returnToMenu})
	c.run(now, s)
}

func (c *Controller) onStageResult(now time.Time, r logic.StageResult) {
	c.results = append(c.results, r)
	c.record(now, logic.StageEvent(r), "")
}

func (c *Controller) enterLockdown(now time.Time) {
	c.setMode(logic.ModeLockdown)
	c.code.Reset()
	c.drain()
	c.counts.Lockdowns++
	c.record(now, logic.EventLockdown, "")
	c.showLocked()
}

func (c *Controller) showLocked() {
	c.out.ShowMessage("SYSTEM", "", "LOCKED")
	c.out.SetIndicator(logic.IndicatorRed, true)
}

// stepLockdown waits for the unlock code. No other request is honoured.
func (c *Controller) stepLockdown(now time.Time) {
	c.discardPresses()
	c.reader.Fill(&c.code)
	if !c.code.Full() {
		return
	}

	if !c.code.Matches(c.cfg.UnlockCode) {
		c.log.Warnf("lockdown: wrong unlock code")
		c.code.Reset()
		c.showLocked()
		return
	}

	c.code.Reset()
	c.run(now, logic.NewSequence(
		logic.Step{
			Name: "unlocked",
			Enter: func(now time.Time) {
				c.counts.Unlocks++
				c.record(now, logic.EventUnlocked, "")
				c.out.SetIndicator(logic.IndicatorRed, false)
				c.out.ShowMessage("SYSTEM", "", "UNLOCKED")
				c.out.SetIndicator(logic.IndicatorGreen, true)
			},
			Hold: UnlockedHold,
			Exit: func(time.Time, bool) { c.out.SetIndicator(logic.IndicatorGreen, false) },
		},
		logic.Step{Name: "menu", Enter: c.returnToMenu},
	))
}

func (c *Controller) runDiagnostics(now time.Time) {
	c.setMode(logic.ModeKeypadDiagnostic)
	s := logic.NewSequence()
	s.Append(c.diagnostics.Steps(s)...)
	s.Append(logic.Step{
		Name: "diagnostics-done",
		Enter: func(now time.Time) {
			c.counts.Diagnostics++
			c.record(now, logic.EventDiagnosticsDone, "")
			c.returnToMenu(now)
		},
	})
	c.run(now, s)
}

// run starts s and gives it its first tick.
func (c *Controller) run(now time.Time, s *logic.Sequence) {
	c.log.Debugf("running %s", s.Current())
	c.task = s
	if s.Advance(now) {
		c.task = nil
	}
}

func (c *Controller) returnToMenu(time.Time) {
	c.setMode(logic.ModeMenu)
	c.code.Reset()
	c.drawMenu()
}

func (c *Controller) setMode(m logic.Mode) {
	if m == c.mode {
		return
	}
	c.log.Infof("mode %s -> %s", c.mode, m)
	c.mode = m
}

func (c *Controller) drawMenu() {
	items := c.menu.Items()
	labels := make([]string, len(items))
	for i, a := range items {
		labels[i] = Label(a)
	}
	c.out.ShowMenu(c.cfg.Title, labels, c.menu.Index())
}

func (c *Controller) discardPresses() {
	for {
		p, ok := c.queue.Take()
		if !ok {
			return
		}
		c.ignore(p)
	}
}

func (c *Controller) ignore(p logic.Press) {
	c.counts.IgnoredPresses++
	c.log.Debugf("press %s ignored in %s", p.Button, c.mode)
}

// drain drops digits typed before the current prompt so they cannot count
// toward the new code.
func (c *Controller) drain() {
	if n := c.reader.Drain(); n > 0 {
		c.log.Debugf("discarded %d stale bytes", n)
	}
}

func (c *Controller) record(now time.Time, t logic.EventType, detail string) {
	if c.rec == nil {
		return
	}
	c.rec.Record(logic.Event{
		Timestamp: now,
		Type:      t,
		Mode:      c.mode,
		Detail:    detail,
	})
}
