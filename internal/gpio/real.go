//go:build linux

package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

const consumer = "access-console"

// RealBoard drives actual hardware using the Linux GPIO character device.
type RealBoard struct {
	chip    *gpiocdev.Chip
	buttons map[logic.Button]*gpiocdev.Line
	leds    map[logic.Indicator]*gpiocdev.Line
	buzzers map[int]*gpiocdev.Line
	adc     *ADC
	log     *logger.Logger

	tones chan logic.Tone
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewRealBoard requests every line on chipName. Button lines report falling
// edges to onEdge.
func NewRealBoard(chipName string, pins Pins, adc *ADC, onEdge EdgeFunc, l *logger.Logger) (*RealBoard, error) {
	if l == nil {
		l = logger.Discard()
	}
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	b := &RealBoard{
		chip:    chip,
		buttons: make(map[logic.Button]*gpiocdev.Line),
		leds:    make(map[logic.Indicator]*gpiocdev.Line),
		buzzers: make(map[int]*gpiocdev.Line),
		adc:     adc,
		log:     l,
		tones:   make(chan logic.Tone, 1),
		stop:    make(chan struct{}),
	}

	for _, btn := range logic.Buttons {
		btn := btn
		pin := pins.Button(btn)
		handler := func(evt gpiocdev.LineEvent) {
			if evt.Type != gpiocdev.LineEventFallingEdge || onEdge == nil {
				return
			}
			onEdge(btn, time.Now())
		}
		line, err := chip.RequestLine(pin,
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithFallingEdge,
			gpiocdev.WithEventHandler(handler))
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request button %s pin %d: %w", btn, pin, err)
		}
		b.buttons[btn] = line
	}

	for _, ind := range logic.Indicators {
		pin := pins.Indicator(ind)
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request %s led pin %d: %w", ind, pin, err)
		}
		b.leds[ind] = line
	}

	for _, n := range []int{1, 2} {
		pin := pins.Buzzer(n)
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request buzzer %d pin %d: %w", n, pin, err)
		}
		b.buzzers[n] = line
	}

	b.wg.Add(1)
	go b.player()

	return b, nil
}

// ReadAnalog returns the raw ADC value of ch.
func (b *RealBoard) ReadAnalog(ch logic.AnalogChannel) (uint16, error) {
	if b.adc == nil {
		return 0, fmt.Errorf("read analog %d: no adc configured", ch)
	}
	return b.adc.Read(ch)
}

// Pressed returns the logical state of a button.
// Inverts raw GPIO: raw low (0) = pressed.
func (b *RealBoard) Pressed(btn logic.Button) (bool, error) {
	line, ok := b.buttons[btn]
	if !ok {
		return false, fmt.Errorf("unknown button %s", btn)
	}
	raw, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read button %s: %w", btn, err)
	}
	return raw == 0, nil
}

// SetIndicator switches one LED colour.
func (b *RealBoard) SetIndicator(i logic.Indicator, on bool) {
	line, ok := b.leds[i]
	if !ok {
		return
	}
	val := 0
	if on {
		val = 1
	}
	if err := line.SetValue(val); err != nil {
		b.log.Warnf("set %s led=%v: %v", i, on, err)
	}
}

// PlayTone queues t for the player goroutine.
func (b *RealBoard) PlayTone(t logic.Tone) {
	select {
	case b.tones <- t:
	default:
		b.log.Debugf("tone %s dropped, buzzer busy", t)
	}
}

func (b *RealBoard) player() {
	defer b.wg.Done()
	for {
		select {
		case <-b.stop:
			return
		case t := <-b.tones:
			line := b.buzzers[logic.Buzzer(t)]
			for _, n := range logic.Melody(t) {
				if !b.square(line, n) {
					return
				}
			}
		}
	}
}

// square toggles line at n.Hz for n.Dur. It returns false if the board is
// closing.
func (b *RealBoard) square(line *gpiocdev.Line, n logic.Note) bool {
	if line == nil || n.Hz <= 0 {
		return true
	}
	half := time.Second / time.Duration(2*n.Hz)
	tick := time.NewTicker(half)
	defer tick.Stop()
	end := time.NewTimer(n.Dur)
	defer end.Stop()

	val := 0
	for {
		select {
		case <-b.stop:
			line.SetValue(0)
			return false
		case <-end.C:
			line.SetValue(0)
			return true
		case <-tick.C:
			val ^= 1
			line.SetValue(val)
		}
	}
}

// Close releases GPIO resources.
// Outputs are driven low and every line is returned to an input with
// pull-down before closing.
func (b *RealBoard) Close() error {
	select {
	case <-b.stop:
	default:
		close(b.stop)
	}
	b.wg.Wait()

	var errs []error
	closeLine := func(name string, line *gpiocdev.Line) {
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", name, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	for btn, line := range b.buttons {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button %s: %w", btn, err))
		}
	}
	for ind, line := range b.leds {
		line.SetValue(0)
		closeLine(string(ind)+" led", line)
	}
	for n, line := range b.buzzers {
		closeLine(fmt.Sprintf("buzzer %d", n), line)
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
