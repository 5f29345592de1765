package console

import (
	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

// Source identifies the channel a keystroke arrived on.
type Source string

const (
	SourceA Source = "A"
	SourceB Source = "B"
)

// Keystroke is a digit received on one of the code channels.
type Keystroke struct {
	Source Source
	Digit  byte
}

// Reader merges the two code channels. Each call polls channel A once and
// then channel B once; both may deliver a digit in the same tick.
type Reader struct {
	a, b Channel
	log  *logger.Logger
}

// NewReader creates a Reader. Either channel may be nil.
func NewReader(a, b Channel, l *logger.Logger) *Reader {
	if l == nil {
		l = logger.Discard()
	}
	return &Reader{a: a, b: b, log: l}
}

// Next returns the digits received this tick, channel A first. Non-digit
// characters are consumed and dropped.
func (r *Reader) Next() []Keystroke {
	var out []Keystroke
	if c, ok := poll(r.a); ok && logic.IsDigit(c) {
		out = append(out, Keystroke{Source: SourceA, Digit: c})
	}
	if c, ok := poll(r.b); ok && logic.IsDigit(c) {
		out = append(out, Keystroke{Source: SourceB, Digit: c})
	}
	return out
}

// Echo writes b back on the channel k arrived from.
func (r *Reader) Echo(k Keystroke, b byte) {
	ch := r.a
	if k.Source == SourceB {
		ch = r.b
	}
	if ch == nil {
		return
	}
	if err := ch.Echo(b); err != nil {
		r.log.Warnf("echo on channel %s: %v", k.Source, err)
	}
}

// Fill appends this tick's digits to buf, echoing a mask character for each
// accepted one. Digits that do not fit are rejected and not echoed. It
// returns the number of digits accepted.
func (r *Reader) Fill(buf *logic.CodeBuffer) int {
	n := 0
	for _, k := range r.Next() {
		if err := buf.Append(k.Digit); err != nil {
			r.log.Debugf("digit on channel %s rejected: %v", k.Source, err)
			continue
		}
		r.Echo(k, '*')
		n++
	}
	return n
}

// drainLimit bounds Drain on a channel that never runs dry.
const drainLimit = 256

// Drain discards whatever is waiting on both channels and returns the number
// of bytes dropped. Called on entering a mode that reads a fresh code.
func (r *Reader) Drain() int {
	n := 0
	for _, ch := range []Channel{r.a, r.b} {
		for i := 0; i < drainLimit; i++ {
			if _, ok := poll(ch); !ok {
				break
			}
			n++
		}
	}
	return n
}

func poll(ch Channel) (byte, bool) {
	if ch == nil {
		return 0, false
	}
	return ch.Poll()
}
