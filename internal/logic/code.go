package logic

import "errors"

// CodeLength is the number of digits in a passcode.
const CodeLength = 4

var (
	// ErrNotDigit is returned when a non-decimal character is appended.
	ErrNotDigit = errors.New("code: not a digit")
	// ErrBufferFull is returned when appending to a complete buffer.
	ErrBufferFull = errors.New("code: buffer full")
)

// CodeBuffer collects the digits of a passcode. Its length never exceeds
// CodeLength and it only ever holds '0'..'9'.
type CodeBuffer struct {
	digits [CodeLength]byte
	n      int
}

// IsDigit reports whether c is a decimal digit character.
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Append adds a digit. The buffer is left unchanged on error.
func (b *CodeBuffer) Append(c byte) error {
	if !IsDigit(c) {
		return ErrNotDigit
	}
	if b.n >= CodeLength {
		return ErrBufferFull
	}
	b.digits[b.n] = c
	b.n++
	return nil
}

// Len returns the number of digits entered.
func (b *CodeBuffer) Len() int {
	return b.n
}

// Full reports whether the buffer holds a complete code.
func (b *CodeBuffer) Full() bool {
	return b.n == CodeLength
}

// String returns the digits entered so far.
func (b *CodeBuffer) String() string {
	return string(b.digits[:b.n])
}

// Matches reports whether the buffer is complete and equal to code.
func (b *CodeBuffer) Matches(code string) bool {
	return b.Full() && b.String() == code
}

// Reset empties the buffer.
func (b *CodeBuffer) Reset() {
	b.digits = [CodeLength]byte{}
	b.n = 0
}
