package logic

// MatrixSize is the edge length of the square LED matrix.
const MatrixSize = 5

// RGB is a matrix pixel colour.
type RGB struct {
	R, G, B uint8
}

// Matrix colours used by the console.
var (
	Black = RGB{}
	Red   = RGB{R: 255}
	Green = RGB{G: 255}
	Blue  = RGB{B: 255}
)

// Frame is one full image for the LED matrix, row-major.
type Frame [MatrixSize * MatrixSize]RGB

// Bitmap is a monochrome MatrixSize x MatrixSize glyph.
type Bitmap [MatrixSize * MatrixSize]bool

// EyeGlyph is the closed-eye pattern shown during an iris scan.
var EyeGlyph = Bitmap{
	false, true, true, true, false,
	true, false, false, false, true,
	true, false, true, false, true,
	true, false, false, false, true,
	false, true, true, true, false,
}

// Paint renders b with lit pixels in c and the rest black.
func (b Bitmap) Paint(c RGB) Frame {
	var f Frame
	for i, on := range b {
		if on {
			f[i] = c
		}
	}
	return f
}

// Fill returns a frame with every pixel set to c.
func Fill(c RGB) Frame {
	var f Frame
	for i := range f {
		f[i] = c
	}
	return f
}

// Lit counts pixels that are not black.
func (f Frame) Lit() int {
	n := 0
	for _, p := range f {
		if p != Black {
			n++
		}
	}
	return n
}

// SweepPalette returns the colours cycled by the scanner self-test: every
// combination of the channel levels 0, 127 and 254, red-major.
func SweepPalette() []RGB {
	levels := []uint8{0, 127, 254}
	out := make([]RGB, 0, len(levels)*len(levels)*len(levels))
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				out = append(out, RGB{R: r, G: g, B: b})
			}
		}
	}
	return out
}
