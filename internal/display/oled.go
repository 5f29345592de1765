package display

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/sweeney/access-console/internal/logger"
)

const (
	glyphWidth = 7
	lineHeight = 13
)

// OLED renders screens on an SSD1306 panel over I2C.
type OLED struct {
	mu  sync.Mutex
	bus i2c.BusCloser
	dev *ssd1306.Dev
	img *image1bit.VerticalLSB
	log *logger.Logger
}

// OpenOLED initialises the host drivers and opens the panel on busName
// ("" for the first bus).
func OpenOLED(busName string, l *logger.Logger) (*OLED, error) {
	if l == nil {
		l = logger.Discard()
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("open ssd1306: %w", err)
	}
	return &OLED{
		bus: bus,
		dev: dev,
		img: image1bit.NewVerticalLSB(dev.Bounds()),
		log: l,
	}, nil
}

// ShowMessage draws up to three centred lines inside a border.
func (o *OLED) ShowMessage(line1, line2, line3 string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	RenderMessage(o.img, MessageLines(line1, line2, line3))
	o.flush()
}

// ShowMenu draws the title and the visible items with the selection marked.
func (o *OLED) ShowMenu(title string, items []string, selected int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	RenderMenu(o.img, MenuLines(title, items, selected))
	o.flush()
}

func (o *OLED) flush() {
	if err := o.dev.Draw(o.dev.Bounds(), o.img, image.Point{}); err != nil {
		o.log.Warnf("draw: %v", err)
	}
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	var errs []error
	if err := o.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt ssd1306: %w", err))
	}
	if err := o.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RenderMessage clears dst and draws lines centred inside a one pixel border.
func RenderMessage(dst draw.Image, lines []string) {
	b := dst.Bounds()
	blank(dst)
	border(dst)

	top := b.Min.Y + (b.Dy()-len(lines)*lineHeight)/2
	for i, s := range lines {
		x := b.Min.X + (b.Dx()-len(s)*glyphWidth)/2
		drawText(dst, s, x, top+(i+1)*lineHeight-2)
	}
}

// RenderMenu clears dst and draws lines left-aligned, the first as a title.
func RenderMenu(dst draw.Image, lines []string) {
	b := dst.Bounds()
	blank(dst)
	for i, s := range lines {
		x := b.Min.X + 2
		if i == 0 {
			x = b.Min.X + (b.Dx()-len(s)*glyphWidth)/2
		}
		drawText(dst, s, x, b.Min.Y+(i+1)*lineHeight-2)
	}
}

func drawText(dst draw.Image, s string, x, y int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(image1bit.On),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func blank(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(image1bit.Off), image.Point{}, draw.Src)
}

func border(dst draw.Image) {
	b := dst.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		dst.Set(x, b.Min.Y, image1bit.On)
		dst.Set(x, b.Max.Y-1, image1bit.On)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		dst.Set(b.Min.X, y, image1bit.On)
		dst.Set(b.Max.X-1, y, image1bit.On)
	}
}
