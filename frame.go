package rt

import (
	"image"
	"image/color"
	"io"
)

// Frame is an in-memory rendered image.
// It implements image.Image so it can be passed to standard encoders.
type Frame struct {
	width  int
	height int
	pix    []Color // row-major
}

// NewFrame creates a black frame with the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}
}

// Width returns the width of the frame.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the height of the frame.
func (f *Frame) Height() int {
	return f.height
}

// Pixel returns the color at column x, row y.
// Out-of-bounds coordinates return Black.
func (f *Frame) Pixel(x, y int) Color {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return Black
	}
	return f.pix[y*f.width+x]
}

// SetPixel sets the color at column x, row y.
// Out-of-bounds coordinates are ignored.
func (f *Frame) SetPixel(x, y int, c Color) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.pix[y*f.width+x] = c
}

// Encode writes the frame as plain-text PPM, byte-identical to what
// Renderer.Render produces for the same pixels.
func (f *Frame) Encode(w io.Writer) error {
	pw := NewPPMWriter(w)
	if err := pw.WriteHeader(f.width, f.height); err != nil {
		return err
	}
	for _, c := range f.pix {
		if err := pw.WritePixel(c); err != nil {
			return err
		}
	}
	return pw.Flush()
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return ColorModel
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	return f.Pixel(x, y)
}

// ColorModel converts any color.Color to a Color.
var ColorModel = color.ModelFunc(colorModel)

func colorModel(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: int(n.R), G: int(n.G), B: int(n.B)}
}

var _ image.Image = (*Frame)(nil)
