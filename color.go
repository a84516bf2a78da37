package rt

import (
	"image/color"
	"strconv"
)

// QuantizeScale maps an intensity in [0, 1) onto [0, 255].
// It is slightly below 256 so an intensity of exactly 1.0 lands on 255
// rather than 256.
const QuantizeScale = 255.999

// MaxChannel is the largest in-gamut channel value and the maxval written
// to the PPM header.
const MaxChannel = 255

// Color is an RGB color quantized to integer channels.
//
// Channels hold whatever quantization produced. Intensities outside [0, 1)
// give channels outside [0, MaxChannel]; those are kept as-is.
// Colors compare with ==.
type Color struct {
	R, G, B int
}

// Black is the zero color.
var Black = Color{}

// NewColor quantizes floating-point intensities into a Color.
// Each channel is int(QuantizeScale * x), truncated toward zero.
// Inputs are not clamped. NaN, and values whose product exceeds the int
// range, convert according to Go's implementation-defined float-to-int rules.
func NewColor(r, g, b float64) Color {
	return Color{
		R: quantize(r),
		G: quantize(g),
		B: quantize(b),
	}
}

// ColorFromVec3 quantizes a vector of intensities, X as red through Z as blue.
func ColorFromVec3(v Vec3) Color {
	return NewColor(v.X, v.Y, v.Z)
}

func quantize(x float64) int {
	return int(QuantizeScale * x)
}

// Equal reports whether c and o have identical channels.
func (c Color) Equal(o Color) bool {
	return c == o
}

// InGamut reports whether every channel is within [0, MaxChannel].
func (c Color) InGamut() bool {
	return inRange(c.R) && inRange(c.G) && inRange(c.B)
}

func inRange(ch int) bool {
	return ch >= 0 && ch <= MaxChannel
}

// String formats the color as a PPM pixel line body: "r g b".
func (c Color) String() string {
	return string(c.AppendText(make([]byte, 0, 12)))
}

// AppendText appends "r g b" to b.
func (c Color) AppendText(b []byte) []byte {
	b = strconv.AppendInt(b, int64(c.R), 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(c.G), 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(c.B), 10)
	return b
}

// RGBA implements the color.Color interface.
// The interface requires in-range values, so channels are clamped here;
// the Color itself is never modified.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(clamp255(c.R))
	g = uint32(clamp255(c.G))
	b = uint32(clamp255(c.B))
	return r | r<<8, g | g<<8, b | b<<8, 0xffff
}

// NRGBA converts c to a standard 8-bit opaque color, clamping channels.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp255(c.R)),
		G: uint8(clamp255(c.G)),
		B: uint8(clamp255(c.B)),
		A: 0xff,
	}
}

// clamp255 restricts a channel to [0, 255].
func clamp255(ch int) int {
	if ch < 0 {
		return 0
	}
	if ch > MaxChannel {
		return MaxChannel
	}
	return ch
}

var _ color.Color = Color{}
