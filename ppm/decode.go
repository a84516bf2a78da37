// Package ppm implements a decoder and encoder for plain-text PPM (P3) images.
//
// Importing this package registers the decoder with the image package, so
// image.Decode recognizes streams starting with "P3".
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// Errors returned by the decoder.
var (
	// ErrFormat is returned when the input is not a valid P3 image.
	ErrFormat = errors.New("ppm: invalid format")

	// ErrUnsupported is returned for valid Netpbm variants other than P3.
	ErrUnsupported = errors.New("ppm: unsupported variant")
)

// maxPixels bounds width*height to keep a corrupt header from allocating
// an unbounded buffer.
const maxPixels = 1 << 28

func init() {
	image.RegisterFormat("ppm", "P3", decodeImage, DecodeConfig)
}

func decodeImage(r io.Reader) (image.Image, error) {
	return Decode(r)
}

// header is the parsed PPM header.
type header struct {
	width, height, maxval int
}

// decoder tokenizes a Netpbm stream.
type decoder struct {
	r *bufio.Reader
}

func newDecoder(r io.Reader) *decoder {
	if br, ok := r.(*bufio.Reader); ok {
		return &decoder{r: br}
	}
	return &decoder{r: bufio.NewReader(r)}
}

// DecodeConfig returns the dimensions and color model of a P3 image without
// decoding its pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := newDecoder(r).header()
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.width,
		Height:     h.height,
	}, nil
}

// Decode reads a P3 image. Samples are rescaled to 8 bits when the header's
// maximum value is not 255.
func Decode(r io.Reader) (*image.NRGBA, error) {
	d := newDecoder(r)
	h, err := d.header()
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	for p := range h.width * h.height {
		px := img.Pix[p*4 : p*4+4 : p*4+4]
		for c := range 3 {
			s, err := d.number()
			if err != nil {
				return nil, fmt.Errorf("ppm: pixel %d: %w", p, err)
			}
			if s > h.maxval {
				return nil, fmt.Errorf("%w: pixel %d sample %d exceeds maxval %d", ErrFormat, p, s, h.maxval)
			}
			px[c] = scale8(s, h.maxval)
		}
		px[3] = 0xff
	}
	return img, nil
}

// scale8 maps a sample in [0, maxval] onto [0, 255], rounding to nearest.
func scale8(s, maxval int) uint8 {
	if maxval == 255 {
		return uint8(s)
	}
	return uint8((s*255 + maxval/2) / maxval)
}

func (d *decoder) header() (header, error) {
	var magic [2]byte
	if _, err := io.ReadFull(d.r, magic[:]); err != nil {
		return header{}, fmt.Errorf("ppm: read magic: %w", unexpected(err))
	}
	switch {
	case magic == [2]byte{'P', '3'}:
	case magic[0] == 'P' && magic[1] >= '1' && magic[1] <= '7':
		return header{}, fmt.Errorf("%w: P%c", ErrUnsupported, magic[1])
	default:
		return header{}, fmt.Errorf("%w: bad magic %q", ErrFormat, magic[:])
	}

	next, err := d.r.Peek(1)
	if err != nil {
		return header{}, fmt.Errorf("ppm: after magic: %w", unexpected(err))
	}
	if !isSpace(next[0]) && next[0] != '#' {
		return header{}, fmt.Errorf("%w: no separator after magic", ErrFormat)
	}

	var h header
	if h.width, err = d.number(); err != nil {
		return header{}, fmt.Errorf("ppm: width: %w", err)
	}
	if h.height, err = d.number(); err != nil {
		return header{}, fmt.Errorf("ppm: height: %w", err)
	}
	if h.maxval, err = d.number(); err != nil {
		return header{}, fmt.Errorf("ppm: maxval: %w", err)
	}

	if h.width <= 0 || h.height <= 0 || h.width > maxPixels/h.height {
		return header{}, fmt.Errorf("%w: dimensions %dx%d", ErrFormat, h.width, h.height)
	}
	if h.maxval <= 0 || h.maxval > 65535 {
		return header{}, fmt.Errorf("%w: maxval %d", ErrFormat, h.maxval)
	}
	return h, nil
}

// number reads the next decimal token, skipping whitespace and # comments.
func (d *decoder) number() (int, error) {
	if err := d.skip(); err != nil {
		return 0, err
	}

	n, digits := 0, 0
	for {
		b, err := d.r.ReadByte()
		if err == io.EOF && digits > 0 {
			return n, nil
		}
		if err != nil {
			return 0, unexpected(err)
		}
		if b < '0' || b > '9' {
			if !isSpace(b) && b != '#' {
				return 0, fmt.Errorf("%w: unexpected byte %q", ErrFormat, b)
			}
			_ = d.r.UnreadByte()
			return n, nil
		}
		if n > (1<<31)/10 {
			return 0, fmt.Errorf("%w: number too large", ErrFormat)
		}
		n = n*10 + int(b-'0')
		digits++
	}
}

// skip consumes whitespace and comments up to the next token.
func (d *decoder) skip() error {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return unexpected(err)
		}
		switch {
		case isSpace(b):
		case b == '#':
			if _, err := d.r.ReadBytes('\n'); err != nil {
				return unexpected(err)
			}
		default:
			return d.r.UnreadByte()
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
