package ppm

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

// Encode writes img as a plain-text P3 image with maxval 255, one pixel per
// line in row-major order. Alpha is discarded; colors are converted to
// non-premultiplied 8-bit RGB first.
func Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: empty image", ErrFormat)
	}

	bw := bufio.NewWriter(w)
	line := make([]byte, 0, 16)

	line = append(line, "P3\n"...)
	line = strconv.AppendInt(line, int64(b.Dx()), 10)
	line = append(line, ' ')
	line = strconv.AppendInt(line, int64(b.Dy()), 10)
	line = append(line, "\n255\n"...)
	if _, err := bw.Write(line); err != nil {
		return fmt.Errorf("ppm: write header: %w", err)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			line = strconv.AppendUint(line[:0], uint64(c.R), 10)
			line = append(line, ' ')
			line = strconv.AppendUint(line, uint64(c.G), 10)
			line = append(line, ' ')
			line = strconv.AppendUint(line, uint64(c.B), 10)
			line = append(line, '\n')
			if _, err := bw.Write(line); err != nil {
				return fmt.Errorf("ppm: write pixel (%d,%d): %w", x, y, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("ppm: flush: %w", err)
	}
	return nil
}
