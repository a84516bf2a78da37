package rt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// PPMMagic identifies the plain-text RGB variant of the PPM format.
const PPMMagic = "P3"

// PPM writer errors.
var (
	// ErrPixelOverflow is returned when more pixels are written than the
	// header declared.
	ErrPixelOverflow = errors.New("rt: more pixels than declared in header")

	// ErrShortImage is returned by Flush when fewer pixels were written than
	// the header declared.
	ErrShortImage = errors.New("rt: fewer pixels than declared in header")

	// ErrNoHeader is returned when a pixel is written before the header.
	ErrNoHeader = errors.New("rt: pixel written before header")

	// ErrHeaderWritten is returned when WriteHeader is called a second time.
	ErrHeaderWritten = errors.New("rt: header already written")
)

// PPMWriter emits a plain-text PPM (P3) image one line at a time:
//
//	P3
//	<width> <height>
//	255
//	<r> <g> <b>
//	...
//
// Pixels must be written in row-major order, top row first.
// Output is buffered; call Flush when done.
type PPMWriter struct {
	w       *bufio.Writer
	line    []byte
	want    int
	written int
	header  bool
	err     error
}

// NewPPMWriter returns a PPMWriter writing to w.
func NewPPMWriter(w io.Writer) *PPMWriter {
	return &PPMWriter{
		w:    bufio.NewWriter(w),
		line: make([]byte, 0, 16),
	}
}

// WriteHeader writes the three header lines. It may be called only once.
func (pw *PPMWriter) WriteHeader(width, height int) error {
	if pw.err != nil {
		return pw.err
	}
	if pw.header {
		return ErrHeaderWritten
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, width, height)
	}

	b := pw.line[:0]
	b = append(b, PPMMagic...)
	b = append(b, '\n')
	b = strconv.AppendInt(b, int64(width), 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(height), 10)
	b = append(b, '\n')
	b = strconv.AppendInt(b, MaxChannel, 10)
	b = append(b, '\n')
	pw.line = b

	if _, err := pw.w.Write(b); err != nil {
		pw.err = fmt.Errorf("rt: write header: %w", err)
		return pw.err
	}
	pw.want = width * height
	pw.header = true
	return nil
}

// WritePixel writes one "r g b" line.
func (pw *PPMWriter) WritePixel(c Color) error {
	if pw.err != nil {
		return pw.err
	}
	if !pw.header {
		return ErrNoHeader
	}
	if pw.written == pw.want {
		return ErrPixelOverflow
	}

	pw.line = append(c.AppendText(pw.line[:0]), '\n')
	if _, err := pw.w.Write(pw.line); err != nil {
		pw.err = fmt.Errorf("rt: write pixel %d: %w", pw.written, err)
		return pw.err
	}
	pw.written++
	return nil
}

// Written returns the number of pixels written so far.
func (pw *PPMWriter) Written() int {
	return pw.written
}

// Flush writes any buffered data to the underlying writer.
// It reports ErrShortImage if the image is incomplete; the buffered bytes
// are flushed either way.
func (pw *PPMWriter) Flush() error {
	if pw.err != nil {
		return pw.err
	}
	if err := pw.w.Flush(); err != nil {
		pw.err = fmt.Errorf("rt: flush: %w", err)
		return pw.err
	}
	if pw.written < pw.want {
		return fmt.Errorf("%w: %d of %d", ErrShortImage, pw.written, pw.want)
	}
	return nil
}
