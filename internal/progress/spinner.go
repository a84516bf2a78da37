// Package progress reports scan progress on a side channel such as stderr.
package progress

import (
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// tickFrames are the spinner tick characters, one per reported row.
const tickFrames = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"

var frames = []rune(tickFrames)

// Spinner rewrites a single status line of the form
//
//	⠋ processed 12 out of 256
//
// every time a row is reported, and erases it on Finish.
// Counts are formatted for the configured language, so 1024 may render as
// "1,024" or "1.024".
//
// Thread safety: Spinner is safe for concurrent use.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	printer *message.Printer
	tick    int
	width   int // runes in the last status line
}

// NewSpinner creates a spinner writing to w with numbers formatted for tag.
func NewSpinner(w io.Writer, tag language.Tag) *Spinner {
	return &Spinner{
		w:       w,
		printer: message.NewPrinter(tag),
	}
}

// Row reports that row j of height is about to be emitted.
func (s *Spinner) Row(j, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := frames[s.tick%len(frames)]
	s.tick++

	line := s.printer.Sprintf("%c processed %d out of %d", frame, j, height)
	n := utf8.RuneCountInString(line)

	var b strings.Builder
	b.WriteByte('\r')
	b.WriteString(line)
	if pad := s.width - n; pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	s.width = n

	// Progress output is best effort.
	_, _ = io.WriteString(s.w, b.String())
}

// Finish erases the status line.
func (s *Spinner) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.width == 0 {
		return
	}
	_, _ = io.WriteString(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
	s.width = 0
}

// Nop discards all progress.
type Nop struct{}

// Row does nothing.
func (Nop) Row(int, int) {}

// Finish does nothing.
func (Nop) Finish() {}
