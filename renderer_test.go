package rt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// recorder is a Progress that records every call.
type recorder struct {
	mu       sync.Mutex
	rows     []int
	height   int
	finished int
}

func (p *recorder) Row(j, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = append(p.rows, j)
	p.height = height
}

func (p *recorder) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished++
}

// failWriter accepts limit bytes and then fails.
type failWriter struct {
	limit int
	n     int
}

var errBoom = errors.New("boom")

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.limit {
		return 0, errBoom
	}
	w.n += len(p)
	return len(p), nil
}

func render(t *testing.T, width, height int, opts ...RendererOption) string {
	t.Helper()
	r, err := NewRenderer(width, height, opts...)
	if err != nil {
		t.Fatalf("NewRenderer(%d, %d) error: %v", width, height, err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return buf.String()
}

func TestRender_2x2(t *testing.T) {
	got := render(t, 2, 2)
	want := "P3\n2 2\n255\n" +
		"0 0 0\n" +
		"255 0 0\n" +
		"0 255 0\n" +
		"255 255 0\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_Layout(t *testing.T) {
	const w, h = 5, 3
	lines := strings.Split(strings.TrimSuffix(render(t, w, h), "\n"), "\n")

	if len(lines) != 3+w*h {
		t.Fatalf("got %d lines, want %d", len(lines), 3+w*h)
	}
	if lines[0] != "P3" || lines[1] != "5 3" || lines[2] != "255" {
		t.Errorf("header = %q", lines[:3])
	}

	// Row-major: line 3+j*w+i holds pixel (i, j).
	for j := range h {
		for i := range w {
			u := float64(i) / (w - 1)
			v := float64(j) / (h - 1)
			want := NewColor(u, v, 0).String()
			if got := lines[3+j*w+i]; got != want {
				t.Errorf("pixel (%d,%d) = %q, want %q", i, j, got, want)
			}
		}
	}
}

func TestRender_Corners256(t *testing.T) {
	r, err := NewRenderer(256, 256)
	if err != nil {
		t.Fatal(err)
	}
	f := r.RenderFrame()

	tests := []struct {
		x, y   int
		expect Color
	}{
		{0, 0, Color{0, 0, 0}},
		{255, 0, Color{255, 0, 0}},
		{0, 255, Color{0, 255, 0}},
		{255, 255, Color{255, 255, 0}},
		{128, 64, NewColor(128.0/255, 64.0/255, 0)},
	}
	for _, tt := range tests {
		if got := f.Pixel(tt.x, tt.y); got != tt.expect {
			t.Errorf("Pixel(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.expect)
		}
	}
}

func TestNewRenderer_InvalidSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"single column", 1, 2},
		{"single row", 2, 1},
		{"single pixel", 1, 1},
		{"zero", 0, 0},
		{"negative", -3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(tt.width, tt.height)
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("NewRenderer(%d, %d) error = %v, want ErrInvalidSize", tt.width, tt.height, err)
			}
			if r != nil {
				t.Error("expected nil renderer on error")
			}
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	r, err := NewRenderer(17, 9)
	if err != nil {
		t.Fatal(err)
	}

	var a, b bytes.Buffer
	if err := r.Render(&a); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(&b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two renders of the same renderer differ")
	}
	if render(t, 17, 9) != a.String() {
		t.Error("render with a fresh renderer differs")
	}
}

func TestRender_ParallelMatchesSequential(t *testing.T) {
	const w, h = 37, 23
	want := render(t, w, h)

	tests := []struct {
		workers, band int
	}{
		{2, 1},
		{3, 4},
		{4, 5},
		{8, 64},
		{0, 7},
		{16, 1000},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("workers=%d/band=%d", tt.workers, tt.band), func(t *testing.T) {
			got := render(t, w, h, WithWorkers(tt.workers), WithBandRows(tt.band))
			if got != want {
				t.Error("parallel output differs from sequential output")
			}
		})
	}
}

func TestRender_Progress(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			p := &recorder{}
			_ = render(t, 4, 6, WithWorkers(workers), WithBandRows(4), WithProgress(p))

			if len(p.rows) != 6 {
				t.Fatalf("got %d rows, want 6", len(p.rows))
			}
			for j, row := range p.rows {
				if row != j {
					t.Errorf("row %d reported as %d", j, row)
				}
			}
			if p.height != 6 {
				t.Errorf("height = %d, want 6", p.height)
			}
			if p.finished != 1 {
				t.Errorf("Finish called %d times, want 1", p.finished)
			}
		})
	}
}

func TestRender_ProgressDoesNotChangeOutput(t *testing.T) {
	if render(t, 9, 4, WithProgress(&recorder{})) != render(t, 9, 4) {
		t.Error("output changed when progress was attached")
	}
	if render(t, 9, 4, WithProgress(nil)) != render(t, 9, 4) {
		t.Error("output changed with nil progress")
	}
}

func TestRender_WriterError(t *testing.T) {
	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			p := &recorder{}
			r, err := NewRenderer(64, 64, WithWorkers(workers), WithProgress(p))
			if err != nil {
				t.Fatal(err)
			}

			err = r.Render(&failWriter{limit: 100})
			if !errors.Is(err, errBoom) {
				t.Fatalf("Render() error = %v, want errBoom", err)
			}
			if p.finished != 1 {
				t.Errorf("Finish called %d times, want 1", p.finished)
			}
			if len(p.rows) == 64 {
				t.Error("scan did not stop at the write error")
			}
		})
	}
}

func TestRender_CustomShader(t *testing.T) {
	blue := func(u, v float64) Color { return NewColor(0, 0, u*v) }
	got := render(t, 2, 2, WithShader(blue))
	want := "P3\n2 2\n255\n0 0 0\n0 0 0\n0 0 0\n0 0 255\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}

	if render(t, 3, 3, WithShader(nil)) != render(t, 3, 3) {
		t.Error("WithShader(nil) should keep Gradient")
	}
}

func TestRender_FlipTransform(t *testing.T) {
	tests := []struct {
		name   string
		h, v   bool
		pixels string
	}{
		{"none", false, false, "0 0 0\n255 0 0\n0 255 0\n255 255 0\n"},
		{"horizontal", true, false, "255 0 0\n0 0 0\n255 255 0\n0 255 0\n"},
		{"vertical", false, true, "0 255 0\n255 255 0\n0 0 0\n255 0 0\n"},
		{"both", true, true, "255 255 0\n0 255 0\n255 0 0\n0 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, 2, 2, WithCoordTransform(FlipTransform(tt.h, tt.v)))
			if want := "P3\n2 2\n255\n" + tt.pixels; got != want {
				t.Errorf("Render() =\n%s\nwant\n%s", got, want)
			}
		})
	}
}

func TestRender_CoordTransform(t *testing.T) {
	if render(t, 5, 4, WithCoordTransform(mgl64.Ident3())) != render(t, 5, 4) {
		t.Error("identity transform changed the output")
	}

	// Swapping u and v transposes a square gradient.
	swap := mgl64.Mat3{0, 1, 0, 1, 0, 0, 0, 0, 1}
	r, err := NewRenderer(3, 3, WithCoordTransform(swap))
	if err != nil {
		t.Fatal(err)
	}
	for j := range 3 {
		for i := range 3 {
			u, v := r.Coord(i, j)
			if wantU, wantV := float64(j)/2, float64(i)/2; u != wantU || v != wantV {
				t.Errorf("Coord(%d, %d) = (%v, %v), want (%v, %v)", i, j, u, v, wantU, wantV)
			}
		}
	}

	seq := render(t, 7, 9, WithCoordTransform(FlipTransform(true, false)))
	par := render(t, 7, 9, WithCoordTransform(FlipTransform(true, false)), WithWorkers(3), WithBandRows(2))
	if seq != par {
		t.Error("parallel flipped render differs from sequential")
	}
}

func TestRenderer_Scan(t *testing.T) {
	r, err := NewRenderer(3, 2)
	if err != nil {
		t.Fatal(err)
	}

	type visit struct {
		i, j int
		u, v float64
	}
	var got []visit
	r.Scan(func(i, j int, u, v float64) {
		got = append(got, visit{i, j, u, v})
	})

	want := []visit{
		{0, 0, 0, 0}, {1, 0, 0.5, 0}, {2, 0, 1, 0},
		{0, 1, 0, 1}, {1, 1, 0.5, 1}, {2, 1, 1, 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d visits, want %d", len(got), len(want))
	}
	for k := range want {
		if got[k] != want[k] {
			t.Errorf("visit %d = %+v, want %+v", k, got[k], want[k])
		}
	}
}

func TestRenderer_Accessors(t *testing.T) {
	r, err := NewRenderer(640, 360, WithWorkers(3))
	if err != nil {
		t.Fatal(err)
	}
	if r.Width() != 640 || r.Height() != 360 {
		t.Errorf("size = %dx%d, want 640x360", r.Width(), r.Height())
	}
	if r.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", r.Workers())
	}
	if u, v := r.Coord(639, 359); u != 1 || v != 1 {
		t.Errorf("Coord(639, 359) = (%v, %v), want (1, 1)", u, v)
	}
}

func TestRenderFrame_MatchesRender(t *testing.T) {
	for _, workers := range []int{1, 2} {
		r, err := NewRenderer(11, 7, WithWorkers(workers))
		if err != nil {
			t.Fatal(err)
		}

		var direct, viaFrame bytes.Buffer
		if err := r.Render(&direct); err != nil {
			t.Fatal(err)
		}
		if err := r.RenderFrame().Encode(&viaFrame); err != nil {
			t.Fatal(err)
		}
		if direct.String() != viaFrame.String() {
			t.Errorf("workers=%d: Frame.Encode differs from Render", workers)
		}
	}
}
