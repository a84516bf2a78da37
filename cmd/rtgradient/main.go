// Command rtgradient renders the rt gradient test image.
//
// The image goes to stdout (or -o) as plain-text PPM by default; progress and
// diagnostics go to stderr.
//
//	rtgradient -width 256 -height 256 > gradient.ppm
//	rtgradient -format png -o gradient.png
//	rtgradient -in gradient.ppm -format tiff -o gradient.tiff
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/text/language"

	"github.com/gogpu/rt"
	"github.com/gogpu/rt/internal/progress"
	"github.com/gogpu/rt/ppm"
)

type config struct {
	width   int
	height  int
	workers int
	format  string
	output  string
	input   string
	lang    string
	flip    string
	quiet   bool
	verbose bool
	version bool
}

func main() {
	var cfg config
	flag.IntVar(&cfg.width, "width", 256, "image width")
	flag.IntVar(&cfg.height, "height", 256, "image height")
	flag.IntVar(&cfg.workers, "workers", 1, "row workers (0 = GOMAXPROCS)")
	flag.StringVar(&cfg.format, "format", "ppm", "output format: ppm, png, bmp or tiff")
	flag.StringVar(&cfg.output, "o", "", "output file (default stdout)")
	flag.StringVar(&cfg.input, "in", "", "convert this PPM file instead of rendering")
	flag.StringVar(&cfg.lang, "lang", "en", "language for progress counts")
	flag.BoolVar(&cfg.quiet, "quiet", false, "disable progress output")
	flag.StringVar(&cfg.flip, "flip", "", "mirror the image: h, v or hv")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	flag.BoolVar(&cfg.version, "version", false, "print version and exit")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	rt.SetLogger(logger)

	if err := run(cfg, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("rtgradient: %v", err)
	}
	if !cfg.version {
		logger.Info("finished processing.")
	}
}

func run(cfg config, stdout, stderr io.Writer) (err error) {
	if cfg.version {
		_, err = fmt.Fprintf(stdout, "rtgradient %s\n", rt.Version)
		return err
	}

	enc, err := encoderFor(cfg.format)
	if err != nil {
		return err
	}
	flipH, flipV, err := parseFlip(cfg.flip)
	if err != nil {
		return err
	}

	out := stdout
	if cfg.output != "" {
		f, cerr := os.Create(filepath.Clean(cfg.output))
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}

	if cfg.input != "" {
		return convert(cfg.input, out, enc)
	}

	var prog rt.Progress = progress.Nop{}
	if !cfg.quiet {
		tag, err := language.Parse(cfg.lang)
		if err != nil {
			return fmt.Errorf("parse -lang: %w", err)
		}
		prog = progress.NewSpinner(stderr, tag)
	}

	opts := []rt.RendererOption{
		rt.WithWorkers(cfg.workers),
		rt.WithProgress(prog),
	}
	if flipH || flipV {
		opts = append(opts, rt.WithCoordTransform(rt.FlipTransform(flipH, flipV)))
	}
	r, err := rt.NewRenderer(cfg.width, cfg.height, opts...)
	if err != nil {
		return err
	}

	if enc == nil {
		return r.Render(out)
	}
	return writeImage(out, r.RenderFrame(), enc)
}

// parseFlip maps the -flip value to horizontal and vertical mirroring.
func parseFlip(s string) (horizontal, vertical bool, err error) {
	switch s {
	case "":
		return false, false, nil
	case "h":
		return true, false, nil
	case "v":
		return false, true, nil
	case "hv", "vh":
		return true, true, nil
	default:
		return false, false, fmt.Errorf("unknown -flip %q", s)
	}
}

// encoder writes an image.Image in some binary format.
type encoder func(io.Writer, image.Image) error

// encoderFor returns the encoder for format. PPM returns nil because the
// renderer streams it directly.
func encoderFor(format string) (encoder, error) {
	switch format {
	case "ppm":
		return nil, nil
	case "png":
		return png.Encode, nil
	case "bmp":
		return bmp.Encode, nil
	case "tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// convert decodes a PPM file and re-encodes it.
func convert(path string, out io.Writer, enc encoder) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := ppm.Decode(bufio.NewReader(f))
	if err != nil {
		return err
	}
	if enc == nil {
		return ppm.Encode(out, img)
	}
	return writeImage(out, img, enc)
}

func writeImage(out io.Writer, img image.Image, enc encoder) error {
	bw := bufio.NewWriter(out)
	if err := enc(bw, img); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return bw.Flush()
}
