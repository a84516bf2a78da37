// Package rt provides the numeric foundation of a software ray tracer.
//
// # Overview
//
// rt has two value types and one pipeline:
//   - Vec3: a 3D float64 vector with the usual linear algebra
//   - Color: an RGB color quantized to integer channels
//   - Renderer: maps a pixel grid to colors and writes them as plain-text PPM
//
// # Quick Start
//
//	r, err := rt.NewRenderer(256, 256)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.Render(os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// # Coordinate System
//
// Pixels are scanned in row-major order:
//   - Row 0 is the top row, column 0 the left column
//   - u = i/(width-1) increases to the right
//   - v = j/(height-1) increases downward
//
// # Numeric Policy
//
// Vector algebra never guards its inputs. Dividing by zero, or taking the
// Unit of a zero vector, yields IEEE-754 infinities and NaNs. Indexing a
// vector component outside [0,2] panics. Color quantization does not clamp:
// intensities outside [0, 1) produce channels outside [0, 255].
//
// # Concurrency
//
// Vec3 and Color are plain values. A Renderer may compute rows on several
// goroutines (see WithWorkers) but always emits them in row-major order.
package rt

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
