package surface

import (
	"math"

	"github.com/optikcore/optikcore/pkg/optik"
)

// ApertureKind enumerates ApertureShape variants (spec.md §3).
type ApertureKind int

const (
	Circular ApertureKind = iota
	Square
	Rectangular
)

// ApertureShape is the enumerated aperture variant. Square apertures are
// represented with Width==Height (spec.md §6: "Square uses
// side=width=height").
type ApertureShape struct {
	Kind   ApertureKind
	Semidia float64 // Circular
	Width   float64 // Square, Rectangular
	Height  float64 // Rectangular (Square mirrors Width)
}

// NewCircularAperture builds a circular aperture of the given semi-diameter.
func NewCircularAperture(semidia float64) ApertureShape {
	return ApertureShape{Kind: Circular, Semidia: semidia}
}

// NewSquareAperture builds a square aperture of the given side length.
func NewSquareAperture(side float64) ApertureShape {
	return ApertureShape{Kind: Square, Width: side, Height: side}
}

// NewRectangularAperture builds a rectangular aperture.
func NewRectangularAperture(width, height float64) ApertureShape {
	return ApertureShape{Kind: Rectangular, Width: width, Height: height}
}

// Limit returns a single characteristic radius used for diagnostics and for
// sizing the chief-solver grid search and boundary-search step (spec.md
// §4.F: "stop_radius").
func (a ApertureShape) Limit() float64 {
	switch a.Kind {
	case Circular:
		return a.Semidia
	case Square:
		return a.Width / 2
	case Rectangular:
		return math.Max(a.Width, a.Height) / 2
	default:
		return 0
	}
}

// shapeName maps the Kind to the taxonomy's diagnostic name.
func (a ApertureShape) shapeName() optik.ApertureShapeName {
	switch a.Kind {
	case Circular:
		return optik.ApertureCircular
	case Square:
		return optik.ApertureSquare
	default:
		return optik.ApertureRectangular
	}
}

// Test checks local (x,y) against the aperture shape (spec.md §4.C).
// limit is the limit value to report in an ApertureBlockedError.
func (a ApertureShape) Test(x, y float64) (ok bool, hitRadius, limit float64, shapeName optik.ApertureShapeName) {
	shapeName = a.shapeName()
	switch a.Kind {
	case Circular:
		hitRadius = math.Hypot(x, y)
		limit = a.Semidia
		return hitRadius <= a.Semidia, hitRadius, limit, shapeName
	case Square:
		hitRadius = math.Max(math.Abs(x), math.Abs(y))
		limit = a.Width / 2
		return math.Abs(x) <= limit && math.Abs(y) <= limit, hitRadius, limit, shapeName
	case Rectangular:
		limit = math.Max(a.Width, a.Height) / 2
		okX := math.Abs(x) <= a.Width/2
		okY := math.Abs(y) <= a.Height/2
		hitRadius = math.Hypot(x/a.Width*2, y/a.Height*2) * limit
		return okX && okY, hitRadius, limit, shapeName
	default:
		return true, 0, 0, shapeName
	}
}
