// Package solver implements the Chief-Ray Solver (spec.md §4.E) and the
// Aperture-Boundary Search (spec.md §4.F): the two-level numerical search
// that turns an object field into a chief ray and a set of boundary
// marginal-ray offsets.
package solver

import (
	"math"

	"github.com/optikcore/optikcore/pkg/backend"
	"github.com/optikcore/optikcore/pkg/optik"
)

// ObjectField is a source specification: either a finite object point
// (x,y) on the Object surface, or a pair of field angles for an infinite
// conjugate (spec.md §4.E).
type ObjectField struct {
	Infinite       bool
	X, Y           float64 // finite conjugate: the object point, mm
	AlphaX, AlphaY float64 // infinite conjugate: field angles, degrees
}

// Method records which solver stage produced the final ChiefSolution
// (spec.md §7: "every fallback to a coarser method is tagged on the
// returned method field").
type Method int

const (
	MethodGridOnly Method = iota
	MethodGridBrent
	MethodGridBrentPolish
)

func (m Method) String() string {
	switch m {
	case MethodGridOnly:
		return "grid_only"
	case MethodGridBrent:
		return "grid-brent-hybrid"
	case MethodGridBrentPolish:
		return "grid-brent-polish"
	default:
		return "unknown"
	}
}

// Quality buckets a ChiefSolution's residual for reporting (spec.md §4.E).
type Quality int

const (
	QualityExcellent Quality = iota
	QualityGood
	QualityNeedsWork
	QualityPoor
)

func (q Quality) String() string {
	switch q {
	case QualityExcellent:
		return "Excellent"
	case QualityGood:
		return "Good"
	case QualityNeedsWork:
		return "NeedsWork"
	default:
		return "Poor"
	}
}

// qualityOf buckets a residual in mm. spec.md §4.E lists four tiers
// ("<1μm Excellent, <10μm Excellent, <100μm Good, <1mm NeedsWork, else
// Poor"); the first two collapse to one boundary since both report
// Excellent.
func qualityOf(residual float64) Quality {
	switch {
	case residual < 0.01: // < 10 micrometers (also covers < 1 micrometer)
		return QualityExcellent
	case residual < 0.1: // < 100 micrometers
		return QualityGood
	case residual < 1: // < 1 millimeter
		return QualityNeedsWork
	default:
		return QualityPoor
	}
}

// ChiefSolution is the result of solving for an object field's chief ray
// (spec.md §3).
type ChiefSolution struct {
	EmissionPos optik.Vec3
	Direction   optik.Vec3
	Residual    float64 // mm, distance from stop hit to stop center
	Method      Method
	Quality     Quality
	// Warning is non-nil when a stage degraded (e.g. Brent could not
	// bracket and the grid best was kept), or when the object failed
	// outright because the grid search never reached the stop
	// (StopUnreachableError, with every other field left zero).
	Warning error
}

// Options configures a chief solve (spec.md §9: "z0... should be treated
// as a configurable solver parameter, not hardcoded").
type Options struct {
	Z0         float64 // mm, global z of the infinite-object emission plane; default -25
	GridSize   int     // default 51
	Logger     optik.Logger
	Backend    backend.Backend
}

func (o Options) z0() float64 {
	if o.Z0 == 0 {
		return -25
	}
	return o.Z0
}

func (o Options) gridSize() int {
	if o.GridSize <= 0 {
		return 51
	}
	return o.GridSize
}

// BoundaryMode selects where the Aperture-Boundary Search probes
// (spec.md §4.F).
type BoundaryMode int

const (
	// ModeStop searches directly on the Stop surface.
	ModeStop BoundaryMode = iota
	// ModeEntrancePupil searches on a plane through the chief emission
	// perpendicular to the chief direction.
	ModeEntrancePupil
)

// BoundaryDirection names the four probed directions (spec.md §4.F).
type BoundaryDirection int

const (
	DirUp BoundaryDirection = iota
	DirDown
	DirRight
	DirLeft
)

// UV returns the unit (u,v) pair this direction scales along the chief's
// (e_u,e_v) basis — exported so pkg/beam can place boundary rays without
// duplicating the direction table.
func (d BoundaryDirection) UV() (u, v float64) {
	return d.uv()
}

func (d BoundaryDirection) uv() (u, v float64) {
	switch d {
	case DirUp:
		return 0, 1
	case DirDown:
		return 0, -1
	case DirRight:
		return 1, 0
	default:
		return -1, 0
	}
}

func (d BoundaryDirection) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirRight:
		return "right"
	default:
		return "left"
	}
}

// BoundaryOffset is one probed direction's result.
type BoundaryOffset struct {
	Direction    BoundaryDirection
	Offset       float64 // mm along (e_u,e_v); 0 if Err != nil
	RangeLimited bool    // s reached s_max and still succeeded
	Err          error
}

func residual(x, y float64) float64 {
	return math.Hypot(x, y)
}
