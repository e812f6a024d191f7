// Package diagnostics defines the structured per-surface diagnostic event
// the Sequential Ray Tracer (pkg/tracer) emits when debug mode is enabled
// (spec.md §4.D / §9: "Debug-log scraping... becomes a structured
// DiagnosticEvent channel" rather than text grepping).
package diagnostics

import "github.com/optikcore/optikcore/pkg/optik"

// Kind classifies a diagnostic Event.
type Kind int

const (
	// Hit is a successful ray-surface intersection.
	Hit Kind = iota
	// ApertureBlocked is a ray that intersected the surface's sag but fell
	// outside its aperture.
	ApertureBlocked
	// Failure is any other intersector failure (grazing incidence, no
	// intersection, behind surface, total internal reflection, ...).
	Failure
)

func (k Kind) String() string {
	switch k {
	case Hit:
		return "Hit"
	case ApertureBlocked:
		return "ApertureBlocked"
	case Failure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// Event is one surface's worth of trace diagnostics.
type Event struct {
	SurfaceIndex int
	Kind         Kind
	Message      string

	// Populated for ApertureBlocked events.
	HitRadius float64
	Limit     float64

	// Populated for Hit events.
	Local    optik.Vec3
	Normal   optik.Vec3
	CosTheta float64
	N1, N2   float64
}
