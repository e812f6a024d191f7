package optik

import "fmt"

// Error taxonomy (spec.md §7): a closed set of structured values, not a
// hierarchy of error types. Each is a small comparable/loggable struct
// implementing error; callers discriminate with a type switch or
// errors.As, never by matching strings.

// --- Geometry ---

// InvalidSurfaceError is returned when a surface's own parameters are
// self-contradictory (e.g. AsphericProfile.Radius == 0).
type InvalidSurfaceError struct {
	SurfaceIndex int
	Reason       string
}

func (e *InvalidSurfaceError) Error() string {
	return fmt.Sprintf("surface %d: invalid surface: %s", e.SurfaceIndex, e.Reason)
}

// GrazingIncidenceError is returned when a ray's direction is parallel to a
// surface's local tangent plane, so the plane-seed Newton iteration has no
// seed.
type GrazingIncidenceError struct {
	SurfaceIndex int
}

func (e *GrazingIncidenceError) Error() string {
	return fmt.Sprintf("surface %d: grazing incidence, no plane seed", e.SurfaceIndex)
}

// NoIntersectionError is returned when the sag function is NaN across the
// whole valid range of t, i.e. the ray never meets the surface.
type NoIntersectionError struct {
	SurfaceIndex int
}

func (e *NoIntersectionError) Error() string {
	return fmt.Sprintf("surface %d: no intersection", e.SurfaceIndex)
}

// BehindSurfaceError is returned when the only roots found lie at t <= ε.
type BehindSurfaceError struct {
	SurfaceIndex int
}

func (e *BehindSurfaceError) Error() string {
	return fmt.Sprintf("surface %d: intersection behind ray origin", e.SurfaceIndex)
}

// --- Optics ---

// TotalInternalReflectionError is returned when Snell's law has no real
// solution (k < 0) at a refracting (non-mirror) surface.
type TotalInternalReflectionError struct {
	SurfaceIndex int
	CosTheta     float64
}

func (e *TotalInternalReflectionError) Error() string {
	return fmt.Sprintf("surface %d: total internal reflection (cosTheta=%.6g)", e.SurfaceIndex, e.CosTheta)
}

// ApertureShapeName identifies which ApertureShape variant blocked a ray,
// for diagnostics.
type ApertureShapeName string

const (
	ApertureCircular    ApertureShapeName = "circular"
	ApertureSquare      ApertureShapeName = "square"
	ApertureRectangular ApertureShapeName = "rectangular"
)

// ApertureBlockedError is returned when a hit point lies outside a
// surface's aperture.
type ApertureBlockedError struct {
	SurfaceIndex  int
	HitRadius     float64
	ApertureLimit float64
	Shape         ApertureShapeName
}

func (e *ApertureBlockedError) Error() string {
	return fmt.Sprintf("surface %d: hit radius %.6gmm > aperture limit %.6gmm (%s)",
		e.SurfaceIndex, e.HitRadius, e.ApertureLimit, e.Shape)
}

// --- Solver ---

// StopUnreachableError is returned when the chief-ray solver's coarse grid
// search (Stage 1) produces no successful trace to the stop, for a given
// object field.
type StopUnreachableError struct {
	ObjectIndex int
}

func (e *StopUnreachableError) Error() string {
	return fmt.Sprintf("object %d: stop unreachable from any grid sample", e.ObjectIndex)
}

// ConvergenceNotReachedError reports a solver stage that exhausted its
// iteration budget without meeting its convergence tolerance. It is a
// degraded-but-usable result, not a hard failure: the best estimate found
// is still returned alongside this error as a diagnostic.
type ConvergenceNotReachedError struct {
	Residual float64
	Iters    int
}

func (e *ConvergenceNotReachedError) Error() string {
	return fmt.Sprintf("convergence not reached: residual=%.6g after %d iterations", e.Residual, e.Iters)
}

// BracketNotFoundError is returned when Brent's method cannot find a
// sign-changing bracket even after expansion.
type BracketNotFoundError struct {
	Axis string
}

func (e *BracketNotFoundError) Error() string {
	return fmt.Sprintf("no sign-changing bracket found on axis %s", e.Axis)
}

// --- Configuration ---

// NoStopSurfaceError is returned when a system has no Stop surface.
type NoStopSurfaceError struct{}

func (e *NoStopSurfaceError) Error() string { return "system has no Stop surface" }

// BadThicknessError is returned when a thickness value is invalid (e.g.
// INF on a non-Object surface).
type BadThicknessError struct {
	SurfaceIndex int
	Reason       string
}

func (e *BadThicknessError) Error() string {
	return fmt.Sprintf("surface %d: bad thickness: %s", e.SurfaceIndex, e.Reason)
}

// BadCoordBreakError is returned when a CoordBreak transform is malformed
// (e.g. an unknown Order value).
type BadCoordBreakError struct {
	SurfaceIndex int
	Reason       string
}

func (e *BadCoordBreakError) Error() string {
	return fmt.Sprintf("surface %d: bad coordinate break: %s", e.SurfaceIndex, e.Reason)
}

// UnknownMaterialError is defined in material.go (it is raised by
// IndexFunc implementations as well as at ingest time).

// --- Runtime ---

// CancelledError is returned when a host-supplied cancellation token fires
// between rays.
type CancelledError struct{}

func (e *CancelledError) Error() string { return "cancelled" }

// BackendUnavailableError is a transparent diagnostic: the pluggable
// numerics backend was requested but is unavailable or returned a
// non-finite value, and the core fell back to the in-language
// implementation. It is reported, never returned as a hard failure.
type BackendUnavailableError struct {
	Reason string
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("numerics backend unavailable: %s", e.Reason)
}
