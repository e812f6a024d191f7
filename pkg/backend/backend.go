// Package backend implements the Pluggable Numerics Backend contract
// (spec.md §4.I): an optional accelerated sag/batch-sag implementation,
// supplied per trace through tracer.Options.Backend, with automatic fallback to the
// in-language evaluator in pkg/surface whenever the backend is absent or
// returns a non-finite value.
package backend

import "math"

// Backend is the contract an accelerated numerics implementation must
// satisfy. Only even-mode aspheric profiles are covered (spec.md §4.I:
// "for even mode up to degree 22"); odd-mode and plane profiles always use
// the in-language path.
//
// Sag evaluates a single even-mode aspheric sag: curvature c = 1/R, conic
// k, and up to ten even coefficients a4..a22 (coefs[0] is the r^4 term).
// BatchSag evaluates the same profile at many radii at once, for the
// pooled evaluation spec.md §4.I calls for (e.g. a cross-beam's pupil
// samples, or a spot diagram's ray fan).
//
// Both return ok=false to signal "fall back": either the backend does not
// support this query, or it produced a non-finite result.
type Backend interface {
	Sag(r, curvature, conic float64, coefs []float64) (value float64, ok bool)
	BatchSag(radii []float64, curvature, conic float64, coefs []float64) (values []float64, ok bool)
}

// conicAndAsphere is the shared even-mode formula both backends below
// evaluate; kept here (not in pkg/surface) so this package has no
// dependency on pkg/surface and pkg/surface can depend on this package
// without a cycle.
func conicAndAsphere(r, curvature, conic float64, coefs []float64) float64 {
	if curvature == 0 {
		return evenAsphereOnly(r, coefs)
	}
	radius := 1 / curvature
	rr := r * r
	discriminant := 1 - (1+conic)*rr*curvature*curvature
	if discriminant < 0 {
		return math.NaN()
	}
	denom := math.Abs(radius) * (1 + math.Sqrt(discriminant))
	if denom == 0 {
		return math.NaN()
	}
	z := rr / denom
	if radius < 0 {
		z = -z
	}
	return z + evenAsphereOnly(r, coefs)
}

func evenAsphereOnly(r float64, coefs []float64) float64 {
	z := 0.0
	for i, c := range coefs {
		if c == 0 {
			continue
		}
		exp := float64(2 * (i + 2)) // r^4, r^6, ... matching surface.Even mode
		z += c * math.Pow(r, exp)
	}
	return z
}

// PureBackend evaluates the same formula pkg/surface uses, in plain Go.
// It is always available and always returns ok=true, acting as the
// terminal fallback; exposing it as a Backend value (rather than leaving
// the fallback implicit) lets Resolve and tests treat "no acceleration"
// uniformly with any other backend.
type PureBackend struct{}

func (PureBackend) Sag(r, curvature, conic float64, coefs []float64) (float64, bool) {
	v := conicAndAsphere(r, curvature, conic, coefs)
	return v, !math.IsNaN(v)
}

func (b PureBackend) BatchSag(radii []float64, curvature, conic float64, coefs []float64) ([]float64, bool) {
	out := make([]float64, len(radii))
	for i, r := range radii {
		v, ok := b.Sag(r, curvature, conic, coefs)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Resolve evaluates Sag through be if non-nil, falling back to PureBackend
// when be is nil, declines to answer, or returns a non-finite value
// (spec.md §4.I). unavailable is non-nil exactly when the fallback was
// used because an explicitly-requested backend failed (as opposed to no
// backend having been requested at all).
func Resolve(be Backend, r, curvature, conic float64, coefs []float64) (value float64, unavailable error) {
	if be != nil {
		v, ok := be.Sag(r, curvature, conic, coefs)
		if ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, nil
		}
		fallback, _ := PureBackend{}.Sag(r, curvature, conic, coefs)
		return fallback, &backendUnavailable{reason: "backend declined or returned non-finite value"}
	}
	v, _ := PureBackend{}.Sag(r, curvature, conic, coefs)
	return v, nil
}

type backendUnavailable struct{ reason string }

func (e *backendUnavailable) Error() string { return "numerics backend unavailable: " + e.reason }
