// Package intersect implements the Ray–Surface Intersector (spec.md
// §4.C): Newton root-finding in the sag frame with a bisection fallback,
// the aperture test, and the Snell's-law refraction/reflection step.
package intersect

import (
	"math"

	"github.com/optikcore/optikcore/pkg/backend"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
)

const (
	sagConvergeTol  = 1e-9  // mm; |f(t)| < this is Converged
	stepConvergeTol = 1e-11 // |Δt| < this is also Converged
	maxNewtonIters  = 40
	minValidT       = 1e-9 // t must exceed this to count as ahead of the ray origin
	grazingDirZTol  = 1e-12
)

// localRootState is the Ray–Surface Intersector state machine from
// spec.md §4.C: Start -> PlaneSeed -> NewtonIter(<=40) -> {Converged |
// Diverged -> BisectionFallback -> {Converged | NoIntersection}}.
type localRootState int

const (
	stateConverged localRootState = iota
	stateNoIntersection
	stateBehindSurface
)

// evalSag evaluates the profile's sag at r, routing even-mode, non-plane
// profiles through backend.Resolve (Component I, spec.md §4.I) so an
// accelerated Backend actually intercepts the intersector's hot loop; odd
// -mode and plane profiles always take the in-language path, per the
// backend's documented even-mode-only contract.
func evalSag(be backend.Backend, r float64, profile surface.AsphericProfile) float64 {
	if profile.Mode != surface.Even || profile.IsPlane() {
		return surface.Sag(r, profile)
	}
	coefs := profile.Coef
	v, _ := backend.Resolve(be, r, 1/profile.Radius, profile.Conic, coefs[:])
	return v
}

// sagResidual evaluates f(t) = z_local(t) - sag(r(t)) for a ray given in
// local coordinates. ok is false where sag is NaN (ray misses the
// surface's real-valued domain at this t).
func sagResidual(pos, dir optik.Vec3, t float64, profile surface.AsphericProfile, be backend.Backend) (val float64, x, y, z float64, ok bool) {
	x = pos.X + t*dir.X
	y = pos.Y + t*dir.Y
	z = pos.Z + t*dir.Z
	r := math.Hypot(x, y)
	s := evalSag(be, r, profile)
	if math.IsNaN(s) {
		return 0, x, y, z, false
	}
	return z - s, x, y, z, true
}

// findRootT finds t such that sagResidual(t) == 0, t > minValidT, via
// Newton iteration guarded by a bisection fallback (spec.md §4.C).
func findRootT(pos, dir optik.Vec3, profile surface.AsphericProfile, be backend.Backend) (t float64, state localRootState) {
	if math.Abs(dir.Z) < grazingDirZTol {
		return 0, stateNoIntersection // caller distinguishes GrazingIncidence before calling this
	}

	t = -pos.Z / dir.Z // plane seed

	var tLo, tHi float64
	var fLo, fHi float64
	haveBracket := false
	haveBehindRoot := false

	prevT, prevF, havePrevF := t, 0.0, false
	sawAnyValidSample := false

	for iter := 0; iter < maxNewtonIters; iter++ {
		val, _, _, _, ok := sagResidual(pos, dir, t, profile, be)
		if !ok {
			// NaN sag: no real surface at this t. If we have a bracket,
			// retreat toward its midpoint; otherwise step back toward the
			// previous valid sample.
			if haveBracket {
				t = (tLo + tHi) / 2
			} else if havePrevF {
				t = (t + prevT) / 2
			} else {
				// No valid sample has been seen yet: widen the search
				// around the seed.
				t = t / 2
				if t == 0 {
					break
				}
			}
			continue
		}
		sawAnyValidSample = true

		if math.Abs(val) < sagConvergeTol {
			if t > minValidT {
				return t, stateConverged
			}
			haveBehindRoot = true
			break
		}

		if havePrevF && (prevF < 0) != (val < 0) {
			if prevT < t {
				tLo, tHi, fLo, fHi = prevT, t, prevF, val
			} else {
				tLo, tHi, fLo, fHi = t, prevT, val, prevF
			}
			haveBracket = true
		}

		h := 1e-6 * math.Max(1, math.Abs(t))
		fPlus, _, _, _, okPlus := sagResidual(pos, dir, t+h, profile, be)
		fMinus, _, _, _, okMinus := sagResidual(pos, dir, t-h, profile, be)

		var derivative float64
		haveDerivative := false
		switch {
		case okPlus && okMinus:
			derivative = (fPlus - fMinus) / (2 * h)
			haveDerivative = true
		case okPlus:
			derivative = (fPlus - val) / h
			haveDerivative = true
		case okMinus:
			derivative = (val - fMinus) / h
			haveDerivative = true
		}

		var next float64
		tookNewton := false
		if haveDerivative && math.Abs(derivative) > 1e-14 {
			candidate := t - val/derivative
			inBracket := !haveBracket || (candidate >= math.Min(tLo, tHi) && candidate <= math.Max(tLo, tHi))
			if inBracket && !math.IsNaN(candidate) {
				next = candidate
				tookNewton = true
			}
		}
		if !tookNewton {
			if haveBracket {
				next = (tLo + tHi) / 2
			} else {
				next = t + h*1e5 // nudge forward to hunt for a sign change
			}
		}

		if math.Abs(next-t) < stepConvergeTol {
			finalVal, _, _, _, finalOK := sagResidual(pos, dir, next, profile, be)
			if finalOK && next > minValidT {
				return next, stateConverged
			}
			if finalOK && next <= minValidT {
				haveBehindRoot = true
			}
			break
		}

		prevT, prevF, havePrevF = t, val, true
		t = next
		_ = fLo
		_ = fHi
	}

	if haveBehindRoot {
		return 0, stateBehindSurface
	}
	if !sawAnyValidSample {
		return 0, stateNoIntersection
	}
	if haveBracket && tHi <= minValidT {
		return 0, stateBehindSurface
	}
	return 0, stateNoIntersection
}
