// Package surface holds the per-surface optical data model (aspheric
// profiles, apertures, coordinate breaks, surface variants) and the sag &
// normal evaluator (spec.md §4.A).
package surface

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/optikcore/optikcore/pkg/optik"
)

// AsphMode selects whether Coef holds even-power or odd-power aspheric
// terms (spec.md §3).
type AsphMode int

const (
	// Even uses Coef[i] at exponent 2(i+2): r^4, r^6, ... r^22.
	Even AsphMode = iota
	// Odd uses Coef[i] at exponent 2(i+1)+1: r^3, r^5, ... r^21.
	Odd
)

// NumCoef is the fixed coefficient count (spec.md: "up to ten even/odd
// aspheric coefficients").
const NumCoef = 10

// AsphericProfile describes a rotationally symmetric aspheric surface.
type AsphericProfile struct {
	Radius float64             // mm; +Inf/-Inf means plane (z ≡ 0)
	Conic  float64             // conic constant k
	Coef   [NumCoef]float64    // aspheric coefficients
	Mode   AsphMode
}

// IsPlane reports whether the profile degenerates to a flat plane.
func (p AsphericProfile) IsPlane() bool {
	return optik.IsInf(p.Radius)
}

// Validate checks the profile invariants from spec.md §3: radius==0 is
// invalid.
func (p AsphericProfile) Validate() error {
	if p.Radius == 0 {
		return &optik.InvalidSurfaceError{Reason: "radius must not be zero"}
	}
	return nil
}

// exponent returns the power of r that Coef[i] multiplies, per Mode.
func (p AsphericProfile) exponent(i int) float64 {
	if p.Mode == Even {
		return float64(2 * (i + 2)) // r^4 .. r^22
	}
	return float64(2*(i+1) + 1) // r^3 .. r^21
}

// conicSag evaluates the pure conic term r²/(R(1+√(1-(1+k)r²/R²))), with
// the sign convention negated for R<0 (spec.md §4.A). Returns (value, ok);
// ok is false on the TIR-geometry edge where the discriminant goes
// negative, signalling the ray missed the surface.
func (p AsphericProfile) conicSag(r float64) (float64, bool) {
	if p.IsPlane() {
		return 0, true
	}
	rr := r * r
	discriminant := 1 - (1+p.Conic)*rr/(p.Radius*p.Radius)
	if discriminant < 0 {
		return 0, false
	}
	denom := math.Abs(p.Radius) * (1 + math.Sqrt(discriminant))
	if denom == 0 {
		return 0, false
	}
	z := rr / denom
	if p.Radius < 0 {
		z = -z
	}
	return z, true
}

// Sag evaluates z(r) for the profile (spec.md §4.A). Returns NaN when the
// conic term's discriminant is negative ("TIR-geometry edge"); upper
// layers treat NaN as "the ray missed the surface."
func Sag(r float64, p AsphericProfile) float64 {
	z, ok := p.conicSag(r)
	if !ok {
		return math.NaN()
	}
	for i := 0; i < NumCoef; i++ {
		c := p.Coef[i]
		if c == 0 {
			continue
		}
		z += c * math.Pow(r, p.exponent(i))
	}
	return z
}

// DSagDR computes the derivative of Sag with respect to r by central
// finite differences with adaptive step h = 1e-6*max(1,|r|) (spec.md
// §4.A: "analytic derivative is not required; the intersector tolerates
// minor derivative noise"), using gonum's fd.Derivative rather than a
// hand-rolled central-difference stencil.
func DSagDR(r float64, p AsphericProfile) float64 {
	h := 1e-6 * math.Max(1, math.Abs(r))
	f := func(x float64) float64 { return Sag(x, p) }

	d := fd.Derivative(f, r, &fd.Settings{Formula: fd.Central, Step: h})
	if !math.IsNaN(d) {
		return d
	}

	// One-sided difference near the edge of the valid domain, where one
	// side of the central stencil falls outside the surface's real-valued
	// range.
	zPlus, zMinus, z0 := f(r+h), f(r-h), f(r)
	if !math.IsNaN(zPlus) {
		return (zPlus - z0) / h
	}
	if !math.IsNaN(zMinus) {
		return (z0 - zMinus) / h
	}
	return math.NaN()
}

// Normal computes the unit surface normal at local point (x,y,z) on a
// rotationally symmetric sag surface (spec.md §4.A):
// (-x·s'(r)/r, -y·s'(r)/r, 1), normalized, with the r=0 singularity taken
// as (0,0,1).
func Normal(x, y float64, p AsphericProfile) optik.Vec3 {
	r := math.Hypot(x, y)
	if r == 0 {
		return optik.NewVec3(0, 0, 1)
	}
	sPrime := DSagDR(r, p)
	n := optik.NewVec3(-x*sPrime/r, -y*sPrime/r, 1)
	return n.Normalize()
}
