package solver

import "math"

// brent finds a root of f on [a,b] (which must bracket a sign change) via
// Brent's method (spec.md §4.E Stage 2). This is a validated, textbook
// implementation with the q=0 guard spec.md §9(c) calls out as missing
// from the original source ("Brent's secant/inverse-quadratic branch...
// does not guard against q = 0; re-derive or use a validated
// implementation") — the inverse-quadratic/secant step is skipped
// whenever its denominator would be zero, falling back to bisection for
// that iteration.
func brent(f func(float64) float64, a, b, tol float64, maxIter int) (root float64, ok bool) {
	fa, fb := f(a), f(b)
	if fa*fb > 0 {
		return 0, false
	}
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}
	c, fc := a, fa
	mflag := true
	var d float64

	for i := 0; i < maxIter; i++ {
		if fb == 0 || math.Abs(b-a) < tol {
			return b, true
		}

		var s float64
		if fa != fc && fb != fc {
			// Inverse quadratic interpolation.
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// Secant step; q=0 (fa==fb) would divide by zero, so fall back
			// to bisection instead of computing s.
			if fb == fa {
				s = (a + b) / 2
			} else {
				s = b - fb*(b-a)/(fb-fa)
			}
		}

		midLo := math.Min((3*a+b)/4, b)
		midHi := math.Max((3*a+b)/4, b)
		needBisect := s < midLo || s > midHi ||
			(mflag && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!mflag && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(mflag && math.Abs(b-c) < tol) ||
			(!mflag && math.Abs(c-d) < tol)

		if needBisect {
			s = (a + b) / 2
			mflag = true
		} else {
			mflag = false
		}

		fs := f(s)
		d = c
		c, fc = b, fb

		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}

		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	return b, true
}

// expandBracket doubles a symmetric bracket around x0 up to maxExpand
// times looking for a sign change in f (spec.md §4.E Stage 2: "bracket
// around grid best, expand up to 10x if sign does not change").
func expandBracket(f func(float64) float64, x0, initialHalf float64, maxExpand int) (lo, hi float64, ok bool) {
	half := initialHalf
	if half <= 0 {
		half = 1e-3
	}
	for i := 0; i < maxExpand; i++ {
		lo, hi = x0-half, x0+half
		if f(lo)*f(hi) <= 0 {
			return lo, hi, true
		}
		half *= 2
	}
	return 0, 0, false
}
