package solver

import (
	"math"

	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
	"github.com/optikcore/optikcore/pkg/tracer"
)

// emitter turns the solver's two free parameters (u,v) into a concrete
// (pos, dir) ray for one of the two object-field regimes (spec.md §4.E).
// Finite objects fix pos and vary direction; infinite objects fix
// direction and vary pos on the z0 plane. Expressing both regimes as one
// (u,v) -> (pos,dir) map lets Stage 0-3 share a single implementation.
type emitter struct {
	emit func(u, v float64) (pos, dir optik.Vec3)
}

func newFiniteEmitter(objectPos optik.Vec3, zRef float64) emitter {
	return emitter{emit: func(u, v float64) (optik.Vec3, optik.Vec3) {
		target := optik.NewVec3(u, v, zRef)
		dir := target.Subtract(objectPos).Normalize()
		return objectPos, dir
	}}
}

func newInfiniteEmitter(dir optik.Vec3, z0 float64) emitter {
	return emitter{emit: func(u, v float64) (optik.Vec3, optik.Vec3) {
		return optik.NewVec3(u, v, z0), dir
	}}
}

// infiniteDirection converts field angles (degrees) to a unit direction
// (spec.md §4.E): dir = (sin ax cos ay, sin ay cos ax, cos ax cos ay).
func infiniteDirection(alphaXDeg, alphaYDeg float64) optik.Vec3 {
	ax := alphaXDeg * math.Pi / 180
	ay := alphaYDeg * math.Pi / 180
	return optik.NewVec3(
		math.Sin(ax)*math.Cos(ay),
		math.Sin(ay)*math.Cos(ax),
		math.Cos(ax)*math.Cos(ay),
	).Normalize()
}

// SolveChief solves for the chief ray of objectIndex's field (spec.md
// §4.E / §6 solve_chief). stopIndex must name the system's Stop surface
// (surface.System.StopIndex()).
func SolveChief(sys surface.System, frames []frame.SurfaceFrame, field ObjectField, wavelength float64, indexFn optik.IndexFunc, stopIndex, objectIndex int, opts Options) ChiefSolution {
	logger := optik.OrNop(opts.Logger)
	stopCenter := frames[stopIndex].Origin
	stopRadius := sys.Surfaces[stopIndex].Aperture.Limit()

	var em emitter
	if field.Infinite {
		dir := infiniteDirection(field.AlphaX, field.AlphaY)
		em = newInfiniteEmitter(dir, opts.z0())
	} else {
		objectPos := optik.NewVec3(field.X, field.Y, frames[0].Origin.Z)
		em = newFiniteEmitter(objectPos, stopCenter.Z)
	}

	trace := func(u, v float64) (x, y float64, ok bool, err error) {
		pos, dir := em.emit(u, v)
		ray := optik.NewRay(pos, dir, wavelength)
		res := tracer.Trace(sys, frames, ray, indexFn, tracer.Options{MaxSurface: stopIndex, Backend: opts.Backend})
		if res.Err != nil || len(res.Hits) == 0 {
			if res.Err != nil {
				return 0, 0, false, res.Err
			}
			return 0, 0, false, nil
		}
		last := res.Hits[len(res.Hits)-1]
		return last.Local.X, last.Local.Y, true, nil
	}

	// Stage 0: geometric seed.
	x0, y0 := geometricSeed(em, stopCenter, opts.z0(), field.Infinite)

	// Stage 1: coarse grid search.
	gridSize := opts.gridSize()
	halfWidth := math.Max(50, math.Abs(x0)+math.Abs(y0)+2*stopRadius+10)
	bestX, bestY, bestResidual, found := gridSearch(trace, x0, y0, halfWidth, gridSize)
	if !found {
		logger.Printf("solve_chief: object %d stop unreachable from grid\n", objectIndex)
		return ChiefSolution{Warning: &optik.StopUnreachableError{ObjectIndex: objectIndex}}
	}
	solution := ChiefSolution{Residual: bestResidual, Method: MethodGridOnly}

	// Stage 2: per-axis Brent refinement.
	step := 2 * halfWidth / float64(gridSize-1)
	brentX, brentY, brentResidual, brentOK := brentRefine(trace, bestX, bestY, step)
	if brentOK && brentResidual <= solution.Residual {
		bestX, bestY, bestResidual = brentX, brentY, brentResidual
		solution.Method = MethodGridBrent
		solution.Residual = bestResidual
	} else if !brentOK {
		solution.Warning = &optik.BracketNotFoundError{Axis: "x-or-y"}
	}

	// Stage 3: local polish.
	polishX, polishY, polishResidual := polish(trace, bestX, bestY, bestResidual)
	if polishResidual <= bestResidual {
		bestX, bestY, bestResidual = polishX, polishY, polishResidual
		if solution.Method != MethodGridOnly {
			solution.Method = MethodGridBrentPolish
		}
		solution.Residual = bestResidual
	}

	pos, dir := em.emit(bestX, bestY)
	solution.EmissionPos = pos
	solution.Direction = dir
	solution.Residual = bestResidual
	solution.Quality = qualityOf(bestResidual)
	return solution
}

// geometricSeed computes Stage 0's straight-line guess (spec.md §4.E).
func geometricSeed(em emitter, stopCenter optik.Vec3, z0 float64, infinite bool) (x0, y0 float64) {
	// Evaluate the emitter's own direction at the origin to get a
	// representative dir for the straight-line projection.
	pos, dir := em.emit(0, 0)
	if dir.Z == 0 {
		return 0, 0
	}
	if infinite {
		x0 = stopCenter.X - (dir.X/dir.Z)*(stopCenter.Z-z0)
		y0 = stopCenter.Y - (dir.Y/dir.Z)*(stopCenter.Z-z0)
		return x0, y0
	}
	dir0 := stopCenter.Subtract(pos).Normalize()
	if dir0.Z == 0 {
		return pos.X, pos.Y
	}
	zRef := stopCenter.Z
	t := (zRef - pos.Z) / dir0.Z
	x0 = pos.X + t*dir0.X
	y0 = pos.Y + t*dir0.Y
	return x0, y0
}

type traceFn func(u, v float64) (x, y float64, ok bool, err error)

// gridSearch evaluates trace on an N x N grid centered at (x0,y0) and
// returns the minimum-residual sample (spec.md §4.E Stage 1).
func gridSearch(trace traceFn, x0, y0, halfWidth float64, n int) (bestX, bestY, bestResidual float64, found bool) {
	bestResidual = math.Inf(1)
	step := 2 * halfWidth / float64(n-1)
	for i := 0; i < n; i++ {
		u := x0 - halfWidth + float64(i)*step
		for j := 0; j < n; j++ {
			v := y0 - halfWidth + float64(j)*step
			x, y, ok, _ := trace(u, v)
			if !ok {
				continue
			}
			r := residual(x, y)
			if r < bestResidual {
				bestResidual, bestX, bestY, found = r, u, v, true
			}
		}
	}
	return bestX, bestY, bestResidual, found
}

// brentRefine runs the per-axis Brent stage: f_x(x) at fixed y, then
// f_y(y) at the refined x (spec.md §4.E Stage 2).
func brentRefine(trace traceFn, x0, y0, gridStep float64) (x, y, res float64, ok bool) {
	const tol = 1e-8
	const maxIter = 100
	const maxExpand = 10

	fx := func(u float64) float64 {
		px, _, pok, _ := trace(u, y0)
		if !pok {
			return math.NaN()
		}
		return px
	}
	lo, hi, bracketed := expandBracket(fx, x0, gridStep, maxExpand)
	if !bracketed {
		return x0, y0, math.Inf(1), false
	}
	xStar, _ := brent(fx, lo, hi, tol, maxIter)

	fy := func(v float64) float64 {
		_, py, pok, _ := trace(xStar, v)
		if !pok {
			return math.NaN()
		}
		return py
	}
	lo2, hi2, bracketed2 := expandBracket(fy, y0, gridStep, maxExpand)
	if !bracketed2 {
		return x0, y0, math.Inf(1), false
	}
	yStar, _ := brent(fy, lo2, hi2, tol, maxIter)

	px, py, pok, _ := trace(xStar, yStar)
	if !pok {
		return x0, y0, math.Inf(1), false
	}
	return xStar, yStar, residual(px, py), true
}

// polish runs Stage 3's alternating micro-search (spec.md §4.E Stage 3).
func polish(trace traceFn, x0, y0, res0 float64) (x, y, res float64) {
	const outerIters = 100
	const innerSteps = 25
	x, y, res = x0, y0, res0

	for iter := 0; iter < outerIters; iter++ {
		rng := polishRange(res)
		var improved bool
		var nx, ny, nres float64
		if iter%2 == 0 {
			nx, nres, improved = lineSearch(func(u float64) (float64, bool, float64, float64) {
				px, py, ok, _ := trace(u, y)
				return residual(px, py), ok, px, py
			}, x, rng, innerSteps)
			ny = y
		} else {
			ny, nres, improved = lineSearch(func(v float64) (float64, bool, float64, float64) {
				px, py, ok, _ := trace(x, v)
				return residual(px, py), ok, px, py
			}, y, rng, innerSteps)
			nx = x
		}
		if !improved || nres >= res {
			break
		}
		dResidual := res - nres
		dx, dy := math.Abs(nx-x), math.Abs(ny-y)
		x, y, res = nx, ny, nres
		if dResidual < 1e-12 || (dx < 1e-12 && dy < 1e-12) {
			break
		}
	}
	return x, y, res
}

// polishRange picks the adaptive search half-range from the current
// residual tier (spec.md §4.E Stage 3 / §9 "adaptive polish").
func polishRange(res float64) float64 {
	switch {
	case res > 0.1:
		return 0.05
	case res > 0.01:
		return 0.02
	default:
		return 0.005
	}
}

// lineSearch samples n points across [center-rng, center+rng] on one
// axis, via the caller-provided evaluator, and returns the best.
func lineSearch(eval func(p float64) (res float64, ok bool, x, y float64), center, rng float64, n int) (best float64, bestRes float64, found bool) {
	bestRes = math.Inf(1)
	step := 2 * rng / float64(n-1)
	for i := 0; i < n; i++ {
		p := center - rng + float64(i)*step
		r, ok, _, _ := eval(p)
		if !ok {
			continue
		}
		if r < bestRes {
			bestRes, best, found = r, p, true
		}
	}
	return best, bestRes, found
}
