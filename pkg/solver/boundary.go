package solver

import (
	"math"

	"github.com/optikcore/optikcore/pkg/backend"
	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
	"github.com/optikcore/optikcore/pkg/tracer"
)

const (
	boundaryTol          = 1e-3
	boundaryMaxIter      = 50
	entrancePupilMaxIter = 12
)

// ChiefBasis builds the orthonormal (e_u, e_v, d) basis perpendicular to
// the chief direction d (spec.md §4.F): helper = (0,0,1) unless
// |d.z|>0.95, in which case (0,1,0). Exported so pkg/beam can place
// boundary-offset rays using the same basis the search itself used.
func ChiefBasis(d optik.Vec3) (eu, ev optik.Vec3) {
	helper := optik.NewVec3(0, 0, 1)
	if math.Abs(d.Z) > 0.95 {
		helper = optik.NewVec3(0, 1, 0)
	}
	eu = helper.Cross(d).Normalize()
	ev = d.Cross(eu).Normalize()
	return eu, ev
}

// FindApertureBoundaries implements Component F (spec.md §4.F / §6
// find_aperture_boundaries).
//
// Stop mode (the default) offsets the point the ray crosses the stop
// plane — a ray is built by aiming from the chief emission at
// stop_center + s*(e_u*u + e_v*v) — and tests whether it still traces
// through to targetSurface. Entrance-pupil mode instead offsets the
// emission point itself on the plane perpendicular to the chief
// direction ("instead of searching on the stop..."), keeping the chief
// direction fixed; this is the mode an OPD/wavefront consumer wants,
// since it characterizes the pupil independent of where the stop
// actually sits.
func FindApertureBoundaries(sys surface.System, frames []frame.SurfaceFrame, chief ChiefSolution, wavelength float64, indexFn optik.IndexFunc, stopIndex int, mode BoundaryMode, targetSurface int, be backend.Backend) [4]BoundaryOffset {
	eu, ev := ChiefBasis(chief.Direction)
	stopRadius := sys.Surfaces[stopIndex].Aperture.Limit()
	stopCenter := frames[stopIndex].Origin

	var succeeds func(u, v float64) bool
	var maxIter int
	switch mode {
	case ModeEntrancePupil:
		succeeds = func(u, v float64) bool {
			pos := chief.EmissionPos.Add(eu.Multiply(u)).Add(ev.Multiply(v))
			ray := optik.NewRay(pos, chief.Direction, wavelength)
			res := tracer.Trace(sys, frames, ray, indexFn, tracer.Options{MaxSurface: targetSurface, Backend: be})
			return res.Err == nil
		}
		maxIter = entrancePupilMaxIter
	default: // ModeStop
		succeeds = func(u, v float64) bool {
			aim := stopCenter.Add(eu.Multiply(u)).Add(ev.Multiply(v))
			dir := aim.Subtract(chief.EmissionPos).Normalize()
			ray := optik.NewRay(chief.EmissionPos, dir, wavelength)
			res := tracer.Trace(sys, frames, ray, indexFn, tracer.Options{MaxSurface: targetSurface, Backend: be})
			return res.Err == nil
		}
		maxIter = boundaryMaxIter
	}

	var results [4]BoundaryOffset
	dirs := [4]BoundaryDirection{DirUp, DirDown, DirRight, DirLeft}
	for i, d := range dirs {
		u, v := d.uv()
		results[i] = searchDirection(d, u, v, succeeds, 2*stopRadius, maxIter)
	}
	return results
}

// searchDirection binary-searches the maximum offset s along (u,v) for
// which succeeds still traces through (spec.md §4.F): s=0 failing means
// no boundary exists in that direction; s=s_max still succeeding is
// "range-limited".
func searchDirection(d BoundaryDirection, u, v float64, succeeds func(u, v float64) bool, sMax float64, maxIter int) BoundaryOffset {
	if !succeeds(0, 0) {
		return BoundaryOffset{Direction: d, Err: &optik.BracketNotFoundError{Axis: d.String()}}
	}
	if succeeds(sMax*u, sMax*v) {
		return BoundaryOffset{Direction: d, Offset: sMax, RangeLimited: true}
	}

	lo, hi := 0.0, sMax
	for i := 0; i < maxIter && hi-lo > boundaryTol; i++ {
		mid := (lo + hi) / 2
		if succeeds(mid*u, mid*v) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return BoundaryOffset{Direction: d, Offset: lo}
}
