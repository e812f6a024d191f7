// Package beam implements the Cross-Beam Generator (spec.md §4.G):
// composing chief + boundary + intermediate rays for one object field.
package beam

import (
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/solver"
)

// Role tags each ray in a CrossBeam (spec.md §3 CrossBeam.ray_roles).
type Role int

const (
	RoleChief Role = iota
	RoleUpperMarginal
	RoleLowerMarginal
	RoleLeftMarginal
	RoleRightMarginal
	RoleVerticalCross
	RoleHorizontalCross
)

func (r Role) String() string {
	switch r {
	case RoleChief:
		return "Chief"
	case RoleUpperMarginal:
		return "UpperMarginal"
	case RoleLowerMarginal:
		return "LowerMarginal"
	case RoleLeftMarginal:
		return "LeftMarginal"
	case RoleRightMarginal:
		return "RightMarginal"
	case RoleVerticalCross:
		return "VerticalCross"
	case RoleHorizontalCross:
		return "HorizontalCross"
	default:
		return "Unknown"
	}
}

// CrossType selects which bundles generate_cross_beam emits (spec.md
// §4.G).
type CrossType int

const (
	CrossBoth CrossType = iota
	CrossVertical
	CrossHorizontal
)

// Options configures one generate_cross_beam call (spec.md §6
// generate_cross_beam options).
type Options struct {
	RayCount      int // >= 3
	CrossType     CrossType
	PupilMode     solver.BoundaryMode
	TargetSurface int
}

// TaggedRay pairs a generated Ray with its Role, for downstream plotting
// and the Spot Aggregator (spec.md §4.H: "Classify points by Role").
type TaggedRay struct {
	Ray  optik.Ray
	Role Role
}

// CrossBeam is the composed bundle for one object field (spec.md §3).
type CrossBeam struct {
	ObjectIndex int
	ObjectField solver.ObjectField
	Chief       solver.ChiefSolution
	Rays        []TaggedRay
}

// Generate implements Component G / §6 generate_cross_beam: compose the
// chief ray, the four boundary marginals, and linearly interpolated
// intermediate rays into one CrossBeam. Boundaries whose search failed
// (spec.md "Boundary behaviors": "CrossBeam omits only that ray") are
// silently dropped rather than failing the whole object.
func Generate(objectIndex int, field solver.ObjectField, chief solver.ChiefSolution, boundaries [4]solver.BoundaryOffset, wavelength float64, opts Options) CrossBeam {
	if opts.RayCount < 3 {
		opts.RayCount = 3
	}
	cb := CrossBeam{ObjectIndex: objectIndex, ObjectField: field, Chief: chief}
	cb.Rays = append(cb.Rays, TaggedRay{Ray: optik.NewRay(chief.EmissionPos, chief.Direction, wavelength), Role: RoleChief})

	byDir := map[solver.BoundaryDirection]solver.BoundaryOffset{}
	for _, b := range boundaries {
		byDir[b.Direction] = b
	}

	if opts.CrossType == CrossBoth || opts.CrossType == CrossVertical {
		cb.appendBundle(byDir[solver.DirUp], byDir[solver.DirDown], RoleUpperMarginal, RoleLowerMarginal, RoleVerticalCross, wavelength, opts.RayCount)
	}
	if opts.CrossType == CrossBoth || opts.CrossType == CrossHorizontal {
		cb.appendBundle(byDir[solver.DirRight], byDir[solver.DirLeft], RoleRightMarginal, RoleLeftMarginal, RoleHorizontalCross, wavelength, opts.RayCount)
	}
	return cb
}

// appendBundle emits one axis's bundle: the two marginal endpoints (if
// their boundary search succeeded), plus floor(rayCount/2)-2 intermediate
// rays linearly interpolated in 3-D position between them, all sharing
// the chief direction and wavelength (spec.md §4.G).
func (cb *CrossBeam) appendBundle(pos, neg solver.BoundaryOffset, posRole, negRole, crossRole Role, wavelength float64, rayCount int) {
	basisPos, okPos := cb.boundaryPoint(pos)
	basisNeg, okNeg := cb.boundaryPoint(neg)

	if okPos {
		cb.Rays = append(cb.Rays, TaggedRay{Ray: optik.NewRay(basisPos, cb.Chief.Direction, wavelength), Role: posRole})
	}
	if okNeg {
		cb.Rays = append(cb.Rays, TaggedRay{Ray: optik.NewRay(basisNeg, cb.Chief.Direction, wavelength), Role: negRole})
	}
	if !okPos || !okNeg {
		return // spec.md: omit only the failed ray(s), not the whole bundle
	}

	n := rayCount/2 - 2
	for i := 1; i <= n; i++ {
		frac := float64(i) / float64(n+1)
		p := lerp(basisNeg, basisPos, frac)
		cb.Rays = append(cb.Rays, TaggedRay{Ray: optik.NewRay(p, cb.Chief.Direction, wavelength), Role: crossRole})
	}
}

// boundaryPoint converts a BoundaryOffset into a 3-D emission point along
// the chief's own (e_u,e_v) basis.
func (cb *CrossBeam) boundaryPoint(b solver.BoundaryOffset) (optik.Vec3, bool) {
	if b.Err != nil {
		return optik.Vec3{}, false
	}
	eu, ev := solver.ChiefBasis(cb.Chief.Direction)
	u, v := b.Direction.UV()
	offset := eu.Multiply(u * b.Offset).Add(ev.Multiply(v * b.Offset))
	return cb.Chief.EmissionPos.Add(offset), true
}

func lerp(a, b optik.Vec3, t float64) optik.Vec3 {
	return a.Add(b.Subtract(a).Multiply(t))
}
