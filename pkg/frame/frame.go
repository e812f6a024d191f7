package frame

import (
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
)

// SurfaceFrame is the global origin and rotation of one surface (spec.md
// §3).
type SurfaceFrame struct {
	Origin   optik.Vec3
	Rotation Mat3
}

// ToLocal transforms a global point into this frame's local coordinates.
func (f SurfaceFrame) ToLocal(p optik.Vec3) optik.Vec3 {
	return f.Rotation.ApplyInverse(p.Subtract(f.Origin))
}

// ToGlobal transforms a local point into global coordinates.
func (f SurfaceFrame) ToGlobal(p optik.Vec3) optik.Vec3 {
	return f.Rotation.Apply(p).Add(f.Origin)
}

// DirToLocal transforms a global direction into this frame's local
// coordinates (no translation).
func (f SurfaceFrame) DirToLocal(d optik.Vec3) optik.Vec3 {
	return f.Rotation.ApplyInverse(d)
}

// DirToGlobal transforms a local direction into global coordinates (no
// translation).
func (f SurfaceFrame) DirToGlobal(d optik.Vec3) optik.Vec3 {
	return f.Rotation.Apply(d)
}

// ComputeFrames computes frames[i] = {origin, rotation} for every surface
// in sys, in the global frame, rooted at frames[0] = (0, I) (spec.md
// §4.B).
//
// Transitioning from surface i to surface i+1: if surface i is a
// CoordBreak, its decenter+tilt transform is applied (composite order per
// Transform.Order); otherwise the frame advances along local +Z by
// surface i's Thickness. A Thickness of +Inf (valid only on the Object
// surface, spec.md §3) contributes no advance: there is no finite position
// to advance from, so the first physical surface starts at the running
// origin frames[0] is rooted at.
func ComputeFrames(sys surface.System) []SurfaceFrame {
	frames := make([]SurfaceFrame, len(sys.Surfaces))
	origin := optik.Vec3{}
	rotation := Identity3()
	if len(sys.Surfaces) == 0 {
		return frames
	}
	frames[0] = SurfaceFrame{Origin: origin, Rotation: rotation}

	for i := 1; i < len(sys.Surfaces); i++ {
		prev := sys.Surfaces[i-1]
		if prev.Kind == surface.CoordBreakKind {
			origin, rotation = applyCoordBreak(origin, rotation, prev.Transform)
		} else if !optik.IsInf(prev.Thickness) {
			origin = origin.Add(rotation.Apply(optik.NewVec3(0, 0, prev.Thickness)))
		}
		frames[i] = SurfaceFrame{Origin: origin, Rotation: rotation}
	}
	return frames
}

// applyCoordBreak applies one CoordBreak transform to the running
// (origin, rotation) pair per spec.md §4.B.
func applyCoordBreak(origin optik.Vec3, rotation Mat3, cb surface.CoordBreak) (optik.Vec3, Mat3) {
	switch cb.Order {
	case surface.DecenterThenTilt:
		origin = origin.Add(rotation.Apply(cb.Decenter))
		rotation = rotation.Mul(Rx(cb.Tilt.X)).Mul(Ry(cb.Tilt.Y)).Mul(Rz(cb.Tilt.Z))
	case surface.TiltThenDecenter:
		rotation = rotation.Mul(Rz(cb.Tilt.Z)).Mul(Ry(cb.Tilt.Y)).Mul(Rx(cb.Tilt.X))
		origin = origin.Add(rotation.Apply(cb.Decenter))
	}
	return origin, rotation
}

// PathIndexMap builds the surface_index -> path_index mapping spec.md
// §4.B calls "the canonical bridge between the two index spaces": it is
// just surface.System.PathIndex applied to every index, exposed here so
// consumers that only have Frames need not also thread the System through.
func PathIndexMap(sys surface.System) []int {
	m := make([]int, len(sys.Surfaces))
	for i := range sys.Surfaces {
		m[i] = sys.PathIndex(i)
	}
	return m
}
