package intersect

import (
	"math"

	"github.com/optikcore/optikcore/pkg/backend"
	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
)

// Hit records the outcome of a single successful ray-surface intersection,
// for diagnostics and downstream consumers (spec.md §4.D diagnostics log).
type Hit struct {
	SurfaceIndex int
	T            float64
	Local        optik.Vec3 // local (x,y,z)
	Global       optik.Vec3
	LocalNormal  optik.Vec3
	GlobalNormal optik.Vec3
	CosTheta     float64
	N1, N2       float64
}

// Result is the outcome of Intersect: either a successful Hit with the
// outgoing ray, or one of the structured errors from spec.md §7.
type Result struct {
	Hit     Hit
	OutRay  optik.Ray
	Ok      bool
	Err     error
}

// Intersect transforms ray into fr's local frame, root-finds the surface
// hit, applies the aperture test, and — for refracting surface kinds —
// the Snell's-law refraction/reflection step (spec.md §4.C). prevMaterial
// is the material the ray is currently travelling through. be is the
// optional accelerated numerics backend (Component I, spec.md §4.I); nil
// takes the in-language sag path unconditionally.
func Intersect(ray optik.Ray, prevMaterial optik.Material, surf surface.Surface, fr frame.SurfaceFrame, indexFn optik.IndexFunc, surfaceIndex int, be backend.Backend) Result {
	localPos := fr.ToLocal(ray.Pos)
	localDir := fr.DirToLocal(ray.Dir)

	if math.Abs(localDir.Z) < grazingDirZTol {
		return Result{Err: &optik.GrazingIncidenceError{SurfaceIndex: surfaceIndex}}
	}

	t, state := findRootT(localPos, localDir, surf.Profile, be)
	switch state {
	case stateNoIntersection:
		return Result{Err: &optik.NoIntersectionError{SurfaceIndex: surfaceIndex}}
	case stateBehindSurface:
		return Result{Err: &optik.BehindSurfaceError{SurfaceIndex: surfaceIndex}}
	}

	_, x, y, z, ok := sagResidual(localPos, localDir, t, surf.Profile, be)
	if !ok {
		return Result{Err: &optik.NoIntersectionError{SurfaceIndex: surfaceIndex}}
	}
	localPoint := optik.NewVec3(x, y, z)

	apOK, hitRadius, limit, shapeName := surf.Aperture.Test(x, y)
	if !apOK {
		return Result{Err: &optik.ApertureBlockedError{
			SurfaceIndex:  surfaceIndex,
			HitRadius:     hitRadius,
			ApertureLimit: limit,
			Shape:         shapeName,
		}}
	}

	localNormal := surface.Normal(x, y, surf.Profile)
	globalPoint := fr.ToGlobal(localPoint)
	globalNormal := fr.DirToGlobal(localNormal).Normalize()

	hit := Hit{
		SurfaceIndex: surfaceIndex,
		T:            t,
		Local:        localPoint,
		Global:       globalPoint,
		LocalNormal:  localNormal,
		GlobalNormal: globalNormal,
	}

	if !surf.Refracts() {
		// Image (or any other non-refracting drawable surface): the ray
		// terminates here in practice, but report an unchanged direction
		// so callers that keep tracing past it (e.g. with max_surface)
		// see a sane state.
		return Result{Hit: hit, OutRay: optik.NewRay(globalPoint, ray.Dir, ray.Wavelength), Ok: true}
	}

	outDir, cosTheta, n1, n2, err := refract(ray.Dir, globalNormal, prevMaterial, surf, ray.Wavelength, indexFn, surfaceIndex)
	if err != nil {
		return Result{Hit: hit, Err: err}
	}
	hit.CosTheta = cosTheta
	hit.N1 = n1
	hit.N2 = n2

	return Result{Hit: hit, OutRay: optik.NewRay(globalPoint, outDir, ray.Wavelength), Ok: true}
}

// refract implements the vector Snell's law step from spec.md §4.C,
// including the mirror sign-flip convention (n2 = -n1) and total-internal
// -reflection detection.
func refract(dir, normal optik.Vec3, prevMaterial optik.Material, surf surface.Surface, wavelength float64, indexFn optik.IndexFunc, surfaceIndex int) (outDir optik.Vec3, cosTheta, n1, n2 float64, err error) {
	n1, err = optik.RefractiveIndex(indexFn, prevMaterial, wavelength)
	if err != nil {
		return optik.Vec3{}, 0, 0, 0, err
	}

	if surf.Kind == surface.MirrorKind {
		n2 = -n1
	} else {
		n2, err = optik.RefractiveIndex(indexFn, surf.MaterialNext, wavelength)
		if err != nil {
			return optik.Vec3{}, 0, 0, 0, err
		}
	}

	// Orient the normal to oppose the incoming ray, matching the cos θ₁ =
	// -dir·N convention.
	n := normal
	cosTheta = -dir.Dot(n)
	if cosTheta < 0 {
		n = n.Negate()
		cosTheta = -cosTheta
	}

	if surf.Kind == surface.MirrorKind {
		return reflect(dir, n), cosTheta, n1, n2, nil
	}

	ratio := n1 / n2
	k := 1 - ratio*ratio*(1-cosTheta*cosTheta)
	if k < 0 {
		return optik.Vec3{}, cosTheta, n1, n2, &optik.TotalInternalReflectionError{SurfaceIndex: surfaceIndex, CosTheta: cosTheta}
	}

	out := dir.Multiply(ratio).Add(n.Multiply(ratio*cosTheta - math.Sqrt(k)))
	return out.Normalize(), cosTheta, n1, n2, nil
}

// reflect mirrors dir about normal n: r = d - 2(d.n)n.
func reflect(dir, n optik.Vec3) optik.Vec3 {
	return dir.Subtract(n.Multiply(2 * dir.Dot(n))).Normalize()
}
