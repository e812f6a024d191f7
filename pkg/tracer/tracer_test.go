package tracer

import (
	"math"
	"testing"

	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
)

func testIndexFn(indices map[string]float64) optik.IndexFunc {
	return func(m optik.Material, _ float64) (float64, error) {
		if m.Kind == optik.Air {
			return 1.0, nil
		}
		if n, ok := indices[m.Name]; ok {
			return n, nil
		}
		return 0, &optik.UnknownMaterialError{Name: m.Name}
	}
}

// singlet builds a simple finite-conjugate singlet: Object -> front (Stop)
// -> back -> Image, matching spec.md §8 scenario (i).
func singlet(frontAperture, backAperture float64) surface.System {
	obj := surface.NewObject(surface.NewCircularAperture(50), 100)
	front := surface.NewStop(surface.AsphericProfile{Radius: 50}, surface.NewCircularAperture(frontAperture), optik.NamedMaterial("BK7"), 5)
	back := surface.NewStandard(surface.AsphericProfile{Radius: -50}, surface.NewCircularAperture(backAperture), optik.AirMaterial, 45)
	img := surface.NewImage(surface.NewCircularAperture(50))
	return surface.System{Surfaces: []surface.Surface{obj, front, back, img}, Wavelengths: []float64{0.5876}, Primary: 0.5876}
}

func TestTrace_FiniteConjugateSinglet(t *testing.T) {
	sys := singlet(20, 20)
	frames := frame.ComputeFrames(sys)
	ray := optik.NewRay(optik.NewVec3(0, 0, 0), optik.NewVec3(0, 0, 1), 0.5876)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	res := Trace(sys, frames, ray, indexFn, Options{})
	if res.Err != nil {
		t.Fatalf("trace failed: %v (at surface %d)", res.Err, res.FailedSurface)
	}
	// spec.md §8 invariant 1: path length equals the number of drawable
	// surfaces reached (here all three: front, back, image).
	if len(res.Path) != 3 {
		t.Fatalf("path length = %d, want 3", len(res.Path))
	}
	if res.FailedSurface != -1 {
		t.Errorf("FailedSurface = %d, want -1 on success", res.FailedSurface)
	}
	// On-axis ray through a rotationally symmetric system stays on axis.
	for i, p := range res.Path {
		if math.Abs(p.X) > 1e-9 || math.Abs(p.Y) > 1e-9 {
			t.Errorf("path[%d] = %v, expected on-axis", i, p)
		}
	}
}

func TestTrace_ApertureVignetting(t *testing.T) {
	// spec.md §8 scenario (iii): a ray that clears the front surface but
	// misses the undersized back aperture truncates the path and reports
	// the failing surface.
	sys := singlet(20, 5)
	frames := frame.ComputeFrames(sys)
	ray := optik.NewRay(optik.NewVec3(15, 0, 0), optik.NewVec3(0, 0, 1), 0.5876)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	res := Trace(sys, frames, ray, indexFn, Options{})
	if res.Err == nil {
		t.Fatal("expected vignetting failure at the back surface")
	}
	if _, ok := res.Err.(*optik.ApertureBlockedError); !ok {
		t.Errorf("got %T, want *optik.ApertureBlockedError", res.Err)
	}
	if res.FailedSurface != 2 {
		t.Errorf("FailedSurface = %d, want 2 (the back surface)", res.FailedSurface)
	}
	// The front surface succeeded before the failure, so the path is
	// truncated to length 1, not discarded entirely.
	if len(res.Path) != 1 {
		t.Errorf("path length = %d, want 1 (truncated at the failure)", len(res.Path))
	}
}

func TestTrace_DebugDiagnostics(t *testing.T) {
	sys := singlet(20, 5)
	frames := frame.ComputeFrames(sys)
	ray := optik.NewRay(optik.NewVec3(15, 0, 0), optik.NewVec3(0, 0, 1), 0.5876)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	res := Trace(sys, frames, ray, indexFn, Options{Debug: true})
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected diagnostic events when Debug is set")
	}
	last := res.Diagnostics[len(res.Diagnostics)-1]
	if last.HitRadius <= last.Limit {
		t.Errorf("blocked event HitRadius %v should exceed Limit %v", last.HitRadius, last.Limit)
	}
}

func TestTrace_CoordBreakSkipsPathPoint(t *testing.T) {
	// spec.md §4.B: CoordBreak rows are purely geometric and never emit a
	// RayPath point, and inserting one does not change the number of path
	// points a given system produces.
	cb := surface.NewCoordBreak(surface.CoordBreak{Decenter: optik.NewVec3(0, 0, 0), Tilt: optik.NewVec3(0, 0, 0)}, 0)
	obj := surface.NewObject(surface.NewCircularAperture(50), 100)
	front := surface.NewStop(surface.AsphericProfile{Radius: 50}, surface.NewCircularAperture(20), optik.NamedMaterial("BK7"), 5)
	back := surface.NewStandard(surface.AsphericProfile{Radius: -50}, surface.NewCircularAperture(20), optik.AirMaterial, 45)
	img := surface.NewImage(surface.NewCircularAperture(50))
	sys := surface.System{Surfaces: []surface.Surface{obj, cb, front, back, img}, Wavelengths: []float64{0.5876}, Primary: 0.5876}

	frames := frame.ComputeFrames(sys)
	ray := optik.NewRay(optik.NewVec3(0, 0, 0), optik.NewVec3(0, 0, 1), 0.5876)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	res := Trace(sys, frames, ray, indexFn, Options{})
	if res.Err != nil {
		t.Fatalf("trace failed: %v", res.Err)
	}
	if len(res.Path) != 3 {
		t.Fatalf("path length = %d, want 3 (CoordBreak row must not add a point)", len(res.Path))
	}
}

func TestTrace_MaxSurfaceLimit(t *testing.T) {
	sys := singlet(20, 20)
	frames := frame.ComputeFrames(sys)
	ray := optik.NewRay(optik.NewVec3(0, 0, 0), optik.NewVec3(0, 0, 1), 0.5876)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	res := Trace(sys, frames, ray, indexFn, Options{MaxSurface: 1})
	if res.Err != nil {
		t.Fatalf("trace failed: %v", res.Err)
	}
	if len(res.Path) != 1 {
		t.Fatalf("path length = %d, want 1 when MaxSurface=1", len(res.Path))
	}
}
