package frame

import (
	"math"
	"testing"

	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
)

func simpleSystem() surface.System {
	return surface.System{Surfaces: []surface.Surface{
		surface.NewObject(surface.NewCircularAperture(10), 100),
		surface.NewStandard(surface.AsphericProfile{Radius: 50}, surface.NewCircularAperture(12.5), optik.AirMaterial, 5),
		surface.NewStandard(surface.AsphericProfile{Radius: -50}, surface.NewCircularAperture(12.5), optik.AirMaterial, 95),
		surface.NewImage(surface.NewCircularAperture(20)),
	}}
}

func TestComputeFrames_AdvancesAlongZ(t *testing.T) {
	sys := simpleSystem()
	frames := ComputeFrames(sys)
	if len(frames) != 4 {
		t.Fatalf("len(frames) = %d, want 4", len(frames))
	}
	if frames[0].Origin != (optik.Vec3{}) {
		t.Errorf("frames[0].Origin = %v, want zero", frames[0].Origin)
	}
	want := []float64{0, 100, 105, 200}
	for i, w := range want {
		if math.Abs(frames[i].Origin.Z-w) > 1e-9 {
			t.Errorf("frames[%d].Origin.Z = %v, want %v", i, frames[i].Origin.Z, w)
		}
	}
}

func TestComputeFrames_Idempotent(t *testing.T) {
	sys := simpleSystem()
	a := ComputeFrames(sys)
	b := ComputeFrames(sys)
	for i := range a {
		if a[i].Origin != b[i].Origin {
			t.Errorf("frame %d origin differs across calls: %v vs %v", i, a[i].Origin, b[i].Origin)
		}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				if a[i].Rotation.At(r, c) != b[i].Rotation.At(r, c) {
					t.Errorf("frame %d rotation[%d][%d] differs across calls", i, r, c)
				}
			}
		}
	}
}

func TestComputeFrames_InfiniteObjectSkipsAdvance(t *testing.T) {
	sys := simpleSystem()
	sys.Surfaces[0].Thickness = math.Inf(1)
	frames := ComputeFrames(sys)
	if frames[1].Origin != (optik.Vec3{}) {
		t.Errorf("frames[1].Origin = %v, want zero when object thickness is INF", frames[1].Origin)
	}
}

func TestComputeFrames_CoordBreakDecenter(t *testing.T) {
	// spec.md §8 scenario (v): a CoordBreak with decenter=(0,1,0) shifts
	// the origin.y of every following frame by 1, without adding a
	// RayPath point.
	sys := surface.System{Surfaces: []surface.Surface{
		surface.NewObject(surface.NewCircularAperture(10), 100),
		surface.NewCoordBreak(surface.CoordBreak{Decenter: optik.NewVec3(0, 1, 0), Order: surface.DecenterThenTilt}, 0),
		surface.NewStandard(surface.AsphericProfile{Radius: 50}, surface.NewCircularAperture(12.5), optik.AirMaterial, 5),
		surface.NewImage(surface.NewCircularAperture(20)),
	}}
	frames := ComputeFrames(sys)
	if math.Abs(frames[2].Origin.Y-1) > 1e-12 {
		t.Errorf("frames[2].Origin.Y = %v, want 1", frames[2].Origin.Y)
	}
	if sys.PathIndex(1) != 0 {
		t.Errorf("CoordBreak PathIndex = %d, want 0", sys.PathIndex(1))
	}
	if sys.DrawableCount() != 2 {
		t.Errorf("DrawableCount = %d, want 2 (unchanged by coord break insertion)", sys.DrawableCount())
	}
}

func TestSurfaceFrame_LocalGlobalRoundTrip(t *testing.T) {
	// spec.md §8: global_to_local(local_to_global(P)) == P within 1e-12.
	f := SurfaceFrame{Origin: optik.NewVec3(1, 2, 3), Rotation: Rx(0.3).Mul(Ry(0.5)).Mul(Rz(0.1))}
	p := optik.NewVec3(4, -5, 6)
	got := f.ToLocal(f.ToGlobal(p))
	if !got.Equals(p, 1e-12) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}

func TestMat3_RxRyRz_Orthonormal(t *testing.T) {
	r := Rx(0.37).Mul(Ry(-0.21)).Mul(Rz(1.1))
	v := optik.NewVec3(1, 0, 0)
	rotated := r.Apply(v)
	if math.Abs(rotated.Length()-1) > 1e-12 {
		t.Errorf("rotated unit vector length = %v, want 1", rotated.Length())
	}
	back := r.ApplyInverse(rotated)
	if !back.Equals(v, 1e-12) {
		t.Errorf("ApplyInverse(Apply(v)) = %v, want %v", back, v)
	}
}
