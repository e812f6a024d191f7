package solver

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

// finiteSinglet matches spec.md §8 scenario (i): Object(t=100),
// Standard(R=50,t=5,n=1.5168), Standard(R=-50,t=95,n=1), Image. The Stop
// is the first refracting surface.
func finiteSinglet() (surface.System, int) {
	obj := surface.NewObject(surface.NewCircularAperture(50), 100)
	front := surface.NewStop(surface.AsphericProfile{Radius: 50}, surface.NewCircularAperture(20), optik.NamedMaterial("BK7"), 5)
	back := surface.NewStandard(surface.AsphericProfile{Radius: -50}, surface.NewCircularAperture(20), optik.AirMaterial, 95)
	img := surface.NewImage(surface.NewCircularAperture(50))
	sys := surface.System{Surfaces: []surface.Surface{obj, front, back, img}, Wavelengths: []float64{0.5876}, Primary: 0.5876}
	return sys, 1
}

func TestSolveChief_OnAxisFiniteObject(t *testing.T) {
	// spec.md §8 invariant 4: on-axis finite object yields residual
	// < 1e-9mm and a z-axis ray.
	sys, stopIndex := finiteSinglet()
	frames := frame.ComputeFrames(sys)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	field := ObjectField{X: 0, Y: 0}
	sol := SolveChief(sys, frames, field, 0.5876, indexFn, stopIndex, 0, Options{})

	if sol.Warning != nil {
		t.Fatalf("unexpected warning: %v", sol.Warning)
	}
	if sol.Residual >= 1e-9 {
		t.Errorf("residual = %v, want < 1e-9mm for an on-axis object", sol.Residual)
	}
	if !sol.Direction.Equals(optik.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("direction = %v, want (0,0,1)", sol.Direction)
	}
}

func TestSolveChief_StopUnreachableReportsFailure(t *testing.T) {
	// An object field so far off-axis that every grid ray meets the stop at
	// grazing incidence (|dir.z| below the intersector's 1e-12 threshold)
	// leaves the stop unreachable; the solver must report StopUnreachable,
	// not fabricate a geometric result (spec.md §4.E "Failure policy").
	sys, stopIndex := finiteSinglet()
	sys.Surfaces[stopIndex].Aperture = surface.NewCircularAperture(0.001)
	frames := frame.ComputeFrames(sys)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	field := ObjectField{X: 1e14, Y: 1e14}
	sol := SolveChief(sys, frames, field, 0.5876, indexFn, stopIndex, 0, Options{})

	if sol.Warning == nil {
		t.Fatal("expected a StopUnreachableError warning")
	}
	if _, ok := sol.Warning.(*optik.StopUnreachableError); !ok {
		t.Errorf("got %T, want *optik.StopUnreachableError", sol.Warning)
	}
}

func TestSolveChief_InfiniteObjectOnAxis(t *testing.T) {
	obj := surface.NewObject(surface.NewCircularAperture(50), math.Inf(1))
	stop := surface.NewStop(surface.AsphericProfile{Radius: math.Inf(1)}, surface.NewCircularAperture(5), optik.NamedMaterial("BK7"), 10)
	lens := surface.NewStandard(surface.AsphericProfile{Radius: 100}, surface.NewCircularAperture(20), optik.NamedMaterial("BK7"), 10)
	back := surface.NewStandard(surface.AsphericProfile{Radius: -100}, surface.NewCircularAperture(20), optik.AirMaterial, 90)
	img := surface.NewImage(surface.NewCircularAperture(50))
	sys := surface.System{Surfaces: []surface.Surface{obj, stop, lens, back, img}, Wavelengths: []float64{0.5876}, Primary: 0.5876}
	frames := frame.ComputeFrames(sys)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	field := ObjectField{Infinite: true, AlphaX: 0, AlphaY: 0}
	sol := SolveChief(sys, frames, field, 0.5876, indexFn, 1, 0, Options{})

	if sol.Warning != nil {
		t.Fatalf("unexpected warning: %v", sol.Warning)
	}
	if !sol.Direction.Equals(optik.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("direction = %v, want (0,0,1) for a zero-field-angle infinite object", sol.Direction)
	}
}

func TestFindApertureBoundaries_StopModeSpansFullAperture(t *testing.T) {
	sys, stopIndex := finiteSinglet()
	frames := frame.ComputeFrames(sys)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})
	field := ObjectField{X: 0, Y: 0}
	sol := SolveChief(sys, frames, field, 0.5876, indexFn, stopIndex, 0, Options{})

	boundaries := FindApertureBoundaries(sys, frames, sol, 0.5876, indexFn, stopIndex, ModeStop, len(sys.Surfaces)-1, nil)
	for _, b := range boundaries {
		if b.Err != nil {
			t.Errorf("direction %v: unexpected failure %v", b.Direction, b.Err)
		}
		if b.Offset <= 0 {
			t.Errorf("direction %v: offset = %v, want > 0", b.Direction, b.Offset)
		}
	}
}

func TestFindApertureBoundaries_VignettingBoundsEveryDirection(t *testing.T) {
	// A shrunk, circular back-surface aperture on this rotationally
	// symmetric singlet bounds the boundary offset in every direction.
	sys, stopIndex := finiteSinglet()
	sys.Surfaces[2].Aperture = surface.NewCircularAperture(2)
	frames := frame.ComputeFrames(sys)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})
	field := ObjectField{X: 0, Y: 0}
	sol := SolveChief(sys, frames, field, 0.5876, indexFn, stopIndex, 0, Options{})

	boundaries := FindApertureBoundaries(sys, frames, sol, 0.5876, indexFn, stopIndex, ModeStop, len(sys.Surfaces)-1, nil)
	for _, b := range boundaries {
		if b.Offset > 2.5 && b.Err == nil {
			t.Errorf("direction %v: offset = %v, expected it to be bounded by the 2mm aperture", b.Direction, b.Offset)
		}
	}
}

func TestChiefBasis_Orthonormal(t *testing.T) {
	d := optik.NewVec3(0.1, 0.2, 0.97).Normalize()
	eu, ev := ChiefBasis(d)
	if !eu.IsUnit(1e-9) || !ev.IsUnit(1e-9) {
		t.Fatalf("eu=%v ev=%v not unit", eu, ev)
	}
	if math.Abs(eu.Dot(ev)) > 1e-9 || math.Abs(eu.Dot(d)) > 1e-9 || math.Abs(ev.Dot(d)) > 1e-9 {
		t.Errorf("eu,ev,d not mutually orthogonal: eu.ev=%v eu.d=%v ev.d=%v", eu.Dot(ev), eu.Dot(d), ev.Dot(d))
	}
}
