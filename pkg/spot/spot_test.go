package spot

import (
	"context"
	"math"
	"testing"

	"github.com/optikcore/optikcore/pkg/beam"
	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/solver"
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

func singlet(backAperture float64) surface.System {
	obj := surface.NewObject(surface.NewCircularAperture(50), 100)
	front := surface.NewStop(surface.AsphericProfile{Radius: 50}, surface.NewCircularAperture(20), optik.NamedMaterial("BK7"), 5)
	back := surface.NewStandard(surface.AsphericProfile{Radius: -50}, surface.NewCircularAperture(backAperture), optik.AirMaterial, 95)
	img := surface.NewImage(surface.NewCircularAperture(50))
	return surface.System{Surfaces: []surface.Surface{obj, front, back, img}, Wavelengths: []float64{0.5876}, Primary: 0.5876}
}

func TestAggregate_OnAxisChiefLandsAtOrigin(t *testing.T) {
	sys := singlet(20)
	frames := frame.ComputeFrames(sys)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	chief := solver.ChiefSolution{EmissionPos: optik.NewVec3(0, 0, 0), Direction: optik.NewVec3(0, 0, 1)}
	cb := beam.CrossBeam{Rays: []beam.TaggedRay{{Ray: optik.NewRay(chief.EmissionPos, chief.Direction, 0.5876), Role: beam.RoleChief}}}

	res, err := Aggregate(context.Background(), sys, frames, cb, indexFn, 0.5876, Options{TargetSurface: 3})
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if len(res.Points) != 1 {
		t.Fatalf("points = %d, want 1", len(res.Points))
	}
	p := res.Points[0]
	if math.Abs(p.Local.X) > 1e-6 || math.Abs(p.Local.Y) > 1e-6 {
		t.Errorf("on-axis chief local hit = %v, want near origin", p.Local)
	}
}

func TestAggregate_VignettedRayRecordedAsFailure(t *testing.T) {
	sys := singlet(2) // undersized back aperture vignettes off-axis rays
	frames := frame.ComputeFrames(sys)
	indexFn := testIndexFn(map[string]float64{"BK7": 1.5168})

	offAxis := optik.NewVec3(15, 0, -10)
	cb := beam.CrossBeam{Rays: []beam.TaggedRay{
		{Ray: optik.NewRay(optik.NewVec3(0, 0, 0), optik.NewVec3(0, 0, 1), 0.5876), Role: beam.RoleChief},
		{Ray: optik.NewRay(offAxis, optik.NewVec3(0, 0, 1), 0.5876), Role: beam.RoleUpperMarginal},
	}}

	res, err := Aggregate(context.Background(), sys, frames, cb, indexFn, 0.5876, Options{TargetSurface: 3})
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(res.Failures))
	}
	if res.Failures[0].Role != beam.RoleUpperMarginal {
		t.Errorf("failed role = %v, want UpperMarginal", res.Failures[0].Role)
	}
	if len(res.Points) != 1 {
		t.Fatalf("points = %d, want 1 (the chief only)", len(res.Points))
	}
}
