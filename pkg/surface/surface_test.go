package surface

import (
	"math"
	"testing"

	"github.com/optikcore/optikcore/pkg/optik"
)

func singletSystem() System {
	return System{
		Surfaces: []Surface{
			NewObject(NewCircularAperture(10), 100),
			NewStandard(AsphericProfile{Radius: 50}, NewCircularAperture(12.5), optik.NamedMaterial("N-BK7"), 5),
			NewStandard(AsphericProfile{Radius: -50}, NewCircularAperture(12.5), optik.AirMaterial, 95),
			NewImage(NewCircularAperture(20)),
		},
		Wavelengths: []float64{0.5876},
		Primary:     0.5876,
	}
}

func TestSystem_StopIndex_Missing(t *testing.T) {
	sys := singletSystem()
	if _, err := sys.StopIndex(); err == nil {
		t.Error("expected NoStopSurfaceError")
	} else if _, ok := err.(*optik.NoStopSurfaceError); !ok {
		t.Errorf("got %T, want *optik.NoStopSurfaceError", err)
	}
}

func TestSystem_PathIndex_SkipsObjectAndCoordBreak(t *testing.T) {
	sys := System{
		Surfaces: []Surface{
			NewObject(NewCircularAperture(10), 100),             // 0: no path point
			NewCoordBreak(CoordBreak{}, 0),                      // 1: no path point
			NewStandard(AsphericProfile{Radius: 50}, NewCircularAperture(12), optik.AirMaterial, 5), // 2: path index 1
			NewStandard(AsphericProfile{Radius: -50}, NewCircularAperture(12), optik.AirMaterial, 95), // 3: path index 2
			NewImage(NewCircularAperture(20)), // 4: path index 3
		},
	}
	want := []int{0, 0, 1, 2, 3}
	for i, w := range want {
		if got := sys.PathIndex(i); got != w {
			t.Errorf("PathIndex(%d) = %d, want %d", i, got, w)
		}
	}
	if got := sys.DrawableCount(); got != 3 {
		t.Errorf("DrawableCount() = %d, want 3", got)
	}
}

func TestSurface_Validate_ZeroRadius(t *testing.T) {
	s := NewStandard(AsphericProfile{Radius: 0}, NewCircularAperture(10), optik.AirMaterial, 5)
	if err := s.Validate(1); err == nil {
		t.Error("expected error for zero radius")
	}
}

func TestSurface_Validate_InfThicknessOnlyOnObject(t *testing.T) {
	s := NewStandard(AsphericProfile{Radius: 50}, NewCircularAperture(10), optik.AirMaterial, math.Inf(1))
	if err := s.Validate(1); err == nil {
		t.Error("expected BadThicknessError for INF thickness on Standard surface")
	}
	obj := NewObject(NewCircularAperture(10), math.Inf(1))
	if err := obj.Validate(0); err != nil {
		t.Errorf("INF thickness on Object should be valid, got %v", err)
	}
}
