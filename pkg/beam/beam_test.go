package beam

import (
	"testing"

	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/solver"
)

func onAxisChief() solver.ChiefSolution {
	return solver.ChiefSolution{
		EmissionPos: optik.NewVec3(0, 0, 0),
		Direction:   optik.NewVec3(0, 0, 1),
		Residual:    1e-12,
	}
}

func fullBoundaries(offset float64) [4]solver.BoundaryOffset {
	return [4]solver.BoundaryOffset{
		{Direction: solver.DirUp, Offset: offset},
		{Direction: solver.DirDown, Offset: offset},
		{Direction: solver.DirRight, Offset: offset},
		{Direction: solver.DirLeft, Offset: offset},
	}
}

func TestGenerate_FullBundleRayCount(t *testing.T) {
	// spec.md §8 scenario (i): "for rayCount=9 both cross bundles span the
	// full stop" — 1 chief + (2 endpoints + 9/2-2 = 2 intermediates) per
	// axis * 2 axes = 1 + 4*2 = 9.
	cb := Generate(0, solver.ObjectField{}, onAxisChief(), fullBoundaries(10), 0.5876, Options{RayCount: 9, CrossType: CrossBoth})

	wantPerAxis := 2 + (9/2 - 2) // 2 endpoints + intermediates
	want := 1 + 2*wantPerAxis
	if len(cb.Rays) != want {
		t.Fatalf("ray count = %d, want %d", len(cb.Rays), want)
	}

	var hasChief bool
	for _, r := range cb.Rays {
		if r.Role == RoleChief {
			hasChief = true
		}
	}
	if !hasChief {
		t.Error("expected a Chief-tagged ray")
	}
}

func TestGenerate_VignettingOmitsOnlyFailedRay(t *testing.T) {
	// spec.md §8 "Boundary behaviors": a failed direction omits only that
	// ray, not the whole bundle.
	boundaries := fullBoundaries(10)
	boundaries[0] = solver.BoundaryOffset{Direction: solver.DirUp, Err: &vignettingStub{}}

	cb := Generate(0, solver.ObjectField{}, onAxisChief(), boundaries, 0.5876, Options{RayCount: 7, CrossType: CrossBoth})

	for _, r := range cb.Rays {
		if r.Role == RoleUpperMarginal {
			t.Error("UpperMarginal should have been omitted")
		}
	}
	var hasLower bool
	for _, r := range cb.Rays {
		if r.Role == RoleLowerMarginal {
			hasLower = true
		}
	}
	// The vertical bundle's intermediate rays require both endpoints; with
	// Up missing, LowerMarginal is still emitted on its own but no
	// VerticalCross interpolation happens.
	if !hasLower {
		t.Error("expected LowerMarginal to still be emitted")
	}
	for _, r := range cb.Rays {
		if r.Role == RoleVerticalCross {
			t.Error("VerticalCross rays require both endpoints; none should be present")
		}
	}
}

type vignettingStub struct{}

func (e *vignettingStub) Error() string { return "vignetted" }

func TestGenerate_CrossTypeVerticalOnly(t *testing.T) {
	cb := Generate(0, solver.ObjectField{}, onAxisChief(), fullBoundaries(10), 0.5876, Options{RayCount: 5, CrossType: CrossVertical})
	for _, r := range cb.Rays {
		if r.Role == RoleLeftMarginal || r.Role == RoleRightMarginal || r.Role == RoleHorizontalCross {
			t.Errorf("unexpected horizontal-axis ray with CrossVertical: %v", r.Role)
		}
	}
}
