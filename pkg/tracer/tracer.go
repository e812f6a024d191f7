// Package tracer implements the Sequential Ray Tracer (spec.md §4.D):
// propagating a ray through the ordered surface list, producing a RayPath
// and a truncated-path-plus-reason on failure.
package tracer

import (
	"fmt"

	"github.com/optikcore/optikcore/pkg/backend"
	"github.com/optikcore/optikcore/pkg/diagnostics"
	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/intersect"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
)

// RayPath is the ordered list of global intersection points for drawable
// surfaces only (spec.md §3: "CoordBreak and Object rows do NOT emit a
// path point").
type RayPath []optik.Vec3

// Options configures one Trace call (spec.md §9: global mutable state
// becomes per-tracer construction options).
type Options struct {
	Debug      bool
	Backend    backend.Backend // optional accelerated sag backend (Component I)
	MaxSurface int             // 0 means trace every physical surface
	Logger     optik.Logger
}

// Result is the outcome of a Trace call.
type Result struct {
	Path          RayPath
	Hits          []intersect.Hit // one entry per drawable surface successfully reached
	Err           error           // nil on a full, successful trace
	FailedSurface int             // -1 if Err == nil
	Diagnostics   []diagnostics.Event
}

// Trace propagates ray through sys using the precomputed frames, stopping
// at the earliest of: the Image surface, max_surface (if opts.MaxSurface >
// 0), or the first intersector failure (spec.md §4.D).
func Trace(sys surface.System, frames []frame.SurfaceFrame, ray optik.Ray, indexFn optik.IndexFunc, opts Options) Result {
	logger := optik.OrNop(opts.Logger)
	result := Result{FailedSurface: -1}

	limit := len(sys.Surfaces) - 1
	if opts.MaxSurface > 0 && opts.MaxSurface < limit {
		limit = opts.MaxSurface
	}

	currentRay := ray
	currentMaterial := optik.AirMaterial // ambient object-space medium

	for i := 1; i <= limit; i++ {
		surf := sys.Surfaces[i]
		if surf.Kind == surface.CoordBreakKind {
			continue // geometric only; frames already account for it
		}

		res := intersect.Intersect(currentRay, currentMaterial, surf, frames[i], indexFn, i, opts.Backend)

		if opts.Debug {
			result.Diagnostics = append(result.Diagnostics, diagnosticFor(i, res))
		}

		if !res.Ok {
			result.Err = res.Err
			result.FailedSurface = i
			logger.Printf("trace: surface %d failed: %v\n", i, res.Err)
			return result
		}

		result.Hits = append(result.Hits, res.Hit)
		result.Path = append(result.Path, res.Hit.Global)
		currentRay = res.OutRay
		if surf.Refracts() {
			currentMaterial = surf.MaterialNext
		}

		if surf.Kind == surface.ImageKind {
			break
		}
	}

	return result
}

// diagnosticFor builds the structured per-surface diagnostic event
// (spec.md §4.D / §9: "Debug-log scraping... becomes a structured
// DiagnosticEvent channel").
func diagnosticFor(surfaceIndex int, res intersect.Result) diagnostics.Event {
	if ab, ok := res.Err.(*optik.ApertureBlockedError); ok {
		return diagnostics.Event{
			SurfaceIndex: surfaceIndex,
			Kind:         diagnostics.ApertureBlocked,
			HitRadius:    ab.HitRadius,
			Limit:        ab.ApertureLimit,
			Message:      fmt.Sprintf("Hit radius: %.6gmm > Aperture limit: %.6gmm", ab.HitRadius, ab.ApertureLimit),
		}
	}
	if !res.Ok {
		return diagnostics.Event{SurfaceIndex: surfaceIndex, Kind: diagnostics.Failure, Message: fmt.Sprintf("%v", res.Err)}
	}
	return diagnostics.Event{
		SurfaceIndex: surfaceIndex,
		Kind:         diagnostics.Hit,
		Local:        res.Hit.Local,
		Normal:       res.Hit.LocalNormal,
		CosTheta:     res.Hit.CosTheta,
		N1:           res.Hit.N1,
		N2:           res.Hit.N2,
	}
}
