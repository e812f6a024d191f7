// Package spot implements the Spot Aggregator (spec.md §4.H): tracing
// every ray in a CrossBeam to a target surface and projecting the hits
// into that surface's local frame, for aberration/spot-diagram
// consumers.
package spot

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/optikcore/optikcore/pkg/backend"
	"github.com/optikcore/optikcore/pkg/beam"
	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
	"github.com/optikcore/optikcore/pkg/tracer"
)

// Point is one successfully-traced ray's contribution to a spot diagram.
type Point struct {
	Role  beam.Role
	Local optik.Vec3 // (x,y,z) in the target surface's local frame
}

// Failure records a ray that did not reach the target surface, with its
// failure reason (spec.md §4.H: "Rays that fail... are recorded with
// their failure reason but not plotted").
type Failure struct {
	Role beam.Role
	Err  error
}

// Result is the aggregated outcome for one CrossBeam.
type Result struct {
	Points   []Point
	Failures []Failure
}

// Options configures one Aggregate call.
type Options struct {
	TargetSurface int
	Logger        optik.Logger
	Backend       backend.Backend
}

// Aggregate traces every ray in cb to opts.TargetSurface in parallel
// (spec.md §5: "implementations MAY trace multiple rays in parallel...
// the core exposes no shared mutable state"), using golang.org/x/sync
// /errgroup the way spec.md's "yield control between rays, never
// mid-ray" cancellation contract calls for: each ray is one atomic
// errgroup task, and ctx cancellation is only ever observed between
// tasks, never partway through a single ray's trace.
func Aggregate(ctx context.Context, sys surface.System, frames []frame.SurfaceFrame, cb beam.CrossBeam, indexFn optik.IndexFunc, wavelength float64, opts Options) (Result, error) {
	logger := optik.OrNop(opts.Logger)
	points := make([]*Point, len(cb.Rays))
	failures := make([]*Failure, len(cb.Rays))

	g, gctx := errgroup.WithContext(ctx)
	for i, tagged := range cb.Rays {
		i, tagged := i, tagged
		g.Go(func() error {
			select {
			case <-gctx.Done():
				failures[i] = &Failure{Role: tagged.Role, Err: &optik.CancelledError{}}
				return nil
			default:
			}

			res := tracer.Trace(sys, frames, tagged.Ray, indexFn, tracer.Options{MaxSurface: opts.TargetSurface, Backend: opts.Backend})
			if res.Err != nil || len(res.Hits) == 0 {
				err := res.Err
				if err == nil {
					err = &optik.NoIntersectionError{SurfaceIndex: opts.TargetSurface}
				}
				logger.Printf("spot: ray %s failed: %v\n", tagged.Role, err)
				failures[i] = &Failure{Role: tagged.Role, Err: err}
				return nil
			}

			last := res.Hits[len(res.Hits)-1]
			local := frames[opts.TargetSurface].ToLocal(last.Global)
			points[i] = &Point{Role: tagged.Role, Local: local}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var result Result
	for i := range cb.Rays {
		if points[i] != nil {
			result.Points = append(result.Points, *points[i])
		}
		if failures[i] != nil {
			result.Failures = append(result.Failures, *failures[i])
		}
	}
	return result, nil
}
