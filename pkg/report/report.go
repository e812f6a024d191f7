// Package report turns a batch of per-object solver/beam/spot results into
// the structured, user-visible failure report spec.md §7 requires: "A
// failed object yields a structured report (object id, stage reached,
// residual, blocking surface). No exceptions mask numerical divergence."
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/solver"
	"github.com/optikcore/optikcore/pkg/spot"
)

// Stage names the furthest pipeline stage an object reached before the
// trace stopped producing useful results.
type Stage int

const (
	StageChiefSolve Stage = iota
	StageBoundarySearch
	StageBeamGeneration
	StageSpotAggregation
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageChiefSolve:
		return "chief_solve"
	case StageBoundarySearch:
		return "boundary_search"
	case StageBeamGeneration:
		return "beam_generation"
	case StageSpotAggregation:
		return "spot_aggregation"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ObjectReport is the structured failure/summary record for a single
// object field, matching spec.md §7's "object id, stage reached, residual,
// blocking surface" tuple.
type ObjectReport struct {
	ObjectIndex     int
	Stage           Stage
	Residual        float64
	Method          solver.Method
	Quality         solver.Quality
	BlockingSurface int // -1 when nothing was blocked
	Failed          bool
	Warning         error
	SpotFailures    int
	SpotPoints      int
}

// FromChief starts an ObjectReport from a chief-ray solve, recording
// whatever the solver itself could not resolve (spec.md's "no exceptions
// mask numerical divergence" — Warning is carried through, never dropped).
func FromChief(objectIndex int, chief solver.ChiefSolution) ObjectReport {
	r := ObjectReport{
		ObjectIndex:     objectIndex,
		Stage:           StageChiefSolve,
		Residual:        chief.Residual,
		Method:          chief.Method,
		Quality:         chief.Quality,
		BlockingSurface: -1,
		Warning:         chief.Warning,
	}
	if chief.Warning != nil {
		r.Failed = true
		return r
	}
	r.Stage = StageBoundarySearch
	return r
}

// WithBoundaries advances an ObjectReport past the boundary search,
// recording the first direction that could not find a boundary (if any).
func (r ObjectReport) WithBoundaries(boundaries [4]solver.BoundaryOffset) ObjectReport {
	if r.Failed {
		return r
	}
	for _, b := range boundaries {
		if b.Err != nil {
			r.Warning = b.Err
			r.Failed = true
			return r
		}
	}
	r.Stage = StageBeamGeneration
	return r
}

// WithSpot advances an ObjectReport past spot aggregation, recording the
// blocking surface of the first failure (if any) and the success/failure
// tallies.
func (r ObjectReport) WithSpot(res spot.Result) ObjectReport {
	r.SpotPoints = len(res.Points)
	r.SpotFailures = len(res.Failures)
	if r.Failed {
		return r
	}
	r.Stage = StageSpotAggregation
	if len(res.Failures) > 0 {
		r.BlockingSurface = blockingSurfaceOf(res.Failures[0].Err)
		if len(res.Points) == 0 {
			r.Failed = true
			r.Warning = res.Failures[0].Err
			return r
		}
	}
	r.Stage = StageComplete
	return r
}

// blockingSurfaceOf extracts the surface index from the closed error
// taxonomy (spec.md §7: discriminate by type switch, never by string
// matching) if the failure carries one.
func blockingSurfaceOf(err error) int {
	switch e := err.(type) {
	case *optik.ApertureBlockedError:
		return e.SurfaceIndex
	case *optik.GrazingIncidenceError:
		return e.SurfaceIndex
	case *optik.NoIntersectionError:
		return e.SurfaceIndex
	case *optik.BehindSurfaceError:
		return e.SurfaceIndex
	case *optik.TotalInternalReflectionError:
		return e.SurfaceIndex
	case *optik.InvalidSurfaceError:
		return e.SurfaceIndex
	default:
		return -1
	}
}

// Batch is an ordered collection of ObjectReport, one per traced object
// field, produced by a demo-CLI run over a system description.
type Batch []ObjectReport

// Failures returns only the objects marked Failed.
func (b Batch) Failures() Batch {
	var out Batch
	for _, r := range b {
		if r.Failed {
			out = append(out, r)
		}
	}
	return out
}

// WriteSummary renders a tab-aligned summary table, one row per object,
// for the demo CLI. text/tabwriter is stdlib; no third-party table-
// formatting library appears anywhere in the reference pack, so this is
// the one place the ambient stack intentionally stays on the standard
// library.
func WriteSummary(w io.Writer, b Batch) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OBJECT\tSTAGE\tMETHOD\tQUALITY\tRESIDUAL(mm)\tBLOCKING\tSTATUS")
	for _, r := range b {
		status := "ok"
		if r.Failed {
			status = "failed"
			if r.Warning != nil {
				status = fmt.Sprintf("failed: %v", r.Warning)
			}
		}
		blocking := "-"
		if r.BlockingSurface >= 0 {
			blocking = fmt.Sprintf("%d", r.BlockingSurface)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.6g\t%s\t%s\n",
			r.ObjectIndex, r.Stage, r.Method, r.Quality, r.Residual, blocking, status)
	}
	return tw.Flush()
}
