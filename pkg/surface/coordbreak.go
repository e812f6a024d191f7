package surface

import "github.com/optikcore/optikcore/pkg/optik"

// CoordBreakOrder selects whether the decenter or the tilt is applied
// first in the composite step (spec.md §3).
type CoordBreakOrder int

const (
	DecenterThenTilt CoordBreakOrder = iota
	TiltThenDecenter
)

// CoordBreak is a rigid decenter+tilt transform applied at a CoordBreak
// surface (spec.md §3). Tilt is in radians; ingestion converts
// degrees->radians once, per spec.md §6.
type CoordBreak struct {
	Decenter optik.Vec3
	Tilt     optik.Vec3 // radians: (tx, ty, tz)
	Order    CoordBreakOrder
}

// Validate checks that Order is a recognized value.
func (c CoordBreak) Validate() error {
	if c.Order != DecenterThenTilt && c.Order != TiltThenDecenter {
		return &optik.BadCoordBreakError{Reason: "unknown order"}
	}
	return nil
}
