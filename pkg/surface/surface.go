package surface

import (
	"math"

	"github.com/optikcore/optikcore/pkg/optik"
)

// Kind enumerates the Surface variants from spec.md §3.
type Kind int

const (
	// ObjectKind surfaces emit rays; they never refract and never appear
	// in RayPath output.
	ObjectKind Kind = iota
	// StandardKind surfaces refract into MaterialNext.
	StandardKind
	// StopKind surfaces behave like Standard geometrically but mark the
	// aperture stop.
	StopKind
	// MirrorKind surfaces reflect; downstream direction is flipped.
	MirrorKind
	// ImageKind surfaces are terminal: no refraction.
	ImageKind
	// CoordBreakKind surfaces are purely geometric and invisible to
	// RayPath output.
	CoordBreakKind
)

func (k Kind) String() string {
	switch k {
	case ObjectKind:
		return "Object"
	case StandardKind:
		return "Standard"
	case StopKind:
		return "Stop"
	case MirrorKind:
		return "Mirror"
	case ImageKind:
		return "Image"
	case CoordBreakKind:
		return "CoordBreak"
	default:
		return "Unknown"
	}
}

// Surface is one row of an optical system (spec.md §3). Not every field is
// meaningful for every Kind; see the per-Kind constructors for the
// required subset.
type Surface struct {
	Kind Kind

	// Standard, Stop, Mirror
	Profile      AsphericProfile
	MaterialNext optik.Material

	// Object, Standard, Stop, Mirror, Image
	Aperture ApertureShape

	// CoordBreak
	Transform CoordBreak

	// All kinds except the last surface: signed mm advance in the local
	// pre-coord-break frame to the next surface's origin. Inf is valid
	// only on the Object surface.
	Thickness float64
}

// NewObject builds an Object surface. thickness may be optik.Inf for an
// infinite conjugate.
func NewObject(aperture ApertureShape, thickness float64) Surface {
	return Surface{Kind: ObjectKind, Aperture: aperture, Thickness: thickness}
}

// NewStandard builds a refracting Standard surface.
func NewStandard(profile AsphericProfile, aperture ApertureShape, materialNext optik.Material, thickness float64) Surface {
	return Surface{Kind: StandardKind, Profile: profile, Aperture: aperture, MaterialNext: materialNext, Thickness: thickness}
}

// NewStop builds the aperture Stop surface.
func NewStop(profile AsphericProfile, aperture ApertureShape, materialNext optik.Material, thickness float64) Surface {
	return Surface{Kind: StopKind, Profile: profile, Aperture: aperture, MaterialNext: materialNext, Thickness: thickness}
}

// NewMirror builds a reflecting Mirror surface.
func NewMirror(profile AsphericProfile, aperture ApertureShape, materialNext optik.Material, thickness float64) Surface {
	return Surface{Kind: MirrorKind, Profile: profile, Aperture: aperture, MaterialNext: materialNext, Thickness: thickness}
}

// NewImage builds the terminal Image surface. Image surfaces never
// refract but still participate in root-finding and the aperture test, so
// they are given an implicit flat (plane) profile.
func NewImage(aperture ApertureShape) Surface {
	return Surface{Kind: ImageKind, Aperture: aperture, Profile: AsphericProfile{Radius: math.Inf(1)}}
}

// NewCoordBreak builds a purely geometric CoordBreak surface.
func NewCoordBreak(transform CoordBreak, thickness float64) Surface {
	return Surface{Kind: CoordBreakKind, Transform: transform, Thickness: thickness}
}

// Refracts reports whether this surface kind participates in refraction or
// reflection (Standard, Stop, Mirror).
func (s Surface) Refracts() bool {
	return s.Kind == StandardKind || s.Kind == StopKind || s.Kind == MirrorKind
}

// IsDrawable reports whether this surface contributes a RayPath point
// (every kind except Object and CoordBreak, spec.md §3/§4.B).
func (s Surface) IsDrawable() bool {
	return s.Kind != ObjectKind && s.Kind != CoordBreakKind
}

// Validate checks per-surface invariants: radius!=0, thickness legality,
// coord-break order.
func (s Surface) Validate(index int) error {
	switch s.Kind {
	case StandardKind, StopKind, MirrorKind:
		if err := s.Profile.Validate(); err != nil {
			if ise, ok := err.(*optik.InvalidSurfaceError); ok {
				ise.SurfaceIndex = index
				return ise
			}
			return err
		}
	case CoordBreakKind:
		if err := s.Transform.Validate(); err != nil {
			if bce, ok := err.(*optik.BadCoordBreakError); ok {
				bce.SurfaceIndex = index
				return bce
			}
			return err
		}
	}
	if optik.IsInf(s.Thickness) && s.Kind != ObjectKind {
		return &optik.BadThicknessError{SurfaceIndex: index, Reason: "INF thickness is only valid on the Object surface"}
	}
	return nil
}

// System is the ordered sequence of surfaces that defines an optical
// design, plus the ordered wavelength and object-field inputs the core
// consumes (spec.md §1).
type System struct {
	Surfaces    []Surface
	Wavelengths []float64 // micrometers; one entry is "primary" (spec.md §6)
	Primary     float64   // must equal one entry of Wavelengths
}

// StopIndex returns the index of the unique Stop surface, or
// NoStopSurfaceError if absent (spec.md §3: "Stop ... fails NoStop if
// absent").
func (sys System) StopIndex() (int, error) {
	idx := -1
	for i, s := range sys.Surfaces {
		if s.Kind == StopKind {
			if idx != -1 {
				return -1, &optik.InvalidSurfaceError{SurfaceIndex: i, Reason: "multiple Stop surfaces"}
			}
			idx = i
		}
	}
	if idx == -1 {
		return -1, &optik.NoStopSurfaceError{}
	}
	return idx, nil
}

// Validate runs per-surface validation and the Stop uniqueness check.
func (sys System) Validate() error {
	for i, s := range sys.Surfaces {
		if err := s.Validate(i); err != nil {
			return err
		}
	}
	_, err := sys.StopIndex()
	return err
}

// PathIndex maps a surface index to its 1-based position in RayPath
// output (spec.md §4.B: "count only non-Object, non-CoordBreak surfaces
// up to and including the target"). Returns 0 if the surface itself does
// not emit a path point.
func (sys System) PathIndex(surfaceIndex int) int {
	if surfaceIndex < 0 || surfaceIndex >= len(sys.Surfaces) {
		return 0
	}
	if !sys.Surfaces[surfaceIndex].IsDrawable() {
		return 0
	}
	count := 0
	for i := 0; i <= surfaceIndex; i++ {
		if sys.Surfaces[i].IsDrawable() {
			count++
		}
	}
	return count
}

// DrawableCount returns the number of surfaces that contribute a RayPath
// point.
func (sys System) DrawableCount() int {
	n := 0
	for _, s := range sys.Surfaces {
		if s.IsDrawable() {
			n++
		}
	}
	return n
}
