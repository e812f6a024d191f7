package ingest

import (
	"fmt"
	"hash/fnv"

	"github.com/optikcore/optikcore/pkg/surface"
)

// Fingerprint computes a 32-bit FNV-1a hash over the ordered surface
// schema (kind, profile, thickness, material, coord-break transform,
// aperture) plus the wavelength list and primary wavelength. No package in
// this module keeps a cache keyed by it; it is exposed for callers that
// want to detect a changed system. hash/fnv is stdlib and sufficient for a
// one-line non-cryptographic hash; no third-party hashing library adds
// anything here.
func Fingerprint(sys surface.System) uint32 {
	h := fnv.New32a()
	for i, s := range sys.Surfaces {
		fmt.Fprintf(h, "%d|%d|%g|%g|%v|%g|%d|%g|%g|%g|%g",
			i, s.Kind, s.Profile.Radius, s.Profile.Conic, s.Profile.Coef, s.Thickness,
			s.MaterialNext.Kind, s.Transform.Decenter.X, s.Transform.Decenter.Y, s.Transform.Decenter.Z, float64(s.Transform.Order))
		fmt.Fprintf(h, "|%g|%g|%g|%d|%q", s.Transform.Tilt.X, s.Transform.Tilt.Y, s.Transform.Tilt.Z, s.Profile.Mode, s.MaterialNext.Name)
		fmt.Fprintf(h, "|%d|%g|%g|%g", s.Aperture.Kind, s.Aperture.Semidia, s.Aperture.Width, s.Aperture.Height)
	}
	for _, w := range sys.Wavelengths {
		fmt.Fprintf(h, "|w:%g", w)
	}
	fmt.Fprintf(h, "|p:%g", sys.Primary)
	return h.Sum32()
}
