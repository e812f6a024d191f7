// Package ingest implements the canonical surface-row schema and the
// alias resolution spec.md §9 calls for: "Dynamic surface-row field
// probing... is replaced by a single canonical schema at the ingest
// boundary; alias resolution happens once when building Surface values."
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
)

// row is one loosely-typed surface entry, as decoded from YAML or built
// in-memory by a caller; BuildSurface resolves its many historical key
// aliases exactly once, here, rather than letting probing leak into the
// core.
type row map[string]interface{}

// aliasGroups lists, per canonical field, every historical spelling seen
// in the source system (spec.md §9). Lookup is case-insensitive and
// space/underscore-insensitive.
var aliasGroups = map[string][]string{
	"object_type": {"object_type", "objectType", "type", "kind"},
	"radius":      {"radius", "r"},
	"conic":       {"conic", "k", "conic_constant", "conicConstant"},
	"mode":        {"mode", "asph_mode", "asphMode"},
	"thickness":   {"thickness", "t", "thick"},
	"material":    {"material", "material_next", "materialNext", "glass"},
	"semidia":     {"semidia", "semiDiameter", "semi diameter", "semi_diameter"},
	"aperture_shape":  {"_apertureShape", "aperture_shape", "apertureShape"},
	"aperture_width":  {"_apertureWidth", "aperture_width", "apertureWidth"},
	"aperture_height": {"_apertureHeight", "aperture_height", "apertureHeight"},
	"order":           {"order", "coord_break_order", "coordBreakOrder"},
}

func normalizeKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, " ", "")
	k = strings.ReplaceAll(k, "_", "")
	return k
}

func (r row) lookup(canonical string) (interface{}, bool) {
	aliases := aliasGroups[canonical]
	if aliases == nil {
		aliases = []string{canonical}
	}
	want := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		want[normalizeKey(a)] = true
	}
	for k, v := range r {
		if want[normalizeKey(k)] {
			return v, true
		}
	}
	return nil, false
}

func (r row) str(canonical string) (string, bool) {
	v, ok := r.lookup(canonical)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}

// f64 resolves a canonical numeric field, accepting the literal string
// "INF" (case-insensitive) per spec.md §6: "Thickness may be the string
// INF only on the Object row."
func (r row) f64(canonical string) (float64, bool) {
	v, ok := r.lookup(canonical)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if strings.EqualFold(strings.TrimSpace(n), "inf") {
			return math.Inf(1), true
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func (r row) coef() [surface.NumCoef]float64 {
	var coef [surface.NumCoef]float64
	for i := 0; i < surface.NumCoef; i++ {
		key := fmt.Sprintf("coef%d", i+1)
		if v, ok := r[key]; ok {
			if f, ok := toFloat(v); ok {
				coef[i] = f
			}
		}
	}
	return coef
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (r row) vec3(canonicalPrefix string) optik.Vec3 {
	get := func(axis string) float64 {
		for _, key := range []string{canonicalPrefix + axis, canonicalPrefix + "_" + strings.ToLower(axis), canonicalPrefix + "." + axis} {
			if v, ok := r[key]; ok {
				if f, ok := toFloat(v); ok {
					return f
				}
			}
		}
		if nested, ok := r[canonicalPrefix].(map[string]interface{}); ok {
			for _, key := range []string{axis, strings.ToLower(axis)} {
				if v, ok := nested[key]; ok {
					if f, ok := toFloat(v); ok {
						return f
					}
				}
			}
		}
		return 0
	}
	return optik.NewVec3(get("X"), get("Y"), get("Z"))
}

func (r row) aperture() surface.ApertureShape {
	shapeName, _ := r.str("aperture_shape")
	width, _ := r.f64("aperture_width")
	height, hasHeight := r.f64("aperture_height")
	semidia, hasSemidia := r.f64("semidia")

	switch strings.ToLower(shapeName) {
	case "square":
		return surface.NewSquareAperture(width)
	case "rectangular":
		h := height
		if !hasHeight {
			h = width
		}
		return surface.NewRectangularAperture(width, h)
	default:
		if hasSemidia {
			return surface.NewCircularAperture(semidia)
		}
		return surface.NewCircularAperture(width)
	}
}

// BuildSurface resolves one raw row into a surface.Surface, applying
// alias resolution and the degrees->radians conversion for coord-break
// tilts (spec.md §6: "coord-break tilts convert degrees->radians at
// ingestion").
func BuildSurface(r row, index int) (surface.Surface, error) {
	objType, _ := r.str("object_type")
	thickness, _ := r.f64("thickness")
	aperture := r.aperture()

	switch strings.ToLower(objType) {
	case "object":
		return surface.NewObject(aperture, thickness), nil
	case "coordbreak", "coord break", "coord_break":
		decenter := r.vec3("decenter")
		tiltDeg := r.vec3("tilt")
		tiltRad := optik.NewVec3(tiltDeg.X*math.Pi/180, tiltDeg.Y*math.Pi/180, tiltDeg.Z*math.Pi/180)
		order := surface.DecenterThenTilt
		if v, ok := r.f64("order"); ok && v == 1 {
			order = surface.TiltThenDecenter
		}
		return surface.NewCoordBreak(surface.CoordBreak{Decenter: decenter, Tilt: tiltRad, Order: order}, thickness), nil
	case "image":
		return surface.NewImage(aperture), nil
	default:
		profile, err := r.profile()
		if err != nil {
			if ise, ok := err.(*optik.InvalidSurfaceError); ok {
				ise.SurfaceIndex = index
			}
			return surface.Surface{}, err
		}
		materialName, _ := r.str("material")
		mat := optik.AirMaterial
		if materialName != "" && !strings.EqualFold(materialName, "air") {
			mat = optik.NamedMaterial(materialName)
		}
		switch strings.ToLower(objType) {
		case "stop":
			return surface.NewStop(profile, aperture, mat, thickness), nil
		case "mirror":
			return surface.NewMirror(profile, aperture, mat, thickness), nil
		default: // "standard" or unspecified
			return surface.NewStandard(profile, aperture, mat, thickness), nil
		}
	}
}

func (r row) profile() (surface.AsphericProfile, error) {
	radius, hasRadius := r.f64("radius")
	if !hasRadius {
		radius = math.Inf(1)
	}
	conic, _ := r.f64("conic")
	modeName, _ := r.str("mode")
	mode := surface.Even
	if strings.EqualFold(modeName, "odd") {
		mode = surface.Odd
	}
	p := surface.AsphericProfile{Radius: radius, Conic: conic, Coef: r.coef(), Mode: mode}
	return p, p.Validate()
}
