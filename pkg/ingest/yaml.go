package ingest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/optikcore/optikcore/pkg/solver"
	"github.com/optikcore/optikcore/pkg/surface"
)

// SystemDescription is the demo CLI's human-authored system file (spec.md
// §6: surface rows, source wavelengths, object field entries). A lens
// prescription is naturally a YAML document (grounded on gazed-vu's
// gopkg.in/yaml.v3 usage for asset/config files); the core library itself
// never parses YAML — only this ingest boundary does, per spec.md's "file
// I/O... out of scope" for the core.
type SystemDescription struct {
	Surfaces     []row                `yaml:"surfaces"`
	Wavelengths  []float64            `yaml:"wavelengths"`
	Primary      float64              `yaml:"primary"`
	ObjectFields []rawObjectField     `yaml:"object_fields"`
}

type rawObjectField struct {
	Infinite bool    `yaml:"infinite"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	AlphaX   float64 `yaml:"alpha_x"`
	AlphaY   float64 `yaml:"alpha_y"`
}

// ParseYAML decodes a system description document.
func ParseYAML(data []byte) (SystemDescription, error) {
	var desc SystemDescription
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return SystemDescription{}, fmt.Errorf("parsing system description: %w", err)
	}
	return desc, nil
}

// BuildSystem resolves every row in desc into a surface.System, applying
// alias resolution once per row (BuildSurface) and then running the
// system-level invariants (surface.System.Validate).
func BuildSystem(desc SystemDescription) (surface.System, error) {
	surfaces := make([]surface.Surface, len(desc.Surfaces))
	for i, r := range desc.Surfaces {
		s, err := BuildSurface(r, i)
		if err != nil {
			return surface.System{}, err
		}
		surfaces[i] = s
	}
	sys := surface.System{Surfaces: surfaces, Wavelengths: desc.Wavelengths, Primary: desc.Primary}
	if err := sys.Validate(); err != nil {
		return surface.System{}, err
	}
	return sys, nil
}

// ObjectFields converts desc's raw object-field rows into
// solver.ObjectField values.
func ObjectFields(desc SystemDescription) []solver.ObjectField {
	fields := make([]solver.ObjectField, len(desc.ObjectFields))
	for i, f := range desc.ObjectFields {
		fields[i] = solver.ObjectField{Infinite: f.Infinite, X: f.X, Y: f.Y, AlphaX: f.AlphaX, AlphaY: f.AlphaY}
	}
	return fields
}
