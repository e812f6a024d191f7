package cmd

import (
	"os"

	"github.com/optikcore/optikcore/pkg/ingest"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/surface"
)

// demoIndices is a fixed-index glass catalog for the demo CLI: real glass
// dispersion is a host-application concern the core deliberately never
// owns (spec.md §1: IndexFunc "is assumed available as a pure function");
// these are single d-line (0.5876um) indices, close enough for a worked
// example, not a replacement for a Sellmeier catalog.
var demoIndices = map[string]float64{
	"BK7":    1.5168,
	"N-BK7":  1.5168,
	"SF11":   1.7847,
	"N-SF11": 1.7847,
	"F2":     1.6200,
	"LASF9":  1.8503,
}

func demoIndexFunc(m optik.Material, _ float64) (float64, error) {
	if m.Kind == optik.Air {
		return 1.0, nil
	}
	if n, ok := demoIndices[m.Name]; ok {
		return n, nil
	}
	return 0, &optik.UnknownMaterialError{Name: m.Name}
}

// loadSystem reads and builds a surface.System plus its object fields from
// the --system YAML file.
func loadSystem(path string) (surface.System, ingest.SystemDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return surface.System{}, ingest.SystemDescription{}, err
	}
	desc, err := ingest.ParseYAML(data)
	if err != nil {
		return surface.System{}, ingest.SystemDescription{}, err
	}
	sys, err := ingest.BuildSystem(desc)
	if err != nil {
		return surface.System{}, ingest.SystemDescription{}, err
	}
	return sys, desc, nil
}
