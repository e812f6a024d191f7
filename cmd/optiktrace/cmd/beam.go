package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/optikcore/optikcore/pkg/beam"
	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/report"
	"github.com/optikcore/optikcore/pkg/solver"
	"github.com/optikcore/optikcore/pkg/spot"
)

var (
	beamInfinite      bool
	beamX, beamY      float64
	beamAlphaX        float64
	beamAlphaY        float64
	beamRayCount      int
	beamEntrancePupil bool
)

var beamCmd = &cobra.Command{
	Use:   "beam",
	Short: "Generate a cross-beam for one object field and aggregate its spot",
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		sys, _, err := loadSystem(systemFile)
		if err != nil {
			return err
		}
		frames := frame.ComputeFrames(sys)
		stopIndex, err := sys.StopIndex()
		if err != nil {
			return err
		}
		imageIndex := len(sys.Surfaces) - 1

		wavelength := sys.Primary
		if wavelength == 0 {
			wavelength = optik.DefaultWavelength
		}
		field := solver.ObjectField{Infinite: beamInfinite, X: beamX, Y: beamY, AlphaX: beamAlphaX, AlphaY: beamAlphaY}

		chief := solver.SolveChief(sys, frames, field, wavelength, demoIndexFunc, stopIndex, 0, solver.Options{})
		r := report.FromChief(0, chief)

		mode := solver.ModeStop
		if beamEntrancePupil {
			mode = solver.ModeEntrancePupil
		}
		var cb beam.CrossBeam
		if chief.Warning == nil {
			boundaries := solver.FindApertureBoundaries(sys, frames, chief, wavelength, demoIndexFunc, stopIndex, mode, imageIndex, nil)
			r = r.WithBoundaries(boundaries)
			cb = beam.Generate(0, field, chief, boundaries, wavelength, beam.Options{RayCount: beamRayCount, CrossType: beam.CrossBoth, PupilMode: mode, TargetSurface: imageIndex})
		}

		if !r.Failed {
			res, err := spot.Aggregate(context.Background(), sys, frames, cb, demoIndexFunc, wavelength, spot.Options{TargetSurface: imageIndex})
			if err != nil {
				return err
			}
			r = r.WithSpot(res)
			for _, p := range res.Points {
				fmt.Printf("point role=%-14s local=%s\n", p.Role, p.Local)
			}
			for _, f := range res.Failures {
				fmt.Printf("failure role=%-14s err=%v\n", f.Role, f.Err)
			}
		}

		return report.WriteSummary(os.Stdout, report.Batch{r})
	},
}

func init() {
	beamCmd.Flags().BoolVar(&beamInfinite, "infinite", false, "infinite-conjugate field (angles instead of object point)")
	beamCmd.Flags().Float64Var(&beamX, "x", 0, "finite object point x (mm)")
	beamCmd.Flags().Float64Var(&beamY, "y", 0, "finite object point y (mm)")
	beamCmd.Flags().Float64Var(&beamAlphaX, "alpha-x", 0, "infinite conjugate field angle x (degrees)")
	beamCmd.Flags().Float64Var(&beamAlphaY, "alpha-y", 0, "infinite conjugate field angle y (degrees)")
	beamCmd.Flags().IntVar(&beamRayCount, "rays", 9, "cross-beam ray count (each axis gets its two marginals plus rays/2-2 intermediates)")
	beamCmd.Flags().BoolVar(&beamEntrancePupil, "entrance-pupil", false, "probe boundaries on the entrance pupil plane instead of the stop")
	rootCmd.AddCommand(beamCmd)
}
