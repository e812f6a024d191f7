package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/solver"
)

var (
	chiefInfinite bool
	chiefX        float64
	chiefY        float64
	chiefAlphaX   float64
	chiefAlphaY   float64
)

var chiefCmd = &cobra.Command{
	Use:   "chief",
	Short: "Solve for the chief ray of one object field",
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

		field := solver.ObjectField{Infinite: chiefInfinite, X: chiefX, Y: chiefY, AlphaX: chiefAlphaX, AlphaY: chiefAlphaY}
		wavelength := sys.Primary
		if wavelength == 0 {
			wavelength = optik.DefaultWavelength
		}

		chief := solver.SolveChief(sys, frames, field, wavelength, demoIndexFunc, stopIndex, 0, solver.Options{})
		fmt.Printf("method=%s quality=%s residual=%.6gmm\n", chief.Method, chief.Quality, chief.Residual)
		fmt.Printf("emission=%s direction=%s\n", chief.EmissionPos, chief.Direction)
		if chief.Warning != nil {
			fmt.Printf("warning: %v\n", chief.Warning)
		}
		return nil
	},
}

func init() {
	chiefCmd.Flags().BoolVar(&chiefInfinite, "infinite", false, "infinite-conjugate field (angles instead of object point)")
	chiefCmd.Flags().Float64Var(&chiefX, "x", 0, "finite object point x (mm)")
	chiefCmd.Flags().Float64Var(&chiefY, "y", 0, "finite object point y (mm)")
	chiefCmd.Flags().Float64Var(&chiefAlphaX, "alpha-x", 0, "infinite conjugate field angle x (degrees)")
	chiefCmd.Flags().Float64Var(&chiefAlphaY, "alpha-y", 0, "infinite conjugate field angle y (degrees)")
	rootCmd.AddCommand(chiefCmd)
}
