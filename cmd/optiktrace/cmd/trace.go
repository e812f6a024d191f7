package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optikcore/optikcore/pkg/frame"
	"github.com/optikcore/optikcore/pkg/optik"
	"github.com/optikcore/optikcore/pkg/tracer"
)

var (
	traceX, traceY       float64
	traceDirX, traceDirY float64
	traceDirZ            float64
	traceWavelength      float64
	traceDebug           bool
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Trace a single ray through the system and print its path",
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		sys, _, err := loadSystem(systemFile)
		if err != nil {
			return err
		}
		frames := frame.ComputeFrames(sys)
		wavelength := traceWavelength
		if wavelength == 0 {
			wavelength = sys.Primary
		}
		if wavelength == 0 {
			wavelength = optik.DefaultWavelength
		}
		ray := optik.NewRay(optik.NewVec3(traceX, traceY, frames[0].Origin.Z), optik.NewVec3(traceDirX, traceDirY, traceDirZ), wavelength)

		res := tracer.Trace(sys, frames, ray, demoIndexFunc, tracer.Options{Debug: traceDebug})
		for i, p := range res.Path {
			fmt.Printf("path[%d] = %s\n", i, p)
		}
		for _, d := range res.Diagnostics {
			fmt.Printf("diag: surface=%d kind=%s %s\n", d.SurfaceIndex, d.Kind, d.Message)
		}
		if res.Err != nil {
			return fmt.Errorf("trace failed at surface %d: %w", res.FailedSurface, res.Err)
		}
		fmt.Println("trace completed: image reached")
		return nil
	},
}

func init() {
	traceCmd.Flags().Float64Var(&traceX, "x", 0, "ray origin x (mm)")
	traceCmd.Flags().Float64Var(&traceY, "y", 0, "ray origin y (mm)")
	traceCmd.Flags().Float64Var(&traceDirX, "dx", 0, "ray direction x")
	traceCmd.Flags().Float64Var(&traceDirY, "dy", 0, "ray direction y")
	traceCmd.Flags().Float64Var(&traceDirZ, "dz", 1, "ray direction z")
	traceCmd.Flags().Float64Var(&traceWavelength, "wavelength", 0, "wavelength in micrometers (default: system primary)")
	traceCmd.Flags().BoolVar(&traceDebug, "debug", false, "emit per-surface diagnostic events")
	rootCmd.AddCommand(traceCmd)
}
