package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optikcore/optikcore/pkg/frame"
)

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Print the computed SurfaceFrame (origin, rotation) for every surface",
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		sys, _, err := loadSystem(systemFile)
		if err != nil {
			return err
		}
		frames := frame.ComputeFrames(sys)
		for i, f := range frames {
			fmt.Printf("surface %2d  origin=%s\n", i, f.Origin)
			for r := 0; r < 3; r++ {
				fmt.Printf("              [%.6g %.6g %.6g]\n", f.Rotation.At(r, 0), f.Rotation.At(r, 1), f.Rotation.At(r, 2))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(framesCmd)
}
