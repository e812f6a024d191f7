package cmd

import (
	"github.com/spf13/cobra"
)

var systemFile string

var rootCmd = &cobra.Command{
	Use:   "optiktrace",
	Short: "Sequential ray-tracing demo over an optikcore system description",
	Long: `optiktrace loads a YAML surface prescription and runs the
optikcore library's ray trace, chief-ray solve, cross-beam generation,
and spot aggregation against it.`,
}

// Execute runs the root command; main only has to check its error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&systemFile, "system", "s", "", "path to a system description YAML file (required)")
	rootCmd.MarkPersistentFlagRequired("system")
}
