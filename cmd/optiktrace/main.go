// Command optiktrace is the worked example for the optikcore library: a
// small cobra CLI over pkg/ingest + pkg/tracer + pkg/solver + pkg/beam +
// pkg/spot + pkg/report. The library itself stays flag/cobra-free; this
// binary is the only place command-line ergonomics live.
package main

import (
	"fmt"
	"os"

	"github.com/optikcore/optikcore/cmd/optiktrace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
