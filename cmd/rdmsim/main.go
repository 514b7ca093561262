// Command rdmsim drives the Reconfigurable Distributed Mirror network
// simulator: load a YAML config, build an engine with its resolved initial
// strategy, run the tick loop to simTime, and print probe summaries
// (SPEC_FULL §10). Not part of the core; per §6 the driver owns exit codes
// and flag parsing, the engine owns none of it.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "rdmsim",
		Level: hclog.Info,
	})

	root := &cobra.Command{
		Use:   "rdmsim",
		Short: "Reconfigurable Distributed Mirror network simulator",
	}
	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newDescribeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
