package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

const (
	ExitSuccess      = 0
	ExitChecksFailed = 1
	ExitError        = 2
)

// errChecksFailed signals that the run finished but its outcome checks did
// not pass. It maps to ExitChecksFailed instead of ExitError.
var errChecksFailed = errors.New("outcome checks failed")

func main() {
	rootCmd := &cobra.Command{
		Use:   "episim",
		Short: "Discrete-time stochastic epidemic simulator",
		Long: `episim runs individual-based SIR simulations: agents on a grid,
advanced one tick at a time, every transition decided by a Bernoulli trial.

A run is described by a YAML scenario and produces a per-tick time series of
susceptible/infectious/recovered counts for downstream plotting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newInspectCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errChecksFailed) {
			os.Exit(ExitChecksFailed)
		}
		os.Exit(ExitError)
	}
}
