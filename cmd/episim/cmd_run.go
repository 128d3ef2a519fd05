package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"episim/internal/collector"
	"episim/internal/config"
	"episim/internal/core"
	"episim/internal/grid"
	"episim/internal/progress"
	"episim/internal/sim"
	"episim/internal/trial"
)

type runFlags struct {
	scenarioPath   string
	seed           int64
	ticks          int
	format         string
	outPath        string
	quiet          bool
	waitingSamples int
	logFile        string
	logLevel       string
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation scenario",
		Long: `Run loads a YAML scenario, simulates it tick by tick, and writes the
resulting time series and summary in the configured output format.

With --waiting-time N the scenario is not simulated; instead N waiting-time
samples (ticks until recovery at the scenario's recovery probability) are
written as CSV, ready for histogramming.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.scenarioPath, "scenario", "s", "", "path to YAML scenario file (required)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "override the scenario seed")
	cmd.Flags().IntVar(&flags.ticks, "ticks", 0, "override the scenario tick count")
	cmd.Flags().StringVarP(&flags.format, "output", "o", "", "override output format: text, json, csv")
	cmd.Flags().StringVar(&flags.outPath, "out", "", "write output to a file instead of stdout")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress progress output")
	cmd.Flags().IntVar(&flags.waitingSamples, "waiting-time", 0, "emit N waiting-time samples instead of a full run")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "also write JSON logs to this file")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.MarkFlagRequired("scenario")

	return cmd
}

func runScenario(cmd *cobra.Command, flags runFlags) error {
	logger, cleanup := config.SetupLogger(flags.logFile, config.ParseLogLevel(flags.logLevel))
	defer cleanup()

	scenario, err := config.LoadScenario(flags.scenarioPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("seed") {
		scenario.Run.Seed = flags.seed
	}
	if cmd.Flags().Changed("ticks") {
		scenario.Run.Ticks = flags.ticks
		if err := scenario.Validate(); err != nil {
			return err
		}
	}
	if flags.format != "" {
		scenario.Output.Format = flags.format
		if err := scenario.Validate(); err != nil {
			return err
		}
	}
	if scenario.Run.Seed == 0 {
		scenario.Run.Seed = time.Now().UnixNano()
	}

	out := io.Writer(os.Stdout)
	if flags.outPath != "" {
		f, err := os.Create(flags.outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if flags.waitingSamples > 0 {
		return writeWaitingTimes(out, scenario, flags.waitingSamples, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := grid.New(scenario.Grid.Width, scenario.Grid.Height, grid.BoundaryPolicy(scenario.Grid.Boundary))
	if err != nil {
		return err
	}

	base := sim.Params{
		Recovery:     scenario.Disease.Recovery,
		Transmission: scenario.Disease.Transmission,
		Movement:     scenario.Grid.Movement,
	}
	schedule, err := sim.NewSchedule(base, scenario.Phases)
	if err != nil {
		return err
	}

	agents, err := sim.BuildPopulation(scenario.Population, g, core.NewSource(scenario.Run.Seed), filepath.Dir(flags.scenarioPath))
	if err != nil {
		return err
	}

	coll := collector.NewCollector()
	var pacer *sim.Pacer
	if scenario.Run.Pace > 0 {
		pacer = sim.NewPacer(scenario.Run.Pace)
	}

	engine, err := sim.NewEngine(agents, g, schedule, sim.Options{
		Ticks:    scenario.Run.Ticks,
		Seed:     scenario.Run.Seed,
		Workers:  scenario.Run.Workers,
		Radius:   scenario.Disease.Radius,
		Recorder: coll,
		Pacer:    pacer,
	})
	if err != nil {
		return err
	}

	logger.Info("run starting",
		"scenario", flags.scenarioPath,
		"seed", scenario.Run.Seed,
		"population", len(agents),
		"ticks", scenario.Run.Ticks,
		"workers", scenario.Run.Workers,
	)

	prog := progress.NewProgress(coll, flags.quiet)
	prog.Start()
	result, err := engine.Run(ctx)
	prog.Stop()
	coll.Close()
	if err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	summary := collector.ComputeSummary(result.Series)
	checks := scenario.Checks.Evaluate(summary)

	logger.Info("run complete",
		"run_id", result.RunID,
		"peak_infectious", summary.PeakInfectious,
		"attack_rate", summary.AttackRate,
		"checks_passed", checks.Passed,
	)

	switch scenario.Output.Format {
	case "json":
		if err := collector.FormatJSON(out, result, summary, checks); err != nil {
			return fmt.Errorf("writing json output: %w", err)
		}
	case "csv":
		if err := collector.FormatCSV(out, result.Series); err != nil {
			return fmt.Errorf("writing csv output: %w", err)
		}
	default:
		collector.FormatText(out, result, summary, checks)
	}

	if !checks.Passed {
		return errChecksFailed
	}
	return nil
}

// writeWaitingTimes emits n waiting-time samples as CSV. The scenario's
// recovery probability is the per-tick success probability; run.ticks caps
// each sample.
func writeWaitingTimes(out io.Writer, scenario *config.Scenario, n int, logger *slog.Logger) error {
	maxTicks := scenario.Run.Ticks
	if maxTicks < 1 {
		maxTicks = 100
	}

	logger.Info("sampling waiting times",
		"samples", n,
		"probability", scenario.Disease.Recovery,
		"max_ticks", maxTicks,
		"seed", scenario.Run.Seed,
	)

	src := core.NewSource(scenario.Run.Seed)
	w := csv.NewWriter(out)
	if err := w.Write([]string{"sample", "ticks"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i := 0; i < n; i++ {
		ticks, err := trial.WaitingTime(src, scenario.Disease.Recovery, maxTicks)
		if err != nil {
			return err
		}
		if err := w.Write([]string{strconv.Itoa(i), strconv.Itoa(ticks)}); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}
