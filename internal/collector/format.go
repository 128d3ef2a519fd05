package collector

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"episim/internal/core"
)

// FormatText writes a human-readable run report.
func FormatText(w io.Writer, result *core.Result, summary *Summary, checks *CheckResults) {
	if len(result.Series) == 0 {
		fmt.Fprintln(w, "No ticks recorded")
		return
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Episim - Simulation Results")
	fmt.Fprintln(w, "===========================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Run ID:      %s\n", result.RunID)
	fmt.Fprintf(w, "Seed:        %d\n", result.Seed)
	fmt.Fprintf(w, "Population:  %d\n", result.Population)
	fmt.Fprintf(w, "Ticks:       %d\n", summary.Ticks)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Epidemic:")
	fmt.Fprintf(w, "  Peak infectious: %d (tick %d)\n", summary.PeakInfectious, summary.PeakTick)
	fmt.Fprintf(w, "  Attack rate:     %.1f%%\n", summary.AttackRate*100)
	if summary.ExtinctionTick >= 0 {
		fmt.Fprintf(w, "  Extinct at:      tick %d\n", summary.ExtinctionTick)
	} else {
		fmt.Fprintf(w, "  Extinct at:      never\n")
	}
	fmt.Fprintf(w, "  Final counts:    S=%d I=%d R=%d\n",
		summary.FinalSusceptible, summary.FinalInfectious, summary.FinalRecovered)

	if checks != nil && len(checks.Results) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Checks:")
		for _, r := range checks.Results {
			symbol := "✓"
			if !r.Passed {
				symbol = "✗"
			}
			fmt.Fprintf(w, "  %s %-22s %s (got %s)\n", symbol, r.Name, r.Criterion, r.Actual)
		}
	}
	fmt.Fprintln(w, "")
}

// jsonReport is the envelope FormatJSON writes.
type jsonReport struct {
	Result  *core.Result  `json:"result"`
	Summary *Summary      `json:"summary"`
	Checks  *CheckResults `json:"checks,omitempty"`
}

// FormatJSON writes the full result, summary, and check outcomes as JSON.
// The inspect command reads this format back.
func FormatJSON(w io.Writer, result *core.Result, summary *Summary, checks *CheckResults) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Result: result, Summary: summary, Checks: checks})
}

// FormatCSV writes the tick series as CSV with a header row, one row per
// tick. This is the stream a downstream plotter consumes.
func FormatCSV(w io.Writer, series []core.TickSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tick", "susceptible", "infectious", "recovered"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, s := range series {
		row := []string{
			strconv.Itoa(s.Tick),
			strconv.Itoa(s.Susceptible),
			strconv.Itoa(s.Infectious),
			strconv.Itoa(s.Recovered),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for tick %d: %w", s.Tick, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
