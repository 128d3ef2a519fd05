package collector

import "episim/internal/core"

// Summary condenses a run's tick series into the figures reports and checks
// operate on.
type Summary struct {
	Ticks      int `json:"ticks"`
	Population int `json:"population"`

	PeakInfectious int `json:"peak_infectious"`
	PeakTick       int `json:"peak_tick"`

	FinalSusceptible int `json:"final_susceptible"`
	FinalInfectious  int `json:"final_infectious"`
	FinalRecovered   int `json:"final_recovered"`

	// AttackRate is the fraction of the population that was ever infected,
	// i.e. everyone who is not susceptible at the end.
	AttackRate float64 `json:"attack_rate"`

	// ExtinctionTick is the first tick with zero infectious agents, or -1 if
	// the infection never died out within the run.
	ExtinctionTick int `json:"extinction_tick"`
}

// ComputeSummary computes the summary from a tick series. Pure function, no
// side effects.
func ComputeSummary(series []core.TickSample) *Summary {
	s := &Summary{Ticks: len(series), ExtinctionTick: -1}
	if len(series) == 0 {
		return s
	}

	s.Population = series[0].Total()

	for _, sample := range series {
		if sample.Infectious > s.PeakInfectious {
			s.PeakInfectious = sample.Infectious
			s.PeakTick = sample.Tick
		}
		if sample.Infectious == 0 && s.ExtinctionTick < 0 {
			s.ExtinctionTick = sample.Tick
		}
	}

	last := series[len(series)-1]
	s.FinalSusceptible = last.Susceptible
	s.FinalInfectious = last.Infectious
	s.FinalRecovered = last.Recovered

	if s.Population > 0 {
		s.AttackRate = float64(s.Population-last.Susceptible) / float64(s.Population)
	}
	return s
}
