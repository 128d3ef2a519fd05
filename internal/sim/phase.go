package sim

import (
	"fmt"

	"episim/internal/config"
	"episim/internal/core"
	"episim/internal/trial"
)

// Params are the effective transition parameters for one tick.
type Params struct {
	// Recovery is the per-tick probability an infectious agent recovers.
	Recovery float64
	// Transmission is the per-contact infection probability; zero disables
	// the contact model entirely.
	Transmission float64
	// Movement enables the per-tick random walk.
	Movement bool
}

type phaseSpan struct {
	name   string
	until  int // last tick (inclusive) this span covers
	params Params
}

// Schedule resolves which parameters govern each tick. Phases cover
// consecutive tick spans starting at tick 1; ticks beyond the last phase use
// the base parameters.
type Schedule struct {
	base  Params
	spans []phaseSpan
}

// NewSchedule validates the base parameters and phase overrides and builds
// the tick-indexed schedule.
func NewSchedule(base Params, phases []config.Phase) (*Schedule, error) {
	if err := trial.ValidateProbability(base.Recovery); err != nil {
		return nil, fmt.Errorf("recovery: %w", err)
	}
	if err := trial.ValidateProbability(base.Transmission); err != nil {
		return nil, fmt.Errorf("transmission: %w", err)
	}

	s := &Schedule{base: base}
	cumulative := 0
	for i, p := range phases {
		if p.Ticks < 1 {
			return nil, fmt.Errorf("%w: phase %d (%s): ticks must be >= 1", core.ErrInvalidArgument, i, p.Name)
		}
		params := base
		if p.Recovery != nil {
			if err := trial.ValidateProbability(*p.Recovery); err != nil {
				return nil, fmt.Errorf("phase %q recovery: %w", p.Name, err)
			}
			params.Recovery = *p.Recovery
		}
		if p.Transmission != nil {
			if err := trial.ValidateProbability(*p.Transmission); err != nil {
				return nil, fmt.Errorf("phase %q transmission: %w", p.Name, err)
			}
			params.Transmission = *p.Transmission
		}
		if p.Movement != nil {
			params.Movement = *p.Movement
		}
		cumulative += p.Ticks
		s.spans = append(s.spans, phaseSpan{name: p.Name, until: cumulative, params: params})
	}
	return s, nil
}

// At returns the parameters governing the given 1-based tick.
func (s *Schedule) At(tick int) Params {
	for _, span := range s.spans {
		if tick <= span.until {
			return span.params
		}
	}
	return s.base
}

// PhaseName returns the name of the phase covering the tick, or "" when the
// base parameters apply.
func (s *Schedule) PhaseName(tick int) string {
	for _, span := range s.spans {
		if tick <= span.until {
			return span.name
		}
	}
	return ""
}
