// Package config handles YAML scenario parsing and validation.
package config

import (
	"fmt"
	"os"

	"episim/internal/collector"
	"episim/internal/core"
	"episim/internal/grid"

	"gopkg.in/yaml.v3"
)

// Scenario is the root configuration structure for one simulation run.
type Scenario struct {
	Population PopulationConfig  `yaml:"population"`
	Grid       GridConfig        `yaml:"grid,omitempty"`
	Disease    DiseaseConfig     `yaml:"disease"`
	Run        RunConfig         `yaml:"run"`
	Phases     []Phase           `yaml:"phases,omitempty"`
	Output     OutputConfig      `yaml:"output,omitempty"`
	Checks     *collector.Checks `yaml:"checks,omitempty"`
}

// PopulationConfig describes the initial population, either as state counts
// or as a data file (csv/json) with one agent per row.
type PopulationConfig struct {
	Susceptible int    `yaml:"susceptible"`
	Infectious  int    `yaml:"infectious"`
	Recovered   int    `yaml:"recovered"`
	File        string `yaml:"file,omitempty"`
}

// Total returns the configured population size (count form only).
func (p PopulationConfig) Total() int {
	return p.Susceptible + p.Infectious + p.Recovered
}

// GridConfig describes the lattice agents live on.
type GridConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Boundary string `yaml:"boundary"` // wrap | clamp
	Movement bool   `yaml:"movement"`
}

// DiseaseConfig holds the per-tick transition probabilities.
type DiseaseConfig struct {
	// Recovery is the per-tick probability an infectious agent recovers.
	Recovery float64 `yaml:"recovery"`
	// Transmission is the per-contact infection probability. Zero keeps the
	// base model, where susceptible agents never change state.
	Transmission float64 `yaml:"transmission"`
	// Radius is the contact neighborhood radius (Chebyshev), used only when
	// transmission is enabled.
	Radius int `yaml:"radius"`
}

// RunConfig holds execution parameters.
type RunConfig struct {
	Ticks   int   `yaml:"ticks"`
	Seed    int64 `yaml:"seed"`
	Workers int   `yaml:"workers"`
	// Pace throttles the tick loop to this many ticks per second so a live
	// consumer can follow the output. Zero runs unpaced.
	Pace int `yaml:"pace"`
}

// Phase overrides scenario parameters for a span of ticks. Phases apply in
// order from tick 1; ticks beyond the last phase fall back to the scenario
// defaults.
type Phase struct {
	Name         string   `yaml:"name"`
	Ticks        int      `yaml:"ticks"`
	Recovery     *float64 `yaml:"recovery,omitempty"`
	Transmission *float64 `yaml:"transmission,omitempty"`
	Movement     *bool    `yaml:"movement,omitempty"`
}

// TotalPhaseTicks returns the number of ticks covered by phases.
func (s *Scenario) TotalPhaseTicks() int {
	total := 0
	for _, p := range s.Phases {
		total += p.Ticks
	}
	return total
}

// OutputConfig selects the report format.
type OutputConfig struct {
	Format string `yaml:"format"` // text | json | csv
}

// LoadScenario reads, parses, and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}

	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyDefaults fills in unset optional fields.
func (s *Scenario) ApplyDefaults() {
	if s.Grid.Width == 0 {
		s.Grid.Width = 100
	}
	if s.Grid.Height == 0 {
		s.Grid.Height = 100
	}
	if s.Grid.Boundary == "" {
		s.Grid.Boundary = string(grid.BoundaryWrap)
	}
	if s.Disease.Radius == 0 {
		s.Disease.Radius = 1
	}
	if s.Run.Workers == 0 {
		s.Run.Workers = 1
	}
	if s.Output.Format == "" {
		s.Output.Format = "text"
	}
}

// Validate checks every parameter range. All violations wrap
// core.ErrInvalidArgument.
func (s *Scenario) Validate() error {
	if s.Population.File == "" && s.Population.Total() < 1 {
		return fmt.Errorf("%w: population is empty", core.ErrInvalidArgument)
	}
	if s.Population.Susceptible < 0 || s.Population.Infectious < 0 || s.Population.Recovered < 0 {
		return fmt.Errorf("%w: population counts must not be negative", core.ErrInvalidArgument)
	}
	if err := validateProb("disease.recovery", s.Disease.Recovery); err != nil {
		return err
	}
	if err := validateProb("disease.transmission", s.Disease.Transmission); err != nil {
		return err
	}
	if s.Disease.Radius < 1 {
		return fmt.Errorf("%w: disease.radius must be >= 1, got %d", core.ErrInvalidArgument, s.Disease.Radius)
	}
	if s.Run.Ticks < 0 {
		return fmt.Errorf("%w: run.ticks must not be negative, got %d", core.ErrInvalidArgument, s.Run.Ticks)
	}
	if s.Run.Workers < 1 {
		return fmt.Errorf("%w: run.workers must be >= 1, got %d", core.ErrInvalidArgument, s.Run.Workers)
	}
	if s.Run.Pace < 0 {
		return fmt.Errorf("%w: run.pace must not be negative, got %d", core.ErrInvalidArgument, s.Run.Pace)
	}
	if s.Grid.Width < 1 || s.Grid.Height < 1 {
		return fmt.Errorf("%w: grid dimensions %dx%d must be positive", core.ErrInvalidArgument, s.Grid.Width, s.Grid.Height)
	}
	if _, err := grid.ParseBoundaryPolicy(s.Grid.Boundary); err != nil {
		return err
	}
	for i, p := range s.Phases {
		if p.Ticks < 1 {
			return fmt.Errorf("%w: phase %d (%s): ticks must be >= 1", core.ErrInvalidArgument, i, p.Name)
		}
		if p.Recovery != nil {
			if err := validateProb(fmt.Sprintf("phase %q recovery", p.Name), *p.Recovery); err != nil {
				return err
			}
		}
		if p.Transmission != nil {
			if err := validateProb(fmt.Sprintf("phase %q transmission", p.Name), *p.Transmission); err != nil {
				return err
			}
		}
	}
	switch s.Output.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("%w: output.format must be text, json, or csv, got %q", core.ErrInvalidArgument, s.Output.Format)
	}
	return nil
}

func validateProb(name string, p float64) error {
	if p < 0 || p > 1 || p != p {
		return fmt.Errorf("%w: %s = %v outside [0,1]", core.ErrInvalidArgument, name, p)
	}
	return nil
}
