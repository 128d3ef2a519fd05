package sim

import (
	"fmt"

	"episim/internal/config"
	"episim/internal/core"
	"episim/internal/data"
	"episim/internal/grid"
)

// BuildPopulation turns the scenario's population section into agents. Count
// form assigns sequential IDs and random cells; file form loads the records
// and fills in any missing coordinates. Placement draws come from src, so a
// fixed seed reproduces the same initial layout.
func BuildPopulation(cfg config.PopulationConfig, g *grid.Grid, src core.RandomSource, baseDir string) ([]core.Agent, error) {
	if cfg.File != "" {
		return populationFromFile(cfg.File, g, src, baseDir)
	}
	return populationFromCounts(cfg, g, src)
}

func populationFromCounts(cfg config.PopulationConfig, g *grid.Grid, src core.RandomSource) ([]core.Agent, error) {
	total := cfg.Total()
	if total < 1 {
		return nil, fmt.Errorf("%w: population is empty", core.ErrInvalidArgument)
	}

	agents := make([]core.Agent, 0, total)
	id := 0
	for _, group := range []struct {
		state core.State
		count int
	}{
		{core.Susceptible, cfg.Susceptible},
		{core.Infectious, cfg.Infectious},
		{core.Recovered, cfg.Recovered},
	} {
		for i := 0; i < group.count; i++ {
			agents = append(agents, core.Agent{
				ID:    id,
				State: group.state,
				Pos:   g.RandomCell(src),
			})
			id++
		}
	}
	return agents, nil
}

func populationFromFile(path string, g *grid.Grid, src core.RandomSource, baseDir string) ([]core.Agent, error) {
	records, err := data.LoadRecords(path, baseDir)
	if err != nil {
		return nil, err
	}

	agents := make([]core.Agent, 0, len(records))
	for _, rec := range records {
		a := core.Agent{ID: rec.ID, State: rec.State}
		switch {
		case rec.X != nil && rec.Y != nil:
			a.Pos = core.Point{X: *rec.X, Y: *rec.Y}
			if !g.Contains(a.Pos) {
				return nil, fmt.Errorf("%w: agent %d at %+v is outside the %dx%d grid",
					core.ErrInvalidArgument, a.ID, a.Pos, g.Width, g.Height)
			}
		case rec.X == nil && rec.Y == nil:
			a.Pos = g.RandomCell(src)
		default:
			return nil, fmt.Errorf("%w: agent %d has only one coordinate", core.ErrInvalidArgument, rec.ID)
		}
		agents = append(agents, a)
	}
	return agents, nil
}
