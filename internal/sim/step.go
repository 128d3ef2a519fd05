package sim

import (
	"episim/internal/core"
)

// nextState computes an agent's state for the coming tick from the frozen
// pre-phase snapshot. It writes nothing; the engine commits all states after
// the phase barrier so agent order never affects the outcome.
//
// Base model: infectious agents recover with probability p per tick,
// susceptible and recovered agents are untouched. Recovered is terminal.
// With transmission enabled, a susceptible agent runs one Bernoulli trial
// per infectious contact in its neighborhood; exposures fail independently.
func (e *Engine) nextState(idx int, snap *snapshot, p Params, src core.RandomSource) core.State {
	state := snap.states[idx]
	switch state {
	case core.Infectious:
		if src.Float64() < p.Recovery {
			return core.Recovered
		}
		return core.Infectious

	case core.Susceptible:
		if p.Transmission <= 0 {
			return core.Susceptible
		}
		for _, contact := range snap.infectious {
			if contact == idx {
				continue
			}
			if e.grid.ChebyshevDist(snap.positions[idx], snap.positions[contact]) > e.radius {
				continue
			}
			if src.Float64() < p.Transmission {
				return core.Infectious
			}
		}
		return core.Susceptible

	default:
		return state
	}
}

// snapshot freezes the population at the start of the status phase.
type snapshot struct {
	states     []core.State
	positions  []core.Point
	infectious []int // indexes of infectious agents, ascending
}

func (e *Engine) snapshot() *snapshot {
	snap := &snapshot{
		states:    make([]core.State, len(e.agents)),
		positions: make([]core.Point, len(e.agents)),
	}
	for i, a := range e.agents {
		snap.states[i] = a.State
		snap.positions[i] = a.Pos
		if a.State == core.Infectious {
			snap.infectious = append(snap.infectious, i)
		}
	}
	return snap
}
