// Package core defines the fundamental types shared by the simulation engine.
package core

import "fmt"

// State is the epidemic status of a single agent.
type State int8

const (
	Susceptible State = iota
	Infectious
	Recovered
)

// String returns the lowercase name used in data files and reports.
func (s State) String() string {
	switch s {
	case Susceptible:
		return "susceptible"
	case Infectious:
		return "infectious"
	case Recovered:
		return "recovered"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ParseState converts a data-file status string into a State.
func ParseState(s string) (State, error) {
	switch s {
	case "susceptible", "s":
		return Susceptible, nil
	case "infectious", "i":
		return Infectious, nil
	case "recovered", "r":
		return Recovered, nil
	}
	return 0, fmt.Errorf("%w: unknown state %q", ErrInvalidArgument, s)
}

// Point is a position on the integer grid.
type Point struct {
	X int
	Y int
}

// Agent is a single individual in the population. Agents are owned by the
// engine; nothing outside a tick mutates them.
type Agent struct {
	ID    int
	State State
	Pos   Point
}
