// Package trial implements the Bernoulli-trial primitives the simulation is
// built on: single yes/no draws and waiting times derived from repeated draws.
package trial

import (
	"fmt"

	"episim/internal/core"
)

// Bernoulli draws once from src and reports success with probability p.
// Success means the uniform draw in [0,1) landed strictly below p, so p == 0
// never succeeds and p == 1 always does.
func Bernoulli(src core.RandomSource, p float64) (bool, error) {
	if err := ValidateProbability(p); err != nil {
		return false, err
	}
	return src.Float64() < p, nil
}

// WaitingTime runs Bernoulli trials starting at tick 1 until the first
// success and returns the tick it happened on. The count is capped at
// maxTicks so the operation terminates even when p is zero or tiny; a run
// that never succeeds returns maxTicks.
func WaitingTime(src core.RandomSource, p float64, maxTicks int) (int, error) {
	if err := ValidateProbability(p); err != nil {
		return 0, err
	}
	if maxTicks < 1 {
		return 0, fmt.Errorf("%w: maxTicks must be >= 1, got %d", core.ErrInvalidArgument, maxTicks)
	}
	for tick := 1; tick < maxTicks; tick++ {
		if src.Float64() < p {
			return tick, nil
		}
	}
	return maxTicks, nil
}

// ValidateProbability rejects values outside [0, 1].
func ValidateProbability(p float64) error {
	if p < 0 || p > 1 || p != p {
		return fmt.Errorf("%w: probability %v outside [0,1]", core.ErrInvalidArgument, p)
	}
	return nil
}
