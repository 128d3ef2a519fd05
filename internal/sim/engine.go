// Package sim implements the discrete-time stochastic epidemic engine: a
// population of agents advanced tick by tick, each transition decided by a
// Bernoulli trial against the agent's private random stream.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"episim/internal/core"
	"episim/internal/grid"
)

// Options control engine execution beyond the transition parameters.
type Options struct {
	Ticks   int
	Seed    int64
	Workers int // agent shards stepped in parallel; 1 = serial
	Radius  int // contact neighborhood radius, used when transmission > 0

	// Recorder receives each tick's sample as it is produced. Optional.
	Recorder core.Recorder
	// Pacer throttles the tick loop. Optional.
	Pacer *Pacer
}

// Engine owns the agents and drives the tick loop. Agents are never shared
// with callers while a run is in progress.
type Engine struct {
	agents   []core.Agent
	grid     *grid.Grid
	schedule *Schedule
	streams  []core.RandomSource

	ticks    int
	seed     int64
	workers  int
	radius   int
	recorder core.Recorder
	pacer    *Pacer
}

// NewEngine validates the inputs and prepares a run. Every agent gets an
// independent random stream derived from (seed, agent ID), which makes the
// result identical for any worker count.
func NewEngine(agents []core.Agent, g *grid.Grid, schedule *Schedule, opts Options) (*Engine, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("%w: population is empty", core.ErrInvalidArgument)
	}
	if g == nil {
		return nil, fmt.Errorf("%w: grid is required", core.ErrInvalidArgument)
	}
	if schedule == nil {
		return nil, fmt.Errorf("%w: schedule is required", core.ErrInvalidArgument)
	}
	if opts.Ticks < 0 {
		return nil, fmt.Errorf("%w: ticks must not be negative, got %d", core.ErrInvalidArgument, opts.Ticks)
	}
	if opts.Workers == 0 {
		opts.Workers = 1
	}
	if opts.Workers < 1 {
		return nil, fmt.Errorf("%w: workers must be >= 1, got %d", core.ErrInvalidArgument, opts.Workers)
	}
	if opts.Radius == 0 {
		opts.Radius = 1
	}
	if opts.Radius < 1 {
		return nil, fmt.Errorf("%w: radius must be >= 1, got %d", core.ErrInvalidArgument, opts.Radius)
	}
	if opts.Recorder == nil {
		opts.Recorder = core.NullRecorder
	}

	seen := make(map[int]struct{}, len(agents))
	owned := make([]core.Agent, len(agents))
	streams := make([]core.RandomSource, len(agents))
	for i, a := range agents {
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate agent ID %d", core.ErrInvalidArgument, a.ID)
		}
		seen[a.ID] = struct{}{}
		if !g.Contains(a.Pos) {
			return nil, fmt.Errorf("%w: agent %d at %+v is outside the %dx%d grid",
				core.ErrInvalidArgument, a.ID, a.Pos, g.Width, g.Height)
		}
		owned[i] = a
		streams[i] = core.DeriveSource(opts.Seed, a.ID)
	}

	return &Engine{
		agents:   owned,
		grid:     g,
		schedule: schedule,
		streams:  streams,
		ticks:    opts.Ticks,
		seed:     opts.Seed,
		workers:  opts.Workers,
		radius:   opts.Radius,
		recorder: opts.Recorder,
		pacer:    opts.Pacer,
	}, nil
}

// Run executes the full tick loop and returns the aggregate series. The
// context cancels a paced or long run between ticks; a cancelled run returns
// the context error and no result.
func (e *Engine) Run(ctx context.Context) (*core.Result, error) {
	result := &core.Result{
		RunID:      uuid.NewString(),
		Seed:       e.seed,
		Population: len(e.agents),
		Series:     make([]core.TickSample, 0, e.ticks),
	}

	for t := 1; t <= e.ticks; t++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if e.pacer != nil {
			if err := e.pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		params := e.schedule.At(t)
		e.tick(params)

		sample := e.count(t)
		result.Series = append(result.Series, sample)
		e.recorder.Record(sample)
	}

	return result, nil
}

// Agents returns a copy of the current population, for callers that want the
// final per-agent layout after a run.
func (e *Engine) Agents() []core.Agent {
	out := make([]core.Agent, len(e.agents))
	copy(out, e.agents)
	return out
}

// tick advances every agent by one step: a movement phase, then a status
// phase computed against a snapshot and committed after the barrier.
func (e *Engine) tick(params Params) {
	if params.Movement {
		e.shard(func(i int) {
			e.agents[i].Pos = e.grid.RandomWalk(e.agents[i].Pos, e.streams[i])
		})
	}

	snap := e.snapshot()
	next := make([]core.State, len(e.agents))
	e.shard(func(i int) {
		next[i] = e.nextState(i, snap, params, e.streams[i])
	})
	for i := range e.agents {
		e.agents[i].State = next[i]
	}
}

// shard runs fn(i) for every agent index, split contiguously across the
// worker goroutines. Each index touches only its own agent and stream, so
// shards never contend; the WaitGroup is the inter-phase barrier.
func (e *Engine) shard(fn func(i int)) {
	n := len(e.agents)
	if e.workers == 1 || n < 2*e.workers {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (n + e.workers - 1) / e.workers
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func (e *Engine) count(tick int) core.TickSample {
	sample := core.TickSample{Tick: tick}
	for i := range e.agents {
		switch e.agents[i].State {
		case core.Susceptible:
			sample.Susceptible++
		case core.Infectious:
			sample.Infectious++
		case core.Recovered:
			sample.Recovered++
		}
	}
	return sample
}
