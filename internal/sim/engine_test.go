package sim

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"episim/internal/core"
	"episim/internal/grid"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(20, 20, grid.BoundaryWrap)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	return g
}

func makeAgents(s, i, r int) []core.Agent {
	agents := make([]core.Agent, 0, s+i+r)
	id := 0
	add := func(state core.State, n int) {
		for k := 0; k < n; k++ {
			agents = append(agents, core.Agent{ID: id, State: state, Pos: core.Point{X: id % 20, Y: id / 20 % 20}})
			id++
		}
	}
	add(core.Susceptible, s)
	add(core.Infectious, i)
	add(core.Recovered, r)
	return agents
}

func mustSchedule(t *testing.T, base Params) *Schedule {
	t.Helper()
	schedule, err := NewSchedule(base, nil)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	return schedule
}

func runEngine(t *testing.T, agents []core.Agent, base Params, opts Options) *core.Result {
	t.Helper()
	engine, err := NewEngine(agents, testGrid(t), mustSchedule(t, base), opts)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

func TestEngine_CertainRecovery(t *testing.T) {
	// One infectious agent with p=1 recovers at tick 1 and stays recovered.
	result := runEngine(t, makeAgents(0, 1, 0), Params{Recovery: 1}, Options{Ticks: 5, Seed: 1})

	if len(result.Series) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(result.Series))
	}
	for _, s := range result.Series {
		want := core.TickSample{Tick: s.Tick, Susceptible: 0, Infectious: 0, Recovered: 1}
		if s != want {
			t.Errorf("tick %d: got %+v, want %+v", s.Tick, s, want)
		}
	}
}

func TestEngine_ImpossibleRecovery(t *testing.T) {
	// With p=0 the infectious agent never recovers.
	result := runEngine(t, makeAgents(0, 1, 0), Params{Recovery: 0}, Options{Ticks: 5, Seed: 1})

	for _, s := range result.Series {
		want := core.TickSample{Tick: s.Tick, Susceptible: 0, Infectious: 1, Recovered: 0}
		if s != want {
			t.Errorf("tick %d: got %+v, want %+v", s.Tick, s, want)
		}
	}
}

func TestEngine_PopulationInvariant(t *testing.T) {
	const n = 120
	result := runEngine(t, makeAgents(50, 60, 10), Params{Recovery: 0.3, Movement: true}, Options{Ticks: 50, Seed: 7})

	for _, s := range result.Series {
		if s.Total() != n {
			t.Errorf("tick %d: S+I+R = %d, want %d", s.Tick, s.Total(), n)
		}
	}
}

func TestEngine_SusceptibleUntouchedInBaseModel(t *testing.T) {
	result := runEngine(t, makeAgents(30, 5, 0), Params{Recovery: 0.5}, Options{Ticks: 40, Seed: 3})

	for _, s := range result.Series {
		if s.Susceptible != 30 {
			t.Errorf("tick %d: susceptible = %d, base model must not infect", s.Tick, s.Susceptible)
		}
	}
}

func TestEngine_RecoveredIsTerminal(t *testing.T) {
	result := runEngine(t, makeAgents(0, 0, 10), Params{Recovery: 1, Transmission: 1, Movement: true}, Options{Ticks: 20, Seed: 9})

	for _, s := range result.Series {
		if s.Recovered != 10 || s.Infectious != 0 || s.Susceptible != 0 {
			t.Errorf("tick %d: recovered agents changed state: %+v", s.Tick, s)
		}
	}
}

func TestEngine_Deterministic(t *testing.T) {
	base := Params{Recovery: 0.2, Movement: true}
	a := runEngine(t, makeAgents(40, 10, 0), base, Options{Ticks: 30, Seed: 42})
	b := runEngine(t, makeAgents(40, 10, 0), base, Options{Ticks: 30, Seed: 42})

	if !reflect.DeepEqual(a.Series, b.Series) {
		t.Error("identical seeds produced different series")
	}
}

func TestEngine_SeedChangesOutcome(t *testing.T) {
	base := Params{Recovery: 0.2}
	a := runEngine(t, makeAgents(0, 50, 0), base, Options{Ticks: 30, Seed: 1})
	b := runEngine(t, makeAgents(0, 50, 0), base, Options{Ticks: 30, Seed: 2})

	if reflect.DeepEqual(a.Series, b.Series) {
		t.Error("different seeds produced byte-identical series; streams look coupled to nothing")
	}
}

func TestEngine_WorkerCountIndependent(t *testing.T) {
	base := Params{Recovery: 0.15, Transmission: 0.4, Movement: true}
	serial := runEngine(t, makeAgents(80, 20, 0), base, Options{Ticks: 40, Seed: 11, Workers: 1})
	parallel := runEngine(t, makeAgents(80, 20, 0), base, Options{Ticks: 40, Seed: 11, Workers: 4})

	if !reflect.DeepEqual(serial.Series, parallel.Series) {
		t.Error("worker count changed the result; per-agent streams are not isolated")
	}
}

func TestEngine_MovementDeterministic(t *testing.T) {
	base := Params{Recovery: 0, Movement: true}

	final := func() []core.Agent {
		engine, err := NewEngine(makeAgents(10, 0, 0), testGrid(t), mustSchedule(t, base), Options{Ticks: 25, Seed: 5})
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		if _, err := engine.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		return engine.Agents()
	}

	if !reflect.DeepEqual(final(), final()) {
		t.Error("identical seeds produced different walks")
	}
}

func TestEngine_Transmission(t *testing.T) {
	// Two agents on the same cell, certain transmission: the susceptible one
	// must be infected on tick 1.
	agents := []core.Agent{
		{ID: 0, State: core.Susceptible, Pos: core.Point{X: 5, Y: 5}},
		{ID: 1, State: core.Infectious, Pos: core.Point{X: 5, Y: 5}},
	}
	result := runEngine(t, agents, Params{Recovery: 0, Transmission: 1}, Options{Ticks: 1, Seed: 1})

	want := core.TickSample{Tick: 1, Susceptible: 0, Infectious: 2, Recovered: 0}
	if result.Series[0] != want {
		t.Errorf("got %+v, want %+v", result.Series[0], want)
	}
}

func TestEngine_TransmissionOutOfRange(t *testing.T) {
	// Contact is 3 cells away with radius 1: no exposure.
	agents := []core.Agent{
		{ID: 0, State: core.Susceptible, Pos: core.Point{X: 5, Y: 5}},
		{ID: 1, State: core.Infectious, Pos: core.Point{X: 8, Y: 5}},
	}
	result := runEngine(t, agents, Params{Recovery: 0, Transmission: 1}, Options{Ticks: 3, Seed: 1, Radius: 1})

	for _, s := range result.Series {
		if s.Susceptible != 1 {
			t.Errorf("tick %d: distant contact infected the agent: %+v", s.Tick, s)
		}
	}
}

func TestEngine_TransmissionUsesSnapshot(t *testing.T) {
	// The infectious agent recovers on the same tick it infects its
	// neighbor: both transitions are decided against the pre-tick snapshot.
	agents := []core.Agent{
		{ID: 0, State: core.Susceptible, Pos: core.Point{X: 5, Y: 5}},
		{ID: 1, State: core.Infectious, Pos: core.Point{X: 5, Y: 5}},
	}
	result := runEngine(t, agents, Params{Recovery: 1, Transmission: 1}, Options{Ticks: 1, Seed: 1})

	want := core.TickSample{Tick: 1, Susceptible: 0, Infectious: 1, Recovered: 1}
	if result.Series[0] != want {
		t.Errorf("got %+v, want %+v", result.Series[0], want)
	}
}

func TestEngine_ZeroTicks(t *testing.T) {
	result := runEngine(t, makeAgents(1, 1, 0), Params{Recovery: 0.5}, Options{Ticks: 0, Seed: 1})
	if len(result.Series) != 0 {
		t.Errorf("expected empty series, got %d samples", len(result.Series))
	}
}

func TestNewEngine_InvalidArguments(t *testing.T) {
	g := testGrid(t)
	schedule := mustSchedule(t, Params{Recovery: 0.5})

	cases := []struct {
		name   string
		agents []core.Agent
		opts   Options
	}{
		{"empty population", nil, Options{Ticks: 5}},
		{"negative ticks", makeAgents(1, 0, 0), Options{Ticks: -1}},
		{"negative workers", makeAgents(1, 0, 0), Options{Ticks: 5, Workers: -2}},
		{"negative radius", makeAgents(1, 0, 0), Options{Ticks: 5, Radius: -1}},
		{"duplicate ids", []core.Agent{{ID: 3}, {ID: 3}}, Options{Ticks: 5}},
		{"agent off grid", []core.Agent{{ID: 0, Pos: core.Point{X: 99, Y: 0}}}, Options{Ticks: 5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewEngine(c.agents, g, schedule, c.opts)
			if !errors.Is(err, core.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestEngine_ContextCancelled(t *testing.T) {
	engine, err := NewEngine(makeAgents(5, 5, 0), testGrid(t), mustSchedule(t, Params{Recovery: 0.1}), Options{Ticks: 100, Seed: 1})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEngine_RecordsToRecorder(t *testing.T) {
	rec := &captureRecorder{}
	engine, err := NewEngine(makeAgents(2, 3, 0), testGrid(t), mustSchedule(t, Params{Recovery: 0.5}), Options{Ticks: 4, Seed: 1, Recorder: rec})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !reflect.DeepEqual(rec.samples, result.Series) {
		t.Errorf("recorder saw %+v, result has %+v", rec.samples, result.Series)
	}
}

func TestEngine_RunIDAssigned(t *testing.T) {
	a := runEngine(t, makeAgents(1, 0, 0), Params{}, Options{Ticks: 1, Seed: 1})
	b := runEngine(t, makeAgents(1, 0, 0), Params{}, Options{Ticks: 1, Seed: 1})

	if a.RunID == "" {
		t.Error("run ID is empty")
	}
	if a.RunID == b.RunID {
		t.Error("two runs share a run ID")
	}
}

type captureRecorder struct {
	samples []core.TickSample
}

func (r *captureRecorder) Record(s core.TickSample) {
	r.samples = append(r.samples, s)
}
