package core

// TickSample is one entry of the aggregate time series, recorded after every
// tick. Susceptible+Infectious+Recovered equals the population size.
type TickSample struct {
	Tick        int `json:"tick"`
	Susceptible int `json:"susceptible"`
	Infectious  int `json:"infectious"`
	Recovered   int `json:"recovered"`
}

// Total returns the population size the sample accounts for.
func (s TickSample) Total() int {
	return s.Susceptible + s.Infectious + s.Recovered
}

// Result is the complete outcome of one simulation run. It is immutable once
// the run finishes and is owned by the caller.
type Result struct {
	RunID      string       `json:"run_id"`
	Seed       int64        `json:"seed"`
	Population int          `json:"population"`
	Series     []TickSample `json:"series"`
}

// Recorder receives one sample per completed tick. The engine is the only
// producer; implementations must tolerate concurrent readers.
type Recorder interface {
	Record(TickSample)
}

// NullRecorder discards all samples (used by waiting-time sampling runs).
var NullRecorder Recorder = nullRecorder{}

type nullRecorder struct{}

func (nullRecorder) Record(TickSample) {}
