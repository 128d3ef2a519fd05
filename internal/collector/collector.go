// Package collector records the per-tick aggregate series and computes the
// run summary.
package collector

import (
	"sync"

	"episim/internal/core"
)

// Collector receives one TickSample per completed tick and keeps the ordered
// series. The engine is the producer; the progress reporter reads Latest
// concurrently.
type Collector struct {
	samples []core.TickSample
	ch      chan core.TickSample
	done    chan struct{}
	mu      sync.Mutex
}

// NewCollector creates a Collector and starts its collection goroutine.
func NewCollector() *Collector {
	c := &Collector{
		samples: make([]core.TickSample, 0),
		ch:      make(chan core.TickSample, 256),
		done:    make(chan struct{}),
	}
	go c.collect()
	return c
}

func (c *Collector) collect() {
	for s := range c.ch {
		c.mu.Lock()
		c.samples = append(c.samples, s)
		c.mu.Unlock()
	}
	close(c.done)
}

// Record appends a sample to the series. Every sample is kept; Record blocks
// rather than drop when the buffer is full.
func (c *Collector) Record(s core.TickSample) {
	c.ch <- s
}

// Close stops accepting samples and waits until the series is complete.
func (c *Collector) Close() {
	close(c.ch)
	<-c.done
}

// Series returns a copy of the samples collected so far.
func (c *Collector) Series() []core.TickSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.TickSample, len(c.samples))
	copy(out, c.samples)
	return out
}

// Latest returns the most recent sample, if any. Safe to call while the run
// is still in progress.
func (c *Collector) Latest() (core.TickSample, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.samples) == 0 {
		return core.TickSample{}, false
	}
	return c.samples[len(c.samples)-1], true
}
