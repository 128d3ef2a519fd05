package sim

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Pacer throttles the tick loop to a fixed number of ticks per second so a
// live consumer can follow the sample stream in real time.
type Pacer struct {
	limiter *rate.Limiter
	mu      sync.RWMutex
}

// NewPacer creates a pacer running at tps ticks per second. A tps of 0
// means unpaced: Wait returns immediately.
func NewPacer(tps int) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(rate.Limit(tps), 1),
	}
}

// Wait blocks until the next tick is due or the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.RLock()
	limiter := p.limiter
	limit := limiter.Limit()
	p.mu.RUnlock()

	if limit == 0 {
		return nil
	}
	return limiter.Wait(ctx)
}

// SetRate adjusts the pace mid-run.
func (p *Pacer) SetRate(tps int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limiter.SetLimit(rate.Limit(tps))
}
