package market

import (
	"context"
	"time"

	"bond-terminal/observability"
)

// Drift deltas per tick, matching the dashboard's original simulation:
// independent small perturbations of price, yield and bps change.
const (
	priceDriftRange = 0.05
	yieldDriftRange = 0.005
	bpsDriftRange   = 0.5
)

// driftLoop perturbs the watchlist on a fixed wall-clock interval until
// Stop is called or the context ends. The timer must be stopped on
// teardown to avoid leaking.
func (c *Coordinator) driftLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.driftInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.driftTick()
		}
	}
}

// driftTick applies one round of independent random deltas to every
// bond in place.
func (c *Coordinator) driftTick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.watchlist {
		c.watchlist[i].Price += (c.rng.Float64() - 0.5) * priceDriftRange
		c.watchlist[i].Yield += (c.rng.Float64() - 0.5) * yieldDriftRange
		c.watchlist[i].YieldChangeBps += (c.rng.Float64() - 0.5) * bpsDriftRange
	}

	observability.GetMetrics().RecordDriftTick()
}
