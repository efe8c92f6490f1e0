// Package market holds the view-state coordinator: the in-memory
// session state behind the dashboard — watchlist, rates, news feed,
// current selection and its derived analysis text. Selection changes
// fan out into concurrent analysis fetches; completions carrying a
// stale generation are discarded instead of overwriting newer state.
package market

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	appconfig "bond-terminal/config"
	"bond-terminal/client"
	"bond-terminal/models"
	"bond-terminal/observability"
	"bond-terminal/pricing"
)

// MacroPendingNotice is shown until the startup macro fetch completes.
const MacroPendingNotice = "Analyzing global market data..."

// Snapshot is the selection-derived state served to the dashboard.
type Snapshot struct {
	SelectedID string             `json:"selected_id,omitempty"`
	Insight    string             `json:"insight,omitempty"`
	Background string             `json:"background,omitempty"`
	Financials *models.Financials `json:"financials,omitempty"`
	Macro      string             `json:"macro"`
}

// Coordinator owns the dashboard session state.
type Coordinator struct {
	mu       sync.RWMutex
	provider client.Provider

	watchlist []models.Bond
	rates     []models.MarketRate
	seedNews  []models.NewsItem
	news      []models.NewsItem

	selected   *models.Bond
	generation uint64
	insight    string
	background string
	financials *models.Financials
	macro      string

	rng           *rand.Rand
	driftInterval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Coordinator seeded from the static lists. A zero seed
// falls back to a time-based one; tests pass a fixed seed for
// deterministic drift and history.
func New(provider client.Provider, cfg *appconfig.Config) *Coordinator {
	seed := cfg.Market.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	watchlist := models.SeedWatchlist(rng)
	seedNews := models.SeedNews()

	observability.GetMetrics().SetWatchlistSize(len(watchlist))

	return &Coordinator{
		provider:      provider,
		watchlist:     watchlist,
		rates:         models.SeedRates(),
		seedNews:      seedNews,
		news:          append([]models.NewsItem(nil), seedNews...),
		macro:         MacroPendingNotice,
		rng:           rng,
		driftInterval: time.Duration(cfg.Market.DriftIntervalSeconds) * time.Second,
		stopCh:        make(chan struct{}),
	}
}

// Start launches the startup macro fetch and the drift simulator.
func (c *Coordinator) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		macro := c.provider.FetchMacroSummary(ctx, c.SeedNews())
		c.mu.Lock()
		c.macro = macro
		c.mu.Unlock()
	}()

	c.wg.Add(1)
	go c.driftLoop(ctx)
}

// Stop tears down the recurring drift timer and waits for in-flight
// work to finish.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.wg.Wait()
}

// Select makes the bond with the given id the current selection and
// launches the three analysis fetches. The fetches outlive the caller's
// context: selection typically arrives on an HTTP request whose context
// is cancelled as soon as the handler returns, while the fetches keep
// running and publish into the session state. Earlier in-flight fetches
// are not cancelled; their completions are discarded by generation.
func (c *Coordinator) Select(ctx context.Context, id string) error {
	c.mu.Lock()
	var bond *models.Bond
	for i := range c.watchlist {
		if c.watchlist[i].ID == id {
			b := c.watchlist[i]
			bond = &b
			break
		}
	}
	if bond == nil {
		c.mu.Unlock()
		return fmt.Errorf("unknown bond id %q", id)
	}

	c.selected = bond
	c.generation++
	gen := c.generation
	c.insight = ""
	c.background = ""
	c.financials = nil
	c.mu.Unlock()

	b := *bond
	fetchCtx := context.WithoutCancel(ctx)

	c.wg.Add(3)
	go func() {
		defer c.wg.Done()
		insight := c.provider.FetchTraderInsight(fetchCtx, b)
		c.commit(gen, func() { c.insight = insight })
	}()
	go func() {
		defer c.wg.Done()
		items := c.provider.FetchIssuerNews(fetchCtx, b.Issuer, b.Guarantor)
		if len(items) == 0 {
			return
		}
		// Fresh items are prepended to the seed feed, not merged,
		// for the duration of this selection.
		c.commit(gen, func() {
			c.news = append(append([]models.NewsItem(nil), items...), c.seedNews...)
		})
	}()
	go func() {
		defer c.wg.Done()
		var fin *models.Financials
		var bg string

		var inner sync.WaitGroup
		inner.Add(2)
		go func() {
			defer inner.Done()
			fin = c.provider.FetchFinancialAnalysis(fetchCtx, b.Issuer)
		}()
		go func() {
			defer inner.Done()
			bg = c.provider.FetchIssuerBackground(fetchCtx, b.Issuer, b.Guarantor)
		}()
		inner.Wait()

		c.commit(gen, func() {
			c.financials = fin
			c.background = bg
		})
	}()

	return nil
}

// Deselect clears the selection and its derived insight state. In-flight
// fetches for the old selection run to completion but their writes are
// discarded.
func (c *Coordinator) Deselect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.generation++
	c.insight = ""
	c.background = ""
	c.financials = nil
	c.news = append([]models.NewsItem(nil), c.seedNews...)
}

// commit applies fn only if gen is still the current selection
// generation.
func (c *Coordinator) commit(gen uint64, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		observability.Debug("discarding stale analysis result", "generation", gen, "current", c.generation)
		return
	}
	fn()
}

// Watchlist returns a copy of the current watchlist.
func (c *Coordinator) Watchlist() []models.Bond {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Bond(nil), c.watchlist...)
}

// Bond returns the bond with the given id.
func (c *Coordinator) Bond(id string) (models.Bond, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.watchlist {
		if c.watchlist[i].ID == id {
			return c.watchlist[i], true
		}
	}
	return models.Bond{}, false
}

// Rates returns the session reference rates.
func (c *Coordinator) Rates() []models.MarketRate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.MarketRate(nil), c.rates...)
}

// News returns the current news feed.
func (c *Coordinator) News() []models.NewsItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.NewsItem(nil), c.news...)
}

// SeedNews returns the static seed feed.
func (c *Coordinator) SeedNews() []models.NewsItem {
	return append([]models.NewsItem(nil), c.seedNews...)
}

// State returns the selection-derived state.
func (c *Coordinator) State() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		Insight:    c.insight,
		Background: c.background,
		Financials: c.financials,
		Macro:      c.macro,
	}
	if c.selected != nil {
		snap.SelectedID = c.selected.ID
	}
	return snap
}

// History simulates the 12-month price series for the given bond.
func (c *Coordinator) History(id string) ([]pricing.HistoryPoint, pricing.HistoryStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.watchlist {
		if c.watchlist[i].ID == id {
			points := pricing.SimulateHistory(c.watchlist[i].Price, c.rng)
			return points, pricing.Stats(points), nil
		}
	}
	return nil, pricing.HistoryStats{}, fmt.Errorf("unknown bond id %q", id)
}
