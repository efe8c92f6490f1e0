package app

import (
	"context"
	"errors"
	"testing"

	appconfig "bond-terminal/config"
	"bond-terminal/market"
	"bond-terminal/models"
	"bond-terminal/pricing"
)

// stubGateway implements GatewayInterface
type stubGateway struct {
	available bool
}

func (g *stubGateway) TraderInsight(ctx context.Context, bond models.Bond) string { return "" }
func (g *stubGateway) IssuerNews(ctx context.Context, issuer, guarantor string) []models.NewsItem {
	return nil
}
func (g *stubGateway) MacroSummary(ctx context.Context, news []models.NewsItem) string { return "" }
func (g *stubGateway) IssuerBackground(ctx context.Context, issuer, guarantor string) string {
	return ""
}
func (g *stubGateway) FinancialAnalysis(ctx context.Context, issuer string) *models.Financials {
	return nil
}
func (g *stubGateway) IsAvailable(ctx context.Context) bool { return g.available }

// stubCoordinator implements CoordinatorInterface
type stubCoordinator struct {
	bonds []models.Bond
}

func (c *stubCoordinator) Select(ctx context.Context, id string) error {
	for _, b := range c.bonds {
		if b.ID == id {
			return nil
		}
	}
	return errors.New("unknown bond id")
}
func (c *stubCoordinator) Deselect()                  {}
func (c *stubCoordinator) Watchlist() []models.Bond   { return c.bonds }
func (c *stubCoordinator) Rates() []models.MarketRate { return nil }
func (c *stubCoordinator) News() []models.NewsItem    { return nil }
func (c *stubCoordinator) State() market.Snapshot     { return market.Snapshot{} }
func (c *stubCoordinator) Bond(id string) (models.Bond, bool) {
	for _, b := range c.bonds {
		if b.ID == id {
			return b, true
		}
	}
	return models.Bond{}, false
}
func (c *stubCoordinator) History(id string) ([]pricing.HistoryPoint, pricing.HistoryStats, error) {
	return nil, pricing.HistoryStats{}, nil
}

func newTestApp(bonds []models.Bond) *App {
	return New(appconfig.NewTestConfig(), &stubGateway{}, &stubCoordinator{bonds: bonds})
}

func TestWatchlistRows_AdjustsQuotes(t *testing.T) {
	bonds := []models.Bond{
		{ID: "b-0", Ticker: "T1", Price: 100, Yield: 5, Duration: 5, Maturity: "2034-06-15"},
		{ID: "b-1", Ticker: "T2", Price: 98, Yield: 4, Duration: 8, Maturity: "2030-06-15"},
	}
	a := newTestApp(bonds)

	rows, err := a.WatchlistRows(1)
	if err != nil {
		t.Fatalf("WatchlistRows() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	if rows[0].Quote.Price != 101 {
		t.Errorf("row 0 price = %v, want 101", rows[0].Quote.Price)
	}
	if rows[0].Quote.Yield >= bonds[0].Yield {
		t.Errorf("row 0 yield %v not reduced by markup", rows[0].Quote.Yield)
	}
	if rows[0].Tenor <= 0 {
		t.Errorf("row 0 tenor = %v, want positive", rows[0].Tenor)
	}
}

func TestWatchlistRows_ZeroMarkup(t *testing.T) {
	bonds := []models.Bond{
		{ID: "b-0", Ticker: "T1", Price: 100, Yield: 5, Duration: 5, Maturity: "2034-06-15"},
	}
	rows, err := newTestApp(bonds).WatchlistRows(0)
	if err != nil {
		t.Fatalf("WatchlistRows() failed: %v", err)
	}
	if rows[0].Quote.Price != 100 || rows[0].Quote.Yield != 5 {
		t.Errorf("zero markup changed the quote: %+v", rows[0].Quote)
	}
}

func TestWatchlistRows_NegativeMarkup(t *testing.T) {
	_, err := newTestApp(nil).WatchlistRows(-1)
	if !errors.Is(err, pricing.ErrInvalidMarkup) {
		t.Errorf("error = %v, want ErrInvalidMarkup", err)
	}
}

func TestWatchlistRows_DegenerateBondFallsBack(t *testing.T) {
	bonds := []models.Bond{
		{ID: "b-0", Ticker: "T1", Price: 100, Yield: 5, Duration: 0, Maturity: "2034-06-15"},
	}
	rows, err := newTestApp(bonds).WatchlistRows(1)
	if err != nil {
		t.Fatalf("WatchlistRows() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("degenerate bond dropped from the table")
	}
	// Unadjusted values are displayed instead of failing the row
	if rows[0].Quote.Price != 100 || rows[0].Quote.Yield != 5 {
		t.Errorf("expected unadjusted quote, got %+v", rows[0].Quote)
	}
}

func TestWatchlistRows_MalformedMaturity(t *testing.T) {
	bonds := []models.Bond{
		{ID: "b-0", Ticker: "T1", Price: 100, Yield: 5, Duration: 5, Maturity: "bad-date"},
	}
	rows, err := newTestApp(bonds).WatchlistRows(0)
	if err != nil {
		t.Fatalf("WatchlistRows() failed: %v", err)
	}
	if rows[0].Tenor != 0 {
		t.Errorf("tenor = %v, want 0 for unparseable maturity", rows[0].Tenor)
	}
}

func TestAppAccessors(t *testing.T) {
	gateway := &stubGateway{available: true}
	coordinator := &stubCoordinator{}
	a := New(appconfig.NewTestConfig(), gateway, coordinator)

	if a.Gateway() != GatewayInterface(gateway) {
		t.Error("Gateway() did not return the injected gateway")
	}
	if a.Coordinator() != CoordinatorInterface(coordinator) {
		t.Error("Coordinator() did not return the injected coordinator")
	}
}
