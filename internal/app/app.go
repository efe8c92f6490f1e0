package app

import (
	"context"
	"time"

	appconfig "bond-terminal/config"
	"bond-terminal/market"
	"bond-terminal/models"
	"bond-terminal/observability"
	"bond-terminal/pricing"
)

// GatewayInterface defines the analysis operations exposed by the
// generative gateway. All operations are total.
type GatewayInterface interface {
	TraderInsight(ctx context.Context, bond models.Bond) string
	IssuerNews(ctx context.Context, issuer, guarantor string) []models.NewsItem
	MacroSummary(ctx context.Context, news []models.NewsItem) string
	IssuerBackground(ctx context.Context, issuer, guarantor string) string
	FinancialAnalysis(ctx context.Context, issuer string) *models.Financials
	IsAvailable(ctx context.Context) bool
}

// CoordinatorInterface defines the view-state operations needed by the
// HTTP handlers.
type CoordinatorInterface interface {
	Select(ctx context.Context, id string) error
	Deselect()
	Watchlist() []models.Bond
	Bond(id string) (models.Bond, bool)
	Rates() []models.MarketRate
	News() []models.NewsItem
	State() market.Snapshot
	History(id string) ([]pricing.HistoryPoint, pricing.HistoryStats, error)
}

// App holds application dependencies using interfaces for testability
type App struct {
	cfg         *appconfig.Config
	gateway     GatewayInterface
	coordinator CoordinatorInterface
}

// New creates a new App
func New(cfg *appconfig.Config, gateway GatewayInterface, coordinator CoordinatorInterface) *App {
	return &App{
		cfg:         cfg,
		gateway:     gateway,
		coordinator: coordinator,
	}
}

// Gateway returns the analysis gateway.
func (a *App) Gateway() GatewayInterface {
	return a.gateway
}

// Coordinator returns the view-state coordinator.
func (a *App) Coordinator() CoordinatorInterface {
	return a.coordinator
}

// WatchlistRow is one bond plus its markup-adjusted quote and tenor.
type WatchlistRow struct {
	models.Bond
	Quote pricing.Quote `json:"quote"`
	Tenor float64       `json:"tenor"`
}

// WatchlistRows assembles display rows for the watchlist under the
// given markup. Degenerate bond data falls back to the unadjusted
// quote instead of failing the whole table.
func (a *App) WatchlistRows(markup float64) ([]WatchlistRow, error) {
	if markup < 0 {
		return nil, pricing.ErrInvalidMarkup
	}

	now := time.Now()
	bonds := a.coordinator.Watchlist()
	rows := make([]WatchlistRow, 0, len(bonds))

	for _, b := range bonds {
		quote, err := pricing.AdjustedQuote(b, markup)
		if err != nil {
			// Data-quality fault: display the unadjusted values.
			observability.WithTicker(b.Ticker).Warn("invalid bond data, using unadjusted quote", "error", err)
			quote = pricing.Quote{Price: b.Price, Yield: b.Yield}
		}

		tenor := 0.0
		if maturity, err := b.MaturityDate(); err == nil {
			tenor = pricing.TenorYears(maturity, now)
		}

		rows = append(rows, WatchlistRow{Bond: b, Quote: quote, Tenor: tenor})
	}

	return rows, nil
}
