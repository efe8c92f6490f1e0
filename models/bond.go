package models

import (
	"fmt"
	"time"
)

// Currency is one of the fixed set of quote currencies
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyCNY Currency = "CNY"
	CurrencyHKD Currency = "HKD"
)

// Ratings holds the agency ratings triple for a bond
type Ratings struct {
	Moodys string `json:"moodys"`
	SNP    string `json:"snp"`
	Fitch  string `json:"fitch"`
}

// Bond identifies one fixed-income instrument on the watchlist.
// Bonds are created once at startup from the seed list and mutated in
// place only by the drift simulator.
type Bond struct {
	ID             string   `json:"id"`
	Ticker         string   `json:"ticker"`
	Issuer         string   `json:"issuer"`
	Guarantor      string   `json:"guarantor,omitempty"`
	Coupon         float64  `json:"coupon"`
	Maturity       string   `json:"maturity"` // yyyy-mm-dd
	Price          float64  `json:"price"`
	Yield          float64  `json:"yield"`
	YieldChangeBps float64  `json:"yield_change_bps"`
	Duration       float64  `json:"duration"` // effective duration in years
	Currency       Currency `json:"currency"`
	Sector         string   `json:"sector"`
	Ratings        Ratings  `json:"ratings"`
}

// Validate checks the bond record for data-quality errors. A zero or
// negative duration is invalid wherever it is used as a yield-impact
// divisor.
func (b *Bond) Validate() error {
	if b.Ticker == "" {
		return fmt.Errorf("bond %s: ticker is required", b.ID)
	}
	if b.Duration <= 0 {
		return fmt.Errorf("bond %s: duration must be positive, got %v", b.ID, b.Duration)
	}
	if b.Price <= 0 {
		return fmt.Errorf("bond %s: price must be positive, got %v", b.ID, b.Price)
	}
	return nil
}

// MaturityDate parses the maturity field.
func (b *Bond) MaturityDate() (time.Time, error) {
	return time.Parse("2006-01-02", b.Maturity)
}

// MarketRate is a named reference rate, static for the session.
type MarketRate struct {
	Label    string  `json:"label"`
	Rate     float64 `json:"rate"`
	Change   float64 `json:"change"`
	Currency string  `json:"currency"`
}

// Sentiment classifies a news item
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Impact classifies a news item's expected market impact
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// NewsItem is one entry in the news feed, either seeded at startup or
// generated by the issuer-news operation for the current selection.
type NewsItem struct {
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"` // HH:MM
	Date      string    `json:"date"`      // yyyy-mm-dd
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment"`
	Impact    Impact    `json:"impact"`
	Tags      []string  `json:"tags"`
}

// Financials is a normalized financial snapshot for an issuer. Every
// monetary and ratio field is a display string: the backend is asked to
// pre-format values with thousands separators and without units.
type Financials struct {
	TotalAssets      string `json:"totalAssets"`
	TotalLiabilities string `json:"totalLiabilities"`
	DebtRatio        string `json:"debtRatio"`
	CurrentRatio     string `json:"currentRatio"`
	QuickRatio       string `json:"quickRatio"`
	CashEquivalents  string `json:"cashEquivalents"`
	GrossMargin      string `json:"grossMargin"`
	NetMargin        string `json:"netMargin"`
	EPS              string `json:"eps"`
	PEG              string `json:"peg"`
	ReportDate       string `json:"reportDate"`
}

// Complete reports whether the always-required fields are populated.
// A snapshot missing any of them is treated as absent, never partial.
func (f *Financials) Complete() bool {
	return f.TotalAssets != "" && f.DebtRatio != "" && f.ReportDate != ""
}
