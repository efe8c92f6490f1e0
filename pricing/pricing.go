// Package pricing holds the pure derivation functions for quoted prices:
// markup-adjusted quotes and remaining tenor. It has no dependencies on
// the network layer so data-quality faults stay distinct from transport
// faults.
package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"bond-terminal/models"
)

// ErrInvalidBondData reports degenerate bond data (zero or negative
// price/duration) that would make the yield-impact divisor invalid.
// Callers substitute the unadjusted yield instead of failing.
var ErrInvalidBondData = errors.New("invalid bond data: price and duration must be positive")

// ErrInvalidMarkup reports a negative markup input.
var ErrInvalidMarkup = errors.New("markup must be non-negative")

// Quote is a markup-adjusted price/yield pair.
type Quote struct {
	Price       float64 `json:"price"`
	Yield       float64 `json:"yield"`
	YieldImpact float64 `json:"yield_impact"`
}

// MarkupSteps are the quoting steps offered by the dashboard. Any
// non-negative markup is accepted by AdjustedQuote; this set only drives
// the selector.
var MarkupSteps = []float64{0, 0.5, 1, 1.5, 2, 2.5, 3}

// AdjustedQuote applies a trader markup to a bond's displayed quote.
// The price rises by the markup and the yield falls proportionally to
// the bond's duration sensitivity, floored at zero.
func AdjustedQuote(bond models.Bond, markup float64) (Quote, error) {
	if markup < 0 {
		return Quote{}, ErrInvalidMarkup
	}
	if bond.Price*bond.Duration <= 0 {
		return Quote{}, ErrInvalidBondData
	}

	// Decimal addition keeps three-decimal display prices exact.
	price, _ := decimal.NewFromFloat(bond.Price).
		Add(decimal.NewFromFloat(markup)).
		Round(3).
		Float64()

	if markup == 0 {
		return Quote{Price: price, Yield: bond.Yield}, nil
	}

	impact := (markup / (bond.Price * bond.Duration)) * 100
	yield := math.Max(0, bond.Yield-impact)

	return Quote{Price: price, Yield: yield, YieldImpact: impact}, nil
}

// daysPerYear converts a calendar interval to years.
const daysPerYear = 365.25

// TenorYears computes the remaining time to maturity in years, floored
// at zero and rounded to one decimal place. A maturity in the past
// yields exactly 0.0.
func TenorYears(maturity, asOf time.Time) float64 {
	days := maturity.Sub(asOf).Hours() / 24
	years := days / daysPerYear
	if years < 0 {
		return 0
	}
	return math.Round(years*10) / 10
}
