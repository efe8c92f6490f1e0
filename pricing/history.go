package pricing

import (
	"fmt"
	"math"
	"math/rand"
)

// HistoryPoint is one simulated monthly closing price.
type HistoryPoint struct {
	Name  string  `json:"name"` // 1M .. 12M
	Price float64 `json:"price"`
}

// HistoryStats summarizes a simulated series.
type HistoryStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// historyMonths is the fixed length of the simulated series.
const historyMonths = 12

// SimulateHistory produces a 12-point monthly price series around a base
// price: independent random volatility per point plus a mild upward
// trend toward the current price. The rand source is injectable so tests
// can assert deterministic output.
func SimulateHistory(basePrice float64, rng *rand.Rand) []HistoryPoint {
	points := make([]HistoryPoint, 0, historyMonths)
	for i := 0; i < historyMonths; i++ {
		volatility := (rng.Float64() - 0.5) * 4
		price := basePrice + volatility - float64(historyMonths-1-i)*0.2
		points = append(points, HistoryPoint{
			Name:  fmt.Sprintf("%dM", i+1),
			Price: math.Round(price*100) / 100,
		})
	}
	return points
}

// Stats computes avg/min/max over a simulated series.
func Stats(points []HistoryPoint) HistoryStats {
	if len(points) == 0 {
		return HistoryStats{}
	}

	sum := 0.0
	min := points[0].Price
	max := points[0].Price
	for _, p := range points {
		sum += p.Price
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}

	return HistoryStats{
		Avg: math.Round(sum/float64(len(points))*100) / 100,
		Min: min,
		Max: max,
	}
}
