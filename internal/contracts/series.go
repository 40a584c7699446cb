package contracts

import (
	"sort"
	"time"
)

// PricePoint is one weekly bar reduced to its closing price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is the ordered weekly close-price history for one symbol.
// Points are ascending by date with unique dates. A series is built once per
// refresh cycle and treated as immutable afterwards.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// NewPriceSeries builds a series from raw points, sorting ascending by date
// and collapsing duplicate dates (the later-seen point wins).
func NewPriceSeries(symbol string, points []PricePoint) PriceSeries {
	sorted := make([]PricePoint, len(points))
	copy(sorted, points)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	deduped := sorted[:0]
	for _, p := range sorted {
		if len(deduped) > 0 && deduped[len(deduped)-1].Date.Equal(p.Date) {
			deduped[len(deduped)-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	return PriceSeries{Symbol: symbol, Points: deduped}
}

// Len returns the number of weekly points.
func (s PriceSeries) Len() int {
	return len(s.Points)
}

// HasSufficientData reports whether the series can support a period-week
// moving average. Shorter series are excluded from the tournament.
func (s PriceSeries) HasSufficientData(period int) bool {
	return len(s.Points) >= period
}

// Closes returns the closing prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Latest returns the most recent point, or false for an empty series.
func (s PriceSeries) Latest() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}
