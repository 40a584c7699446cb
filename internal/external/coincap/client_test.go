package coincap

import (
	"testing"
	"time"

	"github.com/ratiohq/ratio/internal/contracts"
)

func TestParseHistoryResponse(t *testing.T) {
	body := []byte(`{
		"data": [
			{"priceUsd": "42000.5", "time": 1735689600000},
			{"priceUsd": "43100.0", "time": 1735776000000},
			{"priceUsd": "bogus", "time": 1735862400000},
			{"priceUsd": "44250.25", "time": 1735948800000}
		]
	}`)

	series, err := parseHistoryResponse("BTC", body, 20)
	if err != nil {
		t.Fatalf("parseHistoryResponse() failed: %v", err)
	}

	if series.Symbol != "BTC" {
		t.Errorf("symbol = %s, want BTC", series.Symbol)
	}

	// The malformed point is dropped; with <7 daily points only the most
	// recent one survives downsampling.
	latest, ok := series.Latest()
	if !ok {
		t.Fatal("series should not be empty")
	}
	if latest.Close != 44250.25 {
		t.Errorf("latest close = %v, want 44250.25", latest.Close)
	}
}

func TestParseHistoryResponseEmpty(t *testing.T) {
	if _, err := parseHistoryResponse("BTC", []byte(`{"data": []}`), 20); err == nil {
		t.Error("empty data should fail")
	}
}

func TestDownsampleWeekly(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	daily := make([]contracts.PricePoint, 100)
	for i := range daily {
		daily[i] = contracts.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: float64(i),
		}
	}

	weekly := DownsampleWeekly(daily, 10)

	if len(weekly) != 10 {
		t.Fatalf("len = %d, want 10", len(weekly))
	}

	// Anchored at the most recent day: the latest daily close survives.
	if weekly[len(weekly)-1].Close != 99 {
		t.Errorf("latest weekly close = %v, want 99", weekly[len(weekly)-1].Close)
	}

	// Seven days between consecutive points, ascending.
	for i := 1; i < len(weekly); i++ {
		gap := weekly[i].Date.Sub(weekly[i-1].Date)
		if gap != 7*24*time.Hour {
			t.Errorf("gap between points %d and %d = %v, want 168h", i-1, i, gap)
		}
	}
}

func TestDownsampleWeeklyShortInput(t *testing.T) {
	daily := []contracts.PricePoint{
		{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Close: 1},
		{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Close: 2},
	}

	weekly := DownsampleWeekly(daily, 20)
	if len(weekly) != 1 {
		t.Fatalf("len = %d, want 1 (one point per started week)", len(weekly))
	}
	if weekly[0].Close != 2 {
		t.Errorf("close = %v, want the most recent (2)", weekly[0].Close)
	}
}

func TestAssetID(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"BTC", "bitcoin"},
		{"ETH", "ethereum"},
		{"NEAR", "near-protocol"},
		{"UNKNOWN", "unknown"}, // fallback: lowercased ticker
	}

	for _, tt := range tests {
		if got := AssetID(tt.symbol); got != tt.want {
			t.Errorf("AssetID(%s) = %s, want %s", tt.symbol, got, tt.want)
		}
	}
}

func TestTopSymbols(t *testing.T) {
	if got := len(TopSymbols(5)); got != 5 {
		t.Errorf("TopSymbols(5) returned %d, want 5", got)
	}
	if got := len(TopSymbols(0)); got != len(topSymbols) {
		t.Errorf("TopSymbols(0) returned %d, want all %d", got, len(topSymbols))
	}
	if !Supports("BTC") {
		t.Error("BTC should be supported")
	}
	if Supports("NOPE") {
		t.Error("NOPE should not be supported")
	}
}
