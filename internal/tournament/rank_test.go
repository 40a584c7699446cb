package tournament

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ratiohq/ratio/internal/contracts"
)

func talliesFixture() map[string]*contracts.AssetTally {
	return map[string]*contracts.AssetTally{
		"AAPL": {Symbol: "AAPL", Wins: 10, Losses: 2, TotalMatchups: 12, CurrentPrice: 110, MA: 100, PercentAboveMA: 10},
		"MSFT": {Symbol: "MSFT", Wins: 10, Losses: 2, TotalMatchups: 12, CurrentPrice: 105, MA: 100, PercentAboveMA: 5},
		"GLD":  {Symbol: "GLD", Wins: 4, Losses: 8, TotalMatchups: 12, CurrentPrice: 95, MA: 100, PercentAboveMA: -5},
		"BTC":  {Symbol: "BTC", Wins: 12, Losses: 0, TotalMatchups: 12, CurrentPrice: 120, MA: 100, PercentAboveMA: 20},
	}
}

func TestBuildRanking_Ordering(t *testing.T) {
	ranking, err := BuildRanking(talliesFixture())
	if err != nil {
		t.Fatalf("BuildRanking() failed: %v", err)
	}

	wantOrder := []string{"BTC", "AAPL", "MSFT", "GLD"}
	for i, want := range wantOrder {
		if ranking[i].Symbol != want {
			t.Errorf("rank %d = %s, want %s", i+1, ranking[i].Symbol, want)
		}
		if ranking[i].Rank != i+1 {
			t.Errorf("entry %s rank = %d, want %d", ranking[i].Symbol, ranking[i].Rank, i+1)
		}
	}

	// Strict total order between adjacent entries.
	for i := 1; i < len(ranking); i++ {
		prev, cur := ranking[i-1], ranking[i]
		ordered := prev.Wins > cur.Wins ||
			(prev.Wins == cur.Wins && prev.PercentAboveMA > cur.PercentAboveMA) ||
			(prev.Wins == cur.Wins && prev.PercentAboveMA == cur.PercentAboveMA && prev.Symbol < cur.Symbol)
		if !ordered {
			t.Errorf("entries %d and %d violate the ranking order", i-1, i)
		}
	}
}

func TestBuildRanking_SymbolTieBreak(t *testing.T) {
	tallies := map[string]*contracts.AssetTally{
		"ZED": {Symbol: "ZED", Wins: 5, TotalMatchups: 10, PercentAboveMA: 3},
		"ABC": {Symbol: "ABC", Wins: 5, TotalMatchups: 10, PercentAboveMA: 3},
	}

	ranking, err := BuildRanking(tallies)
	if err != nil {
		t.Fatalf("BuildRanking() failed: %v", err)
	}

	if ranking[0].Symbol != "ABC" || ranking[1].Symbol != "ZED" {
		t.Errorf("equal keys should break ties by symbol: got %s, %s",
			ranking[0].Symbol, ranking[1].Symbol)
	}

	// No shared ranks even on full key equality.
	if ranking[0].Rank != 1 || ranking[1].Rank != 2 {
		t.Errorf("ranks = %d, %d; want 1, 2", ranking[0].Rank, ranking[1].Rank)
	}
}

func TestBuildRanking_Idempotent(t *testing.T) {
	tallies := talliesFixture()

	first, err := BuildRanking(tallies)
	if err != nil {
		t.Fatalf("first BuildRanking() failed: %v", err)
	}
	second, err := BuildRanking(tallies)
	if err != nil {
		t.Fatalf("second BuildRanking() failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("re-running build on unchanged tallies must yield an identical ranking")
	}
}

func TestBuildRanking_EmptyUniverse(t *testing.T) {
	if _, err := BuildRanking(map[string]*contracts.AssetTally{}); !errors.Is(err, ErrEmptyUniverse) {
		t.Errorf("want ErrEmptyUniverse, got %v", err)
	}
}

func TestBuildRanking_WinRate(t *testing.T) {
	tallies := map[string]*contracts.AssetTally{
		"AAA": {Symbol: "AAA", Wins: 3, Losses: 1, TotalMatchups: 4},
		"BBB": {Symbol: "BBB", Wins: 0, Losses: 0, TotalMatchups: 0},
	}

	ranking, err := BuildRanking(tallies)
	if err != nil {
		t.Fatalf("BuildRanking() failed: %v", err)
	}

	for _, e := range ranking {
		switch e.Symbol {
		case "AAA":
			if e.WinRate != 75 {
				t.Errorf("AAA win rate = %v, want 75", e.WinRate)
			}
		case "BBB":
			if e.WinRate != 0 {
				t.Errorf("BBB win rate = %v, want 0 (no matchups)", e.WinRate)
			}
		}
	}
}
