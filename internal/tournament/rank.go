package tournament

import (
	"errors"
	"sort"

	"github.com/ratiohq/ratio/internal/contracts"
)

// ErrEmptyUniverse is returned when rank building receives no tallies.
// An empty input signals an upstream fetch failure, not a legitimate
// zero-asset universe, so it is surfaced instead of returning an empty
// list.
var ErrEmptyUniverse = errors.New("empty universe: no tallies to rank")

// BuildRanking sorts tallied assets into the final ranked list.
// Ordering: wins descending, then percent-above-own-MA descending, then
// symbol ascending. Ranks are 1-based and strictly sequential; equal keys
// still get distinct ranks. The ordering is a strict total order, so the
// output is reproducible for identical input.
func BuildRanking(tallies map[string]*contracts.AssetTally) ([]contracts.RankedEntry, error) {
	if len(tallies) == 0 {
		return nil, ErrEmptyUniverse
	}

	entries := make([]contracts.RankedEntry, 0, len(tallies))
	for _, t := range tallies {
		entry := contracts.RankedEntry{
			Symbol:         t.Symbol,
			Wins:           t.Wins,
			Losses:         t.Losses,
			TotalMatchups:  t.TotalMatchups,
			CurrentPrice:   t.CurrentPrice,
			MA:             t.MA,
			PercentAboveMA: t.PercentAboveMA,
			AboveMA:        t.CurrentPrice > t.MA,
		}
		if t.TotalMatchups > 0 {
			entry.WinRate = float64(t.Wins) / float64(t.TotalMatchups) * 100
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PercentAboveMA != b.PercentAboveMA {
			return a.PercentAboveMA > b.PercentAboveMA
		}
		return a.Symbol < b.Symbol
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}
