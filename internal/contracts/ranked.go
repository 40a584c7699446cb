package contracts

import "time"

// MatchResult is the outcome of a single decided matchup.
type MatchResult struct {
	Winner string  `json:"winner"`
	Loser  string  `json:"loser"`
	Margin float64 `json:"margin"` // (latest ratio - ratio MA) / ratio MA, informational only
}

// AssetTally accumulates one asset's standing across a tournament pass.
type AssetTally struct {
	Symbol         string  `json:"symbol"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	TotalMatchups  int     `json:"total_matchups"`
	CurrentPrice   float64 `json:"current_price"`
	MA             float64 `json:"ma"`
	PercentAboveMA float64 `json:"percent_above_ma"` // own price vs own MA, in percent
}

// RankedEntry is one row of the final ranking. This is the externally
// served unit.
type RankedEntry struct {
	Rank           int     `json:"rank"` // 1-based
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name,omitempty"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	TotalMatchups  int     `json:"total_matchups"`
	WinRate        float64 `json:"win_rate"` // percent of decided matchups won
	CurrentPrice   float64 `json:"current_price"`
	MA             float64 `json:"ma"`
	PercentAboveMA float64 `json:"percent_above_ma"`
	AboveMA        bool    `json:"above_ma"`
}

// RankingSnapshot is an immutable, fully-computed ranking for one universe.
// It is replaced wholesale on each successful refresh, never mutated.
type RankingSnapshot struct {
	UniverseID string        `json:"universe_id"`
	Entries    []RankedEntry `json:"entries"`
	ComputedAt time.Time     `json:"computed_at"`
	AssetCount int           `json:"asset_count"`
}

// Top returns the first n entries, or all of them when n <= 0 or exceeds
// the snapshot size.
func (s *RankingSnapshot) Top(n int) []RankedEntry {
	if n <= 0 || n >= len(s.Entries) {
		return s.Entries
	}
	return s.Entries[:n]
}

// Find returns the entry for a symbol, or false when the symbol is not
// part of the snapshot.
func (s *RankingSnapshot) Find(symbol string) (RankedEntry, bool) {
	for _, e := range s.Entries {
		if e.Symbol == symbol {
			return e, true
		}
	}
	return RankedEntry{}, false
}
