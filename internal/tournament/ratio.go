package tournament

import (
	"github.com/ratiohq/ratio/internal/contracts"
)

// Evaluation is the outcome of one pairwise matchup.
type Evaluation struct {
	// Evaluable is false when the pair lacks enough aligned history or the
	// denominator series contains non-positive prices. A non-evaluable pair
	// contributes nothing to either tally.
	Evaluable bool

	// Tie is true when the latest ratio equals its moving average exactly.
	// Both sides get a matchup but neither gets a win.
	Tie bool

	// Result holds winner, loser and margin for a decided matchup.
	Result contracts.MatchResult
}

// EvaluatePair runs one matchup between two assets via their synthetic
// price ratio. The pair is unordered: the engine normalizes so the
// lexicographically smaller symbol is the numerator, which makes the
// verdict independent of argument order.
func EvaluatePair(a, b contracts.PriceSeries, period int) Evaluation {
	// Canonical orientation
	if b.Symbol < a.Symbol {
		a, b = b, a
	}

	ratios, ok := alignedRatios(a, b, period)
	if !ok {
		return Evaluation{}
	}

	ma, err := MovingAverage(ratios, period)
	if err != nil {
		return Evaluation{}
	}
	latest := ratios[len(ratios)-1]

	eval := Evaluation{Evaluable: true}
	switch {
	case latest > ma:
		eval.Result = contracts.MatchResult{
			Winner: a.Symbol,
			Loser:  b.Symbol,
			Margin: (latest - ma) / ma,
		}
	case latest < ma:
		eval.Result = contracts.MatchResult{
			Winner: b.Symbol,
			Loser:  a.Symbol,
			Margin: (latest - ma) / ma,
		}
	default:
		eval.Tie = true
	}

	return eval
}

// alignedRatios inner-joins the two series on shared dates and returns the
// last period ratio values a/b. Returns false when fewer than period dates
// align or any joined denominator is non-positive.
func alignedRatios(a, b contracts.PriceSeries, period int) ([]float64, bool) {
	if !a.HasSufficientData(period) || !b.HasSufficientData(period) {
		return nil, false
	}

	// Both series are ascending by date, so a merge walk aligns them.
	type pair struct{ num, den float64 }
	aligned := make([]pair, 0, min(a.Len(), b.Len()))

	i, j := 0, 0
	for i < a.Len() && j < b.Len() {
		ad, bd := a.Points[i].Date, b.Points[j].Date
		switch {
		case ad.Before(bd):
			i++
		case bd.Before(ad):
			j++
		default:
			aligned = append(aligned, pair{a.Points[i].Close, b.Points[j].Close})
			i++
			j++
		}
	}

	if len(aligned) < period {
		return nil, false
	}

	// Only the trailing window feeds the ratio MA.
	window := aligned[len(aligned)-period:]
	ratios := make([]float64, len(window))
	for k, p := range window {
		if p.den <= 0 {
			// Invalid input data, not a fatal error: pair is skipped.
			return nil, false
		}
		ratios[k] = p.num / p.den
	}

	return ratios, true
}
