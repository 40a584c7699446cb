package tournament

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/ratiohq/ratio/internal/contracts"
	"github.com/ratiohq/ratio/pkg/logger"
)

// Runner executes the full round-robin over an asset universe. Every
// unordered pair of eligible symbols is evaluated exactly once; pair
// evaluation is side-effect-free, so the work is spread across a worker
// pool and merged with commutative aggregation.
type Runner struct {
	period  int
	workers int
	logger  *logger.Logger
}

// NewRunner creates a tournament runner with one worker per CPU.
func NewRunner(period int, log *logger.Logger) *Runner {
	return &Runner{
		period:  period,
		workers: runtime.NumCPU(),
		logger:  log,
	}
}

// WithWorkers overrides the worker count. Mostly useful in tests.
func (r *Runner) WithWorkers(n int) *Runner {
	if n > 0 {
		r.workers = n
	}
	return r
}

// Run enumerates all C(n,2) pairs over symbols with sufficient history,
// tallies wins and matchups, and annotates every eligible symbol with its
// own price-vs-MA distance. Symbols with insufficient data get no tally at
// all. The result is identical for identical input regardless of
// evaluation order.
func (r *Runner) Run(ctx context.Context, universe map[string]contracts.PriceSeries) (map[string]*contracts.AssetTally, error) {
	// Eligibility gate: a symbol must support its own moving average.
	symbols := make([]string, 0, len(universe))
	for symbol, series := range universe {
		if series.HasSufficientData(r.period) {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	excluded := len(universe) - len(symbols)
	if excluded > 0 {
		r.logger.WithFields(map[string]interface{}{
			"excluded": excluded,
			"eligible": len(symbols),
		}).Info("Symbols excluded for insufficient history")
	}

	tallies := make(map[string]*contracts.AssetTally, len(symbols))
	for _, symbol := range symbols {
		tallies[symbol] = &contracts.AssetTally{Symbol: symbol}
	}

	pairCount := len(symbols) * (len(symbols) - 1) / 2
	r.logger.WithFields(map[string]interface{}{
		"assets":   len(symbols),
		"matchups": pairCount,
	}).Info("Running tournament")

	if err := r.runPairs(ctx, symbols, universe, tallies); err != nil {
		return nil, err
	}

	// Own-MA distance; the Rank tie-break key. Independent of matchups.
	for _, symbol := range symbols {
		latest, ma, percent, err := DistanceAboveMA(universe[symbol].Closes(), r.period)
		if err != nil {
			// Cannot happen past the eligibility gate, but stay safe.
			continue
		}
		t := tallies[symbol]
		t.CurrentPrice = latest
		t.MA = ma
		t.PercentAboveMA = percent
	}

	return tallies, nil
}

// runPairs fans pair evaluation out over the worker pool. Each worker
// accumulates into a private tally map; partials are merged once all
// workers finish, so no locks sit on the hot path.
func (r *Runner) runPairs(ctx context.Context, symbols []string, universe map[string]contracts.PriceSeries, tallies map[string]*contracts.AssetTally) error {
	type pairIdx struct{ i, j int }

	pairs := make(chan pairIdx)
	partials := make([]map[string]*contracts.AssetTally, r.workers)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		partial := make(map[string]*contracts.AssetTally)
		partials[w] = partial

		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range pairs {
				eval := EvaluatePair(universe[symbols[p.i]], universe[symbols[p.j]], r.period)
				if !eval.Evaluable {
					// Pair skipped entirely: no matchup recorded for either side.
					continue
				}

				a := bump(partial, symbols[p.i])
				b := bump(partial, symbols[p.j])
				a.TotalMatchups++
				b.TotalMatchups++

				if eval.Tie {
					continue
				}

				winner := bump(partial, eval.Result.Winner)
				loser := bump(partial, eval.Result.Loser)
				winner.Wins++
				loser.Losses++
			}
		}()
	}

	var ctxErr error
feed:
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			select {
			case <-ctx.Done():
				ctxErr = ctx.Err()
				break feed
			case pairs <- pairIdx{i, j}:
			}
		}
	}
	close(pairs)
	wg.Wait()

	if ctxErr != nil {
		return ctxErr
	}

	for _, partial := range partials {
		for symbol, p := range partial {
			t := tallies[symbol]
			t.Wins += p.Wins
			t.Losses += p.Losses
			t.TotalMatchups += p.TotalMatchups
		}
	}

	return nil
}

func bump(m map[string]*contracts.AssetTally, symbol string) *contracts.AssetTally {
	t, ok := m[symbol]
	if !ok {
		t = &contracts.AssetTally{Symbol: symbol}
		m[symbol] = t
	}
	return t
}
