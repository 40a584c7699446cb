package rankings

import (
	"context"
	"sync"
	"time"
)

// probeTimeout bounds each provider connectivity check.
const probeTimeout = 10 * time.Second

// ProviderStatus is the result of one provider connectivity check.
type ProviderStatus struct {
	Provider string `json:"provider"`
	Symbol   string `json:"symbol"`
	OK       bool   `json:"ok"`
	Duration string `json:"duration"`
	Points   int    `json:"points,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NetworkTest fetches one representative symbol from every distinct
// provider and reports reachability. Checks run concurrently; a failing
// provider never blocks the others past its own timeout.
func (s *Service) NetworkTest(ctx context.Context) []ProviderStatus {
	probes := s.registry.Probes()
	results := make([]ProviderStatus, len(probes))

	var wg sync.WaitGroup
	for i, m := range probes {
		i, m := i, m
		wg.Add(1)
		go func() {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			started := time.Now()
			series, err := m.Provider.FetchWeeklyCloses(probeCtx, m.Symbol)

			status := ProviderStatus{
				Provider: m.Provider.Name(),
				Symbol:   m.Symbol,
				Duration: time.Since(started).Round(time.Millisecond).String(),
			}
			if err != nil {
				status.Error = err.Error()
			} else {
				status.OK = true
				status.Points = series.Len()
			}
			results[i] = status
		}()
	}
	wg.Wait()

	return results
}
