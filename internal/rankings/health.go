package rankings

import "time"

// Snapshot states reported by Health.
const (
	StateEmpty = "empty" // no successful refresh yet
	StateFresh = "fresh" // refreshed within twice the update interval
	StateStale = "stale" // last refresh older than twice the interval
)

// UniverseHealth describes one universe's snapshot lifecycle.
type UniverseHealth struct {
	State         string     `json:"state"`
	AssetCount    int        `json:"asset_count"`
	ConfiguredFor int        `json:"configured_symbols"`
	FailedFetches int        `json:"failed_fetches"`
	LastRefreshed *time.Time `json:"last_refreshed,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// Health summarizes service readiness across all universes.
type Health struct {
	Status    string                    `json:"status"`
	Universes map[string]UniverseHealth `json:"universes"`
}

// Health reports per-universe snapshot state. The overall status is "ok"
// when every universe has a fresh snapshot, "degraded" otherwise.
func (s *Service) Health() Health {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	staleAfter := 2 * s.opts.UpdateInterval

	report := Health{
		Status:    "ok",
		Universes: make(map[string]UniverseHealth, len(s.registry.IDs())),
	}

	for _, id := range s.registry.IDs() {
		uh := UniverseHealth{
			State:         StateEmpty,
			ConfiguredFor: s.registry.Size(id),
		}

		if snap, ok := s.store.Get(id); ok {
			uh.AssetCount = snap.AssetCount
			uh.State = StateFresh
			if now.Sub(snap.ComputedAt) > staleAfter {
				uh.State = StateStale
			}
		}

		if st, ok := s.statuses[id]; ok {
			uh.FailedFetches = st.failedFetch
			uh.LastError = st.lastError
			if !st.lastSuccess.IsZero() {
				t := st.lastSuccess
				uh.LastRefreshed = &t
			}
		}

		if uh.State != StateFresh {
			report.Status = "degraded"
		}
		report.Universes[id] = uh
	}

	return report
}
