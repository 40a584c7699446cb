package rankings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ratiohq/ratio/internal/contracts"
	"github.com/ratiohq/ratio/internal/namelookup"
	"github.com/ratiohq/ratio/internal/tournament"
	"github.com/ratiohq/ratio/internal/universe"
	"github.com/ratiohq/ratio/pkg/logger"
)

// Options configure the refresh pipeline.
type Options struct {
	// FetchConcurrency bounds parallel provider fetches within one refresh.
	FetchConcurrency int
	// RefreshTimeout bounds one full refresh cycle, fetch through publish.
	RefreshTimeout time.Duration
	// UpdateInterval is the expected cadence between refreshes. Snapshots
	// older than twice this are reported stale.
	UpdateInterval time.Duration
}

// Service computes and serves ranking snapshots. Refreshes replace the
// published snapshot atomically; reads never block behind a running refresh.
type Service struct {
	opts     Options
	registry *universe.Registry
	runner   *tournament.Runner
	names    *namelookup.Resolver
	store    *Store
	log      *logger.Logger

	// group collapses concurrent refresh requests for the same universe
	// into a single computation.
	group singleflight.Group

	mu       sync.RWMutex
	statuses map[string]*universeStatus
}

type universeStatus struct {
	lastAttempt time.Time
	lastSuccess time.Time
	lastError   string
	failedFetch int
}

// NewService wires the refresh pipeline. The name resolver may be nil, in
// which case symbols are served without display names.
func NewService(opts Options, reg *universe.Registry, runner *tournament.Runner, names *namelookup.Resolver, log *logger.Logger) *Service {
	if opts.FetchConcurrency < 1 {
		opts.FetchConcurrency = 1
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 5 * time.Minute
	}
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = time.Hour
	}
	return &Service{
		opts:     opts,
		registry: reg,
		runner:   runner,
		names:    names,
		store:    NewStore(),
		log:      log,
		statuses: make(map[string]*universeStatus),
	}
}

// GetCurrent returns the published snapshot for a universe. It never
// blocks on a running refresh.
func (s *Service) GetCurrent(universeID string) (*contracts.RankingSnapshot, error) {
	if _, err := s.registry.Members(universeID); err != nil {
		return nil, err
	}
	snap, ok := s.store.Get(universeID)
	if !ok {
		return nil, fmt.Errorf("%w: universe %s", ErrNoDataYet, universeID)
	}
	return snap, nil
}

// GetRankings returns up to limit entries from the current snapshot.
// limit <= 0 means no limit.
func (s *Service) GetRankings(universeID string, limit int) (*contracts.RankingSnapshot, []contracts.RankedEntry, error) {
	snap, err := s.GetCurrent(universeID)
	if err != nil {
		return nil, nil, err
	}
	return snap, snap.Top(limit), nil
}

// GetAssetDetail looks a symbol up across universes, big board first. The
// returned snapshot is the one the entry came from, so entry and snapshot
// metadata are always coherent even when a refresh lands mid-request.
func (s *Service) GetAssetDetail(symbol string) (contracts.RankedEntry, *contracts.RankingSnapshot, error) {
	for _, id := range s.registry.IDs() {
		snap, ok := s.store.Get(id)
		if !ok {
			continue
		}
		if entry, found := snap.Find(symbol); found {
			return entry, snap, nil
		}
	}
	return contracts.RankedEntry{}, nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
}

// UniverseIDs lists the registered universes in serving priority order.
func (s *Service) UniverseIDs() []string {
	return s.registry.IDs()
}

// Refresh recomputes the snapshot for one universe. Concurrent calls for
// the same universe share a single run. On failure the previous snapshot,
// if any, stays published.
func (s *Service) Refresh(ctx context.Context, universeID string) (*contracts.RankingSnapshot, error) {
	if _, err := s.registry.Members(universeID); err != nil {
		return nil, err
	}

	v, err, shared := s.group.Do(universeID, func() (any, error) {
		return s.refresh(ctx, universeID)
	})
	if shared {
		s.log.WithField("universe", universeID).Debug("refresh request joined an in-flight run")
	}
	if err != nil {
		return nil, err
	}
	return v.(*contracts.RankingSnapshot), nil
}

// RefreshAll refreshes every registered universe sequentially. Universes
// keep independent lifecycles, so one failure does not stop the others.
func (s *Service) RefreshAll(ctx context.Context) error {
	var firstErr error
	for _, id := range s.registry.IDs() {
		if _, err := s.Refresh(ctx, id); err != nil {
			s.log.WithError(err).WithField("universe", id).Error("universe refresh failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Service) refresh(ctx context.Context, universeID string) (*contracts.RankingSnapshot, error) {
	started := time.Now()
	s.recordAttempt(universeID, started)

	// A refresh that begins runs to completion or hard failure. The
	// triggering caller may disconnect, and joined callers share this run,
	// so only the refresh timeout bounds the work.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RefreshTimeout)
	defer cancel()

	members, err := s.registry.Members(universeID)
	if err != nil {
		return nil, err
	}

	series, failed := s.fetchAll(ctx, members)
	if len(series) == 0 {
		err := fmt.Errorf("%w: universe %s: all %d fetches failed", ErrRefreshFailed, universeID, len(members))
		s.recordFailure(universeID, err, failed)
		return nil, err
	}
	if failed > 0 {
		s.log.Warnf("universe %s: %d/%d symbols failed to fetch, continuing with the rest",
			universeID, failed, len(members))
	}

	tallies, err := s.runner.Run(ctx, series)
	if err != nil {
		err = fmt.Errorf("%w: universe %s: %v", ErrRefreshFailed, universeID, err)
		s.recordFailure(universeID, err, failed)
		return nil, err
	}

	entries, err := tournament.BuildRanking(tallies)
	if err != nil {
		err = fmt.Errorf("%w: universe %s: %v", ErrRefreshFailed, universeID, err)
		s.recordFailure(universeID, err, failed)
		return nil, err
	}

	if s.names != nil {
		for i := range entries {
			entries[i].Name = s.names.Resolve(ctx, entries[i].Symbol)
		}
	}

	snap := &contracts.RankingSnapshot{
		UniverseID: universeID,
		Entries:    entries,
		ComputedAt: time.Now().UTC(),
		AssetCount: len(entries),
	}
	s.store.Set(snap)
	s.recordSuccess(universeID, failed)

	s.log.Infof("universe %s: ranked %d assets in %s (%d fetch failures)",
		universeID, len(entries), time.Since(started).Round(time.Millisecond), failed)
	return snap, nil
}

// fetchAll pulls price history for every member with bounded concurrency.
// Individual failures drop the symbol from this cycle rather than aborting
// the refresh.
func (s *Service) fetchAll(ctx context.Context, members []universe.Member) (map[string]contracts.PriceSeries, int) {
	var (
		mu     sync.Mutex
		series = make(map[string]contracts.PriceSeries, len(members))
		failed int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.FetchConcurrency)

	for _, m := range members {
		m := m
		g.Go(func() error {
			ps, err := m.Provider.FetchWeeklyCloses(ctx, m.Symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.log.WithError(err).WithField("symbol", m.Symbol).Debug("price fetch failed")
				return nil
			}
			series[m.Symbol] = ps
			return nil
		})
	}
	// workers never return errors; Wait only orders completion
	_ = g.Wait()

	return series, failed
}

func (s *Service) recordAttempt(universeID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status(universeID)
	st.lastAttempt = at
}

func (s *Service) recordSuccess(universeID string, failedFetch int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status(universeID)
	st.lastSuccess = time.Now()
	st.lastError = ""
	st.failedFetch = failedFetch
}

func (s *Service) recordFailure(universeID string, err error, failedFetch int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status(universeID)
	st.lastError = err.Error()
	st.failedFetch = failedFetch
}

// status must be called with s.mu held.
func (s *Service) status(universeID string) *universeStatus {
	st, ok := s.statuses[universeID]
	if !ok {
		st = &universeStatus{}
		s.statuses[universeID] = st
	}
	return st
}
