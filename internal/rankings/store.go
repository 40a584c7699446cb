package rankings

import (
	"sync"

	"github.com/ratiohq/ratio/internal/contracts"
)

// Store holds the published ranking snapshot per universe. Snapshots are
// replaced wholesale by pointer swap on successful refresh and never
// mutated in place, so readers always observe a fully-formed result.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]*contracts.RankingSnapshot
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{
		snapshots: make(map[string]*contracts.RankingSnapshot),
	}
}

// Get returns the current snapshot for a universe, or false when none has
// been published yet.
func (s *Store) Get(universeID string) (*contracts.RankingSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[universeID]
	return snap, ok
}

// Set atomically replaces the snapshot for its universe.
func (s *Store) Set(snap *contracts.RankingSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snap.UniverseID] = snap
}
