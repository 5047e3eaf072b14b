// Package checkpoint persists run state snapshots so an interrupted
// workflow can be resumed from its last completed turn.
package checkpoint

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teascout/teascout/internal/memory"
)

// Store saves and retrieves thread snapshots keyed by run id.
type Store interface {
	// Save persists a snapshot for the given run.
	Save(ctx context.Context, runID uuid.UUID, cp memory.Checkpoint) error

	// Latest returns the most recent snapshot for the run, or false when
	// the run has no snapshots.
	Latest(ctx context.Context, runID uuid.UUID) (memory.Checkpoint, bool, error)
}

// InMemory returns a store backed by process memory. Useful for tests and
// for runs where durability is not required.
func InMemory() Store {
	return &memStore{records: make(map[uuid.UUID][]memRecord)}
}

type memRecord struct {
	cp      memory.Checkpoint
	created time.Time
}

type memStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID][]memRecord
}

func (s *memStore) Save(_ context.Context, runID uuid.UUID, cp memory.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[runID] = append(s.records[runID], memRecord{cp: cp, created: time.Now()})
	return nil
}

func (s *memStore) Latest(_ context.Context, runID uuid.UUID) (memory.Checkpoint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.records[runID]
	if len(recs) == 0 {
		return memory.Checkpoint{}, false, nil
	}
	sorted := make([]memRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].created.Before(sorted[j].created) })
	return sorted[len(sorted)-1].cp, true, nil
}
