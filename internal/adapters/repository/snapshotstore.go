package repository

import (
	"context"
	"sync"

	"github.com/gainboard/gainboard/internal/domain/history"
)

// snapshotStore implements Store with a mutex-guarded pointer swap. The
// snapshot itself is immutable, so readers only pay for the pointer read.
type snapshotStore struct {
	mu   sync.RWMutex
	snap *history.Snapshot
}

// NewSnapshotStore creates a snapshot store with configuration options.
// Without WithInitial the store starts with an empty snapshot.
func NewSnapshotStore(opts ...Option) Store {
	s := &snapshotStore{
		snap: history.NewSnapshot(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *snapshotStore) Current(_ context.Context) *history.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *snapshotStore) Swap(_ context.Context, snap *history.Snapshot) *history.Snapshot {
	if snap == nil {
		snap = history.NewSnapshot(nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snap
	s.snap = snap
	return prev
}

func (s *snapshotStore) Count(ctx context.Context) int {
	return s.Current(ctx).Len()
}
