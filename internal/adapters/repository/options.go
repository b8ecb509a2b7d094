package repository

import "github.com/gainboard/gainboard/internal/domain/history"

// Option applies a configuration option to the snapshot store.
type Option func(*snapshotStore)

// WithInitial seeds the store with an already-built snapshot.
func WithInitial(snap *history.Snapshot) Option {
	return func(s *snapshotStore) {
		if snap != nil {
			s.snap = snap
		}
	}
}
