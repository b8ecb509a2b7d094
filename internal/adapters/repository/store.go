// Package repository holds the active observation snapshot for query use.
package repository

import (
	"context"

	"github.com/gainboard/gainboard/internal/domain/history"
)

// Store provides read access to the active snapshot and atomic replacement
// on reload. Queries hand out the frozen snapshot itself, so a computation
// that started before a Swap keeps seeing a consistent history.
type Store interface {
	// Current returns the active snapshot. Never nil: an empty snapshot
	// stands in until the first Swap.
	Current(ctx context.Context) *history.Snapshot

	// Swap installs a freshly built snapshot and returns the previous one.
	Swap(ctx context.Context, snap *history.Snapshot) *history.Snapshot

	// Count returns the observation count of the active snapshot.
	Count(ctx context.Context) int
}
