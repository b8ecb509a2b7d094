// Package model contains domain models passed between layers.
package model

import "time"

// Observation is a single (player, timestamp, score) sample supplied by the
// record store. Observations are immutable; every engine result is derived
// from them, never written back.
type Observation struct {
	Player string    // player name, matched by exact string equality
	TS     time.Time // sample instant
	Score  int64     // raw score at that instant
}
