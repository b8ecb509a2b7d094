// Package types contains common result shapes used across the application.
package types

import "time"

// GainEntry is one row of a windowed gain leaderboard.
type GainEntry struct {
	Player string `json:"player"`
	Gain   int64  `json:"gain"`
}

// RollingGain reports the largest forward-looking score increase found for a
// player inside any rolling window of a fixed duration. Only strictly
// positive gains are ever emitted.
type RollingGain struct {
	Player  string `json:"player"`
	MaxGain int64  `json:"max_gain"`
}

// ProgressionPoint is one (timestamp, player, score) sample of the
// forward-filled progression series.
type ProgressionPoint struct {
	TS     time.Time `json:"ts"`
	Player string    `json:"player"`
	Score  int64     `json:"score"`
}

// SeasonalRankEntry is one row of the seasonal leaderboard: a player's
// all-time best score with a dense 1-based rank.
type SeasonalRankEntry struct {
	Rank         int    `json:"rank"`
	Player       string `json:"player"`
	HighestScore int64  `json:"highest_score"`
}
