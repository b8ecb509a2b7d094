// Package source adapts external record stores into engine observations.
package source

import (
	"context"

	"github.com/gainboard/gainboard/internal/domain/model"
)

// TimeLayout is the fixed timestamp format of the score history exports,
// interpreted in UTC.
const TimeLayout = "2006-01-02 15:04:05"

// maxRowErrors caps how many per-row parse errors a Report retains; the
// count always covers every dropped row.
const maxRowErrors = 5

// RecordSource is the boundary to whatever stores the raw score history.
// Load returns every observation in storage order along with a Report of
// rows that had to be dropped.
type RecordSource interface {
	Load(ctx context.Context) ([]model.Observation, Report, error)
}

// Report summarizes one load: how many rows were kept, how many were dropped
// as malformed, and a sample of the row errors for the caller to surface.
type Report struct {
	Loaded    int
	Malformed int
	RowErrors []error
}

// drop records one malformed row.
func (r *Report) drop(err error) {
	r.Malformed++
	if len(r.RowErrors) < maxRowErrors {
		r.RowErrors = append(r.RowErrors, err)
	}
}
