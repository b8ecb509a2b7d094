package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/gainboard/gainboard/internal/domain/model"
)

// SQLiteSource reads observations from a local SQLite database holding an
// observations(name, ts, score) table. Timestamps use the same layout as
// the CSV export; rows are read in insertion (rowid) order so first-seen
// tie-breaking matches the file-based source.
type SQLiteSource struct {
	path string
}

// NewSQLiteSource creates a SQLite-backed record source for the given
// database file.
func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{path: path}
}

// Path returns the database file backing this source, for change watching.
func (s *SQLiteSource) Path() string {
	return s.path
}

// Load scans the observations table, applying the same malformed-row policy
// as the CSV source: bad timestamps or scores drop the row and count it in
// the report.
func (s *SQLiteSource) Load(ctx context.Context) ([]model.Observation, Report, error) {
	const op = "source.sqlite_load"

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", s.path))
	if err != nil {
		return nil, Report{}, wrap(op, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT name, ts, score FROM observations ORDER BY rowid")
	if err != nil {
		return nil, Report{}, wrap(op, err)
	}
	defer rows.Close()

	var (
		observations []model.Observation
		report       Report
		n            int
	)
	for rows.Next() {
		n++
		var name, ts, score string
		if err := rows.Scan(&name, &ts, &score); err != nil {
			report.drop(fmt.Errorf("row %d: %w: %w", n, ErrMalformedRecord, err))
			continue
		}
		o, err := parseRow(name, ts, score)
		if err != nil {
			report.drop(fmt.Errorf("row %d: %w", n, err))
			continue
		}
		observations = append(observations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, report, wrap(op, err)
	}
	report.Loaded = len(observations)
	if report.Loaded == 0 && report.Malformed > 0 {
		return nil, report, wrap(op, ErrNoRecords)
	}
	return observations, report, nil
}
