package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gainboard/gainboard/internal/domain/model"
)

// CSVSource reads observations from a leaderboard CSV export. The header row
// must name a "name" column, a "timestamp" column, and a score column called
// either "score" or "number_int" (the legacy export name).
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV-backed record source for the given file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Path returns the file backing this source, for change watching.
func (s *CSVSource) Path() string {
	return s.path
}

// Load parses the whole file. Rows with an unparseable timestamp or a
// non-integer score are dropped and counted in the report rather than
// silently ignored; the load itself only fails when the file cannot be read,
// the header is unusable, or no row parses at all.
func (s *CSVSource) Load(ctx context.Context) ([]model.Observation, Report, error) {
	const op = "source.csv_load"

	f, err := os.Open(s.path)
	if err != nil {
		return nil, Report{}, wrap(op, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, Report{}, wrap(op, err)
	}
	nameCol, tsCol, scoreCol := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.ToLower(col)) {
		case "name":
			nameCol = i
		case "timestamp":
			tsCol = i
		case "score", "number_int":
			scoreCol = i
		}
	}
	if nameCol < 0 || tsCol < 0 || scoreCol < 0 {
		return nil, Report{}, wrap(op, fmt.Errorf("header %v lacks name/timestamp/score columns", header))
	}

	var (
		observations []model.Observation
		report       Report
		line         = 1
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, report, wrap(op, err)
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.drop(fmt.Errorf("line %d: %w: %w", line, ErrMalformedRecord, err))
			continue
		}
		if nameCol >= len(row) || tsCol >= len(row) || scoreCol >= len(row) {
			report.drop(fmt.Errorf("line %d: %w: short row", line, ErrMalformedRecord))
			continue
		}
		o, err := parseRow(row[nameCol], row[tsCol], row[scoreCol])
		if err != nil {
			report.drop(fmt.Errorf("line %d: %w", line, err))
			continue
		}
		observations = append(observations, o)
	}
	report.Loaded = len(observations)
	if report.Loaded == 0 && report.Malformed > 0 {
		return nil, report, wrap(op, ErrNoRecords)
	}
	return observations, report, nil
}

// parseRow coerces one raw row into an observation. Both sources share the
// timestamp layout and the integer-score contract.
func parseRow(name, ts, score string) (model.Observation, error) {
	instant, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(ts), time.UTC)
	if err != nil {
		return model.Observation{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformedRecord, ts)
	}
	value, err := strconv.ParseInt(strings.TrimSpace(score), 10, 64)
	if err != nil {
		return model.Observation{}, fmt.Errorf("%w: bad score %q", ErrMalformedRecord, score)
	}
	return model.Observation{Player: name, TS: instant, Score: value}, nil
}
