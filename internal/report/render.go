package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/gainboard/gainboard/internal/adapters/source"
	"github.com/gainboard/gainboard/internal/domain/types"
)

// newTable builds a table with right-aligned rows and centered headers.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func renderGains(w io.Writer, entries []types.GainEntry) {
	table := newTable(w)
	table.Header("PLAYER NAME", "GAIN")
	for _, e := range entries {
		table.Append(e.Player, strconv.FormatInt(e.Gain, 10))
	}
	table.Render()
}

func renderRolling(w io.Writer, records []types.RollingGain, hours int) {
	table := newTable(w)
	table.Header("PLAYER", fmt.Sprintf("MAX GAIN IN %dH", hours))
	for _, rec := range records {
		table.Append(rec.Player, strconv.FormatInt(rec.MaxGain, 10))
	}
	table.Render()
}

// renderSeasonal prints the roster ranking. Scores carry thousands
// separators here in the presentation layer; the engine emits plain
// integers.
func renderSeasonal(w io.Writer, entries []types.SeasonalRankEntry) {
	table := newTable(w)
	table.Header("RANK", "PLAYER NAME", "HIGHEST SCORE SEEN")
	for _, e := range entries {
		table.Append(strconv.Itoa(e.Rank), e.Player, humanize.Comma(e.HighestScore))
	}
	table.Render()
}

func renderLatestPoints(w io.Writer, points []types.ProgressionPoint) {
	table := newTable(w)
	table.Header("PLAYER", "LATEST SAMPLE", "SCORE")
	for _, p := range points {
		table.Append(p.Player, p.TS.Format(source.TimeLayout), strconv.FormatInt(p.Score, 10))
	}
	table.Render()
}
