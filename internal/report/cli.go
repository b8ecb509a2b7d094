// Package report implements the gainboard reporting CLI: one-shot
// leaderboard tables rendered straight from a record source, no server
// required.
package report

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gainboard/gainboard/internal/adapters/source"
	"github.com/gainboard/gainboard/internal/domain/history"
	"github.com/gainboard/gainboard/internal/domain/progression"
	"github.com/gainboard/gainboard/internal/domain/rank"
)

var (
	dataFile   string
	sqliteFile string
	namesFile  string
)

// Execute runs the reporting CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gainboard-report",
		Short:         "Render gainboard leaderboards as tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataFile, "data", "leaderboard_data.csv", "score history CSV export")
	root.PersistentFlags().StringVar(&sqliteFile, "sqlite", "", "read from this SQLite database instead of the CSV")
	root.PersistentFlags().StringVar(&namesFile, "names", "selected_users.txt", "seasonal roster list, one name per line")

	root.AddCommand(newGainsCmd(), newRollingCmd(), newSeasonalCmd(), newProgressionCmd())
	return root
}

// loadSnapshot builds the observation index from whichever source the flags
// select. Malformed rows are reported on stderr, matching the engine's
// drop-and-count policy.
func loadSnapshot(cmd *cobra.Command) (*history.Snapshot, error) {
	var src source.RecordSource = source.NewCSVSource(dataFile)
	if sqliteFile != "" {
		src = source.NewSQLiteSource(sqliteFile)
	}
	observations, rep, err := src.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	if rep.Malformed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: dropped %d malformed records\n", rep.Malformed)
		for _, rowErr := range rep.RowErrors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", rowErr)
		}
	}
	return history.NewSnapshot(observations), nil
}

func newGainsCmd() *cobra.Command {
	var (
		hours      int
		window     string
		nameFilter string
	)
	cmd := &cobra.Command{
		Use:   "gains",
		Short: "Windowed gain leaderboard (max minus min score per player)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}
			var dur *time.Duration
			switch {
			case hours > 0:
				d := time.Duration(hours) * time.Hour
				dur = &d
			case window == "24h":
				d := 24 * time.Hour
				dur = &d
			case window == "7d":
				d := 168 * time.Hour
				dur = &d
			case window == "all" || window == "":
				// all time
			default:
				return fmt.Errorf("unknown window %q (want 24h, 7d or all)", window)
			}
			allow := source.ParseAllowList(nameFilter)
			filtered := history.Filter(snap, time.Now().UTC(), dur, allow)
			entries := rank.Gains(filtered)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No data available for the selected window.")
				return nil
			}
			renderGains(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 0, "custom window in hours (overrides --window)")
	cmd.Flags().StringVar(&window, "window", "all", "window preset: 24h, 7d or all")
	cmd.Flags().StringVar(&nameFilter, "filter", "", "restrict to these players (comma separated)")
	return cmd
}

func newRollingCmd() *cobra.Command {
	var hours int
	cmd := &cobra.Command{
		Use:   "rolling",
		Short: "Biggest gain detected over a rolling time window, per player",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if hours < 1 {
				return fmt.Errorf("--hours must be positive, got %d", hours)
			}
			snap, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}
			window := time.Duration(hours) * time.Hour
			records := rank.RollingRecords(snap, rank.Rolling(snap, window))
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No valid gains detected for the selected window.")
				return nil
			}
			renderRolling(cmd.OutOrStdout(), records, hours)
			return nil
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 4, "rolling window in hours")
	return cmd
}

func newSeasonalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seasonal",
		Short: "Seasonal leaderboard for the roster in the names file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := source.LoadNames(namesFile)
			if err != nil {
				if errors.Is(err, source.ErrMissingNamesList) {
					return fmt.Errorf("%q not found; add the roster file or pass --names", namesFile)
				}
				return err
			}
			snap, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}
			entries := rank.Seasonal(snap, source.NameSet(names))
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No data found for the selected users.")
				return nil
			}
			renderSeasonal(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newProgressionCmd() *cobra.Command {
	var (
		cohort int
		labels int
		asCSV  bool
	)
	cmd := &cobra.Command{
		Use:   "progression",
		Short: "Forward-filled progression series for the top players",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cohort < 1 {
				return fmt.Errorf("--cohort must be positive, got %d", cohort)
			}
			snap, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}
			result := progression.Build(snap, cohort, labels)
			if asCSV {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "timestamp,player,score")
				for _, p := range result.Points {
					fmt.Fprintf(out, "%s,%s,%s\n",
						p.TS.Format(source.TimeLayout), p.Player, strconv.FormatInt(p.Score, 10))
				}
				return nil
			}
			if len(result.Labels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No data available to display.")
				return nil
			}
			renderLatestPoints(cmd.OutOrStdout(), result.Labels)
			return nil
		},
	}
	cmd.Flags().IntVar(&cohort, "cohort", 20, "cohort size (top players by best score)")
	cmd.Flags().IntVar(&labels, "labels", 5, "label subset size")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "dump the long-form series as CSV")
	return cmd
}
