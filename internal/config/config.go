// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Source kinds accepted by DataSource.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataSource selects the record store adapter: csv or sqlite.
	DataSource string `koanf:"data_source"`

	// DataFile is the score history export read on every reload.
	DataFile string `koanf:"data_file"`

	// NamesFile is the seasonal roster list, one name per line.
	NamesFile string `koanf:"names_file"`

	// CohortSize is the default progression cohort (top-N by best score).
	CohortSize int `koanf:"cohort_size"`

	// LabelCohortSize is the default label subset of the cohort.
	LabelCohortSize int `koanf:"label_cohort_size"`

	// MaxCohortSize caps GET /progression?cohort.
	MaxCohortSize int `koanf:"max_cohort_size"`

	// RollingMinHours and RollingMaxHours bound the rolling-window query.
	RollingMinHours int `koanf:"rolling_min_hours"`
	RollingMaxHours int `koanf:"rolling_max_hours"`

	// WindowMinHours and WindowMaxHours bound the custom gain window.
	WindowMinHours int `koanf:"window_min_hours"`
	WindowMaxHours int `koanf:"window_max_hours"`

	// Watch reloads the snapshot when the data or roster file changes.
	Watch bool `koanf:"watch"`
}

// New creates a Config with defaults. The file names mirror the original
// export conventions so a drop-in data directory works unconfigured.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		DataSource:      SourceCSV,
		DataFile:        "leaderboard_data.csv",
		NamesFile:       "selected_users.txt",
		CohortSize:      20,
		LabelCohortSize: 5,
		MaxCohortSize:   100,
		RollingMinHours: 1,
		RollingMaxHours: 168,
		WindowMinHours:  1,
		WindowMaxHours:  168,
		Watch:           true,
	}
}
