// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and SCRUM_ env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite database file for match history. An empty
	// value selects the in-memory store.
	DBPath string `koanf:"db_path"`

	// HalfDurationMinutes is the regulation length of one half.
	HalfDurationMinutes int `koanf:"half_duration_minutes"`

	// SinBinSeconds is the temporary exclusion window for a yellow card.
	SinBinSeconds int `koanf:"sin_bin_seconds"`

	// InjuryIncrementSeconds is added per injury-time accrual.
	InjuryIncrementSeconds int `koanf:"injury_increment_seconds"`

	// SaveQueueSize bounds the async save pipeline.
	SaveQueueSize int `koanf:"save_queue_size"`

	// SaveRetries caps retry attempts for a failed save.
	SaveRetries int `koanf:"save_retries"`

	// SaveRetryDelayMS is the base delay between save retries.
	SaveRetryDelayMS int `koanf:"save_retry_delay_ms"`

	// SimSeed seeds the match simulator for reproducible runs.
	SimSeed int64 `koanf:"sim_seed"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		DBPath:                 "",
		HalfDurationMinutes:    40,
		SinBinSeconds:          600,
		InjuryIncrementSeconds: 60,
		SaveQueueSize:          16,
		SaveRetries:            3,
		SaveRetryDelayMS:       500,
		SimSeed:                42,
	}
}

// HalfDurationSeconds returns the regulation half length in seconds.
func (c *Config) HalfDurationSeconds() int {
	return c.HalfDurationMinutes * 60
}
