// Package config defines service configuration structures and loading.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database file.
	DBPath string `koanf:"db_path"`

	// QueueSize bounds the in-memory settlement award queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of award workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the settlement idempotency window.
	DedupeSize int `koanf:"dedupe_size"`

	// LeaderboardSize is how many entries the leaderboard reply shows.
	LeaderboardSize int `koanf:"leaderboard_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New returns the configuration defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8090",
		DBPath:              "scorecast.db",
		QueueSize:           10_000,
		WorkerCount:         4,
		DedupeSize:          50_000,
		LeaderboardSize:     10,
		MaxLeaderboardLimit: 100,
	}
}
