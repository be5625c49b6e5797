// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

// Package config defines Melograph's configuration and its layered loader.
//
// Configuration is loaded via Koanf v2 with clear precedence
// (highest priority wins):
//
//  1. Environment variables with the MELOGRAPH_ prefix
//  2. Optional YAML config file (melograph.yaml)
//  3. Built-in defaults
//
// Every setting is validated before the pipeline starts; an invalid
// configuration is process-fatal.
package config

import "time"

// Config is the root configuration for both pipeline phases.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Database  DatabaseConfig  `koanf:"database"`
	Analysis  AnalysisConfig  `koanf:"analysis"`
	Generator GeneratorConfig `koanf:"generator"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig locates the two input tables and the report destination.
type DataConfig struct {
	// SongsPath is the song catalog CSV (song_id,title,artist,genre,mood).
	SongsPath string `koanf:"songs_path" validate:"required"`

	// LogsPath is the play event CSV (user_id,song_id,timestamp,duration_sec).
	LogsPath string `koanf:"logs_path" validate:"required"`

	// OutputDir receives the seven report CSVs and the run manifest.
	// Existing reports are overwritten.
	OutputDir string `koanf:"output_dir" validate:"required"`
}

// DatabaseConfig tunes the embedded DuckDB engine.
type DatabaseConfig struct {
	// Path is the DuckDB database location. The default ":memory:" is
	// appropriate for single-shot analysis runs; a file path keeps the
	// loaded tables around for ad hoc inspection.
	Path string `koanf:"path" validate:"required"`

	// MaxMemory caps DuckDB's memory usage, e.g. "1GB".
	MaxMemory string `koanf:"max_memory" validate:"required"`

	// Threads sets DuckDB's thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads" validate:"gte=0"`
}

// AnalysisConfig carries the thresholds and window boundaries of the
// seven report queries.
type AnalysisConfig struct {
	// LoyaltyThreshold is the minimum loyalty score a user must exceed
	// to appear in genre_loyalty_scores. Scores lie in (0, 1], so the
	// threshold must too.
	LoyaltyThreshold float64 `koanf:"loyalty_threshold" validate:"gt=0,lte=1"`

	// WindowCutoff optionally pins the top-songs window start to a fixed
	// calendar date (YYYY-MM-DD). Empty means "now minus WindowDays",
	// computed at run time.
	WindowCutoff string `koanf:"window_cutoff"`

	// WindowDays is the trailing window length used when WindowCutoff
	// is empty.
	WindowDays int `koanf:"window_days" validate:"gt=0"`

	// TopSongsLimit bounds the top-songs report.
	TopSongsLimit int `koanf:"top_songs_limit" validate:"gt=0"`

	// SadPlayMin is the number of sad-mood plays that qualifies a user
	// for happy-song recommendations.
	SadPlayMin int `koanf:"sad_play_min" validate:"gt=0"`

	// RecommendationsPerUser caps recommended songs per qualifying user.
	RecommendationsPerUser int `koanf:"recommendations_per_user" validate:"gt=0"`
}

// GeneratorConfig shapes the synthetic catalog and play log.
type GeneratorConfig struct {
	// Users is the number of distinct user identifiers (U001..).
	Users int `koanf:"users" validate:"gt=0,lte=999"`

	// Songs is the number of catalog entries (S0001..).
	Songs int `koanf:"songs" validate:"gt=0,lte=9999"`

	// Events is the number of play events to generate.
	Events int `koanf:"events" validate:"gt=0"`

	// Seed makes generation reproducible. 0 = time-based seed.
	Seed int64 `koanf:"seed"`

	// HistoryDays is the span of generated timestamps, ending now.
	HistoryDays int `koanf:"history_days" validate:"gt=0"`
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// WindowCutoffTime resolves the top-songs window start: the pinned date
// when configured, otherwise now minus WindowDays truncated to midnight
// so the boundary is a calendar date either way.
func (c *AnalysisConfig) WindowCutoffTime(now time.Time) (time.Time, error) {
	if c.WindowCutoff != "" {
		return time.ParseInLocation("2006-01-02", c.WindowCutoff, now.Location())
	}
	cutoff := now.AddDate(0, 0, -c.WindowDays)
	return time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, now.Location()), nil
}
