// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"melograph.yaml",
	"melograph.yml",
	"/etc/melograph/melograph.yaml",
	"/etc/melograph/melograph.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces Melograph's environment variables, e.g.
// MELOGRAPH_ANALYSIS_LOYALTY_THRESHOLD.
const envPrefix = "MELOGRAPH_"

// Default returns a Config with all default values: a 7-day top-songs
// window, top 10 songs, 2 sad plays to qualify for recommendations,
// 3 recommendations per user. The generator defaults to 100 users,
// 50 songs and 1000 plays over 14 days.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			SongsPath: "songs_metadata.csv",
			LogsPath:  "listening_logs.csv",
			OutputDir: "output",
		},
		Database: DatabaseConfig{
			Path:      ":memory:",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Analysis: AnalysisConfig{
			LoyaltyThreshold:       0.8,
			WindowCutoff:           "",
			WindowDays:             7,
			TopSongsLimit:          10,
			SadPlayMin:             2,
			RecommendationsPerUser: 3,
		},
		Generator: GeneratorConfig{
			Users:       100,
			Songs:       50,
			Events:      1000,
			Seed:        0, // 0 = time-based
			HistoryDays: 14,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//
//  1. Defaults: built-in values from Default()
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: MELOGRAPH_* overrides any setting
//
// The result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// MELOGRAPH_ANALYSIS_WINDOW_DAYS -> analysis.window_days
	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransform maps an environment variable name to a koanf path.
// The first segment after the prefix selects the section; the remainder
// is the key: MELOGRAPH_DATA_OUTPUT_DIR -> data.output_dir.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, key, found := strings.Cut(s, "_")
	if !found {
		return section
	}
	return section + "." + key
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
