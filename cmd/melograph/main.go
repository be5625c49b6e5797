// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

// Package main is the entry point for the Melograph batch pipeline.
//
// Melograph analyzes listener behaviour on a music streaming service:
// it loads a song catalog and a listening log from CSV files into an
// embedded DuckDB engine and produces seven behavioural reports (favorite
// genres, average listen times, weekly top songs, mood-based
// recommendations, genre loyalty, night-owl listeners, and the full
// enriched log).
//
// # Subcommands
//
//	melograph generate   # write a synthetic catalog and play log
//	melograph analyze    # load the inputs and produce the reports
//	melograph run        # generate, then analyze
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables with the MELOGRAPH_ prefix
//   - Config file (melograph.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the run context; in-flight queries abort
// and the process exits non-zero. Already-written report files are left
// in place.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/melograph/internal/analysis"
	"github.com/tomtom215/melograph/internal/config"
	"github.com/tomtom215/melograph/internal/database"
	"github.com/tomtom215/melograph/internal/generator"
	"github.com/tomtom215/melograph/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("command", command).
		Str("songs", cfg.Data.SongsPath).
		Str("logs", cfg.Data.LogsPath).
		Str("output_dir", cfg.Data.OutputDir).
		Msg("Starting Melograph")

	switch command {
	case "generate":
		err = runGenerate(cfg)
	case "analyze":
		err = runAnalyze(ctx, cfg)
	case "run":
		if err = runGenerate(cfg); err == nil {
			err = runAnalyze(ctx, cfg)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (expected generate, analyze, or run)\n", command)
		os.Exit(2)
	}
	if err != nil {
		logging.Fatal().Err(err).Str("command", command).Msg("Pipeline failed")
	}
}

// runGenerate writes the synthetic catalog and play log to the
// configured input paths.
func runGenerate(cfg *config.Config) error {
	g := generator.New(&cfg.Generator)

	songs, err := g.WriteSongs(cfg.Data.SongsPath)
	if err != nil {
		return err
	}
	events, err := g.WritePlayLog(cfg.Data.LogsPath, time.Now())
	if err != nil {
		return err
	}

	logging.Info().
		Int("songs", songs).
		Int("events", events).
		Msg("Generation complete")
	return nil
}

// runAnalyze loads the inputs into a fresh database and produces the
// seven reports plus the run manifest.
func runAnalyze(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	manifest, err := analysis.New(db, cfg).Run(ctx)
	if err != nil {
		return err
	}

	logging.Info().
		Str("run_id", manifest.RunID).
		Bool("loyalty_fallback", manifest.LoyaltyFallback).
		Msg("Reports written")
	return nil
}
