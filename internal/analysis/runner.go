// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

// Package analysis orchestrates one end-to-end run: load both input
// CSVs, execute the seven reports concurrently, and write a manifest
// describing what happened.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/melograph/internal/config"
	"github.com/tomtom215/melograph/internal/database"
	"github.com/tomtom215/melograph/internal/logging"
	"github.com/tomtom215/melograph/internal/models"
)

// Report destinations under the configured output directory.
const (
	FileUserFavoriteGenres   = "user_favorite_genres.csv"
	FileAvgListenTimePerSong = "avg_listen_time_per_song.csv"
	FileTopSongsThisWeek     = "top_songs_this_week.csv"
	FileHappyRecommendations = "happy_recommendations.csv"
	FileGenreLoyaltyScores   = "genre_loyalty_scores.csv"
	FileLoyaltyMessage       = "loyalty_message.csv"
	FileNightOwlUsers        = "night_owl_users.csv"
	FileEnrichedLogs         = "enriched_logs.csv"
	FileRunManifest          = "run_manifest.json"
)

// Runner drives the load-and-report pipeline over an open database.
type Runner struct {
	db  *database.DB
	cfg *config.Config
}

// New returns a Runner over db and cfg. The database is owned by the
// caller; Run never closes it.
func New(db *database.DB, cfg *config.Config) *Runner {
	return &Runner{db: db, cfg: cfg}
}

// Run executes one full analysis pass: load both inputs, fan the seven
// reports out concurrently, and write the run manifest. A schema
// mismatch on either input aborts before any report runs. Report
// failures cancel the remaining reports and Run returns the first
// error; already-written destinations are left in place.
func (r *Runner) Run(ctx context.Context) (*models.RunManifest, error) {
	startedAt := time.Now()
	runID := uuid.New().String()

	logging.Info().
		Str("run_id", runID).
		Str("songs", r.cfg.Data.SongsPath).
		Str("logs", r.cfg.Data.LogsPath).
		Msg("Starting analysis run")

	// Repeated runs against a file-backed database start from clean
	// tables; an in-memory run truncates nothing.
	if err := r.db.TruncateAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset tables: %w", err)
	}

	songs, err := r.db.LoadSongs(ctx, r.cfg.Data.SongsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load song catalog: %w", err)
	}
	events, err := r.db.LoadPlayEvents(ctx, r.cfg.Data.LogsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load play log: %w", err)
	}

	cutoff, err := r.cfg.Analysis.WindowCutoffTime(startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve top-songs window: %w", err)
	}

	outDir := r.cfg.Data.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Each goroutine writes a distinct field, so the struct needs no
	// locking; everything is read only after Wait.
	var counts models.ReportCounts
	var loyaltyFallback bool

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := r.db.ExportUserFavoriteGenres(gctx, filepath.Join(outDir, FileUserFavoriteGenres))
		if err != nil {
			return err
		}
		counts.UserFavoriteGenres = int(n)
		logReport(FileUserFavoriteGenres, n)
		return nil
	})

	g.Go(func() error {
		n, err := r.db.ExportAvgListenTime(gctx, filepath.Join(outDir, FileAvgListenTimePerSong))
		if err != nil {
			return err
		}
		counts.AvgListenTimePerSong = int(n)
		logReport(FileAvgListenTimePerSong, n)
		return nil
	})

	g.Go(func() error {
		n, err := r.db.ExportTopSongs(gctx, filepath.Join(outDir, FileTopSongsThisWeek),
			cutoff, r.cfg.Analysis.TopSongsLimit)
		if err != nil {
			return err
		}
		counts.TopSongsThisWeek = int(n)
		logReport(FileTopSongsThisWeek, n)
		return nil
	})

	g.Go(func() error {
		// No qualifying sad listeners (or no happy songs) means no
		// report file at all, not an empty one. The row count is
		// checked first so the destination is never created and then
		// deleted, which a concurrent reader of the output directory
		// could observe.
		recs, err := r.db.HappyRecommendations(gctx,
			r.cfg.Analysis.SadPlayMin, r.cfg.Analysis.RecommendationsPerUser)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, FileHappyRecommendations)
		if len(recs) == 0 {
			if err := removeStale(path); err != nil {
				return err
			}
			logging.Info().Str("report", FileHappyRecommendations).Msg("No recommendations; report omitted")
			return nil
		}
		n, err := r.db.ExportHappyRecommendations(gctx, path,
			r.cfg.Analysis.SadPlayMin, r.cfg.Analysis.RecommendationsPerUser)
		if err != nil {
			return err
		}
		counts.HappyRecommendations = int(n)
		logReport(FileHappyRecommendations, n)
		return nil
	})

	g.Go(func() error {
		outcome, err := r.db.GenreLoyalty(gctx, r.cfg.Analysis.LoyaltyThreshold)
		if err != nil {
			return err
		}
		scoresPath := filepath.Join(outDir, FileGenreLoyaltyScores)
		messagePath := filepath.Join(outDir, FileLoyaltyMessage)

		// Exactly one of the two loyalty destinations survives a run;
		// the other is removed so a stale copy from an earlier run
		// cannot sit beside the fresh one.
		if outcome.Fallback() {
			loyaltyFallback = true
			if err := r.db.ExportLoyaltyMessage(gctx, messagePath, outcome.Message); err != nil {
				return err
			}
			if err := removeStale(scoresPath); err != nil {
				return err
			}
			logging.Info().
				Str("report", FileLoyaltyMessage).
				Float64("max_score", outcome.MaxScore).
				Msg("No users above loyalty threshold; wrote diagnostic message")
			return nil
		}

		n, err := r.db.ExportGenreLoyaltyScores(gctx, scoresPath, r.cfg.Analysis.LoyaltyThreshold)
		if err != nil {
			return err
		}
		if err := removeStale(messagePath); err != nil {
			return err
		}
		counts.GenreLoyaltyScores = int(n)
		logReport(FileGenreLoyaltyScores, n)
		return nil
	})

	g.Go(func() error {
		n, err := r.db.ExportNightOwlUsers(gctx, filepath.Join(outDir, FileNightOwlUsers))
		if err != nil {
			return err
		}
		counts.NightOwlUsers = int(n)
		logReport(FileNightOwlUsers, n)
		return nil
	})

	g.Go(func() error {
		n, err := r.db.ExportEnrichedLogs(gctx, filepath.Join(outDir, FileEnrichedLogs))
		if err != nil {
			return err
		}
		counts.EnrichedLogs = int(n)
		logReport(FileEnrichedLogs, n)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis run failed: %w", err)
	}

	manifest := &models.RunManifest{
		RunID:           runID,
		StartedAt:       startedAt,
		CompletedAt:     time.Now(),
		SongsLoaded:     songs.Loaded,
		EventsLoaded:    events.Loaded,
		EventsSkipped:   events.Skipped,
		WindowCutoff:    cutoff,
		LoyaltyFallback: loyaltyFallback,
		Counts:          counts,
	}
	if err := writeManifest(filepath.Join(outDir, FileRunManifest), manifest); err != nil {
		return nil, err
	}

	logging.Info().
		Str("run_id", runID).
		Dur("elapsed", manifest.CompletedAt.Sub(startedAt)).
		Int64("events_loaded", events.Loaded).
		Int64("events_skipped", events.Skipped).
		Msg("Analysis run complete")

	return manifest, nil
}

func logReport(name string, rows int64) {
	logging.Info().Str("report", name).Int64("rows", rows).Msg("Report written")
}

// removeStale deletes a leftover destination from a previous run.
// A missing file is the normal case.
func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stale report %s: %w", path, err)
	}
	return nil
}

func writeManifest(path string, manifest *models.RunManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run manifest: %w", err)
	}
	return nil
}
