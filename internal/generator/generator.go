// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

// Package generator produces the synthetic song catalog and play log
// that feed the analysis pipeline. Generation is deterministic for a
// fixed seed, so a run can be reproduced exactly for debugging.
package generator

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tomtom215/melograph/internal/config"
	"github.com/tomtom215/melograph/internal/logging"
	"github.com/tomtom215/melograph/internal/models"
)

// Play durations span 30 seconds to 5 minutes inclusive.
const (
	minDurationSec = 30
	maxDurationSec = 300
)

// Generator creates synthetic catalog and play-log data. Not safe for
// concurrent use; the embedded rand.Rand is unsynchronized.
type Generator struct {
	cfg *config.GeneratorConfig
	rng *rand.Rand
}

// New returns a Generator over cfg. A zero seed picks a time-based one,
// so repeated unseeded runs produce different data.
func New(cfg *config.GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Songs generates the catalog: sequential S-prefixed identifiers with
// randomly combined titles, artists, genres and moods.
func (g *Generator) Songs() []models.Song {
	songs := make([]models.Song, 0, g.cfg.Songs)
	for i := 1; i <= g.cfg.Songs; i++ {
		songs = append(songs, models.Song{
			SongID: fmt.Sprintf("S%04d", i),
			Title: titleAdjectives[g.rng.Intn(len(titleAdjectives))] + " " +
				titleNouns[g.rng.Intn(len(titleNouns))],
			Artist: artistFirstNames[g.rng.Intn(len(artistFirstNames))] + " " +
				artistLastNames[g.rng.Intn(len(artistLastNames))],
			Genre: models.Genres[g.rng.Intn(len(models.Genres))],
			Mood:  models.Moods[g.rng.Intn(len(models.Moods))],
		})
	}
	return songs
}

// PlayEvents generates the play log: uniform random user/song pairings
// with timestamps spread over the trailing HistoryDays ending at now.
func (g *Generator) PlayEvents(now time.Time) []models.PlayEvent {
	span := time.Duration(g.cfg.HistoryDays) * 24 * time.Hour
	start := now.Add(-span)

	events := make([]models.PlayEvent, 0, g.cfg.Events)
	for i := 0; i < g.cfg.Events; i++ {
		offset := time.Duration(g.rng.Int63n(int64(span)))
		events = append(events, models.PlayEvent{
			UserID:      fmt.Sprintf("U%03d", 1+g.rng.Intn(g.cfg.Users)),
			SongID:      fmt.Sprintf("S%04d", 1+g.rng.Intn(g.cfg.Songs)),
			PlayedAt:    start.Add(offset).Truncate(time.Second),
			DurationSec: minDurationSec + g.rng.Intn(maxDurationSec-minDurationSec+1),
		})
	}
	return events
}

// WriteSongs writes the catalog CSV to path, creating parent
// directories as needed. Returns the number of songs written.
func (g *Generator) WriteSongs(path string) (int, error) {
	songs := g.Songs()

	rows := make([][]string, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, []string{s.SongID, s.Title, s.Artist, s.Genre, s.Mood})
	}

	header := []string{"song_id", "title", "artist", "genre", "mood"}
	if err := writeCSV(path, header, rows); err != nil {
		return 0, fmt.Errorf("failed to write song catalog: %w", err)
	}

	logging.Info().
		Int("songs", len(songs)).
		Str("path", path).
		Msg("Generated song catalog")

	return len(songs), nil
}

// WritePlayLog writes the play-event CSV to path with timestamps in the
// pipeline wire format. Returns the number of events written.
func (g *Generator) WritePlayLog(path string, now time.Time) (int, error) {
	events := g.PlayEvents(now)

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.UserID,
			e.SongID,
			e.PlayedAt.Format(models.TimestampLayout),
			strconv.Itoa(e.DurationSec),
		})
	}

	header := []string{"user_id", "song_id", "timestamp", "duration_sec"}
	if err := writeCSV(path, header, rows); err != nil {
		return 0, fmt.Errorf("failed to write play log: %w", err)
	}

	logging.Info().
		Int("events", len(events)).
		Int("history_days", g.cfg.HistoryDays).
		Str("path", path).
		Msg("Generated play log")

	return len(events), nil
}

// writeCSV writes a headered CSV atomically enough for this pipeline:
// the file is created fresh and fully flushed before close, so a
// partial write surfaces as an error rather than a truncated file that
// a later analysis run would silently accept.
func writeCSV(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
