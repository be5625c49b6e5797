// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tomtom215/melograph/internal/logging"
)

// The loaders validate each file's header in Go before handing the bulk
// load to DuckDB's read_csv. Header validation catches missing or
// misnamed columns up front (fatal), while read_csv's ignore_errors
// implements the row-level fail-closed policy: a row whose timestamp or
// duration cannot be parsed is skipped, never crashed on, and the same
// skipped set feeds every downstream query.

var songsColumns = []string{"song_id", "title", "artist", "genre", "mood"}

var playEventsColumns = []string{"user_id", "song_id", "timestamp", "duration_sec"}

// LoadResult reports how a bulk load went.
type LoadResult struct {
	Loaded  int64
	Skipped int64
}

// LoadSongs validates and bulk-loads the song catalog CSV.
func (db *DB) LoadSongs(ctx context.Context, path string) (*LoadResult, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := validateHeader(path, songsColumns); err != nil {
		return nil, err
	}

	insert := `
		INSERT INTO songs
		SELECT song_id, title, artist, genre, mood
		FROM read_csv(?,
			header = true,
			columns = {
				'song_id': 'VARCHAR',
				'title':   'VARCHAR',
				'artist':  'VARCHAR',
				'genre':   'VARCHAR',
				'mood':    'VARCHAR'
			},
			ignore_errors = true)
		WHERE song_id IS NOT NULL
		  AND title IS NOT NULL
		  AND artist IS NOT NULL
		  AND genre IS NOT NULL
		  AND mood IS NOT NULL`

	result, err := db.loadCSV(ctx, path, insert)
	if err != nil {
		return nil, fmt.Errorf("failed to load songs from %s: %w", path, err)
	}

	logging.Info().
		Str("path", path).
		Int64("loaded", result.Loaded).
		Int64("skipped", result.Skipped).
		Msg("Loaded song catalog")

	return result, nil
}

// LoadPlayEvents validates and bulk-loads the listening log CSV.
// Rows with an unparseable timestamp or duration, or a non-positive
// duration, are skipped.
func (db *DB) LoadPlayEvents(ctx context.Context, path string) (*LoadResult, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := validateHeader(path, playEventsColumns); err != nil {
		return nil, err
	}

	insert := `
		INSERT INTO play_events
		SELECT user_id, song_id, timestamp AS played_at, duration_sec
		FROM read_csv(?,
			header = true,
			columns = {
				'user_id':      'VARCHAR',
				'song_id':      'VARCHAR',
				'timestamp':    'TIMESTAMP',
				'duration_sec': 'INTEGER'
			},
			timestampformat = '%Y-%m-%d %H:%M:%S',
			ignore_errors = true)
		WHERE user_id IS NOT NULL
		  AND song_id IS NOT NULL
		  AND timestamp IS NOT NULL
		  AND duration_sec IS NOT NULL
		  AND duration_sec > 0`

	result, err := db.loadCSV(ctx, path, insert)
	if err != nil {
		return nil, fmt.Errorf("failed to load play events from %s: %w", path, err)
	}

	if result.Skipped > 0 {
		logging.Warn().
			Str("path", path).
			Int64("skipped", result.Skipped).
			Msg("Skipped malformed play event rows")
	}
	logging.Info().
		Str("path", path).
		Int64("loaded", result.Loaded).
		Int64("skipped", result.Skipped).
		Msg("Loaded listening log")

	return result, nil
}

// loadCSV executes a read_csv INSERT and derives the skipped-row count
// from the file's CSV record count.
func (db *DB) loadCSV(ctx context.Context, path, insert string) (*LoadResult, error) {
	res, err := db.conn.ExecContext(ctx, insert, path)
	if err != nil {
		return nil, err
	}

	loaded, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected row count: %w", err)
	}

	total, err := countDataRecords(path)
	if err != nil {
		return nil, err
	}

	skipped := total - loaded
	if skipped < 0 {
		skipped = 0
	}

	return &LoadResult{Loaded: loaded, Skipped: skipped}, nil
}

// validateHeader reads the CSV's first record and requires it to match
// the declared columns exactly, in order. A mismatch is a fatal
// SchemaError: all seven reports depend on both inputs loading cleanly.
func validateHeader(path string, want []string) error {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer closeWithLog(f, "input file")

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	got := make([]string, len(header))
	for i, col := range header {
		got[i] = strings.TrimSpace(col)
	}

	var missing []string
	for i, col := range want {
		if i >= len(got) || got[i] != col {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Path: path, Want: want, Got: got, Missing: missing}
	}
	return nil
}

// countDataRecords counts CSV records after the header. Parsing real
// records rather than physical lines keeps the count exact when a
// quoted field spans multiple lines. A line the parser rejects is still
// one input record: read_csv sees and skips it too.
func countDataRecords(path string) (int64, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer closeWithLog(f, "input file")

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var count int64
	first := true
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if first {
			first = false
			continue
		}
		count++
	}

	return count, nil
}
