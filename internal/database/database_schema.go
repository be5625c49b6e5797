// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"context"
	"fmt"
	"time"
)

// The schema is declared statically rather than inferred from the input
// files: the loader validates each CSV header against these columns and
// aborts on any mismatch before a single query runs.

// createTableSongs holds the immutable song catalog. Genre and mood are
// free-form strings; the vocabulary lives in the data, not the schema.
const createTableSongs = `
CREATE TABLE IF NOT EXISTS songs (
	song_id VARCHAR NOT NULL,
	title   VARCHAR NOT NULL,
	artist  VARCHAR NOT NULL,
	genre   VARCHAR NOT NULL,
	mood    VARCHAR NOT NULL
)`

// createTablePlayEvents holds the append-only listening log. song_id is
// an unenforced foreign key into songs; the enrichment join drops rows
// that reference an unknown song.
const createTablePlayEvents = `
CREATE TABLE IF NOT EXISTS play_events (
	user_id      VARCHAR NOT NULL,
	song_id      VARCHAR NOT NULL,
	played_at    TIMESTAMP NOT NULL,
	duration_sec INTEGER NOT NULL
)`

// createViewEnrichedLogs is the enrichment join every downstream query
// reads from. Inner join semantics: a play event without a catalog match
// contributes nothing.
const createViewEnrichedLogs = `
CREATE VIEW IF NOT EXISTS enriched_logs AS
SELECT
	p.song_id,
	p.user_id,
	p.played_at,
	p.duration_sec,
	s.title,
	s.artist,
	s.genre,
	s.mood
FROM play_events p
JOIN songs s USING (song_id)`

// createSchema creates the two base tables and the enrichment view.
func (db *DB) createSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []struct {
		name string
		sql  string
	}{
		{"songs table", createTableSongs},
		{"play_events table", createTablePlayEvents},
		{"enriched_logs view", createViewEnrichedLogs},
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt.sql); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}

	return nil
}

// TruncateAll clears both base tables. Used when re-running an analysis
// against a file-backed database.
func (db *DB) TruncateAll(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	for _, table := range []string{"play_events", "songs"} {
		if _, err := db.conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}
