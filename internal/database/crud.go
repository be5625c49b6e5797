// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/melograph/internal/models"
)

// InsertSong inserts a single catalog entry.
func (db *DB) InsertSong(ctx context.Context, song *models.Song) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `INSERT INTO songs (song_id, title, artist, genre, mood) VALUES (?, ?, ?, ?, ?)`
	if _, err := db.conn.ExecContext(ctx, query, song.SongID, song.Title, song.Artist, song.Genre, song.Mood); err != nil {
		return fmt.Errorf("failed to insert song %s: %w", song.SongID, err)
	}
	return nil
}

// InsertPlayEvent inserts a single listening log row.
func (db *DB) InsertPlayEvent(ctx context.Context, event *models.PlayEvent) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `INSERT INTO play_events (user_id, song_id, played_at, duration_sec) VALUES (?, ?, ?, ?)`
	if _, err := db.conn.ExecContext(ctx, query, event.UserID, event.SongID, event.PlayedAt, event.DurationSec); err != nil {
		return fmt.Errorf("failed to insert play event for %s: %w", event.UserID, err)
	}
	return nil
}

// GetRecordCounts returns the row counts of the two base tables.
func (db *DB) GetRecordCounts(ctx context.Context) (songs int64, events int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs").Scan(&songs); err != nil {
		return 0, 0, fmt.Errorf("failed to count songs: %w", err)
	}

	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM play_events").Scan(&events); err != nil {
		return songs, 0, fmt.Errorf("failed to count play events: %w", err)
	}

	return songs, events, nil
}
