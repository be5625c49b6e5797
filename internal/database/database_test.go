// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/melograph/internal/config"
	"github.com/tomtom215/melograph/internal/models"
)

// setupTestDB creates a new in-memory test database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

// mustInsertSong inserts a catalog entry or fails the test.
func mustInsertSong(t *testing.T, db *DB, id, title, artist, genre, mood string) {
	t.Helper()
	song := &models.Song{SongID: id, Title: title, Artist: artist, Genre: genre, Mood: mood}
	if err := db.InsertSong(context.Background(), song); err != nil {
		t.Fatalf("Failed to insert song %s: %v", id, err)
	}
}

// mustInsertPlay inserts a play event or fails the test.
func mustInsertPlay(t *testing.T, db *DB, userID, songID string, playedAt time.Time, durationSec int) {
	t.Helper()
	event := &models.PlayEvent{UserID: userID, SongID: songID, PlayedAt: playedAt, DurationSec: durationSec}
	if err := db.InsertPlayEvent(context.Background(), event); err != nil {
		t.Fatalf("Failed to insert play event for %s: %v", userID, err)
	}
}

// testBaseTime is a fixed reference instant so assertions never depend
// on the wall clock.
var testBaseTime = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func TestNewAndPing(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestGetRecordCounts(t *testing.T) {
	db := setupTestDB(t)

	mustInsertSong(t, db, "S0001", "First Light", "Ada Holt", "Jazz", "Chill")
	mustInsertSong(t, db, "S0002", "Night Drive", "Remy Cole", "Pop", "Happy")
	mustInsertPlay(t, db, "U001", "S0001", testBaseTime, 120)

	songs, events, err := db.GetRecordCounts(context.Background())
	if err != nil {
		t.Fatalf("GetRecordCounts failed: %v", err)
	}
	if songs != 2 {
		t.Errorf("Expected 2 songs, got %d", songs)
	}
	if events != 1 {
		t.Errorf("Expected 1 play event, got %d", events)
	}
}

func TestTruncateAll(t *testing.T) {
	db := setupTestDB(t)

	mustInsertSong(t, db, "S0001", "First Light", "Ada Holt", "Jazz", "Chill")
	mustInsertPlay(t, db, "U001", "S0001", testBaseTime, 60)

	if err := db.TruncateAll(context.Background()); err != nil {
		t.Fatalf("TruncateAll failed: %v", err)
	}

	songs, events, err := db.GetRecordCounts(context.Background())
	if err != nil {
		t.Fatalf("GetRecordCounts failed: %v", err)
	}
	if songs != 0 || events != 0 {
		t.Errorf("Expected empty tables after truncate, got %d songs and %d events", songs, events)
	}
}

func TestEnrichedLogsInnerJoinDropsUnknownSongs(t *testing.T) {
	db := setupTestDB(t)

	mustInsertSong(t, db, "S0001", "First Light", "Ada Holt", "Jazz", "Chill")
	mustInsertPlay(t, db, "U001", "S0001", testBaseTime, 90)
	// References a song that does not exist in the catalog.
	mustInsertPlay(t, db, "U001", "S9999", testBaseTime, 45)

	enriched, err := db.EnrichedLogs(context.Background())
	if err != nil {
		t.Fatalf("EnrichedLogs failed: %v", err)
	}

	if len(enriched) != 1 {
		t.Fatalf("Expected 1 enriched row (unknown song dropped), got %d", len(enriched))
	}
	row := enriched[0]
	if row.SongID != "S0001" || row.UserID != "U001" {
		t.Errorf("Unexpected enriched row: %+v", row)
	}
	if row.Genre != "Jazz" || row.Mood != "Chill" || row.Title != "First Light" || row.Artist != "Ada Holt" {
		t.Errorf("Expected song metadata on enriched row, got %+v", row)
	}
	if row.DurationSec != 90 {
		t.Errorf("Expected duration 90, got %d", row.DurationSec)
	}
}

func TestEnrichedLogsEmptyInputs(t *testing.T) {
	db := setupTestDB(t)

	enriched, err := db.EnrichedLogs(context.Background())
	if err != nil {
		t.Fatalf("EnrichedLogs failed on empty tables: %v", err)
	}
	if len(enriched) != 0 {
		t.Errorf("Expected no enriched rows, got %d", len(enriched))
	}
}
