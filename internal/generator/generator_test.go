// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package generator

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/tomtom215/melograph/internal/config"
	"github.com/tomtom215/melograph/internal/models"
)

func testGeneratorConfig() *config.GeneratorConfig {
	return &config.GeneratorConfig{
		Users:       20,
		Songs:       15,
		Events:      200,
		Seed:        42,
		HistoryDays: 14,
	}
}

func TestSongsShapeAndVocabulary(t *testing.T) {
	g := New(testGeneratorConfig())

	songs := g.Songs()
	if len(songs) != 15 {
		t.Fatalf("Expected 15 songs, got %d", len(songs))
	}

	genres := make(map[string]bool)
	for _, genre := range models.Genres {
		genres[genre] = true
	}
	moods := make(map[string]bool)
	for _, mood := range models.Moods {
		moods[mood] = true
	}

	for i, s := range songs {
		wantID := "S" + pad4(i+1)
		if s.SongID != wantID {
			t.Errorf("Song %d: expected ID %s, got %s", i, wantID, s.SongID)
		}
		if s.Title == "" || s.Artist == "" {
			t.Errorf("Song %s has empty title or artist", s.SongID)
		}
		if !genres[s.Genre] {
			t.Errorf("Song %s has unknown genre %q", s.SongID, s.Genre)
		}
		if !moods[s.Mood] {
			t.Errorf("Song %s has unknown mood %q", s.SongID, s.Mood)
		}
	}
}

func TestPlayEventsBounds(t *testing.T) {
	g := New(testGeneratorConfig())
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	events := g.PlayEvents(now)
	if len(events) != 200 {
		t.Fatalf("Expected 200 events, got %d", len(events))
	}

	windowStart := now.AddDate(0, 0, -14)
	for i, e := range events {
		if e.DurationSec < minDurationSec || e.DurationSec > maxDurationSec {
			t.Errorf("Event %d: duration %d out of range", i, e.DurationSec)
		}
		if e.PlayedAt.Before(windowStart) || e.PlayedAt.After(now) {
			t.Errorf("Event %d: timestamp %v outside history window", i, e.PlayedAt)
		}
		if len(e.UserID) != 4 || e.UserID[0] != 'U' {
			t.Errorf("Event %d: malformed user ID %q", i, e.UserID)
		}
		if len(e.SongID) != 5 || e.SongID[0] != 'S' {
			t.Errorf("Event %d: malformed song ID %q", i, e.SongID)
		}
	}
}

func TestFixedSeedIsReproducible(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	first := New(testGeneratorConfig())
	second := New(testGeneratorConfig())

	songsA, songsB := first.Songs(), second.Songs()
	for i := range songsA {
		if songsA[i] != songsB[i] {
			t.Fatalf("Song %d differs across identically seeded runs: %+v vs %+v", i, songsA[i], songsB[i])
		}
	}

	eventsA, eventsB := first.PlayEvents(now), second.PlayEvents(now)
	for i := range eventsA {
		if eventsA[i] != eventsB[i] {
			t.Fatalf("Event %d differs across identically seeded runs: %+v vs %+v", i, eventsA[i], eventsB[i])
		}
	}
}

func TestWriteSongsRoundTrip(t *testing.T) {
	g := New(testGeneratorConfig())
	path := filepath.Join(t.TempDir(), "songs_metadata.csv")

	count, err := g.WriteSongs(path)
	if err != nil {
		t.Fatalf("WriteSongs failed: %v", err)
	}
	if count != 15 {
		t.Errorf("Expected 15 songs written, got %d", count)
	}

	records := readCSV(t, path)
	if len(records) != 16 {
		t.Fatalf("Expected header plus 15 rows, got %d records", len(records))
	}

	wantHeader := []string{"song_id", "title", "artist", "genre", "mood"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("Header column %d: expected %q, got %q", i, col, records[0][i])
		}
	}
}

func TestWritePlayLogRoundTrip(t *testing.T) {
	g := New(testGeneratorConfig())
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "listening_logs.csv")

	count, err := g.WritePlayLog(path, now)
	if err != nil {
		t.Fatalf("WritePlayLog failed: %v", err)
	}
	if count != 200 {
		t.Errorf("Expected 200 events written, got %d", count)
	}

	records := readCSV(t, path)
	if len(records) != 201 {
		t.Fatalf("Expected header plus 200 rows, got %d records", len(records))
	}

	wantHeader := []string{"user_id", "song_id", "timestamp", "duration_sec"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("Header column %d: expected %q, got %q", i, col, records[0][i])
		}
	}

	// Every data row must round-trip through the wire format.
	for _, row := range records[1:] {
		if _, err := time.Parse(models.TimestampLayout, row[2]); err != nil {
			t.Fatalf("Unparseable timestamp %q: %v", row[2], err)
		}
		if _, err := strconv.Atoi(row[3]); err != nil {
			t.Fatalf("Non-integer duration %q: %v", row[3], err)
		}
	}
}

func TestWriteSongsCreatesParentDirectory(t *testing.T) {
	g := New(testGeneratorConfig())
	path := filepath.Join(t.TempDir(), "nested", "deeper", "songs_metadata.csv")

	if _, err := g.WriteSongs(path); err != nil {
		t.Fatalf("WriteSongs with nested path failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected output file to exist: %v", err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return records
}

func pad4(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}
