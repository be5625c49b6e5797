// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"context"
	"testing"
	"time"
)

// seedMoodCatalog inserts a small catalog with sad and happy entries.
func seedMoodCatalog(t *testing.T, db *DB) {
	t.Helper()
	mustInsertSong(t, db, "S0001", "Grey Morning", "Ada Holt", "Jazz", "Sad")
	mustInsertSong(t, db, "S0002", "Night Drive", "Remy Cole", "Pop", "Happy")
	mustInsertSong(t, db, "S0003", "Sunlit Road", "Iris Vale", "Rock", "happy")
	mustInsertSong(t, db, "S0004", "Glass Rain", "Noor Adler", "Classical", "HAPPY")
	mustInsertSong(t, db, "S0005", "Ember Sky", "Remy Cole", "Pop", "Happy")
}

func TestHappyRecommendations(t *testing.T) {
	db := setupTestDB(t)
	seedMoodCatalog(t, db)

	// U001 qualifies with two sad plays; U002 has only one.
	mustInsertPlay(t, db, "U001", "S0001", testBaseTime, 60)
	mustInsertPlay(t, db, "U001", "S0001", testBaseTime.Add(time.Hour), 60)
	mustInsertPlay(t, db, "U002", "S0001", testBaseTime, 60)

	recs, err := db.HappyRecommendations(context.Background(), 2, 3)
	if err != nil {
		t.Fatalf("HappyRecommendations failed: %v", err)
	}

	// Four happy songs exist; rank <= 3 keeps the three lowest IDs.
	if len(recs) != 3 {
		t.Fatalf("Expected 3 recommendations, got %d", len(recs))
	}
	wantSongs := []string{"S0002", "S0003", "S0004"}
	for i, rec := range recs {
		if rec.UserID != "U001" {
			t.Errorf("Row %d: expected U001, got %s", i, rec.UserID)
		}
		if rec.SongID != wantSongs[i] {
			t.Errorf("Row %d: expected %s, got %s", i, wantSongs[i], rec.SongID)
		}
	}
}

func TestHappyRecommendationsCaseInsensitiveSadMood(t *testing.T) {
	db := setupTestDB(t)

	mustInsertSong(t, db, "S0001", "Grey Morning", "Ada Holt", "Jazz", "sAd")
	mustInsertSong(t, db, "S0002", "Night Drive", "Remy Cole", "Pop", "Happy")

	mustInsertPlay(t, db, "U001", "S0001", testBaseTime, 60)
	mustInsertPlay(t, db, "U001", "S0001", testBaseTime.Add(time.Hour), 60)

	recs, err := db.HappyRecommendations(context.Background(), 2, 3)
	if err != nil {
		t.Fatalf("HappyRecommendations failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation via case-insensitive mood match, got %d", len(recs))
	}
}

func TestHappyRecommendationsNoSadListeners(t *testing.T) {
	db := setupTestDB(t)
	seedMoodCatalog(t, db)

	// Only happy plays: nobody qualifies.
	mustInsertPlay(t, db, "U001", "S0002", testBaseTime, 60)

	recs, err := db.HappyRecommendations(context.Background(), 2, 3)
	if err != nil {
		t.Fatalf("HappyRecommendations failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations without sad listeners, got %d", len(recs))
	}
}

func TestHappyRecommendationsNoHappySongs(t *testing.T) {
	db := setupTestDB(t)

	mustInsertSong(t, db, "S0001", "Grey Morning", "Ada Holt", "Jazz", "Sad")
	mustInsertPlay(t, db, "U001", "S0001", testBaseTime, 60)
	mustInsertPlay(t, db, "U001", "S0001", testBaseTime.Add(time.Hour), 60)

	recs, err := db.HappyRecommendations(context.Background(), 2, 3)
	if err != nil {
		t.Fatalf("HappyRecommendations failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations without happy songs, got %d", len(recs))
	}
}

func TestHappyRecommendationsPerUserCap(t *testing.T) {
	db := setupTestDB(t)
	seedMoodCatalog(t, db)

	// Two qualifying users.
	for _, user := range []string{"U001", "U002"} {
		mustInsertPlay(t, db, user, "S0001", testBaseTime, 60)
		mustInsertPlay(t, db, user, "S0001", testBaseTime.Add(time.Hour), 60)
	}

	recs, err := db.HappyRecommendations(context.Background(), 2, 3)
	if err != nil {
		t.Fatalf("HappyRecommendations failed: %v", err)
	}

	perUser := make(map[string]int)
	for _, rec := range recs {
		perUser[rec.UserID]++
	}
	if len(perUser) != 2 {
		t.Fatalf("Expected 2 qualifying users, got %d", len(perUser))
	}
	for user, n := range perUser {
		if n > 3 {
			t.Errorf("User %s received %d recommendations, cap is 3", user, n)
		}
	}
}
