// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/melograph/internal/models"
)

// happyRecommendationsSQL recommends happy-mood songs to sad-leaning
// listeners. This is a deliberate cross-join fan-out, not content-based
// filtering: every qualifying user receives the same candidate set,
// ranked per user by ascending song identifier and cut at the limit.
// An empty sad-listener set or an empty happy-song catalog yields zero
// rows rather than an error.
const happyRecommendationsSQL = `
WITH sad_listeners AS (
	SELECT user_id
	FROM enriched_logs
	WHERE LOWER(mood) = 'sad'
	GROUP BY user_id
	HAVING COUNT(*) >= ?
),
happy_songs AS (
	SELECT song_id, title, artist, mood
	FROM songs
	WHERE LOWER(mood) = 'happy'
),
ranked AS (
	SELECT l.user_id, h.song_id, h.title, h.artist, h.mood,
		ROW_NUMBER() OVER (
			PARTITION BY l.user_id
			ORDER BY h.song_id ASC
		) AS song_rank
	FROM sad_listeners l
	CROSS JOIN happy_songs h
)
SELECT user_id, song_id, title, artist, mood
FROM ranked
WHERE song_rank <= ?
ORDER BY user_id, song_id`

// HappyRecommendations returns up to perUser happy songs for every user
// with at least sadPlayMin plays of sad-mood songs. Mood matching is
// case-insensitive on both sides.
func (db *DB) HappyRecommendations(ctx context.Context, sadPlayMin, perUser int) ([]models.Recommendation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var results []models.Recommendation
	args := []interface{}{sadPlayMin, perUser}
	err := db.queryAndScan(ctx, happyRecommendationsSQL, args, func(rows *sql.Rows) error {
		var row models.Recommendation
		if err := rows.Scan(&row.UserID, &row.SongID, &row.Title, &row.Artist, &row.Mood); err != nil {
			return err
		}
		results = append(results, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query happy recommendations: %w", err)
	}

	return results, nil
}
