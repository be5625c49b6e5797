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

// favoriteGenreSQL picks each user's most-played genre from the enriched
// log. Equal-count ties resolve deterministically to the
// lexicographically smallest genre name via the secondary sort key.
const favoriteGenreSQL = `
WITH genre_plays AS (
	SELECT user_id, genre, COUNT(*) AS play_count
	FROM enriched_logs
	GROUP BY user_id, genre
),
ranked AS (
	SELECT user_id, genre, play_count,
		ROW_NUMBER() OVER (
			PARTITION BY user_id
			ORDER BY play_count DESC, genre ASC
		) AS genre_rank
	FROM genre_plays
)
SELECT user_id, genre
FROM ranked
WHERE genre_rank = 1
ORDER BY user_id`

// UserFavoriteGenres returns one row per user who has at least one
// enriched play: the genre with the maximum play count.
func (db *DB) UserFavoriteGenres(ctx context.Context) ([]models.UserFavoriteGenre, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var results []models.UserFavoriteGenre
	err := db.queryAndScan(ctx, favoriteGenreSQL, nil, func(rows *sql.Rows) error {
		var row models.UserFavoriteGenre
		if err := rows.Scan(&row.UserID, &row.Genre); err != nil {
			return err
		}
		results = append(results, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite genres: %w", err)
	}

	return results, nil
}
