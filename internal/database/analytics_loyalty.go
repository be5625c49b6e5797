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

// genreLoyaltySQL computes, per user, the share of total plays that
// belong to the favorite genre. The favorite-genre tie-break matches
// favoriteGenreSQL so both reports agree on the chosen genre.
const genreLoyaltySQL = `
WITH genre_plays AS (
	SELECT user_id, genre, COUNT(*) AS play_count
	FROM enriched_logs
	GROUP BY user_id, genre
),
favorites AS (
	SELECT user_id, genre, play_count
	FROM (
		SELECT user_id, genre, play_count,
			ROW_NUMBER() OVER (
				PARTITION BY user_id
				ORDER BY play_count DESC, genre ASC
			) AS genre_rank
		FROM genre_plays
	)
	WHERE genre_rank = 1
),
totals AS (
	SELECT user_id, COUNT(*) AS total_plays
	FROM enriched_logs
	GROUP BY user_id
)
SELECT f.user_id, f.genre, f.play_count, t.total_plays,
	f.play_count / CAST(t.total_plays AS DOUBLE) AS loyalty_score
FROM favorites f
JOIN totals t USING (user_id)
ORDER BY f.user_id`

// GenreLoyalty computes every user's loyalty score and applies the
// threshold. Exactly one of two outcomes is produced: the users whose
// score exceeds threshold, or, when nobody qualifies, a diagnostic
// message carrying the maximum score observed. With no enriched plays
// at all neither outcome is defined and ErrNoListens is returned.
func (db *DB) GenreLoyalty(ctx context.Context, threshold float64) (*models.LoyaltyOutcome, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var all []models.GenreLoyalty
	err := db.queryAndScan(ctx, genreLoyaltySQL, nil, func(rows *sql.Rows) error {
		var row models.GenreLoyalty
		if err := rows.Scan(&row.UserID, &row.Genre, &row.PlayCount, &row.TotalPlays, &row.LoyaltyScore); err != nil {
			return err
		}
		all = append(all, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query genre loyalty: %w", err)
	}

	if len(all) == 0 {
		return nil, ErrNoListens
	}

	outcome := &models.LoyaltyOutcome{}
	for _, row := range all {
		if row.LoyaltyScore > outcome.MaxScore {
			outcome.MaxScore = row.LoyaltyScore
		}
		if row.LoyaltyScore > threshold {
			outcome.Scores = append(outcome.Scores, row)
		}
	}

	if len(outcome.Scores) == 0 {
		outcome.Message = fmt.Sprintf(
			"No users with loyalty score above %g. The maximum loyalty score found is: %g",
			threshold, outcome.MaxScore)
	}

	return outcome, nil
}
