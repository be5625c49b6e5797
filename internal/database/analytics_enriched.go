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

// enrichedLogsSQL is the pass-through export of the join output. The
// explicit ordering makes exports reproducible across runs on the same
// inputs.
const enrichedLogsSQL = `
SELECT song_id, user_id, played_at, duration_sec, title, artist, genre, mood
FROM enriched_logs
ORDER BY played_at, user_id, song_id`

// EnrichedLogs returns the full enrichment join: every play event with
// its song metadata attached. Events referencing an unknown song are
// absent by the view's inner-join policy.
func (db *DB) EnrichedLogs(ctx context.Context) ([]models.EnrichedEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var results []models.EnrichedEvent
	err := db.queryAndScan(ctx, enrichedLogsSQL, nil, func(rows *sql.Rows) error {
		var row models.EnrichedEvent
		if err := rows.Scan(&row.SongID, &row.UserID, &row.PlayedAt, &row.DurationSec,
			&row.Title, &row.Artist, &row.Genre, &row.Mood); err != nil {
			return err
		}
		results = append(results, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query enriched logs: %w", err)
	}

	return results, nil
}
