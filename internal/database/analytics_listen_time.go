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

// avgListenTimeSQL reads the raw play log rather than the enriched view:
// plays of songs missing from the catalog still count, and songs with
// zero plays are absent rather than reported as zero.
const avgListenTimeSQL = `
SELECT song_id, AVG(duration_sec) AS avg_duration
FROM play_events
GROUP BY song_id
ORDER BY song_id`

// AvgListenTimePerSong returns the arithmetic mean listen duration for
// every song with at least one play.
func (db *DB) AvgListenTimePerSong(ctx context.Context) ([]models.SongAvgDuration, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var results []models.SongAvgDuration
	err := db.queryAndScan(ctx, avgListenTimeSQL, nil, func(rows *sql.Rows) error {
		var row models.SongAvgDuration
		if err := rows.Scan(&row.SongID, &row.AvgDuration); err != nil {
			return err
		}
		results = append(results, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query average listen time: %w", err)
	}

	return results, nil
}
