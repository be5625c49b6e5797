// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/melograph/internal/models"
)

// topSongsSQL ranks songs by play count within a trailing window.
// Equal counts resolve by ascending song identifier so the cut at the
// limit is deterministic.
const topSongsSQL = `
SELECT song_id, title, COUNT(*) AS play_count
FROM enriched_logs
WHERE played_at >= ?
GROUP BY song_id, title
ORDER BY play_count DESC, song_id ASC
LIMIT ?`

// TopSongs returns the most-played songs since cutoff, at most limit
// rows. The cutoff is resolved by the caller: relative to the run time
// by default, or pinned to a configured calendar date.
func (db *DB) TopSongs(ctx context.Context, cutoff time.Time, limit int) ([]models.TopSong, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var results []models.TopSong
	args := []interface{}{cutoff, limit}
	err := db.queryAndScan(ctx, topSongsSQL, args, func(rows *sql.Rows) error {
		var row models.TopSong
		if err := rows.Scan(&row.SongID, &row.Title, &row.PlayCount); err != nil {
			return err
		}
		results = append(results, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query top songs: %w", err)
	}

	return results, nil
}
