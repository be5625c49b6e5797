// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// nightOwlSQL projects the distinct users with any play between midnight
// and 5 AM. Hour extraction operates on the typed played_at column;
// rows with unparseable timestamps never made it past the loader, so
// this query cannot see a malformed hour.
const nightOwlSQL = `
SELECT DISTINCT user_id
FROM enriched_logs
WHERE HOUR(played_at) >= 0 AND HOUR(played_at) < 5
ORDER BY user_id`

// NightOwlUsers returns the deduplicated set of users with at least one
// enriched play whose local hour falls in [0, 5).
func (db *DB) NightOwlUsers(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var users []string
	err := db.queryAndScan(ctx, nightOwlSQL, nil, func(rows *sql.Rows) error {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return err
		}
		users = append(users, userID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query night owl users: %w", err)
	}

	return users, nil
}
