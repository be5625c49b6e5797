// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/melograph/internal/logging"
)

// Report exports stage each query into a session-local temporary table,
// then hand the write to DuckDB's COPY. The temp table keeps the query
// parameterized (COPY cannot bind args inside its subquery) and yields
// the exported row count for free. A destination file is only ever
// written after its producing query completed, so a failed query leaves
// no partial output behind.
//
// DuckDB temporary tables are scoped to one session, so every statement
// of the protocol runs on a single *sql.Conn pinned out of the pool.
// Routing the statements through the pooled *sql.DB would let them land
// on different connections, where the temp table does not exist.

// exportCSV materializes query into a temp table and copies it to
// outputPath as a headered CSV. Returns the number of rows exported.
func (db *DB) exportCSV(ctx context.Context, table, outputPath, query string, args ...interface{}) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection for export %s: %w", table, err)
	}
	defer closeWithLog(conn, "export connection")

	create := fmt.Sprintf("CREATE OR REPLACE TEMPORARY TABLE %s AS %s", table, query)
	if _, err := conn.ExecContext(ctx, create, args...); err != nil {
		return 0, fmt.Errorf("failed to stage export table %s: %w", table, err)
	}

	var count int64
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count export rows for %s: %w", table, err)
	}

	// Timestamps round-trip in the input wire format (second resolution).
	copyStmt := fmt.Sprintf(`COPY %s TO ? (FORMAT CSV, HEADER, TIMESTAMPFORMAT '%%Y-%%m-%%d %%H:%%M:%%S')`, table)
	if _, err := conn.ExecContext(ctx, copyStmt, outputPath); err != nil {
		return 0, fmt.Errorf("failed to export %s: %w", table, err)
	}

	if _, err := conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		logging.Warn().Str("table", table).Err(err).Msg("Failed to drop temporary export table")
	}

	return count, nil
}

// ExportUserFavoriteGenres writes the user_favorite_genres report.
func (db *DB) ExportUserFavoriteGenres(ctx context.Context, outputPath string) (int64, error) {
	return db.exportCSV(ctx, "export_user_favorite_genres", outputPath, favoriteGenreSQL)
}

// ExportAvgListenTime writes the avg_listen_time_per_song report.
func (db *DB) ExportAvgListenTime(ctx context.Context, outputPath string) (int64, error) {
	return db.exportCSV(ctx, "export_avg_listen_time", outputPath, avgListenTimeSQL)
}

// ExportTopSongs writes the top_songs_this_week report.
func (db *DB) ExportTopSongs(ctx context.Context, outputPath string, cutoff time.Time, limit int) (int64, error) {
	return db.exportCSV(ctx, "export_top_songs", outputPath, topSongsSQL, cutoff, limit)
}

// ExportHappyRecommendations writes the happy_recommendations report.
// Callers that require "no file at all" on an empty result should check
// the row count first via HappyRecommendations.
func (db *DB) ExportHappyRecommendations(ctx context.Context, outputPath string, sadPlayMin, perUser int) (int64, error) {
	return db.exportCSV(ctx, "export_happy_recommendations", outputPath, happyRecommendationsSQL, sadPlayMin, perUser)
}

// ExportGenreLoyaltyScores writes the genre_loyalty_scores report: only
// users whose loyalty score exceeds threshold, in the four-column output
// shape (total_plays is an internal detail of the computation).
func (db *DB) ExportGenreLoyaltyScores(ctx context.Context, outputPath string, threshold float64) (int64, error) {
	query := fmt.Sprintf(`
		SELECT user_id, genre, play_count, loyalty_score
		FROM (%s)
		WHERE loyalty_score > ?
		ORDER BY user_id`, genreLoyaltySQL)
	return db.exportCSV(ctx, "export_genre_loyalty_scores", outputPath, query, threshold)
}

// ExportLoyaltyMessage writes the single-row loyalty_message report used
// when no user clears the loyalty threshold.
func (db *DB) ExportLoyaltyMessage(ctx context.Context, outputPath, message string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for loyalty message export: %w", err)
	}
	defer closeWithLog(conn, "export connection")

	const table = "export_loyalty_message"
	create := fmt.Sprintf("CREATE OR REPLACE TEMPORARY TABLE %s (message VARCHAR)", table)
	if _, err := conn.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to stage loyalty message table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (?)", table)
	if _, err := conn.ExecContext(ctx, insert, message); err != nil {
		return fmt.Errorf("failed to stage loyalty message: %w", err)
	}

	copyStmt := fmt.Sprintf("COPY %s TO ? (FORMAT CSV, HEADER)", table)
	if _, err := conn.ExecContext(ctx, copyStmt, outputPath); err != nil {
		return fmt.Errorf("failed to export loyalty message: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		logging.Warn().Str("table", table).Err(err).Msg("Failed to drop temporary export table")
	}

	return nil
}

// ExportNightOwlUsers writes the night_owl_users report.
func (db *DB) ExportNightOwlUsers(ctx context.Context, outputPath string) (int64, error) {
	return db.exportCSV(ctx, "export_night_owl_users", outputPath, nightOwlSQL)
}

// ExportEnrichedLogs writes the enriched_logs report, the full join
// output for downstream ad hoc use.
func (db *DB) ExportEnrichedLogs(ctx context.Context, outputPath string) (int64, error) {
	return db.exportCSV(ctx, "export_enriched_logs", outputPath, enrichedLogsSQL)
}
