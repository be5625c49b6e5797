// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package models

import "time"

// UserFavoriteGenre is one row of the user_favorite_genres report: the
// genre with the most plays for a user. Ties resolve to the
// lexicographically smallest genre name.
type UserFavoriteGenre struct {
	UserID string `json:"user_id"`
	Genre  string `json:"genre"`
}

// SongAvgDuration is one row of avg_listen_time_per_song: the arithmetic
// mean listen duration across every play of a song. Songs with zero
// plays produce no row.
type SongAvgDuration struct {
	SongID      string  `json:"song_id"`
	AvgDuration float64 `json:"avg_duration"`
}

// TopSong is one row of top_songs_this_week, ranked by play count within
// the trailing window. Ties resolve by ascending song identifier.
type TopSong struct {
	SongID    string `json:"song_id"`
	Title     string `json:"title"`
	PlayCount int    `json:"play_count"`
}

// Recommendation is one row of happy_recommendations: a happy-mood song
// suggested to a sad-leaning listener.
type Recommendation struct {
	UserID string `json:"user_id"`
	SongID string `json:"song_id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Mood   string `json:"mood"`
}

// GenreLoyalty is one row of genre_loyalty_scores: the share of a user's
// plays that belong to their favorite genre. LoyaltyScore is in (0, 1].
type GenreLoyalty struct {
	UserID       string  `json:"user_id"`
	Genre        string  `json:"genre"`
	PlayCount    int     `json:"play_count"`
	TotalPlays   int     `json:"total_plays"`
	LoyaltyScore float64 `json:"loyalty_score"`
}

// LoyaltyOutcome is the result of the genre-loyalty query. Exactly one
// of Scores and Message is set: Scores when at least one user clears the
// threshold, Message (with the maximum observed score) otherwise.
type LoyaltyOutcome struct {
	Scores   []GenreLoyalty `json:"scores,omitempty"`
	Message  string         `json:"message,omitempty"`
	MaxScore float64        `json:"max_score"`
}

// Fallback reports whether the outcome is the diagnostic message rather
// than per-user scores.
func (o *LoyaltyOutcome) Fallback() bool {
	return o.Message != ""
}

// ReportCounts records the number of rows each report produced.
type ReportCounts struct {
	UserFavoriteGenres   int `json:"user_favorite_genres"`
	AvgListenTimePerSong int `json:"avg_listen_time_per_song"`
	TopSongsThisWeek     int `json:"top_songs_this_week"`
	HappyRecommendations int `json:"happy_recommendations"`
	GenreLoyaltyScores   int `json:"genre_loyalty_scores"`
	NightOwlUsers        int `json:"night_owl_users"`
	EnrichedLogs         int `json:"enriched_logs"`
}

// RunManifest summarizes one analysis run. It is written alongside the
// reports as run_manifest.json for downstream bookkeeping.
type RunManifest struct {
	RunID           string       `json:"run_id"`
	StartedAt       time.Time    `json:"started_at"`
	CompletedAt     time.Time    `json:"completed_at"`
	SongsLoaded     int64        `json:"songs_loaded"`
	EventsLoaded    int64        `json:"events_loaded"`
	EventsSkipped   int64        `json:"events_skipped"`
	WindowCutoff    time.Time    `json:"window_cutoff"`
	LoyaltyFallback bool         `json:"loyalty_fallback"`
	Counts          ReportCounts `json:"counts"`
}
