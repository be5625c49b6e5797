// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

// Package models defines the input tables and report rows shared by the
// generator, the database layer, and the analysis runner.
package models

import "time"

// TimestampLayout is the wire format of play event timestamps in the
// listening log CSV (second resolution).
const TimestampLayout = "2006-01-02 15:04:05"

// Genres is the catalog's genre vocabulary. It is generation-time data,
// not an enforced schema: the analysis treats genre as an opaque string.
var Genres = []string{"Pop", "Rock", "Jazz", "HipHop", "Classical"}

// Moods is the catalog's mood vocabulary. Mood comparisons in the
// analysis are case-insensitive.
var Moods = []string{"Happy", "Sad", "Energetic", "Chill"}

// Song is one immutable catalog entry. Identifiers use the S#### format.
type Song struct {
	SongID string `json:"song_id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Genre  string `json:"genre"`
	Mood   string `json:"mood"`
}

// PlayEvent is one append-only row of the listening log. Identifiers use
// the U### format; SongID is a foreign key into the catalog that is not
// enforced, so an event may reference a song that does not exist.
type PlayEvent struct {
	UserID      string    `json:"user_id"`
	SongID      string    `json:"song_id"`
	PlayedAt    time.Time `json:"timestamp"`
	DurationSec int       `json:"duration_sec"`
}

// EnrichedEvent is a play event joined with its song's metadata.
// Events referencing an unknown song are dropped by the join and never
// appear as EnrichedEvents.
type EnrichedEvent struct {
	SongID      string    `json:"song_id"`
	UserID      string    `json:"user_id"`
	PlayedAt    time.Time `json:"timestamp"`
	DurationSec int       `json:"duration_sec"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Genre       string    `json:"genre"`
	Mood        string    `json:"mood"`
}
