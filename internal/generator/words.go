// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package generator

// Curated word pools for synthetic catalog entries. Titles combine one
// word from each pool; artists combine a first and a last name. The
// pools are large enough that a default-sized catalog rarely repeats a
// full combination, and every generated value is ASCII so the output
// survives any downstream CSV consumer.

var titleAdjectives = []string{
	"Midnight", "Golden", "Electric", "Silent", "Broken",
	"Velvet", "Neon", "Distant", "Hollow", "Crimson",
	"Wandering", "Frozen", "Restless", "Faded", "Burning",
	"Paper", "Glass", "Wild", "Quiet", "Endless",
}

var titleNouns = []string{
	"Horizon", "Echoes", "Rivers", "Skyline", "Embers",
	"Shadows", "Tides", "Lanterns", "Mirrors", "Thunder",
	"Gardens", "Signals", "Avenues", "Satellites", "Harbors",
	"Wires", "Seasons", "Daydream", "Static", "Monsoon",
}

var artistFirstNames = []string{
	"Ada", "Mara", "Theo", "Iris", "Felix",
	"Nina", "Oscar", "Lena", "Hugo", "Clara",
	"Jonas", "Ruby", "Elias", "Vera", "Marco",
}

var artistLastNames = []string{
	"Holt", "Venn", "Calder", "Reyes", "Okafor",
	"Lindqvist", "Moreau", "Takeda", "Kowalski", "Branagh",
	"Silva", "Varga", "Antonelli", "Duval", "Mbeki",
}
