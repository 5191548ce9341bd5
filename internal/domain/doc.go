// Package domain models the historical nuclear explosions dataset (1945–1998)
// and the pure functions that clean, filter and aggregate it.
//
// # Data Source
//
// The dataset is a single sheet (xlsx or csv) of roughly 2000 detonations.
// Column names in the source use a dotted hierarchy, for example
// "Location.Cordinates.Latitude" or "Data.Yeild.Lower". The misspellings
// ("Cordinates", "Yeild") are part of the published dataset and are kept in
// the canonical names so exports stay compatible with existing consumers.
//
// # Missing Values
//
// Empty cells and the literal string "Nan" mark a missing value. Any row with a
// missing value in any column is dropped whole, including rows that are only
// missing columns no view ever reads.
//
// # Categorical Conventions
//
// Deployment locations are abbreviated and often misspelled in the source
// ("Semi Kazakh", "Hururoa", "Muruhoa"). Purposes and types are short codes
// ("Wr/Se", "Shaft/Gr"). Each is canonicalized through a fixed [Lookup]; keys
// not present in a table pass through unchanged because many source values are
// already correct. Types are title-cased after lookup.
//
// Depth sign convention:
//
//	negative  detonation above ground (airdrop, tower, balloon)
//	positive  detonation below ground (shaft, tunnel)
//	zero      surface; matches neither directional depth filter
//
// Magnitude category (body wave magnitude mb):
//
//	mb > 5        High
//	3 < mb <= 5   Moderate
//	mb <= 3       Low
//
// # Filtering
//
// A view is the conjunction of four independent predicates: location set
// membership, inclusive year range, inclusive range on the lower yield bound,
// and depth mode. An empty location set selects nothing. An empty view is a
// valid result and is never reported as an error.
package domain
