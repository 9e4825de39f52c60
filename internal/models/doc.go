// Package models defines domain entities for the SonicMood weather-to-music pipeline.
//
// The package contains two categories of types:
//
// 1. Provider-facing display data:
//   - [WeatherSnapshot] : Current conditions for one location, replaced wholesale per fetch
//   - [Track] : A recommended track with the display subset of artist/album data
//   - [CitySuggestion] : A geocoded search candidate paired with its current temperature
//
// 2. Pipeline output:
//   - [SyncResult] : One weather snapshot and the track list it produced, bundled
//     under a single request id so the pair is always replaced atomically
//
// Persisted types carry Validate methods checked at the persistence and
// playlist-write boundaries. Ephemeral types (suggestions, queries) are not
// validated and never stored.
package models
