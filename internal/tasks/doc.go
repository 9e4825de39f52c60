// Package tasks orchestrates the weather-to-tracks pipeline with progress
// reporting.
//
// # Core Operations
//
// The [Engine] exposes three operations:
//
//  1. [Engine.Sync] : Full weather → recommendations pipeline
//     - Resolves a location (city flag, coordinates, or IP geolocation)
//     - Fetches current conditions and derives the mood mapping
//     - Fetches recommendations seeded by the user's top artists and the
//       mood genres, falling back to a shuffled genre search
//     - Applies the bundled snapshot + track list to the state store
//
//  2. [Engine.Shuffle] : Refetch recommendations for the stored snapshot
//     - No new weather lookup; the mood parameters are rederived from the
//       snapshot and the track fetch runs again
//
//  3. [Engine.SavePlaylist] : Write the latest result to the user's library
//     - Creates a private playlist named after the city and condition
//     - Appends all track URIs in one batch call
//
// # Progress Reporting
//
// Every operation accepts a [ProgressFunc] invoked per [Phase] so the CLI
// and the TUI can render status lines without the engine knowing about
// either. A nil func disables reporting.
package tasks
