// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow from weather to playlist:
//  1. [SearchView] : Type a city (with debounced live suggestions) or leave empty to use IP geolocation
//  2. [SyncView] : Monitor the weather → recommendations pipeline
//  3. [TrackListView] : Browse the recommended tracks, reshuffle, or start a save
//  4. [ConfirmView] : Confirm the playlist write
//  5. [SaveView] and [ResultView] : Monitor the save and display the outcome
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Suggestion lookups are debounced and tagged with a monotonically increasing
// sequence number; a response whose tag no longer matches the latest input is
// discarded, so a slow lookup can never overwrite a newer one. Progress
// updates flow through a channel from the sync engine, providing non-blocking
// status reporting during long operations.
//
// Keyboard navigation uses contextual help displayed via charmbracelet/bubbles/help.
package ui
