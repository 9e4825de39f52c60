// Package repositories implements SQLite persistence for the state the
// application keeps across restarts.
//
// Only a subset of runtime state is durable: the session token, the latest
// weather snapshot, and the track list that snapshot produced. User profile
// data and in-flight UI state are deliberately not persisted.
//
// Key implementations:
//   - [SessionRepository] : single-row session token storage
//   - [ResultRepository]  : latest sync result (snapshot + ordered track rows)
//
// Both repositories replace their rows wholesale inside a transaction; there
// is no partial update path and no history.
package repositories
