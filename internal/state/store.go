// Package state owns the process-wide application state: the session token,
// and the latest weather snapshot paired with the track list it produced.
//
// All mutation goes through a small set of entry points; there is no ambient
// global state. Persistence is a serialize boundary triggered by specific
// mutations (SetToken, Apply, Reset), not a side effect of every read or
// write. The persisted subset (token, latest result) survives restarts;
// everything else does not.
package state

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/shared"
)

// ErrStaleResult is returned by Apply for a result whose sequence number is
// not the latest issued. Out-of-order completions of overlapping syncs are
// discarded, never displayed.
var ErrStaleResult = errors.New("stale sync result discarded")

// SessionStore persists the token subset of the state.
type SessionStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// ResultStore persists the latest sync result.
type ResultStore interface {
	Save(result *models.SyncResult) error
	Load() (*models.SyncResult, error)
	Clear() error
}

// Store holds the authenticated session and the latest sync result.
//
// The access token is only ever wholesale replaced (login) or cleared
// (logout), never mutated mid-flight. Either store may be nil, in which case
// that subset is kept in memory only.
type Store struct {
	mu       sync.RWMutex
	token    string
	latest   *models.SyncResult
	issued   atomic.Uint64
	syncing  atomic.Bool
	sessions SessionStore
	results  ResultStore
}

// NewStore creates a Store backed by the given persistence layers.
func NewStore(sessions SessionStore, results ResultStore) *Store {
	return &Store{sessions: sessions, results: results}
}

// Restore loads the persisted subset of state. Called once at startup;
// a missing database row is not an error.
func (s *Store) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions != nil {
		token, err := s.sessions.Load()
		if err != nil {
			return fmt.Errorf("failed to restore session: %w", err)
		}
		s.token = token
	}

	if s.results != nil {
		result, err := s.results.Load()
		if err != nil {
			return fmt.Errorf("failed to restore sync result: %w", err)
		}
		s.latest = result
	}

	return nil
}

// Token returns the current access token, or an empty string when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a session token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// SetToken replaces the session wholesale and persists it.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidArgument)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.sessions != nil {
		if err := s.sessions.Save(token); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
	}
	return nil
}

// Reset clears session, snapshot and track list uniformly (logout), both in
// memory and in the persisted subset.
func (s *Store) Reset() error {
	s.mu.Lock()
	s.token = ""
	s.latest = nil
	s.mu.Unlock()

	if s.sessions != nil {
		if err := s.sessions.Clear(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
	}
	if s.results != nil {
		if err := s.results.Clear(); err != nil {
			return fmt.Errorf("failed to clear sync result: %w", err)
		}
	}
	return nil
}

// NextSeq issues a monotonically increasing sequence number for a new sync
// request. Apply only accepts the result carrying the latest issued number.
func (s *Store) NextSeq() uint64 {
	return s.issued.Add(1)
}

// Apply installs a sync result as the current state and persists it.
// Results from superseded requests return [ErrStaleResult] and leave the
// state untouched.
func (s *Store) Apply(result *models.SyncResult) error {
	if result == nil {
		return fmt.Errorf("%w: nil result", shared.ErrInvalidArgument)
	}
	if result.Seq != 0 && result.Seq != s.issued.Load() {
		return ErrStaleResult
	}

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	if s.results != nil {
		if err := s.results.Save(result); err != nil {
			return fmt.Errorf("failed to persist sync result: %w", err)
		}
	}
	return nil
}

// Latest returns the current sync result, or nil when nothing has been
// synced yet.
func (s *Store) Latest() *models.SyncResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// BeginSync acquires the single-flight gate. A second sync may not start
// while one is in flight.
func (s *Store) BeginSync() error {
	if !s.syncing.CompareAndSwap(false, true) {
		return shared.ErrSyncInFlight
	}
	return nil
}

// EndSync releases the single-flight gate. Safe to call from a deferred
// path regardless of how the sync ended.
func (s *Store) EndSync() {
	s.syncing.Store(false)
}
