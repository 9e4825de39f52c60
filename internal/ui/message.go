package ui

import (
	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/services"
	"github.com/sonicmood/sonicmood/internal/tasks"
)

// debounceMsg fires after the suggestion debounce window elapses. A stale
// seq means the input changed again in the meantime and the tick is ignored.
type debounceMsg struct {
	seq uint64
}

// suggestionsMsg carries the result of a suggestion search. It is tagged
// with the seq that issued it so a slow response for an older query can
// never overwrite a newer one.
type suggestionsMsg struct {
	seq         uint64
	suggestions []models.CitySuggestion
	err         error
}

// syncCompleteMsg carries the result of a full sync run.
type syncCompleteMsg struct {
	result *models.SyncResult
	err    error
}

// progressMsg wraps a pipeline progress update.
type progressMsg tasks.ProgressUpdate

// shuffledMsg carries the result of a shuffle refetch.
type shuffledMsg struct {
	result *models.SyncResult
	err    error
}

// saveCompleteMsg carries the result of a playlist save.
type saveCompleteMsg struct {
	playlist *services.Playlist
	err      error
}
