package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/sonicmood/sonicmood/internal/models"
)

var (
	_ list.Item = suggestionItem{}
	_ list.Item = trackItem{}
)

// suggestionItem wraps [models.CitySuggestion] to implement [list.Item].
type suggestionItem struct {
	suggestion models.CitySuggestion
}

func (i suggestionItem) FilterValue() string { return i.suggestion.Name }
func (i suggestionItem) Title() string {
	if i.suggestion.Country == "" {
		return i.suggestion.Name
	}
	return fmt.Sprintf("%s, %s", i.suggestion.Name, i.suggestion.Country)
}
func (i suggestionItem) Description() string {
	return fmt.Sprintf("%.1f°C", i.suggestion.Temp)
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	return i.track.PrimaryArtist()
}
