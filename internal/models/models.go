package models

import "fmt"

// WeatherSnapshot is the current conditions for one location. A snapshot is
// replaced wholesale on every successful weather fetch and never partially
// mutated; only the latest snapshot is kept.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"` // °C
	Condition   string  `json:"condition"`   // primary weather-group label, e.g. "Rain"
	City        string  `json:"city"`
	Country     string  `json:"country"`
	IconCode    string  `json:"icon_code"`
	IsDay       bool    `json:"is_day"`
}

// Validate checks that the snapshot carries the fields persistence relies on.
func (w WeatherSnapshot) Validate() error {
	if w.City == "" {
		return fmt.Errorf("snapshot has no city")
	}
	if w.Condition == "" {
		return fmt.Errorf("snapshot has no condition")
	}
	return nil
}

// Image is a provider-hosted image resource.
type Image struct {
	URL string `json:"url"`
}

// Artist is the display subset of a track artist.
type Artist struct {
	Name string `json:"name"`
}

// Album is the display subset of a track album.
type Album struct {
	Images []Image `json:"images"`
}

// Track is a recommended track. Track lists are ordered and replaced
// wholesale on every successful recommendation fetch or shuffle.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	URI        string   `json:"uri"`
	PreviewURL string   `json:"preview_url,omitempty"`
}

// PrimaryArtist returns the first artist name, or an empty string.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// CoverURL returns the first album image URL, or an empty string.
func (t Track) CoverURL() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

// Validate checks that the track can be persisted and later written to a playlist.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("track has no id")
	}
	if t.URI == "" {
		return fmt.Errorf("track %s has no URI", t.ID)
	}
	return nil
}

// CitySuggestion is one candidate from the debounced city search: a geocoded
// location paired with its current temperature. Suggestions are ephemeral
// and never persisted.
type CitySuggestion struct {
	Name     string  `json:"name"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Temp     float64 `json:"temp"`
	IconCode string  `json:"icon_code"`
}

// SyncResult bundles the weather snapshot and the track list it produced
// into one atomically-replaced value. The pairing is keyed by a single
// request id so a displayed track list can never belong to a different
// snapshot than the one displayed beside it.
type SyncResult struct {
	ID      string          `json:"id"`
	Seq     uint64          `json:"-"` // issuing sequence, used to discard stale results
	Weather WeatherSnapshot `json:"weather"`
	Tracks  []Track         `json:"tracks"`
}

// Validate checks the result before it is applied to the store.
func (r *SyncResult) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("sync result has no id")
	}
	if err := r.Weather.Validate(); err != nil {
		return err
	}
	for _, t := range r.Tracks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
