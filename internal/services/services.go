package services

import (
	"context"

	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/mood"
)

// MusicService is the slice of the music provider the sync pipeline and the
// playlist writer consume.
type MusicService interface {
	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*UserProfile, error)

	// TopArtistIDs retrieves up to limit of the user's top artist IDs for
	// recommendation seeding.
	TopArtistIDs(ctx context.Context, limit int) ([]string, error)

	// Recommendations fetches tracks from the seed-based recommendation
	// endpoint.
	Recommendations(ctx context.Context, query RecommendationQuery) ([]models.Track, error)

	// SearchTracksByGenre fetches tracks via the keyword search endpoint,
	// scoped to a single genre tag.
	SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error)

	// CreatePlaylist creates a non-public playlist owned by the given user.
	CreatePlaylist(ctx context.Context, userID, name, description string) (*Playlist, error)

	// AddTracks appends track URIs to a playlist in one batch call.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the provider name for logging.
	Name() string
}

// WeatherService resolves current conditions and city suggestions.
type WeatherService interface {
	// Current fetches conditions by coordinates.
	Current(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)

	// CurrentByCity fetches conditions by free-text city name.
	CurrentByCity(ctx context.Context, name string) (*models.WeatherSnapshot, error)

	// SearchCities resolves a free-text query to candidate locations with
	// their current temperature. Individual lookup failures are dropped
	// from the result set.
	SearchCities(ctx context.Context, query string) ([]models.CitySuggestion, error)

	// Name returns the provider name for logging.
	Name() string
}

// Locator resolves the machine's approximate coordinates, standing in for
// device geolocation.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// TokenProvider supplies the bearer token for authenticated calls. The
// token is read per request; it is only ever replaced wholesale or cleared.
type TokenProvider interface {
	Token() string
}

// RecommendationQuery is the ephemeral per-sync request built from the
// current weather snapshot and the user's seeds. Artist seeds take
// precedence over genre seeds when both are present.
type RecommendationQuery struct {
	SeedArtists []string
	SeedGenres  []string
	Targets     *mood.Targets
	Market      string
	Limit       int
}

// UserProfile is the display subset of the authenticated user.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Playlist is a created playlist reference.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}
