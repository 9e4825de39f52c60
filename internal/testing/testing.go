// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/services"
)

// MockMusicService is a configurable test double for [services.MusicService].
// Zero-value methods succeed with empty results; set the corresponding Fn
// field to script behavior, and read the *Calls counters to assert call
// counts.
type MockMusicService struct {
	CurrentUserFn     func(ctx context.Context) (*services.UserProfile, error)
	TopArtistIDsFn    func(ctx context.Context, limit int) ([]string, error)
	RecommendationsFn func(ctx context.Context, query services.RecommendationQuery) ([]models.Track, error)
	SearchFn          func(ctx context.Context, genre string, limit int) ([]models.Track, error)
	CreatePlaylistFn  func(ctx context.Context, userID, name, description string) (*services.Playlist, error)
	AddTracksFn       func(ctx context.Context, playlistID string, uris []string) error

	RecommendationsCalls int
	SearchCalls          int
	AddTracksCalls       int
}

func (m *MockMusicService) CurrentUser(ctx context.Context) (*services.UserProfile, error) {
	if m.CurrentUserFn != nil {
		return m.CurrentUserFn(ctx)
	}
	return &services.UserProfile{ID: "mock-user", DisplayName: "Mock User"}, nil
}

func (m *MockMusicService) TopArtistIDs(ctx context.Context, limit int) ([]string, error) {
	if m.TopArtistIDsFn != nil {
		return m.TopArtistIDsFn(ctx, limit)
	}
	return nil, nil
}

func (m *MockMusicService) Recommendations(ctx context.Context, query services.RecommendationQuery) ([]models.Track, error) {
	m.RecommendationsCalls++
	if m.RecommendationsFn != nil {
		return m.RecommendationsFn(ctx, query)
	}
	return []models.Track{}, nil
}

func (m *MockMusicService) SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error) {
	m.SearchCalls++
	if m.SearchFn != nil {
		return m.SearchFn(ctx, genre, limit)
	}
	return []models.Track{}, nil
}

func (m *MockMusicService) CreatePlaylist(ctx context.Context, userID, name, description string) (*services.Playlist, error) {
	if m.CreatePlaylistFn != nil {
		return m.CreatePlaylistFn(ctx, userID, name, description)
	}
	return &services.Playlist{ID: "mock-playlist", Name: name}, nil
}

func (m *MockMusicService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	m.AddTracksCalls++
	if m.AddTracksFn != nil {
		return m.AddTracksFn(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockMusicService) Name() string { return "mock" }

// MockWeatherService is a configurable test double for [services.WeatherService].
type MockWeatherService struct {
	CurrentFn       func(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)
	CurrentByCityFn func(ctx context.Context, name string) (*models.WeatherSnapshot, error)
	SearchCitiesFn  func(ctx context.Context, query string) ([]models.CitySuggestion, error)

	CurrentCalls int
}

func (m *MockWeatherService) Current(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	m.CurrentCalls++
	if m.CurrentFn != nil {
		return m.CurrentFn(ctx, lat, lon)
	}
	return &models.WeatherSnapshot{Condition: "Clear", City: "Mockville", Country: "US", IsDay: true}, nil
}

func (m *MockWeatherService) CurrentByCity(ctx context.Context, name string) (*models.WeatherSnapshot, error) {
	if m.CurrentByCityFn != nil {
		return m.CurrentByCityFn(ctx, name)
	}
	return &models.WeatherSnapshot{Condition: "Clear", City: name, Country: "US", IsDay: true}, nil
}

func (m *MockWeatherService) SearchCities(ctx context.Context, query string) ([]models.CitySuggestion, error) {
	if m.SearchCitiesFn != nil {
		return m.SearchCitiesFn(ctx, query)
	}
	return []models.CitySuggestion{}, nil
}

func (m *MockWeatherService) Name() string { return "mock" }

// MockLocator is a test double for [services.Locator].
type MockLocator struct {
	Lat, Lon float64
	Err      error
}

func (m *MockLocator) Locate(ctx context.Context) (float64, float64, error) {
	return m.Lat, m.Lon, m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
