// Spotify API implementation of [MusicService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	URI        string          `json:"uri"`
	PreviewURL string          `json:"preview_url"`
	Popularity int             `json:"popularity"`
}

// toModel converts the wire track to the display model.
func (t SpotifyTrack) toModel() models.Track {
	track := models.Track{
		ID:         t.ID,
		Name:       t.Name,
		URI:        t.URI,
		PreviewURL: t.PreviewURL,
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, models.Artist{Name: a.Name})
	}
	for _, img := range t.Album.Images {
		track.Album.Images = append(track.Album.Images, models.Image{URL: img.URL})
	}
	return track
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	Tokens     TokenProvider
	HTTPClient *http.Client

	// BaseURL overrides the API host, for tests.
	BaseURL string
}

// SpotifyService implements [MusicService] against the Spotify Web API.
//
// Every call reads the bearer token from the [TokenProvider]; the service
// holds no token state of its own.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
}

// NewSpotifyService creates a new Spotify service.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.Tokens == nil {
		return nil, fmt.Errorf("%w: token provider is required", shared.ErrInvalidArgument)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &SpotifyService{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	token := s.tokens.Token()
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	apiURL := s.baseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return shared.ErrTokenExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*UserProfile, error) {
	var user UserProfile
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TopArtistIDs retrieves up to limit of the user's top artist IDs.
func (s *SpotifyService) TopArtistIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 2
	}

	var response struct {
		Items []SpotifyArtist `json:"items"`
	}

	endpoint := fmt.Sprintf("/me/top/artists?limit=%d", limit)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(response.Items))
	for _, artist := range response.Items {
		ids = append(ids, artist.ID)
	}
	return ids, nil
}

// Recommendations fetches tracks from the seed-based recommendation
// endpoint. Artist seeds take precedence; genre seeds are only attached when
// no artist seeds are present, matching the exclusive-seed behavior the
// endpoint expects. The market is always pinned to avoid empty result sets
// from region mismatches.
func (s *SpotifyService) Recommendations(ctx context.Context, query RecommendationQuery) ([]models.Track, error) {
	if len(query.SeedArtists) == 0 && len(query.SeedGenres) == 0 {
		return nil, fmt.Errorf("%w: no seeds provided", shared.ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(query.Limit))
	params.Set("market", query.Market)

	if len(query.SeedArtists) > 0 {
		params.Set("seed_artists", strings.Join(query.SeedArtists, ","))
	} else {
		params.Set("seed_genres", strings.Join(query.SeedGenres, ","))
	}

	if t := query.Targets; t != nil {
		params.Set("target_energy", formatFeature(t.Energy))
		params.Set("target_valence", formatFeature(t.Valence))
		params.Set("target_acousticness", formatFeature(t.Acousticness))
	}

	var response struct {
		Tracks []SpotifyTrack `json:"tracks"`
	}

	if err := s.doRequest(ctx, http.MethodGet, "/recommendations?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks))
	for _, t := range response.Tracks {
		tracks = append(tracks, t.toModel())
	}
	return tracks, nil
}

// SearchTracksByGenre fetches tracks via the keyword search endpoint scoped
// to one genre tag. The endpoint returns stable, popularity-ranked results;
// callers that want variety must reorder them.
func (s *SpotifyService) SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error) {
	if genre == "" {
		return nil, fmt.Errorf("%w: genre is required", shared.ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("q", "genre:"+genre)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	var response struct {
		Tracks struct {
			Items []SpotifyTrack `json:"items"`
		} `json:"tracks"`
	}

	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks.Items))
	for _, t := range response.Tracks.Items {
		tracks = append(tracks, t.toModel())
	}
	return tracks, nil
}

// CreatePlaylist creates a non-public playlist owned by the given user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string) (*Playlist, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}

	var response struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &response); err != nil {
		return nil, err
	}

	return &Playlist{ID: response.ID, Name: response.Name, URL: response.ExternalURLs.Spotify}, nil
}

// AddTracks appends track URIs to a playlist in one batch call.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return fmt.Errorf("%w: no track URIs provided", shared.ErrMissingArgument)
	}

	body := map[string]any{"uris": uris}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

func formatFeature(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
