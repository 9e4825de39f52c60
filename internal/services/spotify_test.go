package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sonicmood/sonicmood/internal/mood"
	"github.com/sonicmood/sonicmood/internal/shared"
)

// staticTokens is a TokenProvider returning a fixed value.
type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newSpotifyService(t *testing.T, srv *httptest.Server, token string) *SpotifyService {
	t.Helper()
	svc, err := NewSpotifyService(SpotifyOpts{
		Tokens:  staticTokens(token),
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("NewSpotifyService failed: %v", err)
	}
	return svc
}

const trackJSON = `{
	"id": "t1",
	"name": "Mood Song",
	"uri": "spotify:track:t1",
	"preview_url": "https://p.example/t1",
	"artists": [{"id": "a1", "name": "The Artists"}],
	"album": {"id": "al1", "name": "The Album", "images": [{"url": "https://i.example/al1", "width": 640, "height": 640}]}
}`

func TestDoRequest(t *testing.T) {
	t.Run("requires a session token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			t.Error("no request should be made without a token")
		}))
		defer srv.Close()

		_, err := newSpotifyService(t, srv, "").CurrentUser(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("a 401 surfaces as an expired token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := newSpotifyService(t, srv, "stale").CurrentUser(context.Background())
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("sends the bearer token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if got := req.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Errorf("Authorization = %q, want Bearer tok-123", got)
			}
			fmt.Fprint(w, `{"id": "u1", "display_name": "User"}`)
		}))
		defer srv.Close()

		profile, err := newSpotifyService(t, srv, "tok-123").CurrentUser(context.Background())
		if err != nil {
			t.Fatalf("CurrentUser failed: %v", err)
		}
		if profile.ID != "u1" || profile.DisplayName != "User" {
			t.Errorf("profile = %+v", profile)
		}
	})
}

func TestTopArtistIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if got := req.URL.Query().Get("limit"); got != "2" {
			t.Errorf("limit = %q, want 2", got)
		}
		fmt.Fprint(w, `{"items": [{"id": "a1", "name": "One"}, {"id": "a2", "name": "Two"}]}`)
	}))
	defer srv.Close()

	ids, err := newSpotifyService(t, srv, "tok").TopArtistIDs(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopArtistIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a1" || ids[1] != "a2" {
		t.Errorf("ids = %v, want [a1 a2]", ids)
	}
}

func TestRecommendations(t *testing.T) {
	t.Run("rejects a query with no seeds", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			t.Error("no request should be made without seeds")
		}))
		defer srv.Close()

		_, err := newSpotifyService(t, srv, "tok").Recommendations(context.Background(), RecommendationQuery{})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("artist seeds win over genre seeds", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			if got := q.Get("seed_artists"); got != "a1,a2" {
				t.Errorf("seed_artists = %q, want a1,a2", got)
			}
			if q.Has("seed_genres") {
				t.Error("seed_genres must not be sent alongside artist seeds")
			}
			fmt.Fprintf(w, `{"tracks": [%s]}`, trackJSON)
		}))
		defer srv.Close()

		tracks, err := newSpotifyService(t, srv, "tok").Recommendations(context.Background(), RecommendationQuery{
			SeedArtists: []string{"a1", "a2"},
			SeedGenres:  []string{"acoustic"},
			Market:      "US",
			Limit:       12,
		})
		if err != nil {
			t.Fatalf("Recommendations failed: %v", err)
		}
		if len(tracks) != 1 {
			t.Fatalf("got %d tracks, want 1", len(tracks))
		}
		if tracks[0].PrimaryArtist() != "The Artists" {
			t.Errorf("primary artist = %q", tracks[0].PrimaryArtist())
		}
	})

	t.Run("genre seeds and feature targets travel in the query", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			if got := q.Get("seed_genres"); got != "acoustic,piano,chill" {
				t.Errorf("seed_genres = %q", got)
			}
			if got := q.Get("target_energy"); got != "0.35" {
				t.Errorf("target_energy = %q, want 0.35", got)
			}
			if got := q.Get("target_valence"); got != "0.30" {
				t.Errorf("target_valence = %q, want 0.30", got)
			}
			if got := q.Get("target_acousticness"); got != "0.80" {
				t.Errorf("target_acousticness = %q, want 0.80", got)
			}
			if got := q.Get("market"); got != "US" {
				t.Errorf("market = %q, want US", got)
			}
			if got := q.Get("limit"); got != "12" {
				t.Errorf("limit = %q, want 12", got)
			}
			fmt.Fprint(w, `{"tracks": []}`)
		}))
		defer srv.Close()

		targets := mood.Targets{Energy: 0.35, Valence: 0.3, Acousticness: 0.8}
		_, err := newSpotifyService(t, srv, "tok").Recommendations(context.Background(), RecommendationQuery{
			SeedGenres: []string{"acoustic", "piano", "chill"},
			Targets:    &targets,
			Market:     "US",
			Limit:      12,
		})
		if err != nil {
			t.Fatalf("Recommendations failed: %v", err)
		}
	})
}

func TestSearchTracksByGenre(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if got := q.Get("q"); got != "genre:acoustic" {
			t.Errorf("q = %q, want genre:acoustic", got)
		}
		if got := q.Get("type"); got != "track" {
			t.Errorf("type = %q, want track", got)
		}
		fmt.Fprintf(w, `{"tracks": {"items": [%s]}}`, trackJSON)
	}))
	defer srv.Close()

	tracks, err := newSpotifyService(t, srv, "tok").SearchTracksByGenre(context.Background(), "acoustic", 24)
	if err != nil {
		t.Fatalf("SearchTracksByGenre failed: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	if tracks[0].URI != "spotify:track:t1" {
		t.Errorf("uri = %q", tracks[0].URI)
	}
	if tracks[0].CoverURL() != "https://i.example/al1" {
		t.Errorf("cover = %q", tracks[0].CoverURL())
	}
}

func TestCreatePlaylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/users/u1/playlists" {
			t.Errorf("path = %q, want /users/u1/playlists", req.URL.Path)
		}

		var body map[string]any
		json.NewDecoder(req.Body).Decode(&body)
		if body["name"] != "SonicMood - Seattle Rain" {
			t.Errorf("name = %v", body["name"])
		}
		if body["public"] != false {
			t.Error("playlist must be created private")
		}

		fmt.Fprint(w, `{"id": "p1", "name": "SonicMood - Seattle Rain", "external_urls": {"spotify": "https://open.spotify.com/playlist/p1"}}`)
	}))
	defer srv.Close()

	playlist, err := newSpotifyService(t, srv, "tok").CreatePlaylist(
		context.Background(), "u1", "SonicMood - Seattle Rain", "Generated by SonicMood based on local weather.")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if playlist.ID != "p1" {
		t.Errorf("id = %q, want p1", playlist.ID)
	}
	if playlist.URL != "https://open.spotify.com/playlist/p1" {
		t.Errorf("url = %q", playlist.URL)
	}
}

func TestAddTracks(t *testing.T) {
	t.Run("sends all URIs in one batch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path != "/playlists/p1/tracks" {
				t.Errorf("path = %q", req.URL.Path)
			}
			var body struct {
				URIs []string `json:"uris"`
			}
			json.NewDecoder(req.Body).Decode(&body)
			if len(body.URIs) != 2 {
				t.Errorf("got %d uris, want 2", len(body.URIs))
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		err := newSpotifyService(t, srv, "tok").AddTracks(
			context.Background(), "p1", []string{"spotify:track:t1", "spotify:track:t2"})
		if err != nil {
			t.Fatalf("AddTracks failed: %v", err)
		}
	})

	t.Run("rejects an empty URI list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			t.Error("no request should be made with no URIs")
		}))
		defer srv.Close()

		err := newSpotifyService(t, srv, "tok").AddTracks(context.Background(), "p1", nil)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
