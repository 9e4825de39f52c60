package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrMissingVerifier  = fmt.Errorf("no pending code verifier")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Weather and location errors
	ErrWeatherLookup       = fmt.Errorf("weather lookup failed")
	ErrCityNotFound        = fmt.Errorf("city not found")
	ErrLocationUnavailable = fmt.Errorf("location unavailable")
	ErrGeocodingFailed     = fmt.Errorf("geocoding failed")

	// Recommendation and playlist errors
	ErrAPIRequest           = fmt.Errorf("API request failed")
	ErrServiceUnavailable   = fmt.Errorf("service unavailable")
	ErrRecommendationFailed = fmt.Errorf("no recommendations available")
	ErrPlaylistWrite        = fmt.Errorf("playlist write failed")
	ErrNoTracks             = fmt.Errorf("no tracks loaded")
	ErrNoSnapshot           = fmt.Errorf("no weather snapshot loaded")
	ErrSyncInFlight         = fmt.Errorf("a sync is already in flight")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
