package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/shared"
	"golang.org/x/time/rate"
)

const (
	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	openWeatherGeoURL  = "https://api.openweathermap.org/geo/1.0"

	// geocodeLimit caps how many candidates a suggestion search resolves.
	geocodeLimit = 5

	weatherTimeout = 10 * time.Second
)

// owmCondition is one entry of the weather[] array.
type owmCondition struct {
	Main string `json:"main"`
	Icon string `json:"icon"`
}

// owmWeather is the subset of the current-weather response the app consumes.
type owmWeather struct {
	Weather []owmCondition `json:"weather"`
	Main    struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	DT  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Name string `json:"name"`
}

// toSnapshot validates the dynamic response shape and derives the snapshot.
// isDay compares the report timestamp against the location's sunrise/sunset.
func (w owmWeather) toSnapshot() (*models.WeatherSnapshot, error) {
	if len(w.Weather) == 0 {
		return nil, fmt.Errorf("%w: response has no weather conditions", shared.ErrWeatherLookup)
	}

	return &models.WeatherSnapshot{
		Temperature: w.Main.Temp,
		Condition:   w.Weather[0].Main,
		City:        w.Name,
		Country:     w.Sys.Country,
		IconCode:    w.Weather[0].Icon,
		IsDay:       w.Sys.Sunrise < w.DT && w.DT < w.Sys.Sunset,
	}, nil
}

// owmGeoResult is one geocoding candidate.
type owmGeoResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// OpenWeatherOpts configures an [OpenWeatherService].
type OpenWeatherOpts struct {
	APIKey string

	// BaseURL and GeoURL override the provider hosts, for tests.
	BaseURL string
	GeoURL  string

	// RateLimit caps outbound requests per second during the suggestion
	// fan-out. Defaults to 10.
	RateLimit float64
}

// OpenWeatherService implements [WeatherService] against OpenWeatherMap.
type OpenWeatherService struct {
	client  *resty.Client
	baseURL string
	geoURL  string
	apiKey  string
	limiter *rate.Limiter
}

// NewOpenWeatherService creates a new OpenWeatherMap client.
func NewOpenWeatherService(opts OpenWeatherOpts) (*OpenWeatherService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: weather api key", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = openWeatherBaseURL
	}
	if opts.GeoURL == "" {
		opts.GeoURL = openWeatherGeoURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}

	client := resty.New().SetTimeout(weatherTimeout)

	return &OpenWeatherService{
		client:  client,
		baseURL: opts.BaseURL,
		geoURL:  opts.GeoURL,
		apiKey:  opts.APIKey,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}, nil
}

func (s *OpenWeatherService) Name() string {
	return "OpenWeatherMap"
}

// Current fetches conditions by coordinates.
func (s *OpenWeatherService) Current(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	var payload owmWeather

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":   strconv.FormatFloat(lon, 'f', -1, 64),
			"units": "metric",
			"appid": s.apiKey,
		}).
		SetResult(&payload).
		Get(s.baseURL + "/weather")

	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrWeatherLookup, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrWeatherLookup, resp.StatusCode())
	}

	return payload.toSnapshot()
}

// CurrentByCity fetches conditions by free-text city name. A non-success
// provider status means the name did not resolve.
func (s *OpenWeatherService) CurrentByCity(ctx context.Context, name string) (*models.WeatherSnapshot, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: city name is required", shared.ErrMissingArgument)
	}

	var payload owmWeather

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     name,
			"units": "metric",
			"appid": s.apiKey,
		}).
		SetResult(&payload).
		Get(s.baseURL + "/weather")

	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrWeatherLookup, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %q (status %d)", shared.ErrCityNotFound, name, resp.StatusCode())
	}

	return payload.toSnapshot()
}

// geocode resolves up to geocodeLimit candidates for a free-text query,
// in the geocoder's ranking order.
func (s *OpenWeatherService) geocode(ctx context.Context, query string) ([]owmGeoResult, error) {
	var results []owmGeoResult

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     query,
			"limit": strconv.Itoa(geocodeLimit),
			"appid": s.apiKey,
		}).
		SetResult(&results).
		Get(s.geoURL + "/direct")

	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrGeocodingFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrGeocodingFailed, resp.StatusCode())
	}

	return results, nil
}

// SearchCities resolves a query to candidate locations and fetches each
// candidate's weather concurrently. Any individual lookup failure drops that
// candidate rather than failing the batch, and the geocoder's ranking order
// is preserved in the filtered result.
func (s *OpenWeatherService) SearchCities(ctx context.Context, query string) ([]models.CitySuggestion, error) {
	locations, err := s.geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]*models.CitySuggestion, len(locations))

	var wg sync.WaitGroup
	for i, loc := range locations {
		if err := s.limiter.Wait(ctx); err != nil {
			break
		}

		wg.Add(1)
		go func(i int, loc owmGeoResult) {
			defer wg.Done()

			weather, err := s.Current(ctx, loc.Lat, loc.Lon)
			if err != nil {
				return
			}

			results[i] = &models.CitySuggestion{
				Name:     loc.Name,
				Country:  loc.Country,
				Lat:      loc.Lat,
				Lon:      loc.Lon,
				Temp:     weather.Temperature,
				IconCode: weather.IconCode,
			}
		}(i, loc)
	}
	wg.Wait()

	suggestions := make([]models.CitySuggestion, 0, len(locations))
	for _, r := range results {
		if r != nil {
			suggestions = append(suggestions, *r)
		}
	}
	return suggestions, nil
}
