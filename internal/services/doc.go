// Package services defines typed clients for the third-party HTTP APIs the
// app orchestrates: Spotify for music, OpenWeatherMap for weather, and
// ip-api for coarse IP geolocation.
//
// # Music
//
// [MusicService] is the slice of the music provider the pipeline consumes.
// [SpotifyService] implements it with bearer-token requests against the Web
// API; the token comes from a [TokenProvider] on every call so a re-login
// mid-session is picked up without rebuilding the client. A 401 surfaces as
// [shared.ErrTokenExpired] so callers can prompt for re-authentication.
//
// # Weather
//
// [WeatherService] resolves current conditions by coordinates or by
// free-text city name. [OpenWeatherService] implements it and additionally
// powers the city suggestion search: the geocoder resolves candidates, and
// their weather is fetched concurrently under a rate limiter. An individual
// candidate failure drops that candidate, never the batch.
//
// # Location
//
// [Locator] approximates the machine's position when the caller names no
// city and no coordinates. [IPLocator] implements it over ip-api.com.
package services
