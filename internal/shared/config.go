package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Player      PlayerConfig      `toml:"player"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Weather WeatherConfig `toml:"weather"`
}

// SpotifyConfig contains the Spotify application identity. The PKCE flow
// uses no client secret; only a registered client ID and redirect URI.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
	Market      string `toml:"market"`
}

// WeatherConfig contains OpenWeatherMap API settings.
type WeatherConfig struct {
	APIKey string `toml:"api_key"`
}

// DatabaseConfig contains state database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// PlayerConfig contains presentation settings.
type PlayerConfig struct {
	TrackCount int `toml:"track_count"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded
// example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the configuration back to the specified path.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// applyEnv overlays environment variables onto the config. SPOTIFY_CLIENT_ID
// and WEATHER_API_KEY take precedence over file values so credentials can
// stay out of config.toml entirely.
func (c *Config) applyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		c.Credentials.Weather.APIKey = v
	}
}

// ValidateCredentials checks that both provider credentials are present.
// Called at the start of any command that reaches the network; absence of
// either credential blocks startup.
func (c *Config) ValidateCredentials() error {
	if c.Credentials.Spotify.ClientID == "" {
		return fmt.Errorf("%w: spotify client_id (set credentials.spotify.client_id or SPOTIFY_CLIENT_ID)", ErrMissingCredentials)
	}
	if c.Credentials.Weather.APIKey == "" {
		return fmt.Errorf("%w: weather api_key (set credentials.weather.api_key or WEATHER_API_KEY)", ErrMissingCredentials)
	}
	return nil
}

// RedirectURI returns the configured redirect URI, or the fixed loopback
// default registered with the Spotify application.
func (c *Config) RedirectURI() string {
	if c.Credentials.Spotify.RedirectURI != "" {
		return c.Credentials.Spotify.RedirectURI
	}
	return fmt.Sprintf("http://%s:%d/callback", c.Server.Host, c.Server.Port)
}
