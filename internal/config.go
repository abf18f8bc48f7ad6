package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/sonar/internal/cache"
	"github.com/starford/sonar/internal/history"
	"github.com/starford/sonar/internal/soundcloud"
	"github.com/starford/sonar/internal/storage"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// DefaultAddonID is the id the plugin is addressed by.
const DefaultAddonID = "plugin.audio.soundcloud"

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Auth   AuthConfig        `yaml:"auth"`
	Addon  AddonConfig       `yaml:"addon"`
	Cache  CacheConfig       `yaml:"cache"`
	API    APIConfig         `yaml:"api"`
	Search SearchConfig      `yaml:"search"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Addon.Validate(); err != nil {
		return fmt.Errorf("addon: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return c.Search.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives the JSON log; empty means stderr.
	LogFile string     `yaml:"log_file"`
	HTTP    HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AuthConfig holds authentication configuration for the HTTP host.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// AddonConfig identifies the plugin and where it keeps its data.
type AddonConfig struct {
	ID string `yaml:"id"`
	// ProfilePath holds the search history and the cache namespace.
	ProfilePath string `yaml:"profile_path"`
	// Language is an ISO 639-1 code.
	Language string `yaml:"language"`
}

// BaseURL is the address item URLs start with.
func (c *AddonConfig) BaseURL() string {
	return "plugin://" + c.ID
}

// Validate validates the addon configuration.
func (c *AddonConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.ProfilePath, validation.Required),
		validation.Field(&c.Language, validation.Required, validation.Length(2, 2), is.LowerCase),
	)
}

// CacheConfig controls the API response cache.
type CacheConfig struct {
	Backend string `yaml:"backend"`
	// MaxAge in minutes; 0 disables cache reads.
	MaxAge int `yaml:"max_age"`
}

// MaxAgeDuration returns MaxAge as a duration.
func (c *CacheConfig) MaxAgeDuration() time.Duration {
	return time.Duration(c.MaxAge) * time.Minute
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required,
			validation.In(storage.BackendFS, storage.BackendBolt, storage.BackendSQLite)),
		validation.Field(&c.MaxAge, validation.Min(0)),
	)
}

// APIConfig configures the api-v2 gateway.
type APIConfig struct {
	BaseURL     string `yaml:"base_url"`
	ClientID    string `yaml:"client_id"`
	AudioFormat string `yaml:"audio_format"`
	Locale      string `yaml:"locale"`
	// Timeout in seconds.
	Timeout  int `yaml:"timeout"`
	PageSize int `yaml:"page_size"`
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	formats := make([]interface{}, 0, len(soundcloud.AudioFormats))
	for k := range soundcloud.AudioFormats {
		formats = append(formats, k)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.AudioFormat, validation.Required, validation.In(formats...)),
		validation.Field(&c.Locale, validation.Required,
			validation.In(soundcloud.LocaleAuto, soundcloud.LocaleDisabled)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(1)),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1), validation.Max(200)),
	)
}

// SearchConfig controls the search history.
type SearchConfig struct {
	HistorySize int `yaml:"history_size"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HistorySize, validation.Required, validation.Min(1)),
	)
}

// gatewaySettings maps the API and cache sections to client settings.
func (c *Config) gatewaySettings() soundcloud.Settings {
	return soundcloud.Settings{
		BaseURL:     c.API.BaseURL,
		ClientID:    c.API.ClientID,
		AudioFormat: c.API.AudioFormat,
		Locale:      c.API.Locale,
		Language:    c.Addon.Language,
		PageSize:    c.API.PageSize,
		MaxAge:      c.Cache.MaxAgeDuration(),
		Timeout:     time.Duration(c.API.Timeout) * time.Second,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Addon: AddonConfig{
			ID:          DefaultAddonID,
			ProfilePath: "./profile",
			Language:    "en",
		},
		Cache: CacheConfig{
			Backend: storage.BackendFS,
			MaxAge:  int(cache.DefaultMaxAge / time.Minute),
		},
		API: APIConfig{
			BaseURL:     soundcloud.DefaultBaseURL,
			AudioFormat: soundcloud.DefaultAudioFormat,
			Locale:      soundcloud.LocaleAuto,
			Timeout:     30,
			PageSize:    20,
		},
		Search: SearchConfig{
			HistorySize: history.DefaultSize,
		},
	}
}
