package internal

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
)

// setting is one user-editable key of the configuration.
type setting struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringSetting(field func(c *Config) *string) setting {
	return setting{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = v
			return nil
		},
	}
}

func intSetting(field func(c *Config) *int) setting {
	return setting{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("not a number: %q", v)
			}
			*field(c) = n
			return nil
		},
	}
}

var settings = map[string]setting{
	"app.log_level": {
		get: func(c *Config) string { return c.App.LogLevel.String() },
		set: func(c *Config, v string) error {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(v)); err != nil {
				return err
			}
			c.App.LogLevel = lvl
			return nil
		},
	},
	"app.log_file":        stringSetting(func(c *Config) *string { return &c.App.LogFile }),
	"app.http.port":       intSetting(func(c *Config) *int { return &c.App.HTTP.Port }),
	"auth.mode":           stringSetting(func(c *Config) *string { return &c.Auth.Mode }),
	"auth.token":          stringSetting(func(c *Config) *string { return &c.Auth.Token }),
	"addon.id":            stringSetting(func(c *Config) *string { return &c.Addon.ID }),
	"addon.profile_path":  stringSetting(func(c *Config) *string { return &c.Addon.ProfilePath }),
	"addon.language":      stringSetting(func(c *Config) *string { return &c.Addon.Language }),
	"cache.backend":       stringSetting(func(c *Config) *string { return &c.Cache.Backend }),
	"cache.max_age":       intSetting(func(c *Config) *int { return &c.Cache.MaxAge }),
	"api.base_url":        stringSetting(func(c *Config) *string { return &c.API.BaseURL }),
	"api.client_id":       stringSetting(func(c *Config) *string { return &c.API.ClientID }),
	"api.audio_format":    stringSetting(func(c *Config) *string { return &c.API.AudioFormat }),
	"api.locale":          stringSetting(func(c *Config) *string { return &c.API.Locale }),
	"api.timeout":         intSetting(func(c *Config) *int { return &c.API.Timeout }),
	"api.page_size":       intSetting(func(c *Config) *int { return &c.API.PageSize }),
	"search.history_size": intSetting(func(c *Config) *int { return &c.Search.HistorySize }),
}

// SettingKeys lists the editable keys in order.
func SettingKeys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Setting returns the value of key.
func (c *Config) Setting(key string) (string, error) {
	s, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return s.get(c), nil
}

// SetSetting assigns value to key and revalidates. On failure c is left
// unchanged.
func (c *Config) SetSetting(key, value string) error {
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	next := *c
	if err := s.set(&next, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	*c = next
	return nil
}
