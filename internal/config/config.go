// Package config loads and persists user settings from a TOML file under the
// XDG config directory. A missing or unreadable file falls back to defaults;
// settings never block startup.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultCatalogURL       = "https://flathub.org/api/v1"
	DefaultRemote           = "flathub"
	DefaultDebounceMillis   = 2000
	DefaultUpdateCheckMins  = 5
	DefaultIconSize         = 64
	DefaultMaxIconFetches   = 4
	DefaultRequestTimeoutMS = 10000
)

// Settings is the on-disk shape of settings.toml.
type Settings struct {
	CatalogURL       string `toml:"catalog_url"`
	Remote           string `toml:"remote"`
	DebounceMillis   int    `toml:"debounce_ms"`
	UpdateCheckMins  int    `toml:"update_check_minutes"`
	IconSize         int    `toml:"icon_size"`
	MaxIconFetches   int    `toml:"max_icon_fetches"`
	RequestTimeoutMS int    `toml:"request_timeout_ms"`
}

// Default returns a fully populated Settings value.
func Default() Settings {
	return Settings{
		CatalogURL:       DefaultCatalogURL,
		Remote:           DefaultRemote,
		DebounceMillis:   DefaultDebounceMillis,
		UpdateCheckMins:  DefaultUpdateCheckMins,
		IconSize:         DefaultIconSize,
		MaxIconFetches:   DefaultMaxIconFetches,
		RequestTimeoutMS: DefaultRequestTimeoutMS,
	}
}

// Path returns the settings file location, honoring XDG_CONFIG_HOME.
func Path() string {
	return PathWithEnv(os.Getenv("XDG_CONFIG_HOME"), os.Getenv("HOME"))
}

// PathWithEnv resolves the settings path from explicit environment values so
// tests can avoid touching the real environment.
func PathWithEnv(xdgConfigHome, home string) string {
	base := xdgConfigHome
	if base == "" {
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "flathaven", "settings.toml")
}

// Load reads settings from path. Any failure returns defaults together with
// the underlying error so the caller can log it; the returned Settings is
// always usable.
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return Default(), err
	}

	settings.normalize()
	return settings, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// normalize clamps zero or negative values back to defaults so a sparse or
// hand-edited file cannot disable timers outright.
func (s *Settings) normalize() {
	if s.CatalogURL == "" {
		s.CatalogURL = DefaultCatalogURL
	}
	if s.Remote == "" {
		s.Remote = DefaultRemote
	}
	if s.DebounceMillis <= 0 {
		s.DebounceMillis = DefaultDebounceMillis
	}
	if s.UpdateCheckMins <= 0 {
		s.UpdateCheckMins = DefaultUpdateCheckMins
	}
	if s.IconSize <= 0 {
		s.IconSize = DefaultIconSize
	}
	if s.MaxIconFetches <= 0 {
		s.MaxIconFetches = DefaultMaxIconFetches
	}
	if s.RequestTimeoutMS <= 0 {
		s.RequestTimeoutMS = DefaultRequestTimeoutMS
	}
}

// DebounceDelay returns the debounce window as a duration.
func (s Settings) DebounceDelay() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// UpdateCheckInterval returns the periodic update-check interval.
func (s Settings) UpdateCheckInterval() time.Duration {
	return time.Duration(s.UpdateCheckMins) * time.Minute
}

// RequestTimeout returns the HTTP and icon-fetch timeout.
func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutMS) * time.Millisecond
}
