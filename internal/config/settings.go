package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds user-tunable behavior loaded from ~/.muxtab/config.yaml.
// A missing file yields DefaultSettings; a malformed file is an error so
// typos don't silently fall back to defaults.
type Settings struct {
	// PrefixKey arms the two-key chord dispatcher (tmux convention).
	PrefixKey string `yaml:"prefix_key"`

	// DefaultLayout is the layout mode assigned to new tabs.
	DefaultLayout string `yaml:"default_layout"`

	// MinPanePercent and MaxPanePercent bound manual resize (percent of the
	// container along the resize axis).
	MinPanePercent float64 `yaml:"min_pane_percent"`
	MaxPanePercent float64 `yaml:"max_pane_percent"`

	// BindDelay is the debounce window before a pane's terminal surface is
	// created after its first render.
	BindDelay time.Duration `yaml:"bind_delay"`

	LogLevel string `yaml:"log_level"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		PrefixKey:      "ctrl+b",
		DefaultLayout:  "horizontal",
		MinPanePercent: 10,
		MaxPanePercent: 90,
		BindDelay:      time.Second,
		LogLevel:       "INFO",
	}
}

// LoadSettings reads the settings file at path, filling absent fields with
// defaults. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return DefaultSettings(), err
	}

	return settings, nil
}

// Validate rejects settings that would produce degenerate panes.
func (s Settings) Validate() error {
	if s.MinPanePercent < 0 || s.MaxPanePercent > 100 {
		return fmt.Errorf("pane size bounds must lie within [0, 100], got [%g, %g]", s.MinPanePercent, s.MaxPanePercent)
	}
	if s.MinPanePercent >= s.MaxPanePercent {
		return fmt.Errorf("min_pane_percent (%g) must be below max_pane_percent (%g)", s.MinPanePercent, s.MaxPanePercent)
	}
	switch s.DefaultLayout {
	case "horizontal", "vertical", "grid":
	default:
		return fmt.Errorf("unknown default_layout %q", s.DefaultLayout)
	}
	if s.BindDelay < 0 {
		return fmt.Errorf("bind_delay must be non-negative")
	}
	return nil
}
