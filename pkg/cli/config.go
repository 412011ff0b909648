// Package cli provides CLI-specific logic including configuration loading.
package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/remote"
	"github.com/toyinlola/mjop/pkg/scorer"
	"github.com/toyinlola/mjop/pkg/storage"
)

// DefaultConfigFile is looked up in the working directory when no config
// path is given.
const DefaultConfigFile = ".mjop.yml"

// Config represents the .mjop.yml configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Scoring ScoringConfig `yaml:"scoring"`
	Remote  RemoteConfig  `yaml:"remote"`
	Storage StorageConfig `yaml:"storage"`
	Output  OutputConfig  `yaml:"output"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ScoringConfig holds rating thresholds and the scoring clock.
type ScoringConfig struct {
	YellowFrom int    `yaml:"yellow_from"`
	RedFrom    int    `yaml:"red_from"`
	FailOn     string `yaml:"fail_on"`
	// ReferenceDate pins "today" for age-based scoring (YYYY-MM-DD).
	ReferenceDate string `yaml:"reference_date,omitempty"`
}

// Now returns the scoring clock: the reference date if one is configured,
// the wall clock otherwise.
func (s ScoringConfig) Now() (func() time.Time, error) {
	if s.ReferenceDate == "" {
		return time.Now, nil
	}
	d, err := interfaces.ParseDate(s.ReferenceDate)
	if err != nil {
		return nil, fmt.Errorf("cli: scoring.reference_date: %w", err)
	}
	return func() time.Time { return d.Time }, nil
}

// RemoteConfig points at the persistence and media endpoints. Empty URLs fall
// back to MJOP_SAVE_URL and MJOP_MEDIA_URL.
type RemoteConfig struct {
	SaveURL  string `yaml:"save_url"`
	MediaURL string `yaml:"media_url"`
	TokenEnv string `yaml:"token_env"`
}

// Token returns the API token from the configured environment variable.
func (r RemoteConfig) Token() string {
	return os.Getenv(r.TokenEnv)
}

// StorageConfig controls the local snapshot history.
type StorageConfig struct {
	Enabled    *bool  `yaml:"enabled"`
	Path       string `yaml:"path"`
	// MaxEntries bounds the history. Zero uses the default, a negative value
	// keeps every entry.
	MaxEntries int `yaml:"max_entries,omitempty"`
}

// IsEnabled reports whether the snapshot history is kept.
// Returns true by default if not explicitly set.
func (s StorageConfig) IsEnabled() bool {
	if s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// OutputConfig controls report output settings.
type OutputConfig struct {
	Format  string `yaml:"format"`
	Verbose bool   `yaml:"verbose"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoadConfig reads and parses a .mjop.yml configuration file.
// If path is empty, it looks for .mjop.yml in the current directory.
// If the default config file is not found, sensible defaults are returned.
// If an explicitly specified config file is not found, an error is returned.
func LoadConfig(path string) (*Config, error) {
	useDefault := path == ""
	if useDefault {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && useDefault {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("cli: reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cli: parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cli: config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults matching the documented
// .mjop.yml schema.
func DefaultConfig() *Config {
	cfg := &Config{Version: "1"}
	applyDefaults(cfg)
	return cfg
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Scoring.YellowFrom > c.Scoring.RedFrom {
		return fmt.Errorf("scoring.yellow_from (%d) must not exceed scoring.red_from (%d)",
			c.Scoring.YellowFrom, c.Scoring.RedFrom)
	}
	switch c.Scoring.FailOn {
	case "red", "yellow", "never":
	default:
		return fmt.Errorf("scoring.fail_on must be red, yellow or never, got %q", c.Scoring.FailOn)
	}
	if _, err := c.Scoring.Now(); err != nil {
		return err
	}
	return nil
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Scoring.YellowFrom == 0 {
		cfg.Scoring.YellowFrom = scorer.DefaultYellowFrom
	}
	if cfg.Scoring.RedFrom == 0 {
		cfg.Scoring.RedFrom = scorer.DefaultRedFrom
	}
	if cfg.Scoring.FailOn == "" {
		cfg.Scoring.FailOn = "red"
	}
	if cfg.Remote.TokenEnv == "" {
		cfg.Remote.TokenEnv = remote.EnvToken
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = storage.DefaultConfig().Path
	}
	if cfg.Storage.MaxEntries == 0 {
		cfg.Storage.MaxEntries = storage.DefaultConfig().MaxEntries
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "terminal"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
}
