package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/julianstephens/habitctl/internal/constants"
	"github.com/julianstephens/habitctl/internal/dates"
)

// Config is the client configuration, read from an optional YAML file in the
// user config dir and overridden by HABITCTL_* environment variables.
type Config struct {
	BaseURL        string        `yaml:"base_url" env:"HABITCTL_API_URL" env-default:"http://localhost:8000/api"`
	Timezone       string        `yaml:"timezone" env:"HABITCTL_TIMEZONE" env-default:"Local"`
	WeekStart      string        `yaml:"week_start" env:"HABITCTL_WEEK_START" env-default:"sunday"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HABITCTL_REQUEST_TIMEOUT" env-default:"15s"`
	Debug          bool          `yaml:"debug" env:"HABITCTL_DEBUG" env-default:"false"`
	CachePath      string        `yaml:"cache_path" env:"HABITCTL_CACHE_PATH"`

	configDir string
	loc       *time.Location
	weekStart time.Weekday
}

// Load reads the configuration and resolves derived values. A missing config
// file is not an error; env and defaults fill in.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return load(filepath.Join(dir, constants.ConfigFileName), dir)
}

func load(path, dir string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.configDir = dir
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(dir, constants.CacheFileName)
	}

	loc, err := dates.Location(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.loc = loc

	wd, err := dates.Weekday(cfg.WeekStart)
	if err != nil {
		return nil, err
	}
	cfg.weekStart = wd

	return &cfg, nil
}

// Dir returns the application's config directory, creating it if needed.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.AppName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	return dir, nil
}

// ConfigDir is the directory holding the config file, logs, and cache.
func (c *Config) ConfigDir() string { return c.configDir }

// Location is the resolved timezone all calendar-day math uses.
func (c *Config) Location() *time.Location { return c.loc }

// WeekStartDay is the resolved first day of the calendar week.
func (c *Config) WeekStartDay() time.Weekday { return c.weekStart }
