// Package config loads nannylog settings from built-in defaults, an
// optional YAML file and environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/config"

	"github.com/sadopc/nannylog/internal/store"
)

const appDir = "nannylog"

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Food     FoodConfig     `yaml:"food"`
	Report   ReportConfig   `yaml:"report"`
	Weather  WeatherConfig  `yaml:"weather"`
	Export   ExportConfig   `yaml:"export"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig.File is a path, or "-"/"stderr" for standard error.
type LoggingConfig struct {
	File   string `yaml:"file"`
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FoodConfig.Taxonomy points at a JSON taxonomy; empty uses the built-in one.
type FoodConfig struct {
	Taxonomy string `yaml:"taxonomy"`
}

// ReportConfig.MileageRate is dollars per mile.
type ReportConfig struct {
	MileageRate       float64 `yaml:"mileage_rate"`
	PunctualityWindow int     `yaml:"punctuality_window"`
	IntakeWindowDays  int     `yaml:"intake_window_days"`
}

type WeatherConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Latitude  float64       `yaml:"latitude"`
	Longitude float64       `yaml:"longitude"`
	Timeout   time.Duration `yaml:"timeout"`
	BaseURL   string        `yaml:"base_url"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"logging": map[string]interface{}{
			"level":  "info",
			"format": "text",
		},
		"report": map[string]interface{}{
			"mileage_rate":       0.54,
			"punctuality_window": 14,
			"intake_window_days": 7,
		},
		"weather": map[string]interface{}{
			"enabled":   true,
			"latitude":  37.835,
			"longitude": -122.13,
			"timeout":   "5s",
			"base_url":  "https://api.open-meteo.com/v1/forecast",
		},
	}
}

// DefaultPath returns <user config dir>/nannylog/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, "config.yaml"), nil
}

// Load reads configuration. An empty path means NANNYLOG_CONFIG or the
// default location; a missing file is fine unless it was named explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv("NANNYLOG_CONFIG"); env != "" {
			path, explicit = env, true
		} else if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	opts := []config.YAMLOption{config.Static(defaults())}
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			opts = append(opts, config.File(path))
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	opts = append(opts, config.Expand(os.LookupEnv))

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	var cfg Config
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("failed to populate config: %w", err)
	}

	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv applies NANNYLOG_* variables on top of the file.
func (c *Config) overrideFromEnv() error {
	strs := map[string]*string{
		"NANNYLOG_DB":         &c.Database.Path,
		"NANNYLOG_LOG_FILE":   &c.Logging.File,
		"NANNYLOG_LOG_LEVEL":  &c.Logging.Level,
		"NANNYLOG_LOG_FORMAT": &c.Logging.Format,
		"NANNYLOG_TAXONOMY":   &c.Food.Taxonomy,
		"NANNYLOG_EXPORT_DIR": &c.Export.Dir,
	}
	for key, dst := range strs {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}

	floats := map[string]*float64{
		"NANNYLOG_MILEAGE_RATE": &c.Report.MileageRate,
		"NANNYLOG_WEATHER_LAT":  &c.Weather.Latitude,
		"NANNYLOG_WEATHER_LON":  &c.Weather.Longitude,
	}
	for key, dst := range floats {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = f
	}

	if val := os.Getenv("NANNYLOG_WEATHER_ENABLED"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("NANNYLOG_WEATHER_ENABLED: %w", err)
		}
		c.Weather.Enabled = b
	}
	return nil
}

func (c *Config) fillPaths() error {
	if c.Database.Path != "" && c.Logging.File != "" && c.Export.Dir != "" {
		return nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if c.Database.Path == "" {
		if c.Database.Path, err = store.DefaultDBPath(); err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(base, appDir, "nannylog.log")
	}
	if c.Export.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		c.Export.Dir = home
	}
	return nil
}

// Validate rejects settings no report can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Report.MileageRate <= 0 {
		errs = append(errs, fmt.Errorf("report.mileage_rate must be > 0, got %v", c.Report.MileageRate))
	}
	if c.Report.PunctualityWindow <= 0 {
		errs = append(errs, fmt.Errorf("report.punctuality_window must be > 0, got %d", c.Report.PunctualityWindow))
	}
	if c.Report.IntakeWindowDays <= 0 {
		errs = append(errs, fmt.Errorf("report.intake_window_days must be > 0, got %d", c.Report.IntakeWindowDays))
	}
	if c.Weather.Timeout < 0 {
		errs = append(errs, fmt.Errorf("weather.timeout must be >= 0, got %s", c.Weather.Timeout))
	}
	return errors.Join(errs...)
}
