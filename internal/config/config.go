// Package config loads application configuration from an optional file
// plus environment overrides, with working defaults for everything
// except the weather API key.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// StorageConfig locates the events file.
type StorageConfig struct {
	EventsFile string `mapstructure:"events_file"`
}

// HolidaysConfig selects the public-holiday source.
type HolidaysConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Country string `mapstructure:"country"`
}

// WeatherConfig selects the weather source. Weather is optional: with
// no API key the weather command reports conditions as unavailable.
type WeatherConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	DefaultCity string `mapstructure:"default_city"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from path (optional; empty means defaults
// only) and from DESKCAL_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DESKCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.events_file", "./data/events.json")

	v.SetDefault("holidays.base_url", "https://date.nager.at")
	v.SetDefault("holidays.country", "US")

	v.SetDefault("weather.base_url", "https://api.openweathermap.org")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.default_city", "Raleigh")

	v.SetDefault("logging.level", "info")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Storage.EventsFile == "" {
		return fmt.Errorf("storage.events_file is required")
	}
	if c.Holidays.BaseURL == "" {
		return fmt.Errorf("holidays.base_url is required")
	}
	if len(c.Holidays.Country) != 2 {
		return fmt.Errorf("holidays.country must be a two-letter country code, got %q", c.Holidays.Country)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	return nil
}
