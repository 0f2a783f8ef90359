package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thurmanmarka/twilight"
)

type Config struct {
	Location LocationConfig `mapstructure:"location"`
	Calc     CalcConfig     `mapstructure:"calc"`
	API      APIConfig      `mapstructure:"api"`
	Log      LogConfig      `mapstructure:"log"`
}

type LocationConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Timezone  string  `mapstructure:"timezone"`
}

type CalcConfig struct {
	Precision string `mapstructure:"precision"`
}

type APIConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from configPath, or from config.yaml in the
// working directory or /etc/twilight when configPath is empty. A missing
// default file is not an error. TWILIGHT_* environment variables override
// file values (e.g. TWILIGHT_LOCATION_LATITUDE).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/twilight")
	}

	v.SetEnvPrefix("twilight")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("location.latitude", 0)
	v.SetDefault("location.longitude", 0)
	v.SetDefault("location.timezone", "UTC")
	v.SetDefault("calc.precision", "double")
	v.SetDefault("api.port", 8047)
	v.SetDefault("api.shutdown_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail later at use.
func (c *Config) Validate() error {
	if _, err := twilight.ParsePrecision(c.Calc.Precision); err != nil {
		return fmt.Errorf("calc.precision: %w", err)
	}
	if _, err := time.LoadLocation(c.Location.Timezone); err != nil {
		return fmt.Errorf("location.timezone: %w", err)
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port: %d out of range", c.API.Port)
	}
	return nil
}

// Precision returns the parsed calc.precision.
func (c *Config) Precision() twilight.Precision {
	p, _ := twilight.ParsePrecision(c.Calc.Precision)
	return p
}

// TimeLocation returns the parsed location.timezone, falling back to UTC.
func (c *Config) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Coordinates returns the configured default observer location.
func (c *Config) Coordinates() twilight.Coordinates {
	return twilight.Coordinates{Lat: c.Location.Latitude, Lon: c.Location.Longitude}
}
