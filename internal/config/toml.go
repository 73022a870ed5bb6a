// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Profile  ProfileConfig  `toml:"profile"`
	Matching MatchingConfig `toml:"matching"`
	Store    StoreConfig    `toml:"store"`
	Log      LogConfig      `toml:"log"`
	Weather  WeatherConfig  `toml:"weather"`
}

// ProfileConfig maps the runner's default plan and benchmark race.
type ProfileConfig struct {
	Plan         *string `toml:"plan"`
	BaseTime     *string `toml:"base-time"`
	BaseDistance *string `toml:"base-distance"`
	PlansDir     *string `toml:"plans-dir"`
}

// MatchingConfig maps completion matching settings.
type MatchingConfig struct {
	DistanceTolerance *float64 `toml:"distance-tolerance"`
}

// StoreConfig selects the database backend.
type StoreConfig struct {
	Driver *string `toml:"driver"`
	DSN    *string `toml:"dsn"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Mode  *string `toml:"mode"`
	Level *string `toml:"level"`
}

// WeatherConfig holds default race-day conditions.
type WeatherConfig struct {
	Temperature *float64 `toml:"temperature"`
	Humidity    *float64 `toml:"humidity"`
	Wind        *float64 `toml:"wind"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
