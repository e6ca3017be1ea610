// Package config loads the optional YAML configuration file. Flags override
// anything read here; the engine itself consumes no environment variables.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultDatabasePath is used when neither flag nor config file names one.
const DefaultDatabasePath = "film_allocation.sqlite3"

type Config struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Logging struct {
		Dir   string `mapstructure:"dir"`
		Debug bool   `mapstructure:"debug"`
	} `mapstructure:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Database.Path = DefaultDatabasePath
	return cfg
}

// Load reads a YAML config file from path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}

	return cfg, nil
}
