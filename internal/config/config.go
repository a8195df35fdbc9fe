// Package config loads server settings from FV_* environment variables and
// an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings for `fv serve`.
type Config struct {
	Port         int           `mapstructure:"FV_PORT"`
	DevMode      bool          `mapstructure:"FV_DEV_MODE"`
	Seed         bool          `mapstructure:"FV_SEED"`
	Timezone     string        `mapstructure:"FV_TIMEZONE"`
	TickInterval time.Duration `mapstructure:"FV_TICK_INTERVAL"`
}

// keys lists every setting so Unmarshal sees env-only values.
var keys = []string{"FV_PORT", "FV_DEV_MODE", "FV_SEED", "FV_TIMEZONE", "FV_TICK_INTERVAL"}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("FV_PORT", 8080)
	v.SetDefault("FV_DEV_MODE", false)
	v.SetDefault("FV_SEED", true)
	v.SetDefault("FV_TIMEZONE", "")
	v.SetDefault("FV_TICK_INTERVAL", time.Second)

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("binding %s: %w", k, err)
		}
	}

	// Try reading the .env file, but don't fail if missing.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("FV_PORT must be 1-65535, got %d", c.Port)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("FV_TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves FV_TIMEZONE. Empty means the host's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("FV_TIMEZONE: %w", err)
	}
	return loc, nil
}

// Addr is the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
