// Package config loads service settings from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Baseline BaselineConfig `mapstructure:"baseline"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Export   ExportConfig   `mapstructure:"export"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// InputConfig locates the station files.
type InputConfig struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
}

// BaselineConfig selects the climatology reference period.
type BaselineConfig struct {
	ReferenceStart int `mapstructure:"reference_start"`
	ReferenceEnd   int `mapstructure:"reference_end"`
	FallbackYears  int `mapstructure:"fallback_years"`
}

// PipelineConfig controls batch execution.
type PipelineConfig struct {
	Workers int `mapstructure:"workers"`
}

// ExportConfig controls the CSV hand-off tables.
type ExportConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// HTTPConfig controls the observability endpoints. An empty addr disables the
// listener entirely.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file (optional when path is empty)
// and environment variables prefixed STATION_CLIMATE_.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("STATION_CLIMATE")
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
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.dir", "./data")
	v.SetDefault("input.pattern", "*.csv")

	// The 1961-1990 WMO climatological standard normal.
	v.SetDefault("baseline.reference_start", 1961)
	v.SetDefault("baseline.reference_end", 1990)
	v.SetDefault("baseline.fallback_years", 10)

	v.SetDefault("pipeline.workers", 4)

	v.SetDefault("export.enabled", true)
	v.SetDefault("export.dir", "./out")

	v.SetDefault("http.addr", "")
	v.SetDefault("http.shutdown_timeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input.dir is required")
	}
	if c.Baseline.ReferenceStart > c.Baseline.ReferenceEnd {
		return fmt.Errorf("baseline.reference_start must not be after baseline.reference_end")
	}
	if c.Baseline.FallbackYears < 1 {
		return fmt.Errorf("baseline.fallback_years must be at least 1")
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1")
	}
	if c.Export.Enabled && c.Export.Dir == "" {
		return fmt.Errorf("export.dir is required when export is enabled")
	}
	if c.HTTP.Addr != "" && c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("http.shutdown_timeout must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	return nil
}
