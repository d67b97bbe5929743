// Package config loads server settings from an optional YAML file with
// environment variable overrides. Environment always wins over the file so
// deployments can patch a single setting without editing config.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets YAML express durations in time.ParseDuration form, for
// example "30s" or "1h30m".
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full runtime configuration for both bindings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// RequestTimeout bounds one tool call on the HTTP binding.
	RequestTimeout Duration `yaml:"request_timeout"`

	Weather WeatherConfig `yaml:"weather"`
}

// WeatherConfig controls the weather tool. With no API key the tool serves
// deterministic simulated reports.
type WeatherConfig struct {
	APIKey   string   `yaml:"api_key"`
	BaseURL  string   `yaml:"base_url"`
	CacheTTL Duration `yaml:"cache_ttl"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Addr:           ":8080",
		RequestTimeout: Duration(30 * time.Second),
	}
}

// Load reads path (when non-empty), then applies environment overrides.
// A missing file at an explicitly given path is an error; an empty path
// means file-less operation.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TOOLSERVE_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("TOOLSERVE_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOOLSERVE_REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = Duration(d)
	}
	if v := os.Getenv("TOOLSERVE_WEATHER_API_KEY"); v != "" {
		c.Weather.APIKey = v
	}
	if v := os.Getenv("TOOLSERVE_WEATHER_BASE_URL"); v != "" {
		c.Weather.BaseURL = v
	}
	return nil
}
