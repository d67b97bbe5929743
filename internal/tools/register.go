package tools

import (
	"fmt"
	"time"

	"github.com/modelbridge/toolserve/internal/mcp"
)

// Config carries the runtime settings tool handlers depend on.
type Config struct {
	WeatherAPIKey   string
	WeatherBaseURL  string
	WeatherCacheTTL time.Duration
}

// RegisterAll registers the built-in tool set in its canonical order. The
// order is what the discovery endpoint reports, so it is part of the
// server's public surface.
func RegisterAll(reg *mcp.Registry, cfg Config) error {
	weather := NewWeatherClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherCacheTTL)

	descriptors := []mcp.Descriptor{
		Calculator(),
		Weather(weather),
		ImageProcessing(),
		WebSearch(),
		Time(),
		Text2Image(),
	}

	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return fmt.Errorf("registering tools: %w", err)
		}
	}
	return nil
}
