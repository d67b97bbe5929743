package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"time"

	"github.com/modelbridge/toolserve/internal/mcp"
)

// WeatherReport is the weather tool's response payload.
type WeatherReport struct {
	City         string  `json:"city"`
	Country      string  `json:"country"`
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
	Humidity     int     `json:"humidity"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	Source       string  `json:"source"`
}

// WeatherClient fetches weather reports. With an API key configured it
// queries the upstream service; without one it produces a deterministic
// simulated report so the tool stays usable in development.
type WeatherClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Cache      *Cache
	CacheTTL   time.Duration
}

// NewWeatherClient builds a client with sane defaults for unset fields.
func NewWeatherClient(apiKey, baseURL string, cacheTTL time.Duration) *WeatherClient {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	if cacheTTL <= 0 {
		cacheTTL = 12 * time.Hour
	}
	return &WeatherClient{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Cache:      NewCache(),
		CacheTTL:   cacheTTL,
	}
}

// Weather returns the weather lookup tool descriptor.
func Weather(client *WeatherClient) mcp.Descriptor {
	return mcp.Descriptor{
		Name:        "weather",
		Description: "Look up current weather conditions for a city.",
		Schema: mcp.ToolSchema{
			{Name: "city", Kind: mcp.KindString, Required: true, Description: "City name"},
			{Name: "country", Kind: mcp.KindString, Default: "CN", Description: "ISO country code"},
		},
		Handler: client.handle,
	}
}

func (c *WeatherClient) handle(ctx context.Context, args map[string]any) (any, error) {
	city := args["city"].(string)
	country := args["country"].(string)

	key := "weather:" + city + "," + country
	if cached, ok := c.Cache.Get(key); ok {
		return cached, nil
	}

	var report *WeatherReport
	var err error
	if c.APIKey != "" {
		report, err = c.fetch(ctx, city, country)
	} else {
		report = simulateWeather(city, country)
	}
	if err != nil {
		return nil, err
	}

	c.Cache.Set(key, report, c.CacheTTL)
	return report, nil
}

func (c *WeatherClient) fetch(ctx context.Context, city, country string) (*WeatherReport, error) {
	q := url.Values{}
	q.Set("q", city+","+country)
	q.Set("appid", c.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building weather request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, mcp.WrapToolError(err, "weather service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, mcp.NewToolError("weather service returned status %d", resp.StatusCode)
	}

	var payload struct {
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"` // m/s
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, mcp.WrapToolError(err, "malformed weather response")
	}

	condition := "unknown"
	if len(payload.Weather) > 0 {
		condition = payload.Weather[0].Main
	}

	return &WeatherReport{
		City:         city,
		Country:      country,
		TemperatureC: payload.Main.Temp,
		Condition:    condition,
		Humidity:     payload.Main.Humidity,
		WindSpeedKmh: payload.Wind.Speed * 3.6,
		Source:       "openweathermap",
	}, nil
}

var simulatedConditions = []string{"sunny", "cloudy", "light rain", "overcast", "showers"}

// simulateWeather derives a stable report from the city name so repeated
// lookups agree with each other.
func simulateWeather(city, country string) *WeatherReport {
	h := fnv.New32a()
	h.Write([]byte(city + "," + country))
	seed := h.Sum32()

	return &WeatherReport{
		City:         city,
		Country:      country,
		TemperatureC: 15.0 + float64(seed%150)/10.0, // 15.0 .. 29.9
		Condition:    simulatedConditions[seed%uint32(len(simulatedConditions))],
		Humidity:     40 + int(seed%50),
		WindSpeedKmh: 1.0 + float64(seed%90)/10.0,
		Source:       "simulated",
	}
}
