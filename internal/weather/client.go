// Package weather implements the OpenWeatherMap current-weather client.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/edgard/climabot/internal/config"
)

// ErrNotFound indicates the provider has no usable weather data for the
// requested city. This covers unknown cities, non-success statuses and
// responses missing required fields; it is an expected outcome, not a
// transport failure.
var ErrNotFound = errors.New("weather data not found")

// Reading is a complete current-weather observation. All fields are required;
// a provider response missing any of them is treated as not found.
type Reading struct {
	City         string
	TemperatureC float64
	FeelsLikeC   float64
	HumidityPct  int
	Description  string
	WindSpeedMS  float64
}

// Client fetches current weather readings from OpenWeatherMap.
type Client struct {
	httpClient *http.Client
	log        *slog.Logger
	apiKey     string
	baseURL    string
	lang       string
}

// NewClient creates a weather client from the provided configuration.
// The underlying HTTP client is bounded by the configured timeout so a hung
// provider cannot hold a pipeline goroutine indefinitely.
func NewClient(cfg config.WeatherConfig, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("component", "weather_client"),
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		lang:       cfg.Lang,
	}
}

// Fetch retrieves the current weather for a free-text city name using metric
// units and the configured response language. It returns ErrNotFound when the
// provider does not recognize the city or returns an incomplete payload, and a
// wrapped error on transport failure. No retries, no caching.
func (c *Client) Fetch(ctx context.Context, city string) (*Reading, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	values.Set("lang", c.lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.WarnContext(ctx, "Failed to close weather response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Unknown city names commonly come back as 404; drain and discard.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		c.log.DebugContext(ctx, "Weather provider returned non-success status", "city", city, "status", resp.StatusCode)
		return nil, ErrNotFound
	}

	// Pointer fields detect absent keys: provider schema drift degrades to
	// not found instead of producing a partial reading.
	var payload struct {
		Main *struct {
			Temp      *float64 `json:"temp"`
			FeelsLike *float64 `json:"feels_like"`
			Humidity  *int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description *string `json:"description"`
		} `json:"weather"`
		Wind *struct {
			Speed *float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.WarnContext(ctx, "Failed to decode weather response", "city", city, "error", err)
		return nil, ErrNotFound
	}

	if payload.Main == nil || payload.Main.Temp == nil || payload.Main.FeelsLike == nil || payload.Main.Humidity == nil ||
		len(payload.Weather) == 0 || payload.Weather[0].Description == nil ||
		payload.Wind == nil || payload.Wind.Speed == nil {
		c.log.WarnContext(ctx, "Weather response missing required fields", "city", city)
		return nil, ErrNotFound
	}

	return &Reading{
		City:         city,
		TemperatureC: *payload.Main.Temp,
		FeelsLikeC:   *payload.Main.FeelsLike,
		HumidityPct:  *payload.Main.Humidity,
		Description:  *payload.Weather[0].Description,
		WindSpeedMS:  *payload.Wind.Speed,
	}, nil
}
