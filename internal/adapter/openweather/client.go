// Package openweather fetches live temperature readings from the
// OpenWeatherMap current-weather API.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/temperature-analytics/internal/observability"
)

// APIError is a non-200 response from the provider. Message carries the
// provider's human-readable error verbatim, e.g. "city not found".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openweathermap: status %d: %s", e.StatusCode, e.Message)
}

// Client implements pipeline.WeatherFetcher against OpenWeatherMap.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client with a request timeout and a
// circuit breaker that opens after repeated provider outages.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 3,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		breaker: breaker,
		metrics: metrics,
		logger:  logger,
	}
}

// fetchOutcome distinguishes provider-reported errors (which should not
// trip the breaker) from transport and server failures (which should).
type fetchOutcome struct {
	temperature float64
	apiErr      *APIError
}

// CurrentTemperature fetches the live metric temperature for a city.
// Non-200 provider responses are returned as *APIError.
func (c *Client) CurrentTemperature(ctx context.Context, city string) (float64, error) {
	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	fullURL := c.baseURL + "?" + params.Encode()

	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.doRequest(ctx, fullURL)
	})
	c.metrics.LiveFetchDuration.Observe(time.Since(start).Seconds())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return 0, fmt.Errorf("weather provider unavailable: %w", err)
	}
	if err != nil {
		return 0, err
	}

	outcome := result.(fetchOutcome)
	if outcome.apiErr != nil {
		return 0, outcome.apiErr
	}

	c.logger.Debug("live reading fetched", "city", city, "temperature", outcome.temperature)
	return outcome.temperature, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (fetchOutcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fetchOutcome{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fetchOutcome{}, fmt.Errorf("current weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeMessage(resp.Body),
		}
		// Server-side failures count toward the breaker; client-side
		// responses like "city not found" do not.
		if resp.StatusCode >= http.StatusInternalServerError {
			return fetchOutcome{}, apiErr
		}
		return fetchOutcome{apiErr: apiErr}, nil
	}

	var payload struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fetchOutcome{}, fmt.Errorf("decode response: %w", err)
	}

	return fetchOutcome{temperature: payload.Main.Temp}, nil
}

// decodeMessage extracts the provider's error message from a non-200 body.
func decodeMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Message == "" {
		return "unexpected provider response"
	}
	return payload.Message
}
