// Package weather fetches current conditions for a city and formats
// them as a single display line. It is a thin collaborator: the
// calendar core never depends on it.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the OpenWeatherMap API endpoint.
const DefaultBaseURL = "https://api.openweathermap.org"

// Unavailable is the display line shown when conditions cannot be
// fetched or the response carries no weather data.
const Unavailable = "Weather data currently unavailable."

const (
	requestTimeout = 15 * time.Second
	degreeSymbol   = "°"
)

// Client queries the OpenWeatherMap current-weather endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// currentConditions is the subset of the API response we consume.
type currentConditions struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Name string `json:"name"`
}

// NewClient creates a weather client. An empty baseURL selects the
// public API.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Current returns a one-line description of the current weather in
// city, e.g. "Raleigh: clear sky, 72°F". Any failure degrades to the
// Unavailable placeholder; the error is returned alongside it for
// callers that want to log it.
func (c *Client) Current(ctx context.Context, city string) (string, error) {
	endpoint := fmt.Sprintf("%s/data/2.5/weather?q=%s&appid=%s&units=imperial",
		c.baseURL, url.QueryEscape(city), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Unavailable, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Unavailable, fmt.Errorf("fetch weather for %q: %w", city, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unavailable, fmt.Errorf("fetch weather for %q: unexpected status %s", city, resp.Status)
	}

	var cond currentConditions
	if err := json.NewDecoder(resp.Body).Decode(&cond); err != nil {
		return Unavailable, fmt.Errorf("decode weather response: %w", err)
	}
	if len(cond.Weather) == 0 {
		return Unavailable, nil
	}

	name := cond.Name
	if name == "" {
		name = city
	}
	return fmt.Sprintf("%s: %s, %d%sF",
		name, cond.Weather[0].Description, int(math.Round(cond.Main.Temp)), degreeSymbol), nil
}
