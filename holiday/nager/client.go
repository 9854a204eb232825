// Package nager fetches public holidays from the date.nager.at API.
package nager

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the public Nager.Date API endpoint.
const DefaultBaseURL = "https://date.nager.at"

const requestTimeout = 15 * time.Second

// Client retrieves public holidays for one country. It satisfies
// holiday.Source.
type Client struct {
	baseURL    string
	country    string
	httpClient *http.Client
	logger     *slog.Logger
}

// publicHoliday is the subset of the v3 API response we consume.
type publicHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// NewClient creates a holiday client. country is an ISO 3166-1 alpha-2
// code such as "US". An empty baseURL selects the public API.
func NewClient(baseURL, country string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		country:    country,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Fetch returns the date -> local name mapping of public holidays for
// the given year.
func (c *Client) Fetch(ctx context.Context, year int) (map[string]string, error) {
	url := fmt.Sprintf("%s/api/v3/publicholidays/%d/%s", c.baseURL, year, c.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching public holidays", "year", year, "country", c.country)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays for %d: %w", year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch holidays for %d: unexpected status %s", year, resp.Status)
	}

	var payload []publicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode holiday response for %d: %w", year, err)
	}

	holidays := make(map[string]string, len(payload))
	for _, h := range payload {
		name := h.LocalName
		if name == "" {
			name = h.Name
		}
		holidays[h.Date] = name
	}
	return holidays, nil
}
