// Package geography talks to the location service that resolves free-text
// country, state and city names.
package geography

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-profile-backend/internal/domain"
)

const (
	countriesPath = "/api/Country/GetCountriesByNames"
	statesPath    = "/api/State/GetStatesByCountryAndStateNames"
	citiesPath    = "/api/City/GetCitiesByCityAndCountryNames"
)

// Client implements domain.GeographyLookup over the location service's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. A timeout <= 0 leaves requests
// bounded only by the caller's ctx.
func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := &http.Client{}
	if timeout > 0 {
		httpClient.Timeout = timeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) CountriesByNames(ctx context.Context, names []string) ([]domain.Location, error) {
	return c.post(ctx, countriesPath, names)
}

func (c *Client) StatesByStateAndCountry(ctx context.Context, queries []domain.LocationQuery) ([]domain.Location, error) {
	return c.post(ctx, statesPath, queries)
}

func (c *Client) CitiesByCityAndCountry(ctx context.Context, queries []domain.LocationQuery) ([]domain.Location, error) {
	return c.post(ctx, citiesPath, queries)
}

func (c *Client) post(ctx context.Context, path string, body any) ([]domain.Location, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("geography: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("geography: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geography: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geography: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var locations []domain.Location
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		return nil, fmt.Errorf("geography: decode %s: %w", path, err)
	}
	return locations, nil
}
