// Package geocode resolves street addresses to coordinates with the Mapbox
// Geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/fooddir/internal/config"
	"github.com/JonMunkholm/fooddir/internal/core"
)

// ErrNoResults is returned when Mapbox finds no match for an address.
var ErrNoResults = errors.New("no geocoding results")

// ErrRateLimited is returned on HTTP 429.
var ErrRateLimited = errors.New("geocoding rate limit exceeded")

// Mapbox is a core.Geocoder backed by the mapbox.places endpoint.
type Mapbox struct {
	client    *http.Client
	baseURL   string
	token     string
	proximity string
}

// NewMapbox returns nil when no token is configured, which disables
// geocoding for the caller.
func NewMapbox(cfg config.GeocodingConfig) *Mapbox {
	if cfg.MapboxToken == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Mapbox{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.MapboxToken,
		proximity: cfg.Proximity,
	}
}

type placesResponse struct {
	Features []struct {
		Center    []float64 `json:"center"` // [lng, lat]
		PlaceName string    `json:"place_name"`
	} `json:"features"`
}

// Geocode returns the best US match for address.
func (m *Mapbox) Geocode(ctx context.Context, address string) (core.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return core.Coordinates{}, fmt.Errorf("%w: empty address", ErrNoResults)
	}

	q := url.Values{}
	q.Set("access_token", m.token)
	q.Set("country", "US")
	q.Set("limit", "1")
	if m.proximity != "" {
		q.Set("proximity", m.proximity)
	}
	endpoint := m.baseURL + "/geocoding/v5/mapbox.places/" + url.PathEscape(address) + ".json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return core.Coordinates{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return core.Coordinates{}, fmt.Errorf("geocode request: %w", redact(err, m.token))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return core.Coordinates{}, ErrRateLimited
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return core.Coordinates{}, fmt.Errorf("geocode http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return core.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(out.Features) == 0 || len(out.Features[0].Center) < 2 {
		return core.Coordinates{}, fmt.Errorf("%w for %q", ErrNoResults, address)
	}

	center := out.Features[0].Center
	return core.Coordinates{Lat: center[1], Lng: center[0]}, nil
}

// redact keeps the access token out of logged transport errors, which
// include the request URL.
func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "REDACTED"))
}
