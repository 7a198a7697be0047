package geocode

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	googleBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"
	httpTimeout   = 10 * time.Second
)

// Google resolves ZIP codes and free-text addresses ("City, ST, USA")
// through the Maps Geocoding API. Service errors and non-OK statuses are
// logged and returned as not-found — never surfaced to the caller.
type Google struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

// NewGoogle constructs a client with a shared HTTP client.
func NewGoogle(apiKey string) *Google {
	return &Google{
		APIKey:  apiKey,
		BaseURL: googleBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// googleResponse mirrors the Geocoding API JSON response.
type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve geocodes locator. Returns (zero, false) on any transport error,
// non-OK API status or empty result set.
func (g *Google) Resolve(ctx context.Context, locator string) (Coordinates, bool) {
	if g.APIKey == "" {
		log.Println("[geocode] GOOGLE_MAPS_API_KEY not set — skipping online lookup")
		return Coordinates{}, false
	}

	params := url.Values{}
	params.Set("address", locator)
	params.Set("key", g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("[geocode] Build request for %q: %v", locator, err)
		return Coordinates{}, false
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("[geocode] Lookup %q failed: %v", locator, err)
		return Coordinates{}, false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[geocode] Read response for %q: %v", locator, err)
		return Coordinates{}, false
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[geocode] Geocoding API returned %d for %q", resp.StatusCode, locator)
		return Coordinates{}, false
	}

	var apiResp googleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		log.Printf("[geocode] Decode response for %q: %v", locator, err)
		return Coordinates{}, false
	}

	if apiResp.Status != "OK" || len(apiResp.Results) == 0 {
		log.Printf("[geocode] No result for %q (status %s)", locator, apiResp.Status)
		return Coordinates{}, false
	}

	loc := apiResp.Results[0].Geometry.Location
	return Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, true
}
