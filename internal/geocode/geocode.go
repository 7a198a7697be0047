// Package geocode resolves postal codes and free-text addresses to
// coordinates.
//
// Two interchangeable backends implement the same contract: Offline looks a
// ZIP code up in an embedded reference table (no network), Google calls the
// Maps Geocoding API and also accepts free-text addresses ("City, ST, USA").
// Cached wraps either backend with a Redis cache.
//
// A failed resolution is never an error: callers get (zero, false) and
// proceed with a null coordinate pair. Backends log their own misses.
package geocode

import "context"

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a locator (ZIP code or free-text address) to
// coordinates. The second return value is false when the locator could not
// be resolved; that outcome is expected and non-fatal.
type Geocoder interface {
	Resolve(ctx context.Context, locator string) (Coordinates, bool)
}
