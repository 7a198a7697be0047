// Package search implements radius-bounded proximity search over geocoded
// postings.
package search

import (
	"context"
	"fmt"

	"roofboard/jobs-service/internal/geo"
	"roofboard/jobs-service/internal/geocode"
	"roofboard/jobs-service/internal/model"
)

// DefaultRadiusMiles is used when a caller does not specify a radius.
const DefaultRadiusMiles = 150.0

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// JobSource is the read surface the search needs: postings that carry a
// full coordinate pair. Postings without coordinates never reach the
// filter, so they are excluded silently rather than erroring.
type JobSource interface {
	ListGeocoded(ctx context.Context) ([]model.JobPosting, error)
}

// Service resolves a query origin and filters postings by distance.
type Service struct {
	jobs     JobSource
	geocoder geocode.Geocoder
}

// New returns a configured Service.
func New(jobs JobSource, geocoder geocode.Geocoder) *Service {
	return &Service{jobs: jobs, geocoder: geocoder}
}

// Nearby returns every geocoded posting within radiusMiles of the origin
// ZIP, inclusive at the boundary. Ordering is unspecified. A malformed or
// unresolvable ZIP and a non-positive radius are ValidationErrors.
func (s *Service) Nearby(ctx context.Context, zipCode string, radiusMiles float64) ([]model.JobPosting, error) {
	if !model.ValidPostalCode(zipCode) {
		return nil, &ValidationError{Msg: fmt.Sprintf("ZIP code must be 5 digits, got %q", zipCode)}
	}
	if radiusMiles <= 0 {
		return nil, &ValidationError{Msg: "radius must be positive"}
	}

	origin, ok := s.geocoder.Resolve(ctx, zipCode)
	if !ok {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown ZIP code %q", zipCode)}
	}

	postings, err := s.jobs.ListGeocoded(ctx)
	if err != nil {
		return nil, fmt.Errorf("load geocoded postings: %w", err)
	}

	nearby := make([]model.JobPosting, 0)
	for _, p := range postings {
		d := geo.DistanceMiles(origin.Latitude, origin.Longitude, *p.Latitude, *p.Longitude)
		if d <= radiusMiles {
			nearby = append(nearby, p)
		}
	}
	return nearby, nil
}
