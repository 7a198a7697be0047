package theirstack

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"roofboard/jobs-service/internal/classify"
	"roofboard/jobs-service/internal/geocode"
	"roofboard/jobs-service/internal/model"
	"roofboard/jobs-service/internal/sanitize"
)

// Mapper turns a RawJob into a JobPosting: location parsing, description
// sanitizing, title classification and geocoding. Enrichment failures
// (geocode miss, unclassifiable title) degrade to null fields; only missing
// required source fields make Map fail, and the pipeline skips that record.
type Mapper struct {
	geocoder   geocode.Geocoder
	classifier classify.Classifier
	now        func() time.Time
}

// NewMapper wires the enrichment dependencies.
func NewMapper(g geocode.Geocoder, c classify.Classifier) *Mapper {
	return &Mapper{geocoder: g, classifier: c, now: time.Now}
}

// Map builds the internal posting record for one raw TheirStack payload.
func (m *Mapper) Map(ctx context.Context, raw RawJob) (model.JobPosting, error) {
	externalID := raw.ID.String()
	if externalID == "" {
		return model.JobPosting{}, fmt.Errorf("raw job has no id")
	}
	if raw.JobTitle == "" {
		return model.JobPosting{}, fmt.Errorf("raw job %s has no title", externalID)
	}

	location := raw.LongLocation
	if location == "" {
		location = raw.Location
	}
	city, state, zip := parseLocation(location)

	posting := model.JobPosting{
		ExternalID:       &externalID,
		Title:            raw.JobTitle,
		Description:      sanitize.Description(raw.Description),
		Location:         location,
		City:             optional(city),
		State:            optional(state),
		PostalCode:       optional(zip),
		EmploymentType:   optional(raw.EmploymentType),
		RemoteType:       optional(raw.RemoteType),
		SalaryRange:      optional(raw.SalaryString),
		ApplicationEmail: optional(raw.ApplyEmail),
		ApplicationLink:  optional(firstNonEmpty(raw.ApplyURL, raw.SourceURL)),
		CompanyURL:       optional(raw.CompanyURL),
		SourceURL:        optional(raw.SourceURL),
		JobFunction:      m.classifier.Classify(ctx, raw.JobTitle),
		PostedDate:       m.postedDate(raw.DatePosted),
		IsActive:         true,
	}

	m.locate(ctx, &posting, raw, city, state, zip)

	return posting, nil
}

// locate resolves coordinates for the posting: city+state through the
// geocoder first, then a bare ZIP, then whatever coordinates the source
// supplied. A miss everywhere leaves both fields null.
func (m *Mapper) locate(ctx context.Context, p *model.JobPosting, raw RawJob, city, state, zip string) {
	var locators []string
	if city != "" && state != "" {
		locators = append(locators, fmt.Sprintf("%s, %s, USA", city, state))
	}
	if zip != "" {
		locators = append(locators, zip)
	}

	for _, locator := range locators {
		if coords, ok := m.geocoder.Resolve(ctx, locator); ok {
			p.Latitude = &coords.Latitude
			p.Longitude = &coords.Longitude
			return
		}
		log.Printf("[theirstack] Could not geocode %q for job %s", locator, *p.ExternalID)
	}

	// Coordinate pair from the source itself, when complete.
	if raw.Latitude != nil && raw.Longitude != nil {
		p.Latitude = raw.Latitude
		p.Longitude = raw.Longitude
	}
}

// postedDate parses the source timestamp, defaulting to ingestion time.
func (m *Mapper) postedDate(s string) time.Time {
	if s != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		log.Printf("[theirstack] Unparsable date_posted %q — defaulting to now", s)
	}
	return m.now().UTC()
}

// parseLocation splits free-text "City, ST ZIP" or "City, ST" into discrete
// fields. Split on comma; part one is the city, the first whitespace token
// of part two is the state. A state token that is not exactly two characters
// abandons parsing for the record — everything comes back empty.
func parseLocation(location string) (city, state, zip string) {
	parts := strings.SplitN(location, ",", 3)
	if len(parts) < 2 {
		return "", "", ""
	}

	city = strings.TrimSpace(parts[0])
	tokens := strings.Fields(parts[1])
	if city == "" || len(tokens) == 0 || len(tokens[0]) != 2 {
		return "", "", ""
	}
	state = strings.ToUpper(tokens[0])

	for _, tok := range tokens[1:] {
		if model.ValidPostalCode(tok) {
			zip = tok
			break
		}
	}
	return city, state, zip
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
