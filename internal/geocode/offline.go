package geocode

import (
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"roofboard/jobs-service/internal/model"
)

// zipdata.csv holds US ZIP centroids as zip,latitude,longitude rows.
// Rows with blank coordinates are dataset gaps (military/PO-box ZIPs) and
// resolve as not found, same as an unknown code.
//
//go:embed zipdata.csv
var zipData string

// Offline resolves five-digit ZIP codes against the embedded reference
// table. No network dependency; free-text addresses are not supported by
// this backend.
type Offline struct {
	table map[string]Coordinates
}

// NewOffline parses the embedded ZIP table once at startup.
func NewOffline() (*Offline, error) {
	r := csv.NewReader(strings.NewReader(zipData))
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse embedded zip table: %w", err)
	}

	table := make(map[string]Coordinates, len(records))
	for _, rec := range records {
		lat := parseCoord(rec[1])
		lng := parseCoord(rec[2])
		table[rec[0]] = Coordinates{Latitude: lat, Longitude: lng}
	}

	return &Offline{table: table}, nil
}

// Resolve looks locator up as a ZIP code. Malformed codes, unknown codes
// and dataset gaps (NaN coordinates) all return (zero, false).
func (o *Offline) Resolve(_ context.Context, locator string) (Coordinates, bool) {
	zip := strings.TrimSpace(locator)
	if !model.ValidPostalCode(zip) {
		return Coordinates{}, false
	}

	c, ok := o.table[zip]
	if !ok {
		log.Printf("[geocode] No entry for ZIP %s", zip)
		return Coordinates{}, false
	}
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		log.Printf("[geocode] ZIP %s has no coordinates in the reference table", zip)
		return Coordinates{}, false
	}
	return c, true
}

// parseCoord turns a CSV field into a float, mapping blanks and garbage to
// NaN so gaps surface as not-found at lookup time.
func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
