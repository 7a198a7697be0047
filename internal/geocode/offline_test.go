package geocode_test

import (
	"context"
	"math"
	"testing"

	"roofboard/jobs-service/internal/geocode"
)

func newOffline(t *testing.T) *geocode.Offline {
	t.Helper()
	g, err := geocode.NewOffline()
	if err != nil {
		t.Fatalf("NewOffline: %v", err)
	}
	return g
}

// ── Known ZIPs ─────────────────────────────────────────────────────────────

func TestOffline_KnownZIP(t *testing.T) {
	g := newOffline(t)

	coords, ok := g.Resolve(context.Background(), "90210")
	if !ok {
		t.Fatal("Resolve(90210) = not found, want found")
	}
	if math.Abs(coords.Latitude-34.0901) > 0.01 || math.Abs(coords.Longitude+118.4065) > 0.01 {
		t.Errorf("Resolve(90210) = (%v, %v), want (34.0901, -118.4065)", coords.Latitude, coords.Longitude)
	}
}

func TestOffline_LeadingZeroZIP(t *testing.T) {
	g := newOffline(t)
	if _, ok := g.Resolve(context.Background(), "02108"); !ok {
		t.Error("Resolve(02108) should find the Boston entry")
	}
}

// ── Misses ─────────────────────────────────────────────────────────────────

func TestOffline_UnknownZIP(t *testing.T) {
	g := newOffline(t)
	if _, ok := g.Resolve(context.Background(), "99999"); ok {
		t.Error("Resolve(99999) should be not found")
	}
}

func TestOffline_MalformedLocators(t *testing.T) {
	g := newOffline(t)
	for _, s := range []string{"", "1234", "123456", "abcde", "9021O", "Beverly Hills, CA"} {
		if _, ok := g.Resolve(context.Background(), s); ok {
			t.Errorf("Resolve(%q) should be not found", s)
		}
	}
}

// A ZIP present in the table but without coordinates (dataset gap) must be
// indistinguishable from an unknown ZIP — never a NaN coordinate pair.
func TestOffline_DatasetGap(t *testing.T) {
	g := newOffline(t)
	coords, ok := g.Resolve(context.Background(), "96898")
	if ok {
		t.Errorf("Resolve(96898) = (%v, %v), want not found for gap row", coords.Latitude, coords.Longitude)
	}
}
