package geo_test

import (
	"math"
	"testing"

	"roofboard/jobs-service/internal/geo"
)

// ── Zero identity ──────────────────────────────────────────────────────────

func TestDistanceMiles_IdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{34.0901, -118.4065},  // Beverly Hills
		{40.7506, -73.9972},   // Manhattan
		{-33.8688, 151.2093},  // Sydney
	}
	for _, p := range points {
		if d := geo.DistanceMiles(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("DistanceMiles(%v, %v, same) = %v, want 0", p[0], p[1], d)
		}
	}
}

// ── Symmetry ───────────────────────────────────────────────────────────────

func TestDistanceMiles_Symmetric(t *testing.T) {
	cases := [][4]float64{
		{34.0901, -118.4065, 40.7506, -73.9972},
		{25.7617, -80.1918, 47.6062, -122.3321},
		{0, 0, 10, 10},
	}
	for _, c := range cases {
		ab := geo.DistanceMiles(c[0], c[1], c[2], c[3])
		ba := geo.DistanceMiles(c[2], c[3], c[0], c[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("DistanceMiles not symmetric: A→B=%v B→A=%v for %v", ab, ba, c)
		}
	}
}

// ── Known distances ────────────────────────────────────────────────────────

func TestDistanceMiles_KnownValues(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // miles
		tolerance              float64
	}{
		{
			name: "Beverly Hills to Manhattan",
			lat1: 34.0901, lon1: -118.4065,
			lat2: 40.7506, lon2: -73.9972,
			want: 2448, tolerance: 15,
		},
		{
			name: "one degree of latitude at the equator",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			want: 69.1, tolerance: 0.5,
		},
		{
			name: "downtown LA to Beverly Hills",
			lat1: 34.0522, lon1: -118.2437,
			lat2: 34.0901, lon2: -118.4065,
			want: 9.6, tolerance: 1,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := geo.DistanceMiles(c.lat1, c.lon1, c.lat2, c.lon2)
			if math.Abs(got-c.want) > c.tolerance {
				t.Errorf("DistanceMiles = %.2f, want %.2f ± %.2f", got, c.want, c.tolerance)
			}
		})
	}
}
