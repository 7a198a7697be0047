// Package geo provides great-circle distance math for proximity search.
package geo

import "math"

// earthRadiusMiles is the fixed Earth radius used by the haversine formula.
const earthRadiusMiles = 3959.87433

// DistanceMiles returns the great-circle distance in miles between two
// coordinate pairs, computed with the haversine formula. Pure function:
// symmetric in its arguments and zero for identical points.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}
