// README: Pure geographic helpers (great-circle distance).
package location

import "math"

const (
	earthRadiusKm = 6371.0
	radPerDeg     = math.Pi / 180
)

// Distance is the great-circle distance in kilometres between a and b,
// using the haversine half-chord form.
func Distance(a, b Location) float64 {
	lat1, lat2 := a.Latitude*radPerDeg, b.Latitude*radPerDeg
	sinDLat := math.Sin((lat2 - lat1) / 2)
	sinDLng := math.Sin((b.Longitude - a.Longitude) * radPerDeg / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	// Rounding can push h a hair past 1 for antipodal points.
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(math.Min(h, 1)))
}

// HaversineKm is Distance over raw decimal-degree coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return Distance(Location{Latitude: lat1, Longitude: lng1}, Location{Latitude: lat2, Longitude: lng2})
}
