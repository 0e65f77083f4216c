package utils

import "math"

const earthRadiusMeters = 6371000

// CalculateHaversineDistance returns the great-circle distance in meters.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// WithinRadius reports whether (lat, lon) lies within radius meters of the center.
func WithinRadius(centerLat, centerLon, lat, lon, radius float64) (bool, float64) {
	d := CalculateHaversineDistance(centerLat, centerLon, lat, lon)
	return d <= radius, d
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
