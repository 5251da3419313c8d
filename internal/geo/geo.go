// Package geo provides great-circle distance and coordinate validation for
// submission GPS fixes.
package geo

import "math"

// EarthRadiusM is the mean earth radius in meters used for the spherical
// approximation.
const EarthRadiusM = 6371000.0

// Fix is a single GPS position.
type Fix struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the fix is within coordinate range.
func (f Fix) Valid() bool {
	return ValidCoords(f.Lat, f.Lon)
}

// ValidCoords reports whether lat/lon are finite and within range.
func ValidCoords(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// HaversineM returns the great-circle distance in meters between two
// lat/lon points on a spherical earth.
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	a := sinLat*sinLat + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// DistanceM returns the distance in meters between two fixes.
func DistanceM(a, b Fix) float64 {
	return HaversineM(a.Lat, a.Lon, b.Lat, b.Lon)
}
