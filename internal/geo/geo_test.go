package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineSymmetry(t *testing.T) {
	t.Parallel()

	// London to Paris, both directions
	d1 := HaversineM(51.5074, -0.1278, 48.8566, 2.3522)
	d2 := HaversineM(48.8566, 2.3522, 51.5074, -0.1278)

	assert.InDelta(t, d1, d2, 1e-9)
	assert.InDelta(t, 343500, d1, 2000, "London-Paris should be ~343.5 km")
}

func TestHaversineZeroDistance(t *testing.T) {
	t.Parallel()

	assert.Zero(t, HaversineM(35.6895, 139.6917, 35.6895, 139.6917))
	assert.Zero(t, HaversineM(0, 0, 0, 0))
}

func TestHaversineSmallLatitudeStep(t *testing.T) {
	t.Parallel()

	// 0.01 degrees of latitude at the equator is ~1113 m.
	d := HaversineM(0, 0, 0.01, 0)
	assert.InDelta(t, 1113, d, 2)
}

func TestHaversineAntipodal(t *testing.T) {
	t.Parallel()

	// Half the circumference of the sphere.
	d := HaversineM(0, 0, 0, 180)
	assert.InDelta(t, math.Pi*EarthRadiusM, d, 1)
}

func TestValidCoords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"origin", 0, 0, true},
		{"poles", 90, 0, true},
		{"south pole", -90, 0, true},
		{"date line", 0, 180, true},
		{"lat too high", 90.01, 0, false},
		{"lat too low", -91, 0, false},
		{"lon too high", 0, 180.5, false},
		{"lon too low", 0, -181, false},
		{"nan lat", math.NaN(), 0, false},
		{"inf lon", 0, math.Inf(1), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ValidCoords(tc.lat, tc.lon))
		})
	}
}

func TestFixValidAndDistance(t *testing.T) {
	t.Parallel()

	a := Fix{Lat: 52.52, Lon: 13.405}
	b := Fix{Lat: 52.52, Lon: 13.405}

	assert.True(t, a.Valid())
	assert.False(t, Fix{Lat: 123, Lon: 0}.Valid())
	assert.Zero(t, DistanceM(a, b))
}
