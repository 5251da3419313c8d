package rci

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectVerticalFlatDevice(t *testing.T) {
	t.Parallel()

	// Device lying flat: the vertical component is the z axis.
	got := ProjectVertical(0, 0, 9.81, 0, 0)
	assert.InDelta(t, -9.81, got, 1e-9)

	// Lateral acceleration contributes nothing.
	got = ProjectVertical(3.0, 0, 9.81, 0, 0)
	assert.InDelta(t, -9.81, got, 1e-9)
}

func TestProjectVerticalTiltInvariance(t *testing.T) {
	t.Parallel()

	// The same physical vertical acceleration must project to the same
	// scalar no matter how the phone is held.
	tests := []struct {
		name              string
		ax, ay, az        float64
		betaDeg, gammaDeg float64
	}{
		{"flat", 0, 0, 9.81, 0, 0},
		{"rolled 90", 0, 9.81, 0, 0, 90},
		{"pitched -90", -9.81, 0, 0, 90, 0},
		{"rolled 45", 0, 9.81 * math.Sqrt2 / 2, 9.81 * math.Sqrt2 / 2, 0, 45},
	}

	want := ProjectVertical(0, 0, 9.81, 0, 0)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ProjectVertical(tc.ax, tc.ay, tc.az, tc.betaDeg, tc.gammaDeg)
			assert.InDelta(t, want, got, 1e-9)
		})
	}
}

func TestProjectVerticalFiniteForArbitraryAngles(t *testing.T) {
	t.Parallel()

	for beta := -180.0; beta <= 180; beta += 30 {
		for gamma := -90.0; gamma <= 90; gamma += 30 {
			got := ProjectVertical(1, 2, 3, beta, gamma)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0),
				"beta=%g gamma=%g produced %g", beta, gamma, got)
		}
	}
}
