package rci

import "math"

// ProjectVertical projects a raw 3-axis accelerometer reading onto the true
// "up" (gravity-opposed) direction implied by the device orientation angles
// beta and gamma (degrees, device-orientation convention). The result is the
// scalar vertical acceleration a tilted phone would have measured if it were
// lying flat.
//
// This correction runs client-side per sample before batching; the server
// pipeline assumes Batch.ZValues already went through it. It is kept here so
// the fixture generator and the tests exercise the exact same contract.
func ProjectVertical(ax, ay, az, betaDeg, gammaDeg float64) float64 {
	beta := betaDeg * math.Pi / 180
	gamma := gammaDeg * math.Pi / 180

	// Gravity unit vector in the device frame, then flipped to point up.
	gX := -math.Sin(beta)
	gY := math.Cos(beta) * math.Sin(gamma)
	gZ := math.Cos(beta) * math.Cos(gamma)

	upX, upY, upZ := -gX, -gY, -gZ

	norm := math.Sqrt(upX*upX + upY*upY + upZ*upZ)
	if norm < 1e-9 {
		// Degenerate orientation; treat as unit magnitude rather than divide
		// by zero.
		norm = 1
	}

	return (ax*upX + ay*upY + az*upZ) / norm
}
