package rci

import "math"

// Resample converts a burst of n samples with nominal spacing intervalSec
// onto a uniform grid at targetRate Hz via linear interpolation, so a
// fixed-order digital filter can be applied. The output spans the same
// duration as the input: round(n * intervalSec * targetRate) samples.
//
// Returns KindInsufficientSamples for fewer than two samples, which cannot
// be interpolated meaningfully.
func Resample(values []float64, intervalSec, targetRate float64) ([]float64, error) {
	if len(values) < 2 {
		return nil, insufficient("need at least 2 samples to resample, got %d", len(values))
	}
	if intervalSec <= 0 {
		return nil, malformed("capture interval must be positive, got %g", intervalSec)
	}
	if targetRate <= 0 {
		return nil, malformed("target rate must be positive, got %g", targetRate)
	}

	n := len(values)
	duration := float64(n) * intervalSec

	m := int(math.Round(duration * targetRate))
	if m < 2 {
		return nil, insufficient("burst of %.3fs too short for %g Hz grid", duration, targetRate)
	}

	out := make([]float64, m)
	step := 1.0 / targetRate
	for j := 0; j < m; j++ {
		// Position of the output instant on the input index axis.
		u := float64(j) * step / intervalSec
		i := int(math.Floor(u))
		if i >= n-1 {
			// Beyond the last input instant; hold the final value.
			out[j] = values[n-1]
			continue
		}
		frac := u - float64(i)
		out[j] = values[i] + frac*(values[i+1]-values[i])
	}
	return out, nil
}
