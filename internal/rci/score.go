package rci

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Metrics holds the severity numbers derived from one filtered window. All
// three are computed from the same window so comparisons across submissions
// stay valid.
type Metrics struct {
	// RMS is the roughness index: sqrt(mean(x²)).
	RMS float64

	// VDV is the vibration dose value (∫|x|⁴ dt)^¼, more sensitive to
	// isolated peaks than RMS.
	VDV float64

	// Crest is peak(|x|) / RMS, zero when RMS is zero.
	Crest float64
}

// Score reduces a filtered signal at sampleRate Hz to its severity metrics.
// An empty or all-zero signal scores zero across the board, never NaN.
// When withVDV is false the VDV and crest fields are left at zero.
func Score(x []float64, sampleRate float64, withVDV bool) Metrics {
	var m Metrics
	if len(x) == 0 {
		return m
	}

	n := float64(len(x))
	m.RMS = math.Sqrt(floats.Dot(x, x) / n)

	if !withVDV {
		return m
	}

	dt := 1.0 / sampleRate
	var quartic float64
	var peak float64
	for _, v := range x {
		av := math.Abs(v)
		if av > peak {
			peak = av
		}
		sq := v * v
		quartic += sq * sq
	}
	m.VDV = math.Pow(quartic*dt, 0.25)

	if m.RMS > 0 {
		m.Crest = peak / m.RMS
	}
	return m
}
