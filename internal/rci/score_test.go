package rci

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreZeroSignal(t *testing.T) {
	t.Parallel()

	m := Score(make([]float64, 128), 100, true)
	assert.Zero(t, m.RMS)
	assert.Zero(t, m.VDV)
	assert.Zero(t, m.Crest, "crest factor is defined as 0 when RMS is 0")
}

func TestScoreEmptySignal(t *testing.T) {
	t.Parallel()

	m := Score(nil, 100, true)
	assert.Zero(t, m.RMS)
	assert.False(t, math.IsNaN(m.RMS))
}

func TestScoreKnownRMS(t *testing.T) {
	t.Parallel()

	// Alternating ±2 has RMS exactly 2.
	x := make([]float64, 100)
	for i := range x {
		x[i] = 2
		if i%2 == 1 {
			x[i] = -2
		}
	}
	m := Score(x, 100, true)
	assert.InDelta(t, 2.0, m.RMS, 1e-12)
	assert.InDelta(t, 1.0, m.Crest, 1e-12, "square wave peak equals RMS")
}

func TestScoreSineCrest(t *testing.T) {
	t.Parallel()

	m := Score(sine(5, 100, 400), 100, true)
	assert.InDelta(t, math.Sqrt2/2, m.RMS, 0.01)
	assert.InDelta(t, math.Sqrt2, m.Crest, 0.02, "sine crest factor is sqrt(2)")
}

func TestScoreMonotonicUnderScaling(t *testing.T) {
	t.Parallel()

	x := sine(8, 100, 256)
	base := Score(x, 100, true)

	for _, k := range []float64{1.5, 2, 10} {
		scaled := make([]float64, len(x))
		for i, v := range x {
			scaled[i] = k * v
		}
		m := Score(scaled, 100, true)
		assert.GreaterOrEqual(t, m.RMS, base.RMS, "RMS must not decrease for k=%g", k)
		assert.GreaterOrEqual(t, m.VDV, base.VDV, "VDV must not decrease for k=%g", k)
		assert.InDelta(t, k*base.RMS, m.RMS, 1e-9, "RMS scales linearly")
		assert.InDelta(t, k*base.VDV, m.VDV, 1e-9, "VDV scales linearly")
	}
}

func TestScoreVDVUsesSamplePeriod(t *testing.T) {
	t.Parallel()

	x := sine(5, 100, 400)
	fast := Score(x, 200, true)
	slow := Score(x, 50, true)

	// Same samples spread over more time integrate to a larger dose.
	assert.Greater(t, slow.VDV, fast.VDV)
	assert.Equal(t, fast.RMS, slow.RMS, "RMS is rate-independent")
}

func TestScoreWithoutVDV(t *testing.T) {
	t.Parallel()

	m := Score(sine(5, 100, 200), 100, false)
	assert.Positive(t, m.RMS)
	assert.Zero(t, m.VDV)
	assert.Zero(t, m.Crest)
}
