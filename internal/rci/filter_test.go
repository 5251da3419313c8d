package rci

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return out
}

func rms(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func TestNewBandpassRejectsBadEdges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		low, high, rate float64
	}{
		{"zero low", 0, 50, 200},
		{"negative low", -1, 50, 200},
		{"inverted", 50, 0.5, 200},
		{"high at nyquist", 0.5, 100, 200},
		{"default band at 100 Hz", 0.5, 50, 100},
		{"zero rate", 0.5, 50, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewBandpass(tc.low, tc.high, tc.rate)
			assert.Error(t, err)
		})
	}
}

func TestBandpassRejectsDC(t *testing.T) {
	t.Parallel()

	f, err := NewBandpass(0.5, 50, 200)
	require.NoError(t, err)

	in := make([]float64, 200)
	for i := range in {
		in[i] = 9.81 // constant gravity leakage
	}

	out, err := f.Apply(in, nil)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	assert.Less(t, rms(out), 1e-6, "DC must be rejected entirely")
}

func TestBandpassPassesCentreFrequency(t *testing.T) {
	t.Parallel()

	// Geometric centre of 0.5-50 Hz is 5 Hz.
	f, err := NewBandpass(0.5, 50, 200)
	require.NoError(t, err)

	in := sine(5, 200, 800)
	out, err := f.Apply(in, nil)
	require.NoError(t, err)

	ratio := rms(out) / rms(in)
	assert.Greater(t, ratio, 0.707, "centre frequency must pass with < 3 dB attenuation")
	assert.Less(t, ratio, 1.1)
}

func TestBandpassRejectsStopband(t *testing.T) {
	t.Parallel()

	f, err := NewBandpass(0.5, 10, 100)
	require.NoError(t, err)

	in := sine(30, 100, 800)
	out, err := f.Apply(in, nil)
	require.NoError(t, err)

	ratio := rms(out) / rms(in)
	assert.Less(t, ratio, 0.01, "30 Hz must be heavily attenuated by a 0.5-10 Hz band")

	// The slow pole at the low cutoff must decay inside the reflection
	// extension, not leak a transient into the tail of the output.
	tail := out[len(out)-50:]
	assert.Less(t, rms(tail), 0.01, "backward-pass transient must not reach the output")
}

func TestBandpassZeroPhase(t *testing.T) {
	t.Parallel()

	// A symmetric pulse must stay symmetric: forward-backward filtering has
	// zero group delay.
	f, err := NewBandpass(0.5, 20, 100)
	require.NoError(t, err)

	n := 201
	in := make([]float64, n)
	centre := n / 2
	for i := range in {
		d := float64(i - centre)
		in[i] = math.Exp(-d * d / 50)
	}

	out, err := f.Apply(in, nil)
	require.NoError(t, err)

	// Peak magnitude should remain at the centre sample.
	peakIdx := 0
	for i, v := range out {
		if math.Abs(v) > math.Abs(out[peakIdx]) {
			peakIdx = i
		}
	}
	assert.InDelta(t, centre, peakIdx, 1, "filtered peak moved from %d to %d", centre, peakIdx)
}

func TestBandpassShortBurstPassthrough(t *testing.T) {
	t.Parallel()

	f, err := NewBandpass(0.5, 50, 200)
	require.NoError(t, err)

	in := []float64{1, -1, 1, -1, 1}
	require.LessOrEqual(t, len(in), f.PadLen())

	var traced bool
	out, err := f.Apply(in, func(string, ...interface{}) { traced = true })
	require.NoError(t, err)

	assert.Equal(t, in, out, "bursts shorter than the pad length pass through")
	assert.True(t, traced, "passthrough must be traced")
}

func TestBandpassDetectsNonFinite(t *testing.T) {
	t.Parallel()

	f, err := NewBandpass(0.5, 50, 200)
	require.NoError(t, err)

	in := make([]float64, 100)
	in[40] = math.NaN()

	_, err = f.Apply(in, nil)
	require.Error(t, err)
	assert.Equal(t, KindProcessingFailure, KindOf(err))
}

func TestBandpassStableForShortBursts(t *testing.T) {
	t.Parallel()

	f, err := NewBandpass(0.5, 50, 200)
	require.NoError(t, err)

	// Just above the pad length: the shortest burst that is actually
	// filtered must stay finite.
	in := sine(7, 200, f.PadLen()+1)
	out, err := f.Apply(in, nil)
	require.NoError(t, err)
	for i, v := range out {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "sample %d", i)
	}
}

func TestBandpassDeterministic(t *testing.T) {
	t.Parallel()

	f, err := NewBandpass(0.5, 50, 200)
	require.NoError(t, err)

	in := sine(12, 200, 300)
	out1, err := f.Apply(in, nil)
	require.NoError(t, err)
	out2, err := f.Apply(in, nil)
	require.NoError(t, err)

	assert.Equal(t, out1, out2, "repeated runs must be bit-identical")
}
