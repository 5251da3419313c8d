package rci

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/road.report/internal/monitoring"
)

// Bandpass is a 4th-order Butterworth band-pass filter applied forward and
// backward (zero phase), so roughness events stay aligned with the GPS fix
// they are attached to. Coefficients are designed once per (low, high, rate)
// and the filter is safe for concurrent use.
type Bandpass struct {
	b, a []float64 // transfer function, a[0] == 1
	zi   []float64 // unit step-response initial conditions
	rate float64
	low  float64
	high float64
}

// NewBandpass designs the filter. lowHz and highHz are the -3 dB band edges;
// highHz must sit below the Nyquist frequency rate/2.
func NewBandpass(lowHz, highHz, rate float64) (*Bandpass, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", rate)
	}
	if lowHz <= 0 || highHz <= lowHz || highHz >= rate/2 {
		return nil, fmt.Errorf("band edges (%g, %g) Hz invalid for %g Hz sampling", lowHz, highHz, rate)
	}

	b, a := designButterBandpass(lowHz, highHz, rate)
	zi, err := stepResponseState(b, a)
	if err != nil {
		return nil, fmt.Errorf("filter initial conditions: %w", err)
	}

	return &Bandpass{b: b, a: a, zi: zi, rate: rate, low: lowHz, high: highHz}, nil
}

// PadLen is the minimum burst length the filter will process. Inputs no
// longer than this are passed through unfiltered.
func (f *Bandpass) PadLen() int {
	return 3 * (len(f.b) - 1)
}

// edgeLen is the odd-reflection extension length used by filtfilt. The
// slowest transient belongs to the poles at the low cutoff, whose decay is
// measured in rate/low samples, so the extension scales with the band rather
// than the filter order; it is capped by the signal itself.
func (f *Bandpass) edgeLen(n int) int {
	edge := int(3 * f.rate / f.low)
	if m := f.PadLen(); edge < m {
		edge = m
	}
	if edge > n-1 {
		edge = n - 1
	}
	return edge
}

// Apply runs the zero-phase filter over x and returns a new slice of the
// same length. Bursts too short to pad are returned unchanged with a trace
// warning rather than an error, since submissions can legitimately be brief.
func (f *Bandpass) Apply(x []float64, trace monitoring.TraceFunc) ([]float64, error) {
	if trace == nil {
		trace = monitoring.Discard
	}

	minLen := f.PadLen()
	if len(x) <= minLen {
		trace("bandpass: %d samples <= pad length %d, passing through unfiltered", len(x), minLen)
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}

	y := f.filtfilt(x)
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, processing(nil, "filter produced non-finite value at sample %d", i)
		}
	}
	return y, nil
}

// filtfilt applies the filter forward, reverses, applies again, and reverses
// back, with odd-reflection padding of edgeLen samples at both ends so the
// backward-pass transient decays inside the discarded extension. Initial
// conditions are scaled to the first padded sample so a constant input
// yields its (zero) steady-state response from the very first sample.
func (f *Bandpass) filtfilt(x []float64) []float64 {
	edge := f.edgeLen(len(x))
	n := len(x)

	ext := make([]float64, 0, n+2*edge)
	for i := edge; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := n - 2; i >= n-1-edge; i-- {
		ext = append(ext, 2*x[n-1]-x[i])
	}

	y := f.lfilter(ext, ext[0])
	reverse(y)
	y = f.lfilter(y, y[0])
	reverse(y)

	out := make([]float64, n)
	copy(out, y[edge:edge+n])
	return out
}

// lfilter runs a direct-form-II-transposed pass with the step-response state
// scaled by x0.
func (f *Bandpass) lfilter(x []float64, x0 float64) []float64 {
	b, a := f.b, f.a
	z := make([]float64, len(f.zi))
	for i, v := range f.zi {
		z[i] = v * x0
	}

	y := make([]float64, len(x))
	last := len(z) - 1
	for i, xi := range x {
		yi := b[0]*xi + z[0]
		for k := 0; k < last; k++ {
			z[k] = b[k+1]*xi + z[k+1] - a[k+1]*yi
		}
		z[last] = b[last+1]*xi - a[last+1]*yi
		y[i] = yi
	}
	return y
}

// designButterBandpass builds the order-4 digital transfer function from an
// order-2 analog Butterworth low-pass prototype: band-pass transform around
// the geometric centre frequency, then bilinear transform with prewarped
// edges, then gain normalisation at the centre.
func designButterBandpass(lowHz, highHz, fs float64) (b, a []float64) {
	// Prewarp the band edges onto the analog axis.
	wl := 2 * fs * math.Tan(math.Pi*lowHz/fs)
	wh := 2 * fs * math.Tan(math.Pi*highHz/fs)
	w0 := math.Sqrt(wl * wh)
	bw := wh - wl

	// Order-2 Butterworth prototype poles on the unit circle.
	proto := []complex128{
		cmplx.Exp(complex(0, 3*math.Pi/4)),
		cmplx.Exp(complex(0, 5*math.Pi/4)),
	}

	// Low-pass to band-pass: each prototype pole p becomes the two roots of
	// s² - p·bw·s + w0².
	analogPoles := make([]complex128, 0, 4)
	for _, p := range proto {
		pb := p * complex(bw, 0)
		disc := cmplx.Sqrt(pb*pb - complex(4*w0*w0, 0))
		analogPoles = append(analogPoles, (pb+disc)/2, (pb-disc)/2)
	}

	// Bilinear transform. The two zeros at s=0 map to z=1 and the two at
	// infinity map to z=-1.
	fs2 := complex(2*fs, 0)
	digitalPoles := make([]complex128, len(analogPoles))
	for i, s := range analogPoles {
		digitalPoles[i] = (fs2 + s) / (fs2 - s)
	}
	digitalZeros := []complex128{1, 1, -1, -1}

	bc := polyFromRoots(digitalZeros)
	ac := polyFromRoots(digitalPoles)

	b = make([]float64, len(bc))
	a = make([]float64, len(ac))
	for i := range bc {
		b[i] = real(bc[i])
	}
	for i := range ac {
		a[i] = real(ac[i])
	}

	// Unity gain at the (bilinear-mapped) centre frequency.
	wc := 2 * math.Atan(w0/(2*fs))
	gain := cmplx.Abs(evalPoly(bc, wc) / evalPoly(ac, wc))
	for i := range b {
		b[i] /= gain
	}
	return b, a
}

// stepResponseState solves for the internal filter state that makes a
// constant input produce its steady-state output immediately, eliminating
// the startup transient of each filtfilt pass.
func stepResponseState(b, a []float64) ([]float64, error) {
	n := len(a) - 1

	// I minus the transposed companion matrix of a.
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var v float64
			if i == j {
				v = 1
			}
			if j == 0 {
				v += a[i+1]
			}
			if j == i+1 {
				v -= 1
			}
			data[i*n+j] = v
		}
	}

	rhs := make([]float64, n)
	for i := 0; i < n; i++ {
		rhs[i] = b[i+1] - a[i+1]*b[0]
	}

	var zi mat.VecDense
	if err := zi.SolveVec(mat.NewDense(n, n, data), mat.NewVecDense(n, rhs)); err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}

// polyFromRoots expands prod(z - r) into descending-power coefficients.
func polyFromRoots(roots []complex128) []complex128 {
	coeffs := make([]complex128, 1, len(roots)+1)
	coeffs[0] = 1
	for _, r := range roots {
		coeffs = append(coeffs, 0)
		for k := len(coeffs) - 1; k >= 1; k-- {
			coeffs[k] -= r * coeffs[k-1]
		}
	}
	return coeffs
}

// evalPoly evaluates descending-power coefficients at z = e^{iw}.
func evalPoly(coeffs []complex128, w float64) complex128 {
	z := cmplx.Exp(complex(0, w))
	acc := complex128(0)
	for _, c := range coeffs {
		acc = acc*z + c
	}
	return acc
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
