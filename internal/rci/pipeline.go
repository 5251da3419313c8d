package rci

import (
	"fmt"
	"math"

	"github.com/banshee-data/road.report/internal/config"
	"github.com/banshee-data/road.report/internal/geo"
	"github.com/banshee-data/road.report/internal/monitoring"
)

// Pipeline scores one submission at a time: validate, derive distance, gate
// on minimum speed, resample, band-pass filter, score. It holds only
// configuration, so a single Pipeline may serve concurrent submissions.
type Pipeline struct {
	cfg   *config.Config
	trace monitoring.TraceFunc
}

// New builds a pipeline. A nil config uses the documented defaults; a nil
// trace disables diagnostics.
func New(cfg *config.Config, trace monitoring.TraceFunc) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	if trace == nil {
		trace = monitoring.Discard
	}
	return &Pipeline{cfg: cfg, trace: trace}
}

// Config exposes the pipeline's effective configuration.
func (p *Pipeline) Config() *config.Config { return p.cfg }

// Process runs one batch through the pipeline. It returns either a Result
// (states Scored or SkippedLowSpeed) or a typed *Error; numerical failures
// inside filtering or scoring are contained and surfaced as
// KindProcessingFailure, never as a panic, so one bad submission cannot take
// down the ingestion path.
func (p *Pipeline) Process(batch *Batch) (*Result, error) {
	// Received: structural validation.
	if batch == nil {
		return nil, malformed("nil batch")
	}
	if !geo.ValidCoords(batch.Latitude, batch.Longitude) {
		return nil, malformed("coordinates (%g, %g) out of range", batch.Latitude, batch.Longitude)
	}
	if math.IsNaN(batch.SpeedKMH) || math.IsInf(batch.SpeedKMH, 0) || batch.SpeedKMH < 0 {
		return nil, malformed("speed %g km/h invalid", batch.SpeedKMH)
	}

	// GeoValidated: distance from the previous fix, if any.
	var distanceM *float64
	if batch.PreviousFix != nil {
		d := geo.DistanceM(*batch.PreviousFix, batch.Fix())
		distanceM = &d
	}

	result := &Result{
		State:       StateGeoValidated,
		DistanceM:   distanceM,
		SampleCount: len(batch.ZValues),
	}

	// Eligibility gate: below the minimum speed, accelerometer noise
	// dominates the road signal, so the fix is recorded but the roughness
	// stays null.
	minSpeed := p.cfg.GetMinSpeedKMH()
	if batch.SpeedKMH < minSpeed {
		p.trace("pipeline: %.1f km/h below %.1f km/h gate, skipping scoring", batch.SpeedKMH, minSpeed)
		result.State = StateSkippedLowSpeed
		result.Eligible = false
		return result, nil
	}

	if len(batch.ZValues) == 0 {
		return nil, malformed("empty z_values with scoring requested")
	}
	if len(batch.ZValues) == 1 {
		return nil, insufficient("single sample cannot be resampled")
	}

	interval := batch.IntervalSec
	if interval == 0 {
		interval = p.cfg.GetDefaultIntervalSec()
	}
	if interval < 0 {
		return nil, malformed("capture interval %g negative", interval)
	}

	freqMin := batch.FreqMinHz
	if freqMin == 0 {
		freqMin = p.cfg.GetFreqMinHz()
	}
	freqMax := batch.FreqMaxHz
	if freqMax == 0 {
		freqMax = p.cfg.GetFreqMaxHz()
	}
	if freqMin <= 0 || freqMax <= 0 || freqMin >= freqMax {
		return nil, malformed("frequency band (%g, %g) Hz invalid", freqMin, freqMax)
	}

	rate := p.cfg.GetTargetRateHz()
	if nyquist := rate / 2; freqMax >= nyquist {
		clamped := 0.45 * rate
		p.trace("pipeline: clamping upper cutoff %g Hz below Nyquist to %g Hz", freqMax, clamped)
		freqMax = clamped
		if freqMin >= freqMax {
			return nil, malformed("lower cutoff %g Hz at or above Nyquist-clamped upper cutoff %g Hz", freqMin, freqMax)
		}
	}

	metrics, err := p.score(batch.ZValues, interval, freqMin, freqMax, rate)
	if err != nil {
		if KindOf(err) == KindProcessingFailure {
			monitoring.Logf("pipeline: processing failure for device %s (%d samples): %v",
				batch.DeviceID, len(batch.ZValues), err)
		}
		return nil, err
	}

	result.State = StateScored
	result.Eligible = true
	result.Roughness = &metrics.RMS
	if p.cfg.GetComputeVDV() {
		vdv, crest := metrics.VDV, metrics.Crest
		result.VDV = &vdv
		result.CrestFactor = &crest
	}
	return result, nil
}

// score runs the numeric chain with panic containment.
func (p *Pipeline) score(z []float64, interval, freqMin, freqMax, rate float64) (m Metrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = processing(fmt.Errorf("%v", r), "panic while scoring %d samples", len(z))
		}
	}()

	resampled, err := Resample(z, interval, rate)
	if err != nil {
		return Metrics{}, err
	}
	p.trace("pipeline: resampled %d -> %d samples at %g Hz", len(z), len(resampled), rate)

	filter, err := NewBandpass(freqMin, freqMax, rate)
	if err != nil {
		return Metrics{}, processing(err, "band-pass design failed for (%g, %g) Hz", freqMin, freqMax)
	}

	filtered, err := filter.Apply(resampled, p.trace)
	if err != nil {
		return Metrics{}, err
	}

	m = Score(filtered, rate, p.cfg.GetComputeVDV())
	if math.IsNaN(m.RMS) || math.IsInf(m.RMS, 0) {
		return Metrics{}, processing(nil, "non-finite roughness from %d samples", len(z))
	}
	return m, nil
}
