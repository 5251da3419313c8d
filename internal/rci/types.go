// Package rci derives a road condition index from bursts of vertical
// acceleration samples. One submission flows through
// Received → GeoValidated → {Scored | SkippedLowSpeed | Rejected}:
// the burst is resampled onto a uniform grid, band-pass filtered with a
// zero-phase Butterworth, and reduced to an RMS roughness index with
// optional VDV and crest-factor metrics.
//
// The package is stateless and side-effect-free: the previous GPS fix for a
// device is owned by the caller and passed in with the batch, so pipelines
// may be shared across concurrent submissions.
package rci

import (
	"time"

	"github.com/banshee-data/road.report/internal/geo"
)

// State tracks where a submission ended up in the pipeline.
type State string

const (
	StateReceived        State = "received"
	StateGeoValidated    State = "geo_validated"
	StateScored          State = "scored"
	StateSkippedLowSpeed State = "skipped_low_speed"
	StateRejected        State = "rejected"
)

// Batch is one client submission: an ordered burst of vertical-acceleration
// samples plus its GPS and speed context. ZValues must already be
// gravity-corrected and projected onto true vertical (see ProjectVertical);
// the filter and scorer assume that projection has happened client-side, and
// a batch that skips it will score tilt-induced noise as roughness.
type Batch struct {
	DeviceID string

	// Vertical acceleration in m/s², ordered by capture time. Not
	// necessarily evenly spaced; IntervalSec is the nominal spacing.
	ZValues []float64

	// Nominal capture interval in seconds. Zero means "use the configured
	// default".
	IntervalSec float64

	// Speed reported by the client in km/h.
	SpeedKMH float64

	// Optional per-batch band overrides in Hz. Zero means "use the
	// configured default".
	FreqMinHz float64
	FreqMaxHz float64

	// Current GPS fix.
	Latitude  float64
	Longitude float64

	// Heading in degrees, informational only.
	HeadingDeg float64

	// Previous fix for this device, owned by the caller. Nil for the first
	// submission of a device.
	PreviousFix *geo.Fix

	// Client wall-clock capture time.
	RecordedAt time.Time
}

// Fix returns the batch's GPS position.
func (b *Batch) Fix() geo.Fix {
	return geo.Fix{Lat: b.Latitude, Lon: b.Longitude}
}

// Result is the output record for one submission, handed to the persistence
// collaborator and not retained by the pipeline.
type Result struct {
	State    State `json:"state"`
	Eligible bool  `json:"eligible"`

	// Roughness is the RMS of the band-pass filtered signal. Nil when the
	// submission was skipped for low speed: a stored zero must remain
	// distinguishable from a smooth road at normal speed.
	Roughness *float64 `json:"roughness"`

	// VDV and CrestFactor are computed from the same filtered window when
	// enabled in config, nil otherwise.
	VDV         *float64 `json:"vdv"`
	CrestFactor *float64 `json:"crest_factor"`

	// DistanceM is the Haversine distance from the previous fix, nil for a
	// device's first submission.
	DistanceM *float64 `json:"distance_m"`

	// SampleCount is the raw burst length before resampling.
	SampleCount int `json:"sample_count"`
}
