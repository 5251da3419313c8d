package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/road.report/internal/db"
	"github.com/banshee-data/road.report/internal/geo"
	"github.com/banshee-data/road.report/internal/httputil"
	"github.com/banshee-data/road.report/internal/rci"
)

// maxSubmissionBytes caps the request body. A 30-second burst at 400 Hz is
// well under 1 MB of JSON.
const maxSubmissionBytes = 4 << 20

// submissionRequest is the wire format for POST /api/submissions. Speed is
// km/h, z_values are m/s² on true vertical, interval_sec is the nominal
// sample spacing. The frequency band and interval are optional per-batch
// overrides.
type submissionRequest struct {
	DeviceID    string    `json:"device_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	SpeedKMH    float64   `json:"speed_kmh"`
	HeadingDeg  *float64  `json:"heading_deg,omitempty"`
	ZValues     []float64 `json:"z_values"`
	IntervalSec float64   `json:"interval_sec,omitempty"`
	FreqMinHz   float64   `json:"freq_min_hz,omitempty"`
	FreqMaxHz   float64   `json:"freq_max_hz,omitempty"`
	RecordedAt  time.Time `json:"recorded_at,omitempty"`
}

// submissionResponse echoes the stored scoring outcome.
type submissionResponse struct {
	ID          string   `json:"id"`
	State       string   `json:"state"`
	Eligible    bool     `json:"eligible"`
	Roughness   *float64 `json:"roughness"`
	VDV         *float64 `json:"vdv,omitempty"`
	CrestFactor *float64 `json:"crest_factor,omitempty"`
	DistanceM   *float64 `json:"distance_m"`
	SampleCount int      `json:"sample_count"`
}

func decodeJSONBody(r *http.Request, out interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxSubmissionBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req submissionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.DeviceID == "" {
		httputil.BadRequest(w, "device_id is required")
		return
	}
	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	batch := &rci.Batch{
		DeviceID:    req.DeviceID,
		ZValues:     req.ZValues,
		IntervalSec: req.IntervalSec,
		SpeedKMH:    req.SpeedKMH,
		FreqMinHz:   req.FreqMinHz,
		FreqMaxHz:   req.FreqMaxHz,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		RecordedAt:  recordedAt,
	}
	if req.HeadingDeg != nil {
		batch.HeadingDeg = *req.HeadingDeg
	}

	// The device's previous fix anchors the distance derivation. A lookup
	// failure degrades to "first submission" rather than rejecting the batch.
	lat, lon, err := s.db.LastFix(req.DeviceID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to read previous fix: %v", err))
		return
	}
	if lat != nil && lon != nil {
		batch.PreviousFix = &geo.Fix{Lat: *lat, Lon: *lon}
	}

	result, err := s.pipeline.Process(batch)
	if err != nil {
		writeProcessError(w, err)
		return
	}

	sub := &db.Submission{
		ID:          uuid.New().String(),
		DeviceID:    req.DeviceID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		SpeedKMH:    req.SpeedKMH,
		HeadingDeg:  req.HeadingDeg,
		SampleCount: result.SampleCount,
		State:       string(result.State),
		Eligible:    result.Eligible,
		Roughness:   result.Roughness,
		VDV:         result.VDV,
		CrestFactor: result.CrestFactor,
		DistanceM:   result.DistanceM,
		RecordedAt:  recordedAt,
	}
	if err := s.db.RecordSubmission(sub); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to store submission: %v", err))
		return
	}
	if err := s.db.TouchDeviceFix(req.DeviceID, req.Latitude, req.Longitude, recordedAt); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to update device fix: %v", err))
		return
	}

	httputil.WriteJSONCreated(w, submissionResponse{
		ID:          sub.ID,
		State:       sub.State,
		Eligible:    sub.Eligible,
		Roughness:   sub.Roughness,
		VDV:         sub.VDV,
		CrestFactor: sub.CrestFactor,
		DistanceM:   sub.DistanceM,
		SampleCount: sub.SampleCount,
	})
}

// writeProcessError maps pipeline error kinds onto HTTP statuses: structural
// problems are the client's fault, short bursts are unprocessable, numeric
// failures are ours.
func writeProcessError(w http.ResponseWriter, err error) {
	switch rci.KindOf(err) {
	case rci.KindMalformedBatch:
		httputil.BadRequest(w, err.Error())
	case rci.KindInsufficientSamples:
		httputil.UnprocessableEntity(w, err.Error())
	default:
		httputil.InternalServerError(w, err.Error())
	}
}
