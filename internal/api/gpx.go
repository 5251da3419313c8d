package api

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/banshee-data/road.report/internal/db"
	"github.com/banshee-data/road.report/internal/httputil"
)

// GPX 1.1 document types, one track segment per device in capture order.
// Roughness rides along in the trackpoint extensions so external tools can
// colour the track by road condition.
type gpxDoc struct {
	XMLName xml.Name  `xml:"gpx"`
	Version string    `xml:"version,attr"`
	Creator string    `xml:"creator,attr"`
	Xmlns   string    `xml:"xmlns,attr"`
	Meta    *gpxMeta  `xml:"metadata,omitempty"`
	Track   *gpxTrack `xml:"trk"`
}

type gpxMeta struct {
	Name string `xml:"name,omitempty"`
	Time string `xml:"time,omitempty"`
}

type gpxTrack struct {
	Name    string     `xml:"name"`
	Segment gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat        float64  `xml:"lat,attr"`
	Lon        float64  `xml:"lon,attr"`
	Time       string   `xml:"time,omitempty"`
	Extensions *gpxExts `xml:"extensions,omitempty"`
}

type gpxExts struct {
	Roughness   *float64 `xml:"roughness,omitempty"`
	SpeedKMH    float64  `xml:"speed_kmh"`
	CrestFactor *float64 `xml:"crest_factor,omitempty"`
}

// buildGPX shapes a device's submissions into a GPX document. Skipped
// submissions keep their trackpoint (the fix is real) with no roughness
// extension.
func buildGPX(deviceID string, track []db.Submission) *gpxDoc {
	points := make([]gpxPoint, 0, len(track))
	for _, s := range track {
		pt := gpxPoint{
			Lat: s.Latitude,
			Lon: s.Longitude,
			Extensions: &gpxExts{
				Roughness:   s.Roughness,
				SpeedKMH:    s.SpeedKMH,
				CrestFactor: s.CrestFactor,
			},
		}
		if !s.RecordedAt.IsZero() {
			pt.Time = s.RecordedAt.UTC().Format(time.RFC3339)
		}
		points = append(points, pt)
	}

	return &gpxDoc{
		Version: "1.1",
		Creator: "road.report",
		Xmlns:   "http://www.topografix.com/GPX/1/1",
		Meta: &gpxMeta{
			Name: fmt.Sprintf("road roughness track for %s", deviceID),
			Time: time.Now().UTC().Format(time.RFC3339),
		},
		Track: &gpxTrack{
			Name:    deviceID,
			Segment: gpxSegment{Points: points},
		},
	}
}

func (s *Server) exportGPX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		httputil.BadRequest(w, "device_id is required")
		return
	}

	track, err := s.db.Track(deviceID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load track: %v", err))
		return
	}
	if len(track) == 0 {
		httputil.NotFound(w, fmt.Sprintf("no submissions for device %s", deviceID))
		return
	}

	doc := buildGPX(deviceID, track)
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to encode gpx: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.gpx", deviceID))
	w.Write([]byte(xml.Header))
	w.Write(out)
}
