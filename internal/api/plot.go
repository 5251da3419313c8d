package api

import (
	"fmt"
	"net/http"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/road.report/internal/httputil"
)

// roughnessPlot renders a static SVG of roughness versus cumulative distance
// for a device. Unlike /debug/chart this needs no JavaScript, so it works in
// reports and terminals with image support.
func (s *Server) roughnessPlot(w http.ResponseWriter, r *http.Request) {
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

	// X is cumulative distance along the track in km; skipped submissions
	// advance the distance but contribute no point.
	pts := make(plotter.XYs, 0, len(track))
	totalM := 0.0
	for _, sub := range track {
		if sub.DistanceM != nil {
			totalM += *sub.DistanceM
		}
		if sub.Roughness == nil {
			continue
		}
		pts = append(pts, plotter.XY{X: totalM / 1000, Y: *sub.Roughness})
	}
	if len(pts) == 0 {
		httputil.NotFound(w, fmt.Sprintf("no scored submissions for device %s", deviceID))
		return
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Roughness along track (%s)", deviceID)
	p.X.Label.Text = "distance (km)"
	p.Y.Label.Text = "roughness (m/s² RMS)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to build plot: %v", err))
		return
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Add(plotter.NewGrid())

	wt, err := p.WriterTo(10*vg.Inch, 4*vg.Inch, "svg")
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render plot: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := wt.WriteTo(w); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to write plot: %v", err))
	}
}
