package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/road.report/internal/httputil"
)

// roughnessChart renders a quick line chart (HTML) of a device's roughness
// over time using go-echarts. This is a debugging-only endpoint (no auth) to
// eyeball scoring output without a frontend.
// Query params:
//   - device_id (required)
//   - limit (optional; default 200) newest submissions to plot
func (s *Server) roughnessChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		httputil.BadRequest(w, "device_id is required")
		return
	}

	limit := 200
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
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
	if len(track) > limit {
		track = track[len(track)-limit:]
	}

	x := make([]string, 0, len(track))
	roughness := make([]opts.LineData, 0, len(track))
	vdv := make([]opts.LineData, 0, len(track))
	scored := 0
	for _, sub := range track {
		x = append(x, sub.RecordedAt.UTC().Format(time.RFC3339))
		if sub.Roughness != nil {
			roughness = append(roughness, opts.LineData{Value: *sub.Roughness})
			scored++
		} else {
			// Gaps for skipped submissions keep the x-axis aligned with the
			// track without faking a zero.
			roughness = append(roughness, opts.LineData{Value: "-"})
		}
		if sub.VDV != nil {
			vdv = append(vdv, opts.LineData{Value: *sub.VDV})
		} else {
			vdv = append(vdv, opts.LineData{Value: "-"})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Road Roughness", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Roughness over time",
			Subtitle: fmt.Sprintf("device=%s points=%d scored=%d", deviceID, len(track), scored),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m/s² (RMS)", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(x).
		AddSeries("roughness", roughness).
		AddSeries("vdv", vdv)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
