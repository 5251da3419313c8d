// Package api exposes the submission and reporting surface over HTTP. It
// owns no scoring logic: handlers parse, call the pipeline, persist, and
// shape responses.
package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/road.report/internal/db"
	"github.com/banshee-data/road.report/internal/httputil"
	"github.com/banshee-data/road.report/internal/rci"
	"github.com/banshee-data/road.report/internal/units"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db       *db.DB
	pipeline *rci.Pipeline
	units    string
}

func NewServer(database *db.DB, pipeline *rci.Pipeline, speedUnits string) *Server {
	return &Server{
		db:       database,
		pipeline: pipeline,
		units:    speedUnits,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/submissions", s.handleSubmission)
	mux.HandleFunc("/api/results", s.listResults)
	mux.HandleFunc("/api/devices", s.listDevices)
	mux.HandleFunc("/api/devices/", s.handleDevice)
	mux.HandleFunc("/api/export/gpx", s.exportGPX)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/healthz", s.healthz)
	mux.HandleFunc("/debug/chart", s.roughnessChart)
	mux.HandleFunc("/debug/roughness.svg", s.roughnessPlot)
	return mux
}

// convertSubmissionSpeed applies the configured display units to a stored
// submission. Speeds are stored in km/h.
func (s *Server) convertSubmissionSpeed(sub db.Submission) db.Submission {
	sub.SpeedKMH = units.ConvertSpeedKMH(sub.SpeedKMH, s.units)
	return sub
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	subs, err := s.db.RecentSubmissions(r.URL.Query().Get("device_id"), limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to retrieve results: %v", err))
		return
	}

	for i := range subs {
		subs[i] = s.convertSubmissionSpeed(subs[i])
	}
	if subs == nil {
		subs = []db.Submission{}
	}
	httputil.WriteJSONOK(w, subs)
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	devices, err := s.db.ListDevices()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to retrieve devices: %v", err))
		return
	}
	if devices == nil {
		devices = []db.Device{}
	}
	httputil.WriteJSONOK(w, devices)
}

// handleDevice routes /api/devices/{id}/nickname.
func (s *Server) handleDevice(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/devices/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "nickname" {
		httputil.NotFound(w, "not found")
		return
	}
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var body struct {
		Nickname string `json:"nickname"`
	}
	if err := decodeJSONBody(r, &body); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if body.Nickname == "" {
		httputil.BadRequest(w, "nickname must not be empty")
		return
	}

	if err := s.db.SetNickname(parts[0], body.Nickname); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to set nickname: %v", err))
		return
	}
	httputil.WriteJSONOK(w, map[string]string{
		"device_id": parts[0],
		"nickname":  body.Nickname,
	})
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	cfg := s.pipeline.Config().Effective()
	cfg["units"] = s.units
	httputil.WriteJSONOK(w, cfg)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, fmt.Sprintf("database unreachable: %v", err))
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}
