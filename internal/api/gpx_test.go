package api

import (
	"encoding/xml"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/road.report/internal/testutil"
)

func TestExportGPX(t *testing.T) {
	s := newTestServer(t)
	mux := s.ServeMux()

	// One scored and one skipped submission: both become trackpoints.
	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/submissions", submitBody("dev-a", 20)))
	testutil.AssertStatusCode(t, rec.Code, http.StatusCreated)

	slow := submitBody("dev-a", 2)
	slow["latitude"] = 52.53
	rec = testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/submissions", slow))
	testutil.AssertStatusCode(t, rec.Code, http.StatusCreated)

	rec = testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/export/gpx?device_id=dev-a"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.Equal(t, "application/gpx+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), xml.Header), "output must start with an XML declaration")

	var doc gpxDoc
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "1.1", doc.Version)
	require.NotNil(t, doc.Track)
	assert.Equal(t, "dev-a", doc.Track.Name)
	require.Len(t, doc.Track.Segment.Points, 2)

	scored := doc.Track.Segment.Points[0]
	assert.Equal(t, 52.52, scored.Lat)
	require.NotNil(t, scored.Extensions)
	assert.NotNil(t, scored.Extensions.Roughness)

	skipped := doc.Track.Segment.Points[1]
	assert.Equal(t, 52.53, skipped.Lat)
	require.NotNil(t, skipped.Extensions)
	assert.Nil(t, skipped.Extensions.Roughness, "skipped trackpoints carry no roughness")
}

func TestExportGPXErrors(t *testing.T) {
	s := newTestServer(t)
	mux := s.ServeMux()

	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/export/gpx"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)

	rec = testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/export/gpx?device_id=ghost"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}
