package httputil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSON(rec, 201, map[string]int{"count": 3})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body["count"])
}

func TestWriteJSONError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSONError(rec, 400, "bad batch")

	assert.Equal(t, 400, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad batch", body["error"])
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(*httptest.ResponseRecorder)
		want int
	}{
		{"ok", func(r *httptest.ResponseRecorder) { WriteJSONOK(r, nil) }, 200},
		{"created", func(r *httptest.ResponseRecorder) { WriteJSONCreated(r, nil) }, 201},
		{"method not allowed", func(r *httptest.ResponseRecorder) { MethodNotAllowed(r) }, 405},
		{"bad request", func(r *httptest.ResponseRecorder) { BadRequest(r, "x") }, 400},
		{"unprocessable", func(r *httptest.ResponseRecorder) { UnprocessableEntity(r, "x") }, 422},
		{"internal", func(r *httptest.ResponseRecorder) { InternalServerError(r, "x") }, 500},
		{"not found", func(r *httptest.ResponseRecorder) { NotFound(r, "x") }, 404},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			tc.fn(rec)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
