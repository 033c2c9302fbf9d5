package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithCapture(traceID string) (*http.Request, *logger.LogBuffer) {
	log, buf := logger.NewCapture()
	ctx := logger.WithLogger(context.Background(), log)
	if traceID != "" {
		ctx = WithTraceID(ctx, traceID)
	}
	return httptest.NewRequest(http.MethodGet, "/api/tasks", nil).WithContext(ctx), buf
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondWithJSON(t *testing.T) {
	req, _ := requestWithCapture("")
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]any{"success": true, "count": 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"count":2}`, w.Body.String())
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	req, buf := requestWithCapture("")
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.True(t, buf.Contains("failed to encode JSON response"))
}

func TestRespondWithError(t *testing.T) {
	req, _ := requestWithCapture("trace-1")
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Task not found","trace_id":"trace-1"}`, w.Body.String())
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	req, _ := requestWithCapture("")
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusUnauthorized, "Unauthenticated.")

	body := decodeError(t, w)
	assert.NotContains(t, body, "trace_id")
	assert.NotContains(t, body, "errors")
	assert.Equal(t, false, body["success"])
}

func TestRespondWithValidationErrors(t *testing.T) {
	req, _ := requestWithCapture("")
	w := httptest.NewRecorder()

	RespondWithValidationErrors(w, req, map[string][]string{
		"title": {"Task title is required"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t,
		`{"success":false,"message":"Validation error","errors":{"title":["Task title is required"]}}`,
		w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "DEBUG"},
		{name: "rate limited", status: http.StatusTooManyRequests, wantLevel: "WARN"},
		{name: "elevated client error", status: http.StatusUnauthorized, opts: []ResponseOption{WithElevatedLogLevel()}, wantLevel: "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, buf := requestWithCapture("trace-2")
			w := httptest.NewRecorder()

			err := errors.New("dial tcp postgres://admin:hunter2@db:5432/tasks failed")
			RespondWithErrorAndLog(w, req, tt.status, "Something went wrong", err, tt.opts...)

			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, "Something went wrong", body["message"])
			assert.NotContains(t, w.Body.String(), "hunter2")

			var entry map[string]any
			for _, e := range buf.Entries() {
				if e["msg"] == "API error response" {
					entry = e
				}
			}
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.NotContains(t, entry["error"], "hunter2")
			assert.Equal(t, "*errors.errorString", entry["error_type"])
		})
	}
}
