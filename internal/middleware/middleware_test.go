package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/study-room-reservation-system/api"
	"github.com/stretchr/testify/require"
)

func TestRecoverPanic(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	handler := middleware.RequestID(RecoverPanic(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reservations", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "close", w.Header().Get("Connection"))

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, ErrInternalServer, resp.Message)
	require.NotEmpty(t, resp.RequestId)
	require.Contains(t, logs.String(), "boom")
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reservations/sweep", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	require.Equal(t, "request completed", entry["msg"])
	require.Equal(t, "/reservations/sweep", entry["uri"])
	require.EqualValues(t, http.StatusTeapot, entry["status"])
}

func TestFallbackHandlers(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		method      string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "not found",
			handler:     NotFoundHandler,
			method:      http.MethodGet,
			wantStatus:  http.StatusNotFound,
			wantMessage: ErrNotFound,
		},
		{
			name:        "method not allowed",
			handler:     MethodNotAllowedHandler,
			method:      http.MethodDelete,
			wantStatus:  http.StatusMethodNotAllowed,
			wantMessage: "The DELETE method is not supported for this resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(tt.method, "/nowhere", nil))

			require.Equal(t, tt.wantStatus, w.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}
