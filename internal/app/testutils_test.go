package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/metinatakli/study-room-reservation-system/api"
	"github.com/metinatakli/study-room-reservation-system/internal/booking"
	"github.com/metinatakli/study-room-reservation-system/internal/config"
	"github.com/metinatakli/study-room-reservation-system/internal/handler"
	"github.com/metinatakli/study-room-reservation-system/internal/mocks"
	"github.com/metinatakli/study-room-reservation-system/internal/validator"
	"github.com/stretchr/testify/mock"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) RunNow(ctx context.Context) (booking.SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(booking.SweepResult), args.Error(1)
}

func newTestApplication(opts ...func(*Application)) *Application {
	cfg := config.Config{Env: "test"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := &Application{
		config:          cfg,
		logger:          logger,
		validator:       validator.NewValidator(),
		reservations:    &mocks.MockReservationService{},
		seats:           &mocks.MockSeatService{},
		statistics:      &mocks.MockStatisticsService{},
		sweeper:         &mockSweeper{},
		paymentProvider: &mocks.MockPaymentProvider{},
		health:          handler.NewHealthcheckHandler(cfg, logger, nil),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// executeRequest sends the request through the full router so URL
// parameters and middleware behave as in production.
func executeRequest(t *testing.T, app *Application, method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()

	app.Routes().ServeHTTP(w, r)

	return w
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		if validationResp.ValidationErrors == nil {
			if validationResp.Message != tt.wantErrMessage {
				t.Errorf("Error message = %v, want %v", validationResp.Message, tt.wantErrMessage)
			}
			return
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
