package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/study-room-reservation-system/api"
	"github.com/metinatakli/study-room-reservation-system/internal/booking"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/metinatakli/study-room-reservation-system/internal/mocks"
	"github.com/metinatakli/study-room-reservation-system/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	testStart = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
)

func testReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:            1,
		Code:          "SR20260302-A1B2C3",
		UserID:        7,
		SeatID:        3,
		StartTime:     testStart,
		EndTime:       testEnd,
		Status:        domain.ReservationStatusActive,
		PaymentStatus: domain.PaymentStatusPending,
		TotalAmount:   decimal.RequireFromString("20.00"),
		Note:          "window seat please",
		CreatedAt:     testStart.Add(-time.Hour),
		UpdatedAt:     testStart.Add(-time.Hour),
		Version:       1,
	}
}

func testReservationResponse() *api.ReservationResponse {
	return &api.ReservationResponse{
		Id:            1,
		Code:          "SR20260302-A1B2C3",
		UserId:        7,
		SeatId:        3,
		StartTime:     testStart,
		EndTime:       testEnd,
		Status:        "ACTIVE",
		PaymentStatus: "PENDING",
		TotalAmount:   "20.00",
		Note:          "window seat please",
		CreatedAt:     testStart.Add(-time.Hour),
		UpdatedAt:     testStart.Add(-time.Hour),
		Version:       1,
	}
}

type ReservationsTestSuite struct {
	suite.Suite
	app          *Application
	reservations *mocks.MockReservationService
	sweeper      *mockSweeper
}

func (s *ReservationsTestSuite) SetupTest() {
	s.reservations = new(mocks.MockReservationService)
	s.sweeper = new(mockSweeper)
	s.app = newTestApplication(func(a *Application) {
		a.reservations = s.reservations
		a.sweeper = s.sweeper
	})
}

func TestReservationsSuite(t *testing.T) {
	suite.Run(t, new(ReservationsTestSuite))
}

func (s *ReservationsTestSuite) TestCreateReservationHandler() {
	validRequest := api.CreateReservationRequest{
		UserId:    7,
		SeatId:    3,
		StartTime: testStart,
		EndTime:   testEnd,
		Note:      "window seat please",
	}

	validInput := domain.CreateReservationInput{
		UserID:    7,
		SeatID:    3,
		StartTime: testStart,
		EndTime:   testEnd,
		Note:      "window seat please",
	}

	tests := []struct {
		name           string
		body           any
		setupMock      func()
		wantStatus     int
		wantErrMessage string
		wantResponse   *api.ReservationResponse
	}{
		{
			name:       "should fail when body is not an object",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "should fail when seat is missing",
			body: api.CreateReservationRequest{
				UserId:    7,
				StartTime: testStart,
				EndTime:   testEnd,
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: validator.ErrRequired,
		},
		{
			name: "should fail when note is too long",
			body: api.CreateReservationRequest{
				UserId:    7,
				SeatId:    3,
				StartTime: testStart,
				EndTime:   testEnd,
				Note:      strings.Repeat("x", 501),
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: fmt.Sprintf(validator.ErrMaxLength, "500"),
		},
		{
			name: "should fail when window overlaps an active reservation",
			body: validRequest,
			setupMock: func() {
				s.reservations.On("Create", mock.Anything, validInput).Return(nil, domain.ErrTimeConflict)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "Time window overlaps an existing reservation",
		},
		{
			name: "should fail when seat does not exist",
			body: validRequest,
			setupMock: func() {
				s.reservations.On("Create", mock.Anything, validInput).
					Return(nil, fmt.Errorf("seat 3: %w", domain.ErrSeatNotFound))
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: "Seat 3: seat not found",
		},
		{
			name: "should fail when start is in the past",
			body: validRequest,
			setupMock: func() {
				s.reservations.On("Create", mock.Anything, validInput).Return(nil, domain.ErrStartInPast)
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "Start time must not be in the past",
		},
		{
			name: "should fail when store fails",
			body: validRequest,
			setupMock: func() {
				s.reservations.On("Create", mock.Anything, validInput).Return(nil, errors.New("connection reset"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name: "successful creation",
			body: validRequest,
			setupMock: func() {
				s.reservations.On("Create", mock.Anything, validInput).Return(testReservation(), nil)
			},
			wantStatus:   http.StatusCreated,
			wantResponse: testReservationResponse(),
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.reservations.AssertExpectations(s.T())

			if tt.setupMock != nil {
				tt.setupMock()
			}

			w := executeRequest(s.T(), s.app, http.MethodPost, "/reservations", tt.body)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				s.Equal("/reservations/1", w.Header().Get("Location"))

				var response api.ReservationResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				diff := cmp.Diff(tt.wantResponse, &response)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *ReservationsTestSuite) TestLifecycleHandlers() {
	paid := testReservation()
	paid.PaymentStatus = domain.PaymentStatusPaid
	paid.PaymentMethod = "card"

	tests := []struct {
		name           string
		method         string
		url            string
		body           any
		setupMock      func()
		wantStatus     int
		wantErrMessage string
		wantResponse   *api.ReservationResponse
	}{
		{
			name:       "should fail when reservation id is not a number",
			method:     http.MethodPost,
			url:        "/reservations/abc/check-in",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "should fail when reservation does not exist",
			method: http.MethodGet,
			url:    "/reservations/99",
			setupMock: func() {
				s.reservations.On("GetById", mock.Anything, 99).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: "Record not found",
		},
		{
			name:   "get by code",
			method: http.MethodGet,
			url:    "/reservations/code/SR20260302-A1B2C3",
			setupMock: func() {
				s.reservations.On("GetByCode", mock.Anything, "SR20260302-A1B2C3").Return(testReservation(), nil)
			},
			wantStatus:   http.StatusOK,
			wantResponse: testReservationResponse(),
		},
		{
			name:           "should fail when payment method is missing",
			method:         http.MethodPost,
			url:            "/reservations/1/pay",
			body:           api.PayReservationRequest{},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: validator.ErrRequired,
		},
		{
			name:   "pay",
			method: http.MethodPost,
			url:    "/reservations/1/pay",
			body:   api.PayReservationRequest{Method: "card"},
			setupMock: func() {
				s.reservations.On("Pay", mock.Anything, 1, "card").Return(paid, nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: func() *api.ReservationResponse {
				resp := testReservationResponse()
				resp.PaymentStatus = "PAID"
				resp.PaymentMethod = ptr("card")
				return resp
			}(),
		},
		{
			name:   "should fail when paying twice",
			method: http.MethodPost,
			url:    "/reservations/1/pay",
			body:   api.PayReservationRequest{Method: "card"},
			setupMock: func() {
				s.reservations.On("Pay", mock.Anything, 1, "card").Return(nil, domain.ErrAlreadyPaid)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "Reservation is already paid",
		},
		{
			name:   "should fail when checking in outside the window",
			method: http.MethodPost,
			url:    "/reservations/1/check-in",
			setupMock: func() {
				s.reservations.On("CheckIn", mock.Anything, 1).Return(nil, domain.ErrOutsideCheckInWindow)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "Check-in is only possible during the reservation window",
		},
		{
			name:   "check out",
			method: http.MethodPost,
			url:    "/reservations/1/check-out",
			setupMock: func() {
				s.reservations.On("CheckOut", mock.Anything, 1).Return(testReservation(), nil)
			},
			wantStatus:   http.StatusOK,
			wantResponse: testReservationResponse(),
		},
		{
			name:   "cancel without a body",
			method: http.MethodPost,
			url:    "/reservations/1/cancel",
			setupMock: func() {
				s.reservations.On("Cancel", mock.Anything, 1, "").Return(testReservation(), nil)
			},
			wantStatus:   http.StatusOK,
			wantResponse: testReservationResponse(),
		},
		{
			name:   "cancel with a reason",
			method: http.MethodPost,
			url:    "/reservations/1/cancel",
			body:   api.CancelReservationRequest{Reason: "feeling ill"},
			setupMock: func() {
				s.reservations.On("Cancel", mock.Anything, 1, "feeling ill").Return(testReservation(), nil)
			},
			wantStatus:   http.StatusOK,
			wantResponse: testReservationResponse(),
		},
		{
			name:   "should fail when extension does not move the end forward",
			method: http.MethodPost,
			url:    "/reservations/1/extend",
			body:   api.ExtendReservationRequest{EndTime: testStart},
			setupMock: func() {
				s.reservations.On("Extend", mock.Anything, 1, testStart).Return(nil, domain.ErrInvalidExtension)
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "New end time must be after the current end time",
		},
		{
			name:   "update",
			method: http.MethodPut,
			url:    "/reservations/1",
			body:   api.UpdateReservationRequest{StartTime: testStart, EndTime: testEnd, Note: "window seat please"},
			setupMock: func() {
				s.reservations.On("Update", mock.Anything, 1, domain.UpdateReservationInput{
					StartTime: testStart,
					EndTime:   testEnd,
					Note:      "window seat please",
				}).Return(testReservation(), nil)
			},
			wantStatus:   http.StatusOK,
			wantResponse: testReservationResponse(),
		},
		{
			name:   "should fail when refunding an active reservation",
			method: http.MethodPost,
			url:    "/reservations/1/refund",
			setupMock: func() {
				s.reservations.On("Refund", mock.Anything, 1).Return(nil, domain.ErrRefundNotAllowed)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "Only cancelled reservations can be refunded",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.reservations.AssertExpectations(s.T())

			if tt.setupMock != nil {
				tt.setupMock()
			}

			w := executeRequest(s.T(), s.app, tt.method, tt.url, tt.body)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.ReservationResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				diff := cmp.Diff(tt.wantResponse, &response)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *ReservationsTestSuite) TestListHandlers() {
	metadata := &domain.Metadata{
		CurrentPage:  2,
		FirstPage:    1,
		LastPage:     3,
		PageSize:     1,
		TotalRecords: 3,
	}

	tests := []struct {
		name           string
		url            string
		setupMock      func()
		wantStatus     int
		wantErrMessage string
		wantResponse   *api.ReservationsResponse
	}{
		{
			name:           "should fail when page is zero",
			url:            "/reservations/active?page=0",
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: fmt.Sprintf(validator.ErrMinValue, "1"),
		},
		{
			name:           "should fail when page size is too large",
			url:            "/reservations/active?pageSize=101",
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: fmt.Sprintf(validator.ErrMaxValue, "100"),
		},
		{
			name:           "should fail when sort column is unknown",
			url:            "/reservations/today?sort=price",
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: validator.ErrReservationSort,
		},
		{
			name:       "should fail when page is not a number",
			url:        "/reservations/today?page=two",
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "active reservations with paging",
			url:  "/reservations/active?page=2&pageSize=1&sort=-start_time",
			setupMock: func() {
				s.reservations.On("ListActive", mock.Anything, domain.Pagination{Page: 2, PageSize: 1, Sort: "-start_time"}).
					Return([]domain.Reservation{*testReservation()}, metadata, nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.ReservationsResponse{
				Reservations: []api.ReservationResponse{*testReservationResponse()},
				Metadata: api.Metadata{
					CurrentPage:  2,
					FirstPage:    1,
					LastPage:     3,
					PageSize:     1,
					TotalRecords: 3,
				},
			},
		},
		{
			name: "expiring reservations default to fifteen minutes",
			url:  "/reservations/expiring",
			setupMock: func() {
				s.reservations.On("ListExpiringWithin", mock.Anything, 15, domain.Pagination{Page: 1, PageSize: DefaultPageSize}).
					Return([]domain.Reservation{}, domain.NewMetadata(0, 1, DefaultPageSize), nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.ReservationsResponse{
				Reservations: []api.ReservationResponse{},
				Metadata:     api.Metadata{CurrentPage: 1, FirstPage: 1, PageSize: DefaultPageSize},
			},
		},
		{
			name: "should fail when expiring window is not positive",
			url:  "/reservations/expiring?minutes=0",
			setupMock: func() {
				s.reservations.On("ListExpiringWithin", mock.Anything, 0, domain.Pagination{Page: 1, PageSize: DefaultPageSize}).
					Return(nil, nil, fmt.Errorf("minutes must be positive: %w", domain.ErrInvalidWindow))
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "Minutes must be positive: start time must be before end time",
		},
		{
			name: "reservations of a user",
			url:  "/users/7/reservations",
			setupMock: func() {
				s.reservations.On("ListByUser", mock.Anything, 7, domain.Pagination{Page: 1, PageSize: DefaultPageSize}).
					Return([]domain.Reservation{*testReservation()}, domain.NewMetadata(1, 1, DefaultPageSize), nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.ReservationsResponse{
				Reservations: []api.ReservationResponse{*testReservationResponse()},
				Metadata:     api.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 1, PageSize: DefaultPageSize, TotalRecords: 1},
			},
		},
		{
			name: "should fail when listing a seat's reservations fails",
			url:  "/seats/3/reservations",
			setupMock: func() {
				s.reservations.On("ListBySeat", mock.Anything, 3, domain.Pagination{Page: 1, PageSize: DefaultPageSize}).
					Return(nil, nil, errors.New("database error"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name: "expired unpaid reservations",
			url:  "/reservations/expired-unpaid",
			setupMock: func() {
				s.reservations.On("ListExpiredUnpaid", mock.Anything, domain.Pagination{Page: 1, PageSize: DefaultPageSize}).
					Return([]domain.Reservation{}, domain.NewMetadata(0, 1, DefaultPageSize), nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.ReservationsResponse{
				Reservations: []api.ReservationResponse{},
				Metadata:     api.Metadata{CurrentPage: 1, FirstPage: 1, PageSize: DefaultPageSize},
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.reservations.AssertExpectations(s.T())

			if tt.setupMock != nil {
				tt.setupMock()
			}

			w := executeRequest(s.T(), s.app, http.MethodGet, tt.url, nil)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.ReservationsResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				diff := cmp.Diff(tt.wantResponse, &response)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *ReservationsTestSuite) TestSweepReservationsHandler() {
	s.Run("reports what the pass closed", func() {
		s.SetupTest()
		defer s.sweeper.AssertExpectations(s.T())

		s.sweeper.On("RunNow", mock.Anything).Return(booking.SweepResult{Cancelled: 2, NoShow: 1, Expired: 3}, nil)

		w := executeRequest(s.T(), s.app, http.MethodPost, "/reservations/sweep", nil)

		s.Equal(http.StatusOK, w.Code)

		var response api.SweepResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&response))
		s.Equal(api.SweepResponse{Cancelled: 2, NoShow: 1, Expired: 3}, response)
	})

	s.Run("should fail when the pass fails", func() {
		s.SetupTest()
		defer s.sweeper.AssertExpectations(s.T())

		s.sweeper.On("RunNow", mock.Anything).Return(booking.SweepResult{}, errors.New("store unavailable"))

		w := executeRequest(s.T(), s.app, http.MethodPost, "/reservations/sweep", nil)

		s.Equal(http.StatusInternalServerError, w.Code)
	})
}

func (s *ReservationsTestSuite) TestUnknownRoute() {
	w := executeRequest(s.T(), s.app, http.MethodGet, "/nowhere", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = executeRequest(s.T(), s.app, http.MethodDelete, "/reservations/1", nil)
	s.Equal(http.StatusMethodNotAllowed, w.Code)
}
