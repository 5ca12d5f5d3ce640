package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/study-room-reservation-system/api"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

type reservationLister func(ctx context.Context, pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error)

func (app *Application) CreateReservationHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateReservationRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reservation, err := app.reservations.Create(r.Context(), domain.CreateReservationInput{
		UserID:    input.UserId,
		SeatID:    input.SeatId,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Note:      input.Note,
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	headers := http.Header{}
	headers.Set("Location", fmt.Sprintf("/reservations/%d", reservation.ID))

	err = app.writeJSON(w, http.StatusCreated, toReservationResponse(reservation), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reservation, err := app.reservations.GetById(r.Context(), id)
	app.reservationResponse(w, r, reservation, err)
}

func (app *Application) GetReservationByCodeHandler(w http.ResponseWriter, r *http.Request) {
	reservation, err := app.reservations.GetByCode(r.Context(), chi.URLParam(r, "code"))
	app.reservationResponse(w, r, reservation, err)
}

func (app *Application) UpdateReservationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateReservationRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reservation, err := app.reservations.Update(r.Context(), id, domain.UpdateReservationInput{
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Note:      input.Note,
	})
	app.reservationResponse(w, r, reservation, err)
}

func (app *Application) PayReservationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.PayReservationRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reservation, err := app.reservations.Pay(r.Context(), id, input.Method)
	app.reservationResponse(w, r, reservation, err)
}

func (app *Application) CheckInHandler(w http.ResponseWriter, r *http.Request) {
	app.transition(w, r, app.reservations.CheckIn)
}

func (app *Application) CheckOutHandler(w http.ResponseWriter, r *http.Request) {
	app.transition(w, r, app.reservations.CheckOut)
}

func (app *Application) RefundReservationHandler(w http.ResponseWriter, r *http.Request) {
	app.transition(w, r, app.reservations.Refund)
}

// CancelReservationHandler accepts an optional body carrying the reason.
func (app *Application) CancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CancelReservationRequest

	if r.ContentLength != 0 {
		err = app.readJSON(w, r, &input)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reservation, err := app.reservations.Cancel(r.Context(), id, input.Reason)
	app.reservationResponse(w, r, reservation, err)
}

func (app *Application) ExtendReservationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ExtendReservationRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reservation, err := app.reservations.Extend(r.Context(), id, input.EndTime)
	app.reservationResponse(w, r, reservation, err)
}

func (app *Application) GetActiveReservationsHandler(w http.ResponseWriter, r *http.Request) {
	app.listReservations(w, r, app.reservations.ListActive)
}

func (app *Application) GetTodayReservationsHandler(w http.ResponseWriter, r *http.Request) {
	app.listReservations(w, r, app.reservations.ListToday)
}

func (app *Application) GetExpiredUnpaidReservationsHandler(w http.ResponseWriter, r *http.Request) {
	app.listReservations(w, r, app.reservations.ListExpiredUnpaid)
}

// GetExpiringReservationsHandler lists reservations ending within the next
// "minutes" minutes, 15 unless given.
func (app *Application) GetExpiringReservationsHandler(w http.ResponseWriter, r *http.Request) {
	minutes, err := readIntQuery(r, "minutes", 15)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.listReservations(w, r, func(ctx context.Context, p domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {
		return app.reservations.ListExpiringWithin(ctx, minutes, p)
	})
}

func (app *Application) GetReservationsOfUserHandler(w http.ResponseWriter, r *http.Request) {
	userId, err := readIDParam(r, "userId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.listReservations(w, r, func(ctx context.Context, p domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {
		return app.reservations.ListByUser(ctx, userId, p)
	})
}

func (app *Application) GetReservationsOfSeatHandler(w http.ResponseWriter, r *http.Request) {
	seatId, err := readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.listReservations(w, r, func(ctx context.Context, p domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {
		return app.reservations.ListBySeat(ctx, seatId, p)
	})
}

func (app *Application) SweepReservationsHandler(w http.ResponseWriter, r *http.Request) {
	result, err := app.sweeper.RunNow(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SweepResponse{
		Cancelled: result.Cancelled,
		NoShow:    result.NoShow,
		Expired:   result.Expired,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id int) (*domain.Reservation, error)) {

	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reservation, err := apply(r.Context(), id)
	app.reservationResponse(w, r, reservation, err)
}

func (app *Application) reservationResponse(w http.ResponseWriter, r *http.Request, reservation *domain.Reservation, err error) {
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toReservationResponse(reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) listReservations(w http.ResponseWriter, r *http.Request, list reservationLister) {
	params, err := readListParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reservations, metadata, err := list(r.Context(), toPagination(params))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.ReservationsResponse{
		Reservations: toReservationResponses(reservations),
		Metadata:     toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toReservationResponses(reservations []domain.Reservation) []api.ReservationResponse {
	resp := make([]api.ReservationResponse, len(reservations))

	for i := range reservations {
		resp[i] = toReservationResponse(&reservations[i])
	}

	return resp
}

func toReservationResponse(r *domain.Reservation) api.ReservationResponse {
	resp := api.ReservationResponse{
		Id:            r.ID,
		Code:          r.Code,
		UserId:        r.UserID,
		SeatId:        r.SeatID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		TotalAmount:   r.TotalAmount.StringFixed(2),
		PaidAt:        r.PaidAt,
		CheckInTime:   r.CheckInTime,
		CheckOutTime:  r.CheckOutTime,
		Note:          r.Note,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}

	if r.PaymentMethod != "" {
		resp.PaymentMethod = &r.PaymentMethod
	}

	return resp
}
