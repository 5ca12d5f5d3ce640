package app

import (
	"context"
	"net/http"

	"github.com/metinatakli/study-room-reservation-system/api"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

func (app *Application) GetSeatHandler(w http.ResponseWriter, r *http.Request) {
	seatId, err := readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seat, err := app.seats.GetSeat(r.Context(), seatId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toSeatResponse(*seat), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSeatsOfRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomId, err := readIDParam(r, "roomId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	params, err := readListParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// seats are always ordered by seat number
	params.Sort = nil

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	seats, metadata, err := app.seats.ListByRoom(r.Context(), roomId, toPagination(params))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.SeatsResponse{
		Seats:    make([]api.SeatResponse, len(seats)),
		Metadata: toApiMetadata(metadata),
	}

	for i, seat := range seats {
		resp.Seats[i] = toSeatResponse(seat)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSeatStatusHandler(w http.ResponseWriter, r *http.Request) {
	seatId, err := readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	status, err := app.seats.GetStatus(r.Context(), seatId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.SeatStatusResponse{SeatId: seatId, Status: string(status)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SetSeatStatusHandler is the administrative override; it applies any known
// status regardless of the current one.
func (app *Application) SetSeatStatusHandler(w http.ResponseWriter, r *http.Request) {
	seatId, err := readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.SeatStatusRequest

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

	err = app.seats.SetStatus(r.Context(), seatId, domain.SeatStatus(input.Status))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.SeatStatusResponse{SeatId: seatId, Status: input.Status}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) OccupySeatHandler(w http.ResponseWriter, r *http.Request) {
	app.seatTransition(w, r, app.seats.Occupy)
}

func (app *Application) ReleaseSeatHandler(w http.ResponseWriter, r *http.Request) {
	app.seatTransition(w, r, app.seats.Release)
}

func (app *Application) ReserveSeatHandler(w http.ResponseWriter, r *http.Request) {
	app.seatTransition(w, r, app.seats.Reserve)
}

func (app *Application) CancelSeatHoldHandler(w http.ResponseWriter, r *http.Request) {
	app.seatTransition(w, r, app.seats.CancelReservationHold)
}

// CheckConflictHandler reports whether [start, end) overlaps an ACTIVE
// reservation on the seat.
func (app *Application) CheckConflictHandler(w http.ResponseWriter, r *http.Request) {
	seatId, params, ok := app.readSeatWindow(w, r)
	if !ok {
		return
	}

	conflict, err := app.reservations.HasTimeConflict(r.Context(), seatId, params.Start, params.End, params.ExcludeId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.ConflictCheckResponse{
		SeatId:    seatId,
		StartTime: params.Start,
		EndTime:   params.End,
		Conflict:  conflict,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) QuoteCostHandler(w http.ResponseWriter, r *http.Request) {
	seatId, params, ok := app.readSeatWindow(w, r)
	if !ok {
		return
	}

	amount, err := app.reservations.CalculateCost(r.Context(), seatId, params.Start, params.End)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.CostQuoteResponse{
		SeatId:    seatId,
		StartTime: params.Start,
		EndTime:   params.End,
		Amount:    amount.StringFixed(2),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) readSeatWindow(w http.ResponseWriter, r *http.Request) (int, api.WindowParams, bool) {
	seatId, err := readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return 0, api.WindowParams{}, false
	}

	params, err := readWindowParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return 0, api.WindowParams{}, false
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return 0, api.WindowParams{}, false
	}

	return seatId, params, true
}

func (app *Application) seatTransition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, seatId int) (bool, error)) {

	seatId, err := readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	changed, err := apply(r.Context(), seatId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	status, err := app.seats.GetStatus(r.Context(), seatId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.SeatTransitionResponse{
		SeatId:  seatId,
		Changed: changed,
		Status:  string(status),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatResponse(seat domain.Seat) api.SeatResponse {
	return api.SeatResponse{
		Id:             seat.ID,
		RoomId:         seat.RoomID,
		SeatNumber:     seat.SeatNumber,
		Type:           string(seat.Type),
		HasWindow:      seat.HasWindow,
		HasPowerOutlet: seat.HasPowerOutlet,
		HasLamp:        seat.HasLamp,
		Status:         string(seat.Status),
	}
}
