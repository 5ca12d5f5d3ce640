package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

func (e *Engine) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	return e.reservations.GetById(ctx, id)
}

func (e *Engine) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrRecordNotFound
	}

	return e.reservations.GetByCode(ctx, code)
}

func (e *Engine) ListByUser(
	ctx context.Context,
	userId int,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return e.find(ctx, domain.ReservationFilter{UserID: &userId}, pagination)
}

func (e *Engine) ListBySeat(
	ctx context.Context,
	seatId int,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return e.find(ctx, domain.ReservationFilter{SeatID: &seatId}, pagination)
}

// ListToday returns reservations starting on the current calendar day of the
// engine's location, whatever their status.
func (e *Engine) ListToday(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	from, to := e.today()

	return e.find(ctx, domain.ReservationFilter{
		StartFrom:   &from,
		StartBefore: &to,
	}, pagination)
}

func (e *Engine) ListActive(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return e.find(ctx, domain.ReservationFilter{
		Statuses: []domain.ReservationStatus{domain.ReservationStatusActive},
	}, pagination)
}

// ListExpiringWithin returns ACTIVE reservations whose end falls in the next
// minutes minutes.
func (e *Engine) ListExpiringWithin(
	ctx context.Context,
	minutes int,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	if minutes <= 0 {
		return nil, nil, fmt.Errorf("%w: minutes must be positive", domain.ErrInvalidWindow)
	}

	now := e.now()
	until := now.Add(time.Duration(minutes) * time.Minute)

	return e.find(ctx, domain.ReservationFilter{
		Statuses:  []domain.ReservationStatus{domain.ReservationStatusActive},
		EndFrom:   &now,
		EndBefore: &until,
	}, pagination)
}

// ListExpiredUnpaid returns the reservations the next sweep will cancel.
func (e *Engine) ListExpiredUnpaid(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	now := e.now()

	return e.find(ctx, domain.ReservationFilter{
		Statuses:   []domain.ReservationStatus{domain.ReservationStatusActive},
		UnpaidOnly: true,
		EndBefore:  &now,
	}, pagination)
}

func (e *Engine) find(
	ctx context.Context,
	filter domain.ReservationFilter,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	err := pagination.Validate()
	if err != nil {
		return nil, nil, err
	}

	return e.reservations.Find(ctx, filter, pagination)
}

func (e *Engine) today() (time.Time, time.Time) {
	now := e.now().In(e.location)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.location)

	return from, from.AddDate(0, 0, 1)
}
