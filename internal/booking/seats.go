package booking

import (
	"context"
	"fmt"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

var _ domain.SeatService = (*SeatRegistry)(nil)

// SeatRegistry owns seat status transitions. It locks through the same
// SeatLocker as the reservation engine so a status change cannot interleave
// with a booking on that seat.
type SeatRegistry struct {
	seats  domain.SeatRepository
	locker SeatLocker
}

func NewSeatRegistry(seats domain.SeatRepository, locker SeatLocker) *SeatRegistry {
	return &SeatRegistry{
		seats:  seats,
		locker: locker,
	}
}

func (s *SeatRegistry) GetSeat(ctx context.Context, seatId int) (*domain.Seat, error) {
	return s.seats.GetById(ctx, seatId)
}

func (s *SeatRegistry) ListByRoom(
	ctx context.Context,
	roomId int,
	pagination domain.Pagination) ([]domain.Seat, *domain.Metadata, error) {

	err := pagination.Validate()
	if err != nil {
		return nil, nil, err
	}

	return s.seats.GetByRoomId(ctx, roomId, pagination)
}

func (s *SeatRegistry) GetStatus(ctx context.Context, seatId int) (domain.SeatStatus, error) {
	seat, err := s.seats.GetById(ctx, seatId)
	if err != nil {
		return "", err
	}

	return seat.Status, nil
}

// SetStatus writes status unconditionally. It is the administrative override.
func (s *SeatRegistry) SetStatus(ctx context.Context, seatId int, status domain.SeatStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSeatStatus, status)
	}

	_, err := s.withLock(ctx, seatId, func() (bool, error) {
		return s.transition(ctx, seatId, status)
	})

	return err
}

// Occupy moves an AVAILABLE seat to OCCUPIED.
func (s *SeatRegistry) Occupy(ctx context.Context, seatId int) (bool, error) {
	return s.withLock(ctx, seatId, func() (bool, error) {
		return s.occupy(ctx, seatId)
	})
}

// Release frees an OCCUPIED or RESERVED seat.
func (s *SeatRegistry) Release(ctx context.Context, seatId int) (bool, error) {
	return s.withLock(ctx, seatId, func() (bool, error) {
		return s.release(ctx, seatId)
	})
}

// Reserve moves an AVAILABLE seat to RESERVED.
func (s *SeatRegistry) Reserve(ctx context.Context, seatId int) (bool, error) {
	return s.withLock(ctx, seatId, func() (bool, error) {
		return s.transition(ctx, seatId, domain.SeatStatusReserved, domain.SeatStatusAvailable)
	})
}

// CancelReservationHold moves a RESERVED seat back to AVAILABLE.
func (s *SeatRegistry) CancelReservationHold(ctx context.Context, seatId int) (bool, error) {
	return s.withLock(ctx, seatId, func() (bool, error) {
		return s.transition(ctx, seatId, domain.SeatStatusAvailable, domain.SeatStatusReserved)
	})
}

func (s *SeatRegistry) withLock(ctx context.Context, seatId int, fn func() (bool, error)) (bool, error) {
	unlock, err := s.locker.Lock(ctx, seatId)
	if err != nil {
		return false, err
	}
	defer unlock()

	return fn()
}

// The unexported transitions expect the caller to hold the seat lock.

func (s *SeatRegistry) occupy(ctx context.Context, seatId int) (bool, error) {
	return s.transition(ctx, seatId, domain.SeatStatusOccupied, domain.SeatStatusAvailable)
}

func (s *SeatRegistry) release(ctx context.Context, seatId int) (bool, error) {
	return s.transition(ctx, seatId, domain.SeatStatusAvailable, domain.SeatStatusOccupied, domain.SeatStatusReserved)
}

func (s *SeatRegistry) transition(
	ctx context.Context,
	seatId int,
	to domain.SeatStatus,
	from ...domain.SeatStatus) (bool, error) {

	changed, err := s.seats.UpdateStatus(ctx, seatId, to, from...)
	if err != nil {
		return false, fmt.Errorf("failed to move seat %d to %s: %w", seatId, to, err)
	}

	return changed, nil
}
