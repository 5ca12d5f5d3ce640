package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

// ConflictDetector answers whether a window on a seat collides with an
// ACTIVE reservation. Terminal reservations never block a booking.
type ConflictDetector struct {
	reservations domain.ReservationRepository
}

func NewConflictDetector(reservations domain.ReservationRepository) *ConflictDetector {
	return &ConflictDetector{
		reservations: reservations,
	}
}

// HasConflict checks [start, end) on seatId against every ACTIVE reservation
// except excludeId; pass 0 to compare against all of them.
func (d *ConflictDetector) HasConflict(
	ctx context.Context,
	seatId int,
	start, end time.Time,
	excludeId int) (bool, error) {

	if !start.Before(end) {
		return false, domain.ErrInvalidWindow
	}

	candidates, err := d.reservations.FindOverlapping(ctx, seatId, start, end, excludeId)
	if err != nil {
		return false, fmt.Errorf("failed to look up reservations of seat %d: %w", seatId, err)
	}

	for i := range candidates {
		r := &candidates[i]

		if r.ID == excludeId && excludeId != 0 {
			continue
		}

		if r.Status == domain.ReservationStatusActive && r.Overlaps(start, end) {
			return true, nil
		}
	}

	return false, nil
}
