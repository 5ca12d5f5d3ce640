package domain

import (
	"context"
	"time"
)

type SeatType string

const (
	SeatTypeNormal SeatType = "NORMAL"
	SeatTypeQuiet  SeatType = "QUIET"
	SeatTypeGroup  SeatType = "GROUP"
	SeatTypeVIP    SeatType = "VIP"
)

type SeatStatus string

const (
	SeatStatusAvailable  SeatStatus = "AVAILABLE"
	SeatStatusOccupied   SeatStatus = "OCCUPIED"
	SeatStatusReserved   SeatStatus = "RESERVED"
	SeatStatusOutOfOrder SeatStatus = "OUT_OF_ORDER"
)

func (s SeatStatus) Valid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusOccupied, SeatStatusReserved, SeatStatusOutOfOrder:
		return true
	}

	return false
}

type Seat struct {
	ID             int
	RoomID         int
	SeatNumber     string
	Type           SeatType
	HasWindow      bool
	HasPowerOutlet bool
	HasLamp        bool
	Status         SeatStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SeatRepository interface {
	GetById(ctx context.Context, id int) (*Seat, error)
	GetByRoomId(ctx context.Context, roomId int, pagination Pagination) ([]Seat, *Metadata, error)
	// UpdateStatus moves the seat to status "to" when its current status is one
	// of "from" (any status when "from" is empty). It reports whether the row
	// changed and returns ErrSeatNotFound for unknown seats.
	UpdateStatus(ctx context.Context, id int, to SeatStatus, from ...SeatStatus) (bool, error)
}

type SeatService interface {
	GetSeat(ctx context.Context, seatId int) (*Seat, error)
	ListByRoom(ctx context.Context, roomId int, pagination Pagination) ([]Seat, *Metadata, error)
	GetStatus(ctx context.Context, seatId int) (SeatStatus, error)
	SetStatus(ctx context.Context, seatId int, status SeatStatus) error
	Occupy(ctx context.Context, seatId int) (bool, error)
	Release(ctx context.Context, seatId int) (bool, error)
	Reserve(ctx context.Context, seatId int) (bool, error)
	CancelReservationHold(ctx context.Context, seatId int) (bool, error)
}
