package booking

import (
	"context"
	"testing"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/metinatakli/study-room-reservation-system/internal/repository"
	"github.com/stretchr/testify/suite"
)

type SeatRegistryTestSuite struct {
	suite.Suite
	registry *SeatRegistry
	seat     domain.Seat
}

func (s *SeatRegistryTestSuite) SetupTest() {
	store := repository.NewMemoryStore()
	room := store.AddRoom(domain.Room{Name: "Hall"})
	s.seat = store.AddSeat(domain.Seat{RoomID: room.ID, SeatNumber: "A1"})
	store.AddSeat(domain.Seat{RoomID: room.ID, SeatNumber: "A2"})

	s.registry = NewSeatRegistry(store.Seats(), NewLocalSeatLocker())
}

func TestSeatRegistrySuite(t *testing.T) {
	suite.Run(t, new(SeatRegistryTestSuite))
}

func (s *SeatRegistryTestSuite) TestTransitions() {
	ctx := context.Background()

	steps := []struct {
		name       string
		apply      func(seatId int) (bool, error)
		wantOk     bool
		wantStatus domain.SeatStatus
	}{
		{name: "release of an available seat is refused", apply: s.bind(s.registry.Release), wantStatus: domain.SeatStatusAvailable},
		{name: "occupy an available seat", apply: s.bind(s.registry.Occupy), wantOk: true, wantStatus: domain.SeatStatusOccupied},
		{name: "occupy twice is refused", apply: s.bind(s.registry.Occupy), wantStatus: domain.SeatStatusOccupied},
		{name: "reserve an occupied seat is refused", apply: s.bind(s.registry.Reserve), wantStatus: domain.SeatStatusOccupied},
		{name: "release an occupied seat", apply: s.bind(s.registry.Release), wantOk: true, wantStatus: domain.SeatStatusAvailable},
		{name: "reserve an available seat", apply: s.bind(s.registry.Reserve), wantOk: true, wantStatus: domain.SeatStatusReserved},
		{name: "cancel the hold", apply: s.bind(s.registry.CancelReservationHold), wantOk: true, wantStatus: domain.SeatStatusAvailable},
		{name: "cancel a missing hold is refused", apply: s.bind(s.registry.CancelReservationHold), wantStatus: domain.SeatStatusAvailable},
	}

	for _, step := range steps {
		s.Run(step.name, func() {
			ok, err := step.apply(s.seat.ID)
			s.Require().NoError(err)
			s.Equal(step.wantOk, ok)

			status, err := s.registry.GetStatus(ctx, s.seat.ID)
			s.Require().NoError(err)
			s.Equal(step.wantStatus, status)
		})
	}
}

func (s *SeatRegistryTestSuite) bind(fn func(ctx context.Context, seatId int) (bool, error)) func(int) (bool, error) {
	return func(seatId int) (bool, error) {
		return fn(context.Background(), seatId)
	}
}

func (s *SeatRegistryTestSuite) TestSetStatus() {
	ctx := context.Background()

	s.Require().NoError(s.registry.SetStatus(ctx, s.seat.ID, domain.SeatStatusOutOfOrder))

	status, err := s.registry.GetStatus(ctx, s.seat.ID)
	s.Require().NoError(err)
	s.Equal(domain.SeatStatusOutOfOrder, status)

	s.ErrorIs(s.registry.SetStatus(ctx, s.seat.ID, "BROKEN"), domain.ErrInvalidSeatStatus)
	s.ErrorIs(s.registry.SetStatus(ctx, 404, domain.SeatStatusAvailable), domain.ErrSeatNotFound)

	_, err = s.registry.Occupy(ctx, 404)
	s.ErrorIs(err, domain.ErrSeatNotFound)

	_, err = s.registry.GetStatus(ctx, 404)
	s.ErrorIs(err, domain.ErrSeatNotFound)
}

func (s *SeatRegistryTestSuite) TestListByRoom() {
	seats, metadata, err := s.registry.ListByRoom(context.Background(), s.seat.RoomID, domain.Pagination{Page: 1, PageSize: 1})
	s.Require().NoError(err)
	s.Len(seats, 1)
	s.Equal("A1", seats[0].SeatNumber)
	s.Equal(2, metadata.LastPage)

	_, _, err = s.registry.ListByRoom(context.Background(), s.seat.RoomID, domain.Pagination{})
	s.ErrorIs(err, domain.ErrInvalidPagination)
}
