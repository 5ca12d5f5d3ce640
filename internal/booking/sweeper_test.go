package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

func (s *EngineTestSuite) TestSweepClassifiesLapsedReservations() {
	ctx := context.Background()

	unpaid := s.book(s.normalSeat.ID, at(9, 0), at(10, 0))
	noShow := s.book(s.vipSeat.ID, at(9, 0), at(10, 0))
	overstay := s.book(s.normalSeat.ID, at(10, 0), at(11, 0))

	_, err := s.engine.Pay(ctx, noShow.ID, "card")
	s.Require().NoError(err)
	_, err = s.engine.Pay(ctx, overstay.ID, "cash")
	s.Require().NoError(err)

	s.setNow(at(10, 30))
	_, err = s.engine.CheckIn(ctx, overstay.ID)
	s.Require().NoError(err)

	s.setNow(at(11, 5))

	result, err := s.engine.SweepExpired(ctx)
	s.Require().NoError(err)
	s.Equal(SweepResult{Cancelled: 1, NoShow: 1, Expired: 1}, result)

	want := map[int]domain.ReservationStatus{
		unpaid.ID:   domain.ReservationStatusCancelled,
		noShow.ID:   domain.ReservationStatusNoShow,
		overstay.ID: domain.ReservationStatusExpired,
	}

	for id, status := range want {
		r, err := s.engine.GetById(ctx, id)
		s.Require().NoError(err)
		s.Equal(status, r.Status, "reservation %d", id)
	}
}

func (s *EngineTestSuite) TestSweeperRunsOnStartAndStops() {
	unpaid := s.book(s.normalSeat.ID, at(9, 0), at(10, 0))
	s.setNow(at(11, 0))

	sweeper := NewSweeper(s.engine, time.Hour, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	s.Eventually(func() bool {
		r, err := s.engine.GetById(context.Background(), unpaid.ID)
		return err == nil && r.Status == domain.ReservationStatusCancelled
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("sweeper did not stop after cancellation")
	}

	result, err := sweeper.RunNow(context.Background())
	s.Require().NoError(err)
	s.Zero(result.Total())
}
