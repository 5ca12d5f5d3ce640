package booking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

const (
	DefaultSweepInterval = 30 * time.Second
	sweepPageSize        = 200
	unpaidTimeoutReason  = "system: unpaid timeout"
)

type SweepResult struct {
	Cancelled int
	NoShow    int
	Expired   int
}

func (r SweepResult) Total() int {
	return r.Cancelled + r.NoShow + r.Expired
}

// SweepExpired closes every ACTIVE reservation whose window ended before now:
// unpaid ones are cancelled, paid ones never checked in become NO_SHOW and
// checked-in ones left without checking out become EXPIRED. A reservation
// that changed since it was listed is skipped, so repeated runs are no-ops.
func (e *Engine) SweepExpired(ctx context.Context) (SweepResult, error) {
	now := e.now()

	candidates, err := e.collectLapsed(ctx, now)
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	var errs []error

	for _, c := range candidates {
		status, err := e.sweepOne(ctx, c.id, c.seatId, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		switch status {
		case domain.ReservationStatusCancelled:
			result.Cancelled++
		case domain.ReservationStatusNoShow:
			result.NoShow++
		case domain.ReservationStatusExpired:
			result.Expired++
		}
	}

	e.metrics.sweep(ctx, "cancelled", result.Cancelled)
	e.metrics.sweep(ctx, "no_show", result.NoShow)
	e.metrics.sweep(ctx, "expired", result.Expired)

	return result, errors.Join(errs...)
}

type sweepCandidate struct {
	id     int
	seatId int
}

// collectLapsed lists ids before touching anything so that transitions do
// not shift the pages still to be read.
func (e *Engine) collectLapsed(ctx context.Context, now time.Time) ([]sweepCandidate, error) {
	filter := domain.ReservationFilter{
		Statuses:  []domain.ReservationStatus{domain.ReservationStatusActive},
		EndBefore: &now,
	}

	var candidates []sweepCandidate

	for page := 1; ; page++ {
		reservations, metadata, err := e.reservations.Find(ctx, filter, domain.Pagination{
			Page:     page,
			PageSize: sweepPageSize,
			Sort:     "id",
		})
		if err != nil {
			return nil, err
		}

		for _, r := range reservations {
			candidates = append(candidates, sweepCandidate{id: r.ID, seatId: r.SeatID})
		}

		if metadata == nil || page >= metadata.LastPage {
			return candidates, nil
		}
	}
}

func (e *Engine) sweepOne(ctx context.Context, id, seatId int, now time.Time) (domain.ReservationStatus, error) {
	unlock, err := e.locker.Lock(ctx, seatId)
	if err != nil {
		return "", err
	}
	defer unlock()

	r, err := e.reservations.GetById(ctx, id)
	if err != nil {
		return "", err
	}

	if r.Status != domain.ReservationStatusActive || !r.EndTime.Before(now) {
		return "", nil
	}

	switch {
	case r.PaymentStatus != domain.PaymentStatusPaid:
		r.Status = domain.ReservationStatusCancelled
		r.AppendNote(unpaidTimeoutReason)
	case !r.IsCheckedIn():
		r.Status = domain.ReservationStatusNoShow
	default:
		r.Status = domain.ReservationStatusExpired
	}

	r.UpdatedAt = now

	err = e.reservations.Update(ctx, r)
	if err != nil {
		return "", err
	}

	if r.Status == domain.ReservationStatusExpired {
		e.seatSideEffect(ctx, r, "release", e.seats.release)
	}

	e.logger.Info("reservation swept",
		"reservation_id", r.ID,
		"seat_id", r.SeatID,
		"status", r.Status)

	return r.Status, nil
}

// Sweeper runs SweepExpired on a fixed interval until its context ends.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	logger   *slog.Logger
	running  sync.Mutex
}

func NewSweeper(engine *Engine, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Sweeper{
		engine:   engine,
		interval: interval,
		logger:   logger,
	}
}

// Start blocks, sweeping once immediately and then on every tick.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("expiry sweeper started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// RunNow performs a single pass, waiting for a scheduled pass in progress.
func (s *Sweeper) RunNow(ctx context.Context) (SweepResult, error) {
	s.running.Lock()
	defer s.running.Unlock()

	return s.engine.SweepExpired(ctx)
}

func (s *Sweeper) tick(ctx context.Context) {
	if !s.running.TryLock() {
		s.logger.Warn("previous sweep still running, skipping tick")
		return
	}
	defer s.running.Unlock()

	result, err := s.engine.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
	}

	if result.Total() > 0 {
		s.logger.Info("sweep finished",
			"cancelled", result.Cancelled,
			"no_show", result.NoShow,
			"expired", result.Expired)
	}
}
