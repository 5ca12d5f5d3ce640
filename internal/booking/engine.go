// Package booking implements the reservation lifecycle for study-room seats:
// conflict-free booking, payment, check-in and check-out, cancellation,
// extension and the expiry sweep. Every mutation of a reservation runs under
// its seat's lock, so the conflict check and the write it guards are atomic
// per seat while different seats proceed in parallel.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/metinatakli/study-room-reservation-system/internal/pricing"
	"github.com/shopspring/decimal"
)

const maxCodeAttempts = 3

var _ domain.ReservationService = (*Engine)(nil)

type Engine struct {
	reservations domain.ReservationRepository
	rooms        domain.RoomRepository
	users        domain.UserRepository
	seats        *SeatRegistry
	conflicts    *ConflictDetector
	calculator   *pricing.Calculator
	locker       SeatLocker
	logger       *slog.Logger
	metrics      *metrics
	now          func() time.Time
	location     *time.Location
}

type Option func(*Engine)

func WithLocker(locker SeatLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

func WithCalculator(calculator *pricing.Calculator) Option {
	return func(e *Engine) {
		e.calculator = calculator
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the zone used for opening hours and "today".
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.location = loc
	}
}

func NewEngine(
	reservations domain.ReservationRepository,
	seats domain.SeatRepository,
	rooms domain.RoomRepository,
	users domain.UserRepository,
	opts ...Option) *Engine {

	e := &Engine{
		reservations: reservations,
		rooms:        rooms,
		users:        users,
		calculator:   pricing.NewCalculator(),
		locker:       NewLocalSeatLocker(),
		logger:       slog.New(slog.DiscardHandler),
		now:          time.Now,
		location:     time.UTC,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.seats = NewSeatRegistry(seats, e.locker)
	e.conflicts = NewConflictDetector(reservations)
	e.metrics = newMetrics()

	return e
}

// Seats exposes the seat registry sharing this engine's locks.
func (e *Engine) Seats() *SeatRegistry {
	return e.seats
}

func (e *Engine) Create(ctx context.Context, input domain.CreateReservationInput) (*domain.Reservation, error) {
	now := e.now()

	if !input.StartTime.Before(input.EndTime) {
		return nil, domain.ErrInvalidWindow
	}

	if input.StartTime.Before(now) {
		return nil, domain.ErrStartInPast
	}

	err := e.requireActiveUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	seat, room, err := e.loadSeatAndRoom(ctx, input.SeatID)
	if err != nil {
		return nil, err
	}

	err = e.checkBookable(seat, room, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	amount, err := e.calculator.Cost(*seat, *room, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	unlock, err := e.locker.Lock(ctx, seat.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = e.requireNoConflict(ctx, seat.ID, input.StartTime, input.EndTime, 0)
	if err != nil {
		return nil, err
	}

	reservation := &domain.Reservation{
		UserID:        input.UserID,
		SeatID:        seat.ID,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Status:        domain.ReservationStatusActive,
		PaymentStatus: domain.PaymentStatusPending,
		TotalAmount:   amount,
		Note:          strings.TrimSpace(input.Note),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for attempt := 1; ; attempt++ {
		reservation.Code = newReservationCode(input.StartTime)

		err = e.reservations.Create(ctx, reservation)
		if errors.Is(err, domain.ErrDuplicateCode) && attempt < maxCodeAttempts {
			continue
		}

		break
	}

	if err != nil {
		if errors.Is(err, domain.ErrTimeConflict) {
			e.metrics.conflicts.Add(ctx, 1)
			e.logger.Warn("store rejected overlapping reservation", "seat_id", seat.ID)
		}

		return nil, err
	}

	e.metrics.created.Add(ctx, 1)
	e.logger.Info("reservation created",
		"reservation_id", reservation.ID,
		"code", reservation.Code,
		"seat_id", reservation.SeatID,
		"user_id", reservation.UserID,
		"amount", reservation.TotalAmount.StringFixed(2))

	return reservation, nil
}

func (e *Engine) Pay(ctx context.Context, id int, method string) (*domain.Reservation, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, domain.ErrPaymentMethodRequired
	}

	return e.mutate(ctx, id, "pay", func(r *domain.Reservation, now time.Time) error {
		if r.Status.IsTerminal() {
			return domain.ErrAlreadyTerminal
		}

		if r.PaymentStatus == domain.PaymentStatusPaid {
			return domain.ErrAlreadyPaid
		}

		r.PaymentStatus = domain.PaymentStatusPaid
		r.PaymentMethod = method
		r.PaidAt = &now

		return nil
	}, nil)
}

func (e *Engine) CheckIn(ctx context.Context, id int) (*domain.Reservation, error) {
	return e.mutate(ctx, id, "check_in", func(r *domain.Reservation, now time.Time) error {
		if r.Status.IsTerminal() {
			return domain.ErrAlreadyTerminal
		}

		if r.PaymentStatus != domain.PaymentStatusPaid {
			return domain.ErrNotPaid
		}

		if r.IsCheckedIn() {
			return domain.ErrAlreadyCheckedIn
		}

		if now.Before(r.StartTime) || now.After(r.EndTime) {
			return domain.ErrOutsideCheckInWindow
		}

		r.CheckInTime = &now

		return nil
	}, func(ctx context.Context, r *domain.Reservation) {
		e.seatSideEffect(ctx, r, "occupy", e.seats.occupy)
	})
}

func (e *Engine) CheckOut(ctx context.Context, id int) (*domain.Reservation, error) {
	return e.mutate(ctx, id, "check_out", func(r *domain.Reservation, now time.Time) error {
		if r.Status.IsTerminal() {
			return domain.ErrAlreadyTerminal
		}

		if !r.IsCheckedIn() {
			return domain.ErrNotCheckedIn
		}

		r.CheckOutTime = &now
		r.Status = domain.ReservationStatusCompleted

		return nil
	}, func(ctx context.Context, r *domain.Reservation) {
		e.seatSideEffect(ctx, r, "release", e.seats.release)
	})
}

func (e *Engine) Cancel(ctx context.Context, id int, reason string) (*domain.Reservation, error) {
	return e.mutate(ctx, id, "cancel", func(r *domain.Reservation, now time.Time) error {
		if r.Status.IsTerminal() {
			return domain.ErrAlreadyTerminal
		}

		r.Status = domain.ReservationStatusCancelled
		r.AppendNote(reason)

		return nil
	}, func(ctx context.Context, r *domain.Reservation) {
		// a checked-in holder walking away frees the seat like a check-out
		if r.IsCheckedIn() {
			e.seatSideEffect(ctx, r, "release", e.seats.release)
		}
	})
}

// Extend moves the end of an ACTIVE reservation later and adds the cost of
// the added interval, billed on its own, to the total. A PAID reservation
// stays PAID; the difference is settled with the payment method on file.
func (e *Engine) Extend(ctx context.Context, id int, newEndTime time.Time) (*domain.Reservation, error) {
	return e.mutate(ctx, id, "extend", func(r *domain.Reservation, now time.Time) error {
		if r.Status.IsTerminal() {
			return domain.ErrAlreadyTerminal
		}

		if !newEndTime.After(r.EndTime) {
			return domain.ErrInvalidExtension
		}

		seat, room, err := e.loadSeatAndRoom(ctx, r.SeatID)
		if err != nil {
			return err
		}

		err = e.checkBookable(seat, room, r.StartTime, newEndTime)
		if err != nil {
			return err
		}

		err = e.requireNoConflict(ctx, r.SeatID, r.StartTime, newEndTime, r.ID)
		if err != nil {
			return err
		}

		added, err := e.calculator.Cost(*seat, *room, r.EndTime, newEndTime)
		if err != nil {
			return err
		}

		r.TotalAmount = r.TotalAmount.Add(added)
		r.EndTime = newEndTime

		return nil
	}, nil)
}

// Update replaces the window and note of an ACTIVE reservation and prices the
// new window from scratch. Payment status is left alone, as in Extend.
func (e *Engine) Update(ctx context.Context, id int, input domain.UpdateReservationInput) (*domain.Reservation, error) {
	if !input.StartTime.Before(input.EndTime) {
		return nil, domain.ErrInvalidWindow
	}

	return e.mutate(ctx, id, "update", func(r *domain.Reservation, now time.Time) error {
		if r.Status.IsTerminal() {
			return domain.ErrAlreadyTerminal
		}

		if !input.StartTime.Equal(r.StartTime) && input.StartTime.Before(now) {
			return domain.ErrStartInPast
		}

		seat, room, err := e.loadSeatAndRoom(ctx, r.SeatID)
		if err != nil {
			return err
		}

		err = e.checkBookable(seat, room, input.StartTime, input.EndTime)
		if err != nil {
			return err
		}

		err = e.requireNoConflict(ctx, r.SeatID, input.StartTime, input.EndTime, r.ID)
		if err != nil {
			return err
		}

		amount, err := e.calculator.Cost(*seat, *room, input.StartTime, input.EndTime)
		if err != nil {
			return err
		}

		r.StartTime = input.StartTime
		r.EndTime = input.EndTime
		r.Note = strings.TrimSpace(input.Note)
		r.TotalAmount = amount

		return nil
	}, nil)
}

// Refund marks the payment of a cancelled reservation as returned.
func (e *Engine) Refund(ctx context.Context, id int) (*domain.Reservation, error) {
	return e.mutate(ctx, id, "refund", func(r *domain.Reservation, now time.Time) error {
		if r.Status != domain.ReservationStatusCancelled {
			return domain.ErrRefundNotAllowed
		}

		if r.PaymentStatus != domain.PaymentStatusPaid {
			return domain.ErrNotPaid
		}

		r.PaymentStatus = domain.PaymentStatusRefunded

		return nil
	}, nil)
}

func (e *Engine) HasTimeConflict(
	ctx context.Context,
	seatId int,
	start, end time.Time,
	excludeId int) (bool, error) {

	_, err := e.seats.GetSeat(ctx, seatId)
	if err != nil {
		return false, err
	}

	return e.conflicts.HasConflict(ctx, seatId, start, end, excludeId)
}

func (e *Engine) CalculateCost(ctx context.Context, seatId int, start, end time.Time) (decimal.Decimal, error) {
	if !start.Before(end) {
		return decimal.Zero, domain.ErrInvalidWindow
	}

	seat, room, err := e.loadSeatAndRoom(ctx, seatId)
	if err != nil {
		return decimal.Zero, err
	}

	return e.calculator.Cost(*seat, *room, start, end)
}

// mutate loads the reservation, takes its seat lock, re-reads it under the
// lock and applies apply. The result is persisted only when apply succeeds;
// after then runs once the write is stored, still under the lock.
func (e *Engine) mutate(
	ctx context.Context,
	id int,
	transition string,
	apply func(r *domain.Reservation, now time.Time) error,
	after func(ctx context.Context, r *domain.Reservation)) (*domain.Reservation, error) {

	current, err := e.reservations.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock, err := e.locker.Lock(ctx, current.SeatID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	r, err := e.reservations.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	now := e.now()

	err = apply(r, now)
	if err != nil {
		return nil, err
	}

	r.UpdatedAt = now

	err = e.reservations.Update(ctx, r)
	if err != nil {
		return nil, err
	}

	if after != nil {
		after(ctx, r)
	}

	e.metrics.transition(ctx, transition)
	e.logger.Info("reservation updated",
		"transition", transition,
		"reservation_id", r.ID,
		"seat_id", r.SeatID,
		"status", r.Status,
		"payment_status", r.PaymentStatus)

	return r, nil
}

// seatSideEffect applies a seat status change that follows a lifecycle
// transition. Seat status is advisory, so failures are logged and swallowed.
func (e *Engine) seatSideEffect(
	ctx context.Context,
	r *domain.Reservation,
	name string,
	fn func(ctx context.Context, seatId int) (bool, error)) {

	changed, err := fn(ctx, r.SeatID)
	if err != nil {
		e.logger.Error("seat status update failed", "op", name, "seat_id", r.SeatID, "reservation_id", r.ID, "error", err)
		return
	}

	if !changed {
		e.logger.Warn("seat status left unchanged", "op", name, "seat_id", r.SeatID, "reservation_id", r.ID)
	}
}

func (e *Engine) requireActiveUser(ctx context.Context, userId int) error {
	user, err := e.users.GetById(ctx, userId)
	if err != nil {
		return err
	}

	if !user.IsActive {
		return fmt.Errorf("%w: user %d is deactivated", domain.ErrUserNotFound, userId)
	}

	return nil
}

func (e *Engine) loadSeatAndRoom(ctx context.Context, seatId int) (*domain.Seat, *domain.Room, error) {
	seat, err := e.seats.GetSeat(ctx, seatId)
	if err != nil {
		return nil, nil, err
	}

	room, err := e.rooms.GetById(ctx, seat.RoomID)
	if err != nil {
		return nil, nil, err
	}

	return seat, room, nil
}

func (e *Engine) checkBookable(seat *domain.Seat, room *domain.Room, start, end time.Time) error {
	if seat.Status == domain.SeatStatusOutOfOrder {
		return fmt.Errorf("%w: seat %d is out of order", domain.ErrSeatUnavailable, seat.ID)
	}

	if !room.Bookable() {
		return fmt.Errorf("%w: room %d is %s", domain.ErrSeatUnavailable, room.ID, room.Status)
	}

	if !room.IsOpenDuring(start, end, e.location) {
		return domain.ErrOutsideOpeningHours
	}

	return nil
}

// requireNoConflict must be called with the seat lock held.
func (e *Engine) requireNoConflict(ctx context.Context, seatId int, start, end time.Time, excludeId int) error {
	conflict, err := e.conflicts.HasConflict(ctx, seatId, start, end, excludeId)
	if err != nil {
		return err
	}

	if conflict {
		e.metrics.conflicts.Add(ctx, 1)
		e.logger.Warn("time conflict", "seat_id", seatId, "start", start, "end", end, "exclude_id", excludeId)
		return domain.ErrTimeConflict
	}

	return nil
}
