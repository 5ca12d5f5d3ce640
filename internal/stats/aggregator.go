// Package stats derives read-only statistics from reservation history. Every
// figure is recomputed from the store on request; nothing is cached.
package stats

import (
	"context"
	"strings"
	"time"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/shopspring/decimal"
)

const pageSize = 500

const (
	KeyTotal       = "total"
	KeyTotalSpend  = "total_spend"
	KeyBookedHours = "booked_hours"
	KeyUtilization = "utilization"
	KeyToday       = "today"
	KeyRevenue     = "revenue"
	KeyCount       = "count"
)

var _ domain.StatisticsService = (*Aggregator)(nil)

type Aggregator struct {
	reservations domain.ReservationRepository
	seats        domain.SeatRepository
	users        domain.UserRepository
	now          func() time.Time
	location     *time.Location
}

type Option func(*Aggregator)

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		a.location = loc
	}
}

func NewAggregator(
	reservations domain.ReservationRepository,
	seats domain.SeatRepository,
	users domain.UserRepository,
	opts ...Option) *Aggregator {

	a := &Aggregator{
		reservations: reservations,
		seats:        seats,
		users:        users,
		now:          time.Now,
		location:     time.UTC,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// StatusKey is the statistics key holding the count of reservations in s.
func StatusKey(s domain.ReservationStatus) string {
	return strings.ToLower(string(s))
}

// UserStatistics counts a user's reservations per status, sums what the user
// has paid and the hours of completed visits.
func (a *Aggregator) UserStatistics(ctx context.Context, userId int) (domain.Statistics, error) {
	_, err := a.users.GetById(ctx, userId)
	if err != nil {
		return nil, err
	}

	stats := newStatusCounts()
	spend := decimal.Zero
	var booked time.Duration

	err = a.forEach(ctx, domain.ReservationFilter{UserID: &userId}, func(r *domain.Reservation) {
		stats.count(r)

		if r.PaymentStatus == domain.PaymentStatusPaid {
			spend = spend.Add(r.TotalAmount)
		}

		if r.Status == domain.ReservationStatusCompleted {
			booked += r.Duration()
		}
	})
	if err != nil {
		return nil, err
	}

	result := stats.statistics()
	result[KeyTotalSpend] = spend.Round(2)
	result[KeyBookedHours] = hours(booked)

	return result, nil
}

// SeatStatistics counts a seat's reservations per status and reports its
// utilization over the trailing window: the share of the window covered by
// COMPLETED reservations.
func (a *Aggregator) SeatStatistics(ctx context.Context, seatId int, window time.Duration) (domain.Statistics, error) {
	if window <= 0 {
		return nil, domain.ErrInvalidWindow
	}

	_, err := a.seats.GetById(ctx, seatId)
	if err != nil {
		return nil, err
	}

	to := a.now()
	from := to.Add(-window)

	stats := newStatusCounts()
	var booked time.Duration

	err = a.forEach(ctx, domain.ReservationFilter{SeatID: &seatId}, func(r *domain.Reservation) {
		stats.count(r)

		if r.Status == domain.ReservationStatusCompleted {
			booked += overlap(r.StartTime, r.EndTime, from, to)
		}
	})
	if err != nil {
		return nil, err
	}

	result := stats.statistics()
	result[KeyBookedHours] = hours(booked)
	result[KeyUtilization] = decimal.NewFromInt(int64(booked)).
		Div(decimal.NewFromInt(int64(window))).
		Round(4)

	return result, nil
}

// SystemStatistics counts every reservation per status plus those starting
// today.
func (a *Aggregator) SystemStatistics(ctx context.Context) (domain.Statistics, error) {
	dayStart, dayEnd := a.today()

	stats := newStatusCounts()
	var today int64

	err := a.forEach(ctx, domain.ReservationFilter{}, func(r *domain.Reservation) {
		stats.count(r)

		if !r.StartTime.Before(dayStart) && r.StartTime.Before(dayEnd) {
			today++
		}
	})
	if err != nil {
		return nil, err
	}

	result := stats.statistics()
	result[KeyToday] = decimal.NewFromInt(today)

	return result, nil
}

// Revenue sums PAID reservations whose window starts in [from, to).
func (a *Aggregator) Revenue(ctx context.Context, from, to time.Time) (domain.Statistics, error) {
	if !from.Before(to) {
		return nil, domain.ErrInvalidWindow
	}

	filter := domain.ReservationFilter{
		PaymentStatuses: []domain.PaymentStatus{domain.PaymentStatusPaid},
		StartFrom:       &from,
		StartBefore:     &to,
	}

	revenue := decimal.Zero
	var count int64

	err := a.forEach(ctx, filter, func(r *domain.Reservation) {
		revenue = revenue.Add(r.TotalAmount)
		count++
	})
	if err != nil {
		return nil, err
	}

	return domain.Statistics{
		KeyRevenue: revenue.Round(2),
		KeyCount:   decimal.NewFromInt(count),
	}, nil
}

func (a *Aggregator) forEach(ctx context.Context, filter domain.ReservationFilter, fn func(r *domain.Reservation)) error {
	for page := 1; ; page++ {
		reservations, metadata, err := a.reservations.Find(ctx, filter, domain.Pagination{
			Page:     page,
			PageSize: pageSize,
			Sort:     "id",
		})
		if err != nil {
			return err
		}

		for i := range reservations {
			fn(&reservations[i])
		}

		if metadata == nil || page >= metadata.LastPage {
			return nil
		}
	}
}

func (a *Aggregator) today() (time.Time, time.Time) {
	now := a.now().In(a.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.location)

	return start, start.AddDate(0, 0, 1)
}

type statusCounts struct {
	total    int64
	byStatus map[domain.ReservationStatus]int64
}

func newStatusCounts() *statusCounts {
	return &statusCounts{
		byStatus: make(map[domain.ReservationStatus]int64, len(domain.ReservationStatuses)),
	}
}

func (c *statusCounts) count(r *domain.Reservation) {
	c.total++
	c.byStatus[r.Status]++
}

// statistics always lists every status, zero or not.
func (c *statusCounts) statistics() domain.Statistics {
	result := domain.Statistics{
		KeyTotal: decimal.NewFromInt(c.total),
	}

	for _, s := range domain.ReservationStatuses {
		result[StatusKey(s)] = decimal.NewFromInt(c.byStatus[s])
	}

	return result
}

func overlap(start, end, from, to time.Time) time.Duration {
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}

	if !start.Before(end) {
		return 0
	}

	return end.Sub(start)
}

func hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d)).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(2)
}
