// Package pricing turns a seat, its room and a time window into an amount.
package pricing

import (
	"fmt"
	"time"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/shopspring/decimal"
)

const amountPlaces = 2

func defaultMultipliers() map[domain.SeatType]decimal.Decimal {
	return map[domain.SeatType]decimal.Decimal{
		domain.SeatTypeNormal: decimal.NewFromInt(1),
		domain.SeatTypeQuiet:  decimal.RequireFromString("1.2"),
		domain.SeatTypeGroup:  decimal.RequireFromString("1.3"),
		domain.SeatTypeVIP:    decimal.RequireFromString("1.5"),
	}
}

type Calculator struct {
	multipliers map[domain.SeatType]decimal.Decimal
}

type Option func(*Calculator)

// WithMultiplier registers or overrides the multiplier for a seat type.
func WithMultiplier(seatType domain.SeatType, multiplier decimal.Decimal) Option {
	return func(c *Calculator) {
		c.multipliers[seatType] = multiplier
	}
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		multipliers: defaultMultipliers(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Calculator) Multiplier(seatType domain.SeatType) (decimal.Decimal, error) {
	m, ok := c.multipliers[seatType]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownSeatType, seatType)
	}

	return m, nil
}

// Cost bills the room rate for every started hour of [start, end), at least
// one, scaled by the seat type multiplier. Rounding happens once, half-up to
// cents, on the final amount.
func (c *Calculator) Cost(seat domain.Seat, room domain.Room, start, end time.Time) (decimal.Decimal, error) {
	hours, err := BillableHours(start, end)
	if err != nil {
		return decimal.Zero, err
	}

	multiplier, err := c.Multiplier(seat.Type)
	if err != nil {
		return decimal.Zero, err
	}

	amount := room.HourlyRate.
		Mul(decimal.NewFromInt(hours)).
		Mul(multiplier)

	return amount.Round(amountPlaces), nil
}

// BillableHours rounds the duration of [start, end) up to whole hours.
func BillableHours(start, end time.Time) (int64, error) {
	if !start.Before(end) {
		return 0, domain.ErrInvalidWindow
	}

	d := end.Sub(start)
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}

	return hours, nil
}
