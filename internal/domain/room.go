package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
	RoomStatusClosed      RoomStatus = "CLOSED"
)

const minutesPerDay = 24 * 60

// Room owns its seats and sets the base hourly rate they are billed at.
// OpenMinute and CloseMinute are minutes since local midnight; a close
// time at or before the open time wraps past midnight, and equal values
// mean the room never closes.
type Room struct {
	ID          int
	Name        string
	Capacity    int
	HourlyRate  decimal.Decimal
	OpenMinute  int
	CloseMinute int
	Status      RoomStatus
	CreatedAt   time.Time
}

func (r Room) Bookable() bool {
	return r.Status == RoomStatusAvailable || r.Status == RoomStatusOccupied
}

// IsOpenDuring reports whether [start, end) lies inside a single opening
// period of the room, evaluated in loc.
func (r Room) IsOpenDuring(start, end time.Time, loc *time.Location) bool {
	if r.OpenMinute%minutesPerDay == r.CloseMinute%minutesPerDay {
		return true
	}

	if loc == nil {
		loc = time.UTC
	}

	local := start.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	// a wrapping period that opened yesterday may still cover start
	for _, day := range []int{-1, 0} {
		base := midnight.AddDate(0, 0, day)
		open := base.Add(time.Duration(r.OpenMinute) * time.Minute)
		closing := base.Add(time.Duration(r.CloseMinute) * time.Minute)
		if r.CloseMinute <= r.OpenMinute {
			closing = closing.Add(24 * time.Hour)
		}

		if !start.Before(open) && !end.After(closing) {
			return true
		}
	}

	return false
}

type RoomRepository interface {
	GetById(ctx context.Context, id int) (*Room, error)
}
