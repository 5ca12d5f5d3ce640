package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
	ReservationStatusNoShow    ReservationStatus = "NO_SHOW"
)

var ReservationStatuses = []ReservationStatus{
	ReservationStatusActive,
	ReservationStatusCompleted,
	ReservationStatusCancelled,
	ReservationStatusExpired,
	ReservationStatusNoShow,
}

// IsTerminal reports whether no lifecycle transition may leave s.
func (s ReservationStatus) IsTerminal() bool {
	return s != ReservationStatusActive
}

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "PENDING"
	PaymentStatusPaid          PaymentStatus = "PAID"
	PaymentStatusRefunded      PaymentStatus = "REFUNDED"
	PaymentStatusPartialRefund PaymentStatus = "PARTIAL_REFUND"
)

type Reservation struct {
	ID            int
	Code          string
	UserID        int
	SeatID        int
	StartTime     time.Time
	EndTime       time.Time
	Status        ReservationStatus
	PaymentStatus PaymentStatus
	PaymentMethod string
	TotalAmount   decimal.Decimal
	PaidAt        *time.Time
	CheckInTime   *time.Time
	CheckOutTime  *time.Time
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int
}

// Overlaps applies the half-open rule: [s1,e1) and [s2,e2) overlap iff
// s1 < e2 and s2 < e1.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && start.Before(r.EndTime)
}

func (r *Reservation) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

func (r *Reservation) IsCheckedIn() bool {
	return r.CheckInTime != nil
}

// AppendNote adds text on a new line, keeping whatever was written before.
func (r *Reservation) AppendNote(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if r.Note == "" {
		r.Note = text
		return
	}

	r.Note = r.Note + "\n" + text
}

// ReservationFilter narrows store queries. Nil and empty fields do not filter.
// Time bounds are half-open: From is inclusive, Before is exclusive.
type ReservationFilter struct {
	UserID          *int
	SeatID          *int
	Statuses        []ReservationStatus
	PaymentStatuses []PaymentStatus
	UnpaidOnly      bool
	CheckedIn       *bool
	StartFrom       *time.Time
	StartBefore     *time.Time
	EndFrom         *time.Time
	EndBefore       *time.Time
}

func (f ReservationFilter) Matches(r *Reservation) bool {
	if f.UserID != nil && r.UserID != *f.UserID {
		return false
	}
	if f.SeatID != nil && r.SeatID != *f.SeatID {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, r.Status) {
		return false
	}
	if len(f.PaymentStatuses) > 0 && !containsPaymentStatus(f.PaymentStatuses, r.PaymentStatus) {
		return false
	}
	if f.UnpaidOnly && r.PaymentStatus == PaymentStatusPaid {
		return false
	}
	if f.CheckedIn != nil && r.IsCheckedIn() != *f.CheckedIn {
		return false
	}
	if f.StartFrom != nil && r.StartTime.Before(*f.StartFrom) {
		return false
	}
	if f.StartBefore != nil && !r.StartTime.Before(*f.StartBefore) {
		return false
	}
	if f.EndFrom != nil && r.EndTime.Before(*f.EndFrom) {
		return false
	}
	if f.EndBefore != nil && !r.EndTime.Before(*f.EndBefore) {
		return false
	}

	return true
}

func containsStatus(statuses []ReservationStatus, s ReservationStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}

	return false
}

func containsPaymentStatus(statuses []PaymentStatus, s PaymentStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}

	return false
}

// ReservationSortColumns lists the columns queries may be ordered by.
var ReservationSortColumns = map[string]string{
	"start_time": "start_time",
	"end_time":   "end_time",
	"created_at": "created_at",
	"id":         "id",
}

type ReservationRepository interface {
	// Create persists r and fills in its ID, timestamps and version. Stores
	// must reject an ACTIVE reservation overlapping another ACTIVE one on the
	// same seat with ErrTimeConflict.
	Create(ctx context.Context, r *Reservation) error
	// Update writes r if its version still matches the stored one, returning
	// ErrEditConflict otherwise, and bumps r.Version.
	Update(ctx context.Context, r *Reservation) error
	GetById(ctx context.Context, id int) (*Reservation, error)
	GetByCode(ctx context.Context, code string) (*Reservation, error)
	// FindOverlapping returns the ACTIVE reservations on seatId overlapping
	// [start, end), leaving out excludeId (0 excludes nothing).
	FindOverlapping(ctx context.Context, seatId int, start, end time.Time, excludeId int) ([]Reservation, error)
	Find(ctx context.Context, filter ReservationFilter, pagination Pagination) ([]Reservation, *Metadata, error)
}

type CreateReservationInput struct {
	UserID    int
	SeatID    int
	StartTime time.Time
	EndTime   time.Time
	Note      string
}

type UpdateReservationInput struct {
	StartTime time.Time
	EndTime   time.Time
	Note      string
}

type ReservationService interface {
	Create(ctx context.Context, input CreateReservationInput) (*Reservation, error)
	Pay(ctx context.Context, id int, method string) (*Reservation, error)
	CheckIn(ctx context.Context, id int) (*Reservation, error)
	CheckOut(ctx context.Context, id int) (*Reservation, error)
	Cancel(ctx context.Context, id int, reason string) (*Reservation, error)
	Extend(ctx context.Context, id int, newEndTime time.Time) (*Reservation, error)
	Update(ctx context.Context, id int, input UpdateReservationInput) (*Reservation, error)
	Refund(ctx context.Context, id int) (*Reservation, error)

	GetById(ctx context.Context, id int) (*Reservation, error)
	GetByCode(ctx context.Context, code string) (*Reservation, error)
	ListByUser(ctx context.Context, userId int, pagination Pagination) ([]Reservation, *Metadata, error)
	ListBySeat(ctx context.Context, seatId int, pagination Pagination) ([]Reservation, *Metadata, error)
	ListToday(ctx context.Context, pagination Pagination) ([]Reservation, *Metadata, error)
	ListActive(ctx context.Context, pagination Pagination) ([]Reservation, *Metadata, error)
	ListExpiringWithin(ctx context.Context, minutes int, pagination Pagination) ([]Reservation, *Metadata, error)
	ListExpiredUnpaid(ctx context.Context, pagination Pagination) ([]Reservation, *Metadata, error)

	HasTimeConflict(ctx context.Context, seatId int, start, end time.Time, excludeId int) (bool, error)
	CalculateCost(ctx context.Context, seatId int, start, end time.Time) (decimal.Decimal, error)
}
