package domain

import "errors"

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrEditConflict    = errors.New("edit conflict")
	ErrSeatNotFound    = errors.New("seat not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrUserNotFound    = errors.New("user not found or inactive")
	ErrDuplicateCode   = errors.New("reservation code already exists")
	ErrUnknownSeatType = errors.New("no price multiplier for seat type")

	ErrInvalidWindow         = errors.New("start time must be before end time")
	ErrStartInPast           = errors.New("start time must not be in the past")
	ErrInvalidExtension      = errors.New("new end time must be after the current end time")
	ErrOutsideOpeningHours   = errors.New("time window is outside the room's opening hours")
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrInvalidPagination     = errors.New("page and page size must be positive")
	ErrTimeConflict          = errors.New("time window overlaps an existing reservation")
	ErrSeatUnavailable       = errors.New("seat is not available for booking")
	ErrAlreadyTerminal       = errors.New("reservation is already in a terminal state")
	ErrNotPaid               = errors.New("reservation is not paid")
	ErrAlreadyPaid           = errors.New("reservation is already paid")
	ErrNotCheckedIn          = errors.New("reservation is not checked in")
	ErrAlreadyCheckedIn      = errors.New("reservation is already checked in")
	ErrOutsideCheckInWindow  = errors.New("check-in is only possible during the reservation window")
	ErrRefundNotAllowed      = errors.New("only cancelled reservations can be refunded")
	ErrInvalidSeatStatus     = errors.New("unknown seat status")
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindState
)

// errorKinds is checked in order, so an error that joins sentinels of
// several kinds reports the first one listed here.
var errorKinds = []struct {
	sentinel error
	kind     ErrorKind
}{
	{ErrInvalidWindow, KindValidation},
	{ErrStartInPast, KindValidation},
	{ErrInvalidExtension, KindValidation},
	{ErrOutsideOpeningHours, KindValidation},
	{ErrPaymentMethodRequired, KindValidation},
	{ErrInvalidPagination, KindValidation},
	{ErrUnknownSeatType, KindValidation},
	{ErrInvalidSeatStatus, KindValidation},
	{ErrTimeConflict, KindConflict},
	{ErrSeatUnavailable, KindConflict},
	{ErrEditConflict, KindConflict},
	{ErrDuplicateCode, KindConflict},
	{ErrRecordNotFound, KindNotFound},
	{ErrSeatNotFound, KindNotFound},
	{ErrRoomNotFound, KindNotFound},
	{ErrUserNotFound, KindNotFound},
	{ErrAlreadyTerminal, KindState},
	{ErrNotPaid, KindState},
	{ErrAlreadyPaid, KindState},
	{ErrNotCheckedIn, KindState},
	{ErrAlreadyCheckedIn, KindState},
	{ErrOutsideCheckInWindow, KindState},
	{ErrRefundNotAllowed, KindState},
}

// Kind reports which class of failure err belongs to. Wrapped errors are
// unwrapped; anything not produced by the reservation core is KindUnknown.
func Kind(err error) ErrorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}

	return KindUnknown
}
