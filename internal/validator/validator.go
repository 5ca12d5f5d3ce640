package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

const (
	ErrRequired        = "is required"
	ErrGreaterThan     = "must be greater than %s"
	ErrMinValue        = "must be at least %s"
	ErrMaxValue        = "must be at most %s"
	ErrMinLength       = "must be at least %s characters long"
	ErrMaxLength       = "must be at most %s characters long"
	ErrSeatStatus      = "must be one of AVAILABLE, OCCUPIED, RESERVED or OUT_OF_ORDER"
	ErrReservationSort = "must be one of id, start_time, end_time or created_at, optionally prefixed with '-'"
	ErrInvalid         = "is invalid"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_status", validateSeatStatus)
	validator.RegisterValidation("reservation_sort", validateReservationSort)

	return validator
}

func validateSeatStatus(fl validator.FieldLevel) bool {
	return domain.SeatStatus(fl.Field().String()).Valid()
}

// validateReservationSort accepts a sortable column, optionally prefixed
// with "-" for descending order.
func validateReservationSort(fl validator.FieldLevel) bool {
	column := strings.TrimPrefix(fl.Field().String(), "-")

	_, ok := domain.ReservationSortColumns[column]
	return ok
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	isString := err.Kind() == reflect.String

	switch err.Tag() {
	case "required":
		return ErrRequired
	case "gt":
		return fmt.Sprintf(ErrGreaterThan, err.Param())
	case "min":
		if isString {
			return fmt.Sprintf(ErrMinLength, err.Param())
		}
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max":
		if isString {
			return fmt.Sprintf(ErrMaxLength, err.Param())
		}
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "seat_status":
		return ErrSeatStatus
	case "reservation_sort":
		return ErrReservationSort
	default:
		return ErrInvalid
	}
}
