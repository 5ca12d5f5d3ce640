// Package api holds the JSON request and response bodies of the HTTP API.
package api

import "time"

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status       string            `json:"status"`
	SystemInfo   SystemInfo        `json:"systemInfo"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

// ListParams are the paging query parameters shared by list endpoints.
type ListParams struct {
	Page     *int    `validate:"omitempty,min=1"`
	PageSize *int    `validate:"omitempty,min=1,max=100"`
	Sort     *string `validate:"omitempty,reservation_sort"`
}

type CreateReservationRequest struct {
	UserId    int       `json:"userId" validate:"required,gt=0"`
	SeatId    int       `json:"seatId" validate:"required,gt=0"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
	Note      string    `json:"note" validate:"max=500"`
}

type UpdateReservationRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
	Note      string    `json:"note" validate:"max=500"`
}

type PayReservationRequest struct {
	Method string `json:"method" validate:"required,max=30"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type ExtendReservationRequest struct {
	EndTime time.Time `json:"endTime" validate:"required"`
}

type ReservationResponse struct {
	Id            int        `json:"id"`
	Code          string     `json:"code"`
	UserId        int        `json:"userId"`
	SeatId        int        `json:"seatId"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	PaymentMethod *string    `json:"paymentMethod,omitempty"`
	TotalAmount   string     `json:"totalAmount"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CheckInTime   *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime  *time.Time `json:"checkOutTime,omitempty"`
	Note          string     `json:"note"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Version       int        `json:"version"`
}

type ReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Metadata     Metadata              `json:"metadata"`
}

type SweepResponse struct {
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"noShow"`
	Expired   int `json:"expired"`
}

type SeatResponse struct {
	Id             int    `json:"id"`
	RoomId         int    `json:"roomId"`
	SeatNumber     string `json:"seatNumber"`
	Type           string `json:"type"`
	HasWindow      bool   `json:"hasWindow"`
	HasPowerOutlet bool   `json:"hasPowerOutlet"`
	HasLamp        bool   `json:"hasLamp"`
	Status         string `json:"status"`
}

type SeatsResponse struct {
	Seats    []SeatResponse `json:"seats"`
	Metadata Metadata       `json:"metadata"`
}

type SeatStatusRequest struct {
	Status string `json:"status" validate:"required,seat_status"`
}

type SeatStatusResponse struct {
	SeatId int    `json:"seatId"`
	Status string `json:"status"`
}

type SeatTransitionResponse struct {
	SeatId  int    `json:"seatId"`
	Changed bool   `json:"changed"`
	Status  string `json:"status"`
}

// WindowParams carry a [start, end) window given as RFC 3339 query values.
type WindowParams struct {
	Start     time.Time `validate:"required"`
	End       time.Time `validate:"required"`
	ExcludeId int       `validate:"min=0"`
}

type ConflictCheckResponse struct {
	SeatId    int       `json:"seatId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Conflict  bool      `json:"conflict"`
}

type CostQuoteResponse struct {
	SeatId    int       `json:"seatId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Amount    string    `json:"amount"`
}

type StatisticsResponse struct {
	Statistics map[string]string `json:"statistics"`
}

type CheckoutSessionResponse struct {
	RedirectUrl string `json:"redirectUrl"`
}
