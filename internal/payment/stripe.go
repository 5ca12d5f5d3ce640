package payment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// Metadata keys attached to every checkout session. The webhook reads the
// reservation back from them.
const (
	MetadataReservationID   = "reservation_id"
	MetadataReservationCode = "reservation_code"
	MetadataSeatID          = "seat_id"
	MetadataUserID          = "user_id"
)

// Method is recorded as the payment method of reservations paid through a
// checkout session.
const Method = "stripe"

type StripePaymentProvider struct {
	failureUrl string
	successUrl string
	currency   string
}

func NewStripePaymentProvider(failureUrl, successUrl, currency string) *StripePaymentProvider {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	return &StripePaymentProvider{
		failureUrl: failureUrl,
		successUrl: successUrl,
		currency:   strings.ToLower(currency),
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	reservation *domain.Reservation,
	seat *domain.Seat) (*stripe.CheckoutSession, error) {

	return session.New(s.checkoutParams(reservation, seat))
}

func (s *StripePaymentProvider) checkoutParams(
	reservation *domain.Reservation,
	seat *domain.Seat) *stripe.CheckoutSessionParams {

	lineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(s.currency),
			UnitAmount: stripe.Int64(amountInCents(reservation.TotalAmount)),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(fmt.Sprintf("Seat %s (%s)", seat.SeatNumber, seat.Type)),
				Description: stripe.String(fmt.Sprintf(
					"Reservation %s • %s - %s",
					reservation.Code,
					reservation.StartTime.Format("Jan 2, 2006 15:04"),
					reservation.EndTime.Format("15:04"),
				)),
			},
		},
		Quantity: stripe.Int64(1),
	}

	return &stripe.CheckoutSessionParams{
		LineItems:  []*stripe.CheckoutSessionLineItemParams{lineItem},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			MetadataReservationID:   strconv.Itoa(reservation.ID),
			MetadataReservationCode: reservation.Code,
			MetadataSeatID:          strconv.Itoa(seat.ID),
			MetadataUserID:          strconv.Itoa(reservation.UserID),
		},
		ClientReferenceID: stripe.String(reservation.Code),
	}
}

func amountInCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
