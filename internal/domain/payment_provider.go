package domain

import "github.com/stripe/stripe-go/v82"

type PaymentProvider interface {
	CreateCheckoutSession(reservation *Reservation, seat *Seat) (*stripe.CheckoutSession, error)
}
