package mocks

import (
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	reservation *domain.Reservation,
	seat *domain.Seat) (*stripe.CheckoutSession, error) {

	args := m.Called(reservation, seat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}
