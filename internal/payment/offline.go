package payment

import (
	"net/url"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/stripe/stripe-go/v82"
)

// OfflinePaymentProvider stands in for Stripe when no secret key is
// configured. Its sessions point straight at the success page; payment is then
// recorded at the front desk through the pay endpoint.
type OfflinePaymentProvider struct {
	successUrl string
}

func NewOfflinePaymentProvider(successUrl string) *OfflinePaymentProvider {
	return &OfflinePaymentProvider{
		successUrl: successUrl,
	}
}

func (o *OfflinePaymentProvider) CreateCheckoutSession(
	reservation *domain.Reservation,
	seat *domain.Seat) (*stripe.CheckoutSession, error) {

	redirect, err := url.Parse(o.successUrl)
	if err != nil {
		return nil, err
	}

	query := redirect.Query()
	query.Set(MetadataReservationCode, reservation.Code)
	redirect.RawQuery = query.Encode()

	return &stripe.CheckoutSession{
		ID:                "offline_" + reservation.Code,
		URL:               redirect.String(),
		ClientReferenceID: reservation.Code,
		Metadata: map[string]string{
			MetadataReservationCode: reservation.Code,
		},
	}, nil
}
