package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/metinatakli/study-room-reservation-system/api"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/metinatakli/study-room-reservation-system/internal/payment"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const maxWebhookBodyBytes = 65536

func (app *Application) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reservation, err := app.reservations.GetById(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	switch {
	case reservation.Status.IsTerminal():
		app.domainErrorResponse(w, r, domain.ErrAlreadyTerminal)
		return
	case reservation.PaymentStatus == domain.PaymentStatusPaid:
		app.domainErrorResponse(w, r, domain.ErrAlreadyPaid)
		return
	}

	seat, err := app.seats.GetSeat(r.Context(), reservation.SeatID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	checkoutSession, err := app.paymentProvider.CreateCheckoutSession(reservation, seat)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.logger.Info("checkout session created",
		"reservation_id", reservation.ID,
		"session_id", checkoutSession.ID)

	resp := api.CheckoutSessionResponse{
		RedirectUrl: checkoutSession.URL,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// StripeWebhookHandler marks a reservation PAID when its checkout session
// completes. Events that can never succeed are acknowledged so Stripe stops
// retrying them.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to read webhook body: %w", err))
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		r.Header.Get("Stripe-Signature"),
		app.config.Stripe.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		app.logger.Warn("rejected webhook", "error", err)
		app.errorResponse(w, r, http.StatusBadRequest, ErrWebhookSignature)
		return
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		w.WriteHeader(http.StatusOK)
		return
	}

	var checkoutSession stripe.CheckoutSession
	err = json.Unmarshal(event.Data.Raw, &checkoutSession)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed checkout session: %w", err))
		return
	}

	reservationId, err := strconv.Atoi(checkoutSession.Metadata[payment.MetadataReservationID])
	if err != nil {
		app.logger.Warn("checkout session without reservation", "session_id", checkoutSession.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	_, err = app.reservations.Pay(r.Context(), reservationId, payment.Method)
	switch {
	case err == nil:
		app.logger.Info("reservation paid through checkout",
			"reservation_id", reservationId,
			"session_id", checkoutSession.ID)
	case errors.Is(err, domain.ErrAlreadyPaid):
	case domain.Kind(err) != domain.KindUnknown:
		app.logger.Warn("checkout completed for a reservation that cannot be paid",
			"reservation_id", reservationId,
			"session_id", checkoutSession.ID,
			"error", err)
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
