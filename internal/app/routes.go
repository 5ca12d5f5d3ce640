package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/study-room-reservation-system/internal/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(middleware.NotFoundHandler)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger(app.logger))
	r.Use(middleware.RecoverPanic(app.logger))

	r.Get("/healthcheck", app.health.GetHealth)

	r.Route("/reservations", func(r chi.Router) {
		r.Post("/", app.CreateReservationHandler)
		r.Get("/active", app.GetActiveReservationsHandler)
		r.Get("/today", app.GetTodayReservationsHandler)
		r.Get("/expiring", app.GetExpiringReservationsHandler)
		r.Get("/expired-unpaid", app.GetExpiredUnpaidReservationsHandler)
		r.Get("/code/{code}", app.GetReservationByCodeHandler)
		r.Post("/sweep", app.SweepReservationsHandler)

		r.Route("/{reservationId}", func(r chi.Router) {
			r.Get("/", app.GetReservationHandler)
			r.Put("/", app.UpdateReservationHandler)
			r.Post("/pay", app.PayReservationHandler)
			r.Post("/check-in", app.CheckInHandler)
			r.Post("/check-out", app.CheckOutHandler)
			r.Post("/cancel", app.CancelReservationHandler)
			r.Post("/extend", app.ExtendReservationHandler)
			r.Post("/refund", app.RefundReservationHandler)
		})
	})

	r.Route("/seats/{seatId}", func(r chi.Router) {
		r.Get("/", app.GetSeatHandler)
		r.Get("/status", app.GetSeatStatusHandler)
		r.Put("/status", app.SetSeatStatusHandler)
		r.Post("/occupy", app.OccupySeatHandler)
		r.Post("/release", app.ReleaseSeatHandler)
		r.Post("/reserve", app.ReserveSeatHandler)
		r.Post("/cancel-hold", app.CancelSeatHoldHandler)
		r.Get("/reservations", app.GetReservationsOfSeatHandler)
		r.Get("/conflicts", app.CheckConflictHandler)
		r.Get("/quote", app.QuoteCostHandler)
	})

	r.Get("/rooms/{roomId}/seats", app.GetSeatsOfRoomHandler)
	r.Get("/users/{userId}/reservations", app.GetReservationsOfUserHandler)

	r.Route("/statistics", func(r chi.Router) {
		r.Get("/users/{userId}", app.GetUserStatisticsHandler)
		r.Get("/seats/{seatId}", app.GetSeatStatisticsHandler)
		r.Get("/system", app.GetSystemStatisticsHandler)
		r.Get("/revenue", app.GetRevenueHandler)
	})

	r.Post("/checkout/{reservationId}", app.CreateCheckoutSessionHandler)
	r.Post("/webhook", app.StripeWebhookHandler)

	return r
}
