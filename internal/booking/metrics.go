package booking

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/metinatakli/study-room-reservation-system/internal/booking"

type metrics struct {
	created     metric.Int64Counter
	conflicts   metric.Int64Counter
	transitions metric.Int64Counter
	swept       metric.Int64Counter
}

// newMetrics registers the engine counters on the global meter provider,
// which is a no-op until telemetry is initialised.
func newMetrics() *metrics {
	meter := otel.Meter(instrumentationName)

	return &metrics{
		created:     counter(meter, "reservations.created", "Reservations created"),
		conflicts:   counter(meter, "reservations.conflicts", "Booking attempts rejected by a time conflict"),
		transitions: counter(meter, "reservations.transitions", "Lifecycle transitions applied"),
		swept:       counter(meter, "reservations.swept", "Reservations closed by the expiry sweeper"),
	}
}

func counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return noop.Int64Counter{}
	}

	return c
}

func (m *metrics) transition(ctx context.Context, name string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("transition", name)))
}

func (m *metrics) sweep(ctx context.Context, outcome string, n int) {
	if n == 0 {
		return
	}

	m.swept.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
}
