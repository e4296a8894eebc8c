package storefront

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry records storefront events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// PrometheusTelemetry counts recorded events by name.
type PrometheusTelemetry struct {
	events *prometheus.CounterVec
}

// NewPrometheusTelemetry registers an event counter with the given registerer
// (prometheus.DefaultRegisterer when nil).
func NewPrometheusTelemetry(reg prometheus.Registerer) *PrometheusTelemetry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "events_total",
		Help:      "Storefront events recorded by name.",
	}, []string{"event"})
	reg.MustRegister(events)
	return &PrometheusTelemetry{events: events}
}

// Record increments the counter for the event name. Payloads are not exported
// as labels to keep cardinality bounded.
func (t *PrometheusTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.events.WithLabelValues(event).Inc()
}
