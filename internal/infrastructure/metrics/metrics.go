package metrics

import (
	"context"

	"loan-ledger/internal/domain/ledger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the ledger service.
type Metrics struct {
	EventsTotal     *prometheus.CounterVec
	RejectionsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_ledger_events_total",
			Help: "Notifications emitted for committed ledger events, by type",
		}, []string{"type"}),
		RejectionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_ledger_rejections_total",
			Help: "Rejected calls, by error code",
		}, []string{"code"}),
	}
}

func (m *Metrics) IncrementRejections(code string) {
	m.RejectionsTotal.WithLabelValues(code).Inc()
}

// Publisher counts every notification it sees. It never fails.
func (m *Metrics) Publisher() ledger.Publisher { return counting{m} }

type counting struct{ m *Metrics }

func (c counting) Publish(_ context.Context, n ledger.Notification) error {
	c.m.EventsTotal.WithLabelValues(n.Type).Inc()
	return nil
}
