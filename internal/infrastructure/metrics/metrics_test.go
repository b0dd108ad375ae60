package metrics

import (
	"context"
	"testing"

	"loan-ledger/internal/domain/ledger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPublisher_CountsByType(t *testing.T) {
	m := New(prometheus.NewRegistry())
	pub := m.Publisher()

	for _, typ := range []string{"LOAN_CREATED", "STAGE_TRANSITION", "STAGE_TRANSITION"} {
		if err := pub.Publish(context.Background(), ledger.Notification{Type: typ}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if got := testutil.ToFloat64(m.EventsTotal.WithLabelValues("STAGE_TRANSITION")); got != 2 {
		t.Fatalf("STAGE_TRANSITION = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EventsTotal.WithLabelValues("LOAN_CREATED")); got != 1 {
		t.Fatalf("LOAN_CREATED = %v, want 1", got)
	}
}

func TestIncrementRejections(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.IncrementRejections("authorization")
	m.IncrementRejections("authorization")
	if got := testutil.ToFloat64(m.RejectionsTotal.WithLabelValues("authorization")); got != 2 {
		t.Fatalf("rejections = %v, want 2", got)
	}
}
