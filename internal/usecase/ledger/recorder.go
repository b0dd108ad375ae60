package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/pkg/failure"
)

// Append writes d at the tail of loanID's history. It must run inside the
// unit of work that holds the loan, so sequence numbers cannot race.
func Append(ctx context.Context, repo ledger.Repository, loanID string, d ledger.Draft, at time.Time) (*ledger.LoanEvent, error) {
	last, err := repo.Last(ctx, loanID)
	if err != nil {
		return nil, failure.Wrap(err, failure.CodeInternal, "read ledger tail")
	}
	var seq uint64 = 1
	prev := ""
	if last != nil {
		seq = last.Sequence + 1
		prev = last.Hash
	}

	e := &ledger.LoanEvent{
		EventID:      ledger.EventID(loanID, d.Type, seq),
		LoanID:       loanID,
		Sequence:     seq,
		Type:         d.Type,
		FromStage:    d.FromStage,
		ToStage:      d.ToStage,
		Actor:        d.Actor,
		OccurredAt:   ledger.Stamp(at),
		DocumentHash: d.DocumentHash,
		Metadata:     d.Metadata,
		PrevHash:     prev,
	}
	e.Hash = ledger.ComputeHash(e)
	if err := repo.Append(ctx, e); err != nil {
		return nil, failure.Wrap(err, failure.CodeInternal, "append ledger event")
	}
	return e, nil
}

// Meta renders event metadata as a JSON object with sorted keys.
func Meta(kv map[string]any) string {
	b, err := json.Marshal(kv)
	if err != nil {
		return ""
	}
	return string(b)
}

// Dispatcher hands committed events to the publisher. Failures are logged;
// the caller's result never depends on them.
type Dispatcher struct{ pub ledger.Publisher }

func NewDispatcher(pub ledger.Publisher) *Dispatcher { return &Dispatcher{pub: pub} }

func (d *Dispatcher) Dispatch(ctx context.Context, notes ...ledger.Notification) {
	if d == nil || d.pub == nil {
		return
	}
	for _, n := range notes {
		if err := d.pub.Publish(ctx, n); err != nil {
			slog.WarnContext(ctx, "ledger: notification not delivered",
				"type", n.Type, "loan_id", n.LoanID, "err", err)
		}
	}
}

// Events converts committed events to notifications.
func (d *Dispatcher) Events(ctx context.Context, events ...*ledger.LoanEvent) {
	notes := make([]ledger.Notification, 0, len(events))
	for _, e := range events {
		notes = append(notes, ledger.FromEvent(e))
	}
	d.Dispatch(ctx, notes...)
}
