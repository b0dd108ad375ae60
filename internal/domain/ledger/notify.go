package ledger

import (
	"context"
	"strconv"
	"time"
)

// NotificationCovenantStatusChanged is published next to the ledger entry
// whenever a covenant test changes or confirms a status.
const NotificationCovenantStatusChanged = "COVENANT_STATUS_CHANGED"

// Notification is the structured message subscribers receive after commit.
type Notification struct {
	Type      string            `json:"type"`
	LoanID    string            `json:"loan_id"`
	Actor     string            `json:"actor"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   map[string]string `json:"payload,omitempty"`
}

// Publisher delivers notifications to external subscribers. Delivery is best
// effort: committed state never depends on it.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

func FromEvent(e *LoanEvent) Notification {
	p := map[string]string{
		"event_id":   e.EventID,
		"sequence":   strconv.FormatUint(e.Sequence, 10),
		"from_stage": string(e.FromStage),
		"to_stage":   string(e.ToStage),
		"hash":       e.Hash,
	}
	if e.DocumentHash != "" {
		p["document_hash"] = e.DocumentHash
	}
	if e.Metadata != "" {
		p["metadata"] = e.Metadata
	}
	return Notification{
		Type:      string(e.Type),
		LoanID:    e.LoanID,
		Actor:     e.Actor,
		Timestamp: e.OccurredAt,
		Payload:   p,
	}
}
