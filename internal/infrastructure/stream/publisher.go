// Package stream publishes ledger notifications to a Redis stream so
// subscribers consume them at their own pace.
package stream

import (
	"context"
	"encoding/json"
	"time"

	"loan-ledger/internal/domain/ledger"

	"github.com/redis/go-redis/v9"
)

// maxLen caps the stream; older entries are trimmed approximately.
const maxLen = 100_000

type RedisPublisher struct {
	rdb    *redis.Client
	stream string
}

func NewRedisPublisher(rdb *redis.Client, stream string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, stream: stream}
}

func (p *RedisPublisher) Publish(ctx context.Context, n ledger.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: maxLen,
		Approx: true,
		Values: map[string]any{
			"type":      n.Type,
			"loan_id":   n.LoanID,
			"actor":     n.Actor,
			"timestamp": n.Timestamp.UTC().Format(time.RFC3339Nano),
			"payload":   string(payload),
		},
	}).Err()
}

// Decode turns a stream entry back into a notification.
func Decode(msg redis.XMessage) (ledger.Notification, error) {
	var n ledger.Notification
	str := func(k string) string {
		v, _ := msg.Values[k].(string)
		return v
	}
	n.Type = str("type")
	n.LoanID = str("loan_id")
	n.Actor = str("actor")
	if ts := str("timestamp"); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return n, err
		}
		n.Timestamp = t
	}
	if raw := str("payload"); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &n.Payload); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Multi fans a notification out to several publishers and returns the first error.
type Multi []ledger.Publisher

func (m Multi) Publish(ctx context.Context, n ledger.Notification) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
