package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	headerRequestID = "Ax-Request-Id"
	headerRequestAt = "Ax-Request-At"
)

var (
	reRequestUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reRequestHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

func fingerprint(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// replayKey scopes a request id to the concrete request path (loan id
// included) and the caller that sent it.
func replayKey(method, path, caller, requestID string) string {
	return strings.Join([]string{"idem", strings.ToLower(method), path, caller, requestID}, ":")
}

// validRequestID accepts lowercase uuids (v1-v5) and 32 lowercase hex chars.
func validRequestID(id string) bool {
	return reRequestUUID.MatchString(id) || reRequestHex32.MatchString(id)
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339 with a zone.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + headerRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(headerRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

type requestStamp struct {
	ID string
	At time.Time
}

// readStamp validates the idempotency headers against now.
func readStamp(h http.Header, now time.Time) (requestStamp, error) {
	id := strings.TrimSpace(h.Get(headerRequestID))
	if id == "" {
		return requestStamp{}, errors.New("missing " + headerRequestID)
	}
	if !validRequestID(id) {
		return requestStamp{}, errors.New("invalid " + headerRequestID + " format")
	}
	at, err := parseRequestAt(h.Get(headerRequestAt))
	if err != nil {
		return requestStamp{}, err
	}
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return requestStamp{}, errors.New(headerRequestAt + " too skewed")
	}
	return requestStamp{ID: id, At: at}, nil
}

type replayEntry struct {
	Pending     bool      `json:"pending"`
	Status      int       `json:"status"`
	Response    []byte    `json:"response"`
	Fingerprint string    `json:"fingerprint"`
	RequestID   string    `json:"request_id"`
	RequestAt   time.Time `json:"request_at"`
	StoredAt    time.Time `json:"stored_at"`
}

func (e replayEntry) replayable() bool {
	return !e.Pending && e.Status != 0 && len(e.Response) > 0
}

// replayStore keeps one entry per replay key. A claim holds the key for
// pendingTTL; finish overwrites it with the response for ttl.
type replayStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func (s replayStore) claim(ctx context.Context, key string, e replayEntry) (bool, error) {
	e.Pending = true
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, pendingTTL).Result()
}

func (s replayStore) load(ctx context.Context, key string) (replayEntry, error) {
	var e replayEntry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

func (s replayStore) finish(ctx context.Context, key string, e replayEntry) error {
	e.Pending = false
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}
