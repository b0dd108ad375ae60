package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	pendingTTL   = 60 * time.Second
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

type teeWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func reject(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, map[string]string{"error": msg, "code": code})
}

// Idempotency makes mutating requests replayable. Each one must carry
// Ax-Request-Id and Ax-Request-At; a repeat of the same id by the same
// principal on the same path gets the stored response back without running
// the handler. It must run after Identity.
func Idempotency(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	store := replayStore{rdb: rdb, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			stamp, err := readStamp(req.Header, time.Now().UTC())
			if err != nil {
				return reject(c, http.StatusBadRequest, "invalid_input", err.Error())
			}
			caller := Principal(c)
			if caller == "" {
				return reject(c, http.StatusUnauthorized, "authorization", "caller identity is required")
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := replayKey(req.Method, req.URL.Path, caller, stamp.ID)
			entry := replayEntry{
				Fingerprint: fingerprint(body),
				RequestID:   stamp.ID,
				RequestAt:   stamp.At,
				StoredAt:    time.Now().UTC(),
			}

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			claimed, err := store.claim(ctx, key, entry)
			if err != nil {
				slog.ErrorContext(ctx, "idempotency: claim failed", "key", key, "err", err)
				return reject(c, http.StatusServiceUnavailable, "unavailable", "idempotency store unavailable")
			}
			if !claimed {
				prev, err := store.load(ctx, key)
				if err != nil {
					slog.WarnContext(ctx, "idempotency: load failed", "key", key, "err", err)
				}
				if prev.Fingerprint != "" && prev.Fingerprint != entry.Fingerprint {
					return reject(c, http.StatusConflict, "duplicate", headerRequestID+" reused with different body")
				}
				if prev.replayable() {
					return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Response)
				}
				return reject(c, http.StatusConflict, "duplicate", "request is already in progress")
			}

			tee := &teeWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = tee
			if err := next(c); err != nil {
				c.Error(err)
			}

			entry.Status = tee.status
			entry.Response = tee.buf.Bytes()
			entry.StoredAt = time.Now().UTC()
			if err := store.finish(context.WithoutCancel(req.Context()), key, entry); err != nil {
				slog.WarnContext(req.Context(), "idempotency: store response failed", "key", key, "err", err)
			}
			return nil
		}
	}
}
