package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per request, at a level chosen by status.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			attrs := []any{
				"status", status,
				"method", req.Method,
				"path", c.Path(),
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", c.RealIP(),
			}
			if p := Principal(c); p != "" {
				attrs = append(attrs, "principal", p)
			}

			switch {
			case status >= 500:
				slog.ErrorContext(req.Context(), "request completed", attrs...)
			case status >= 400:
				slog.WarnContext(req.Context(), "request completed", attrs...)
			default:
				slog.InfoContext(req.Context(), "request completed", attrs...)
			}
			return nil
		}
	}
}
