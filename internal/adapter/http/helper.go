package http

import (
	"errors"
	"log/slog"
	"net/http"

	"loan-ledger/internal/adapter/middleware"
	"loan-ledger/pkg/failure"

	"github.com/labstack/echo/v4"
)

// RejectionCounter observes every rejected call by failure code.
type RejectionCounter interface {
	IncrementRejections(code string)
}

// responder renders results and errors the same way for every handler.
type responder struct{ rej RejectionCounter }

func statusOf(code failure.Code) int {
	switch code {
	case failure.CodeAuthorization:
		return http.StatusForbidden
	case failure.CodeNotFound:
		return http.StatusNotFound
	case failure.CodeInvalidInput:
		return http.StatusBadRequest
	case failure.CodeInvalidState, failure.CodeDuplicate:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (r responder) count(code failure.Code) {
	if r.rej != nil {
		r.rej.IncrementRejections(string(code))
	}
}

func (r responder) fail(c echo.Context, err error) error {
	code := failure.CodeOf(err)
	r.count(code)
	if code == failure.CodeInternal {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: string(code)})
	}
	msg := err.Error()
	var fe *failure.Error
	if errors.As(err, &fe) {
		msg = fe.Message
	}
	return c.JSON(statusOf(code), ErrorResponse{Error: msg, Code: string(code)})
}

func (r responder) badRequest(c echo.Context, msg string) error {
	r.count(failure.CodeInvalidInput)
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: string(failure.CodeInvalidInput)})
}

// bind decodes and validates the body. It writes the error response itself
// and reports whether the handler should continue.
func (r responder) bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, r.badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		r.count(failure.CodeInvalidInput)
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    string(failure.CodeInvalidInput),
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func caller(c echo.Context) string { return middleware.Principal(c) }
