package http

import (
	"net/http"

	"loan-ledger/internal/usecase/document"
	"loan-ledger/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

// LedgerHandler serves the event history and the document proofs kept in it.
type LedgerHandler struct {
	responder
	events *ledger.Usecase
	docs   *document.Usecase
}

func NewLedgerHandler(events *ledger.Usecase, docs *document.Usecase, rej RejectionCounter) *LedgerHandler {
	return &LedgerHandler{responder: responder{rej: rej}, events: events, docs: docs}
}

type submitDocumentReq struct {
	Hash         string `json:"hash"          validate:"bytes32"`
	DocumentType string `json:"document_type" validate:"required"`
}

func (h *LedgerHandler) ListEvents(c echo.Context) error {
	out, err := h.events.Events(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LedgerHandler) CountEvents(c echo.Context) error {
	n, err := h.events.Count(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": n})
}

func (h *LedgerHandler) VerifyEvents(c echo.Context) error {
	res, err := h.events.Verify(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LedgerHandler) SubmitDocument(c echo.Context) error {
	var req submitDocumentReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	ev, err := h.docs.Record(c.Request().Context(), caller(c), c.Param("loan_id"), req.Hash, req.DocumentType)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, ev)
}

func (h *LedgerHandler) ListDocuments(c echo.Context) error {
	out, err := h.docs.List(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
