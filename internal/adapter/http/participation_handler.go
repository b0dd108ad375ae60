package http

import (
	"net/http"

	"loan-ledger/internal/usecase/participation"

	"github.com/labstack/echo/v4"
)

type ParticipationHandler struct {
	responder
	uc *participation.Usecase
}

func NewParticipationHandler(uc *participation.Usecase, rej RejectionCounter) *ParticipationHandler {
	return &ParticipationHandler{responder: responder{rej: rej}, uc: uc}
}

type recordParticipationReq struct {
	Lender   string `json:"lender"    validate:"principal"`
	Amount   int64  `json:"amount"    validate:"gt=0"`
	ShareBps int    `json:"share_bps" validate:"gt=0,lte=10000"`
}

type transferReq struct {
	From   string `json:"from"   validate:"principal"`
	To     string `json:"to"     validate:"principal"`
	Amount int64  `json:"amount" validate:"gt=0"`
}

func (h *ParticipationHandler) Record(c echo.Context) error {
	var req recordParticipationReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	p, err := h.uc.Record(c.Request().Context(), caller(c), c.Param("loan_id"), participation.RecordInput(req))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ParticipationHandler) RecordTransfer(c echo.Context) error {
	var req transferReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	ev, err := h.uc.RecordTransfer(c.Request().Context(), caller(c), c.Param("loan_id"), participation.TransferInput(req))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, ev)
}

func (h *ParticipationHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Standing answers isLender, isParticipant and the role query in one call.
func (h *ParticipationHandler) Standing(c echo.Context) error {
	s, err := h.uc.Standing(c.Request().Context(), c.Param("loan_id"), c.Param("principal"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
