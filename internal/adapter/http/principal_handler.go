package http

import (
	"net/http"

	"loan-ledger/internal/usecase/principal"

	"github.com/labstack/echo/v4"
)

type PrincipalHandler struct {
	responder
	uc *principal.Usecase
}

func NewPrincipalHandler(uc *principal.Usecase, rej RejectionCounter) *PrincipalHandler {
	return &PrincipalHandler{responder: responder{rej: rej}, uc: uc}
}

type registerAgentReq struct {
	Principal string `json:"principal" validate:"principal"`
}

func (h *PrincipalHandler) RegisterAgent(c echo.Context) error {
	var req registerAgentReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	if err := h.uc.Register(c.Request().Context(), caller(c), req.Principal); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"principal": req.Principal, "registered": true})
}

func (h *PrincipalHandler) UnregisterAgent(c echo.Context) error {
	p := c.Param("principal")
	if err := h.uc.Unregister(c.Request().Context(), caller(c), p); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PrincipalHandler) IsAgent(c echo.Context) error {
	p := c.Param("principal")
	ok, err := h.uc.IsRegistered(c.Request().Context(), p)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"principal": p, "registered": ok})
}
