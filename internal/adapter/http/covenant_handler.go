package http

import (
	"net/http"
	"strconv"
	"time"

	domain "loan-ledger/internal/domain/covenant"
	"loan-ledger/internal/usecase/covenant"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CovenantHandler struct {
	responder
	uc *covenant.Usecase
}

func NewCovenantHandler(uc *covenant.Usecase, rej RejectionCounter) *CovenantHandler {
	return &CovenantHandler{responder: responder{rej: rej}, uc: uc}
}

type defineCovenantReq struct {
	Name      string `json:"name"      validate:"required"`
	Threshold string `json:"threshold" validate:"fixedpoint"`
	Operator  string `json:"operator"  validate:"oneof=LT LTE GT GTE EQ"`
	// Accept canonical date `YYYY-MM-DD`
	NextTestDate string `json:"next_test_date" validate:"required,datetime=2006-01-02"`
}

type covenantStatusReq struct {
	Status string `json:"status" validate:"oneof=Compliant AtRisk Breached"`
}

type covenantTestReq struct {
	Observed string `json:"observed" validate:"fixedpoint"`
}

func (h *CovenantHandler) Define(c echo.Context) error {
	var req defineCovenantReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	// both already passed validation
	threshold, _ := decimal.NewFromString(req.Threshold)
	next, _ := time.Parse(time.DateOnly, req.NextTestDate)

	cv, err := h.uc.Define(c.Request().Context(), caller(c), c.Param("loan_id"), covenant.DefineInput{
		Name:         req.Name,
		Threshold:    threshold,
		Operator:     domain.Operator(req.Operator),
		NextTestDate: next,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, cv)
}

func (h *CovenantHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CovenantHandler) UpdateStatus(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return h.badRequest(c, "index must be an integer")
	}
	var req covenantStatusReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	change, err := h.uc.UpdateStatus(c.Request().Context(), caller(c), c.Param("loan_id"), index, domain.Status(req.Status))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, change)
}

func (h *CovenantHandler) Test(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return h.badRequest(c, "index must be an integer")
	}
	var req covenantTestReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	observed, _ := decimal.NewFromString(req.Observed)
	change, err := h.uc.Test(c.Request().Context(), caller(c), c.Param("loan_id"), index, observed)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, change)
}
