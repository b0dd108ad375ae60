package http

import (
	"net/http"
	"strconv"

	"loan-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	responder
	uc *loan.Usecase
}

func NewLoanHandler(uc *loan.Usecase, rej RejectionCounter) *LoanHandler {
	return &LoanHandler{responder: responder{rej: rej}, uc: uc}
}

type createLoanReq struct {
	FacilityName   string `json:"facility_name"   validate:"required"`
	FacilityAmount int64  `json:"facility_amount" validate:"gt=0"`
	Borrower       string `json:"borrower"        validate:"principal"`
}

type advanceReq struct {
	Notes string `json:"notes"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), caller(c), loan.CreateLoanInput(req))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) CountLoans(c echo.Context) error {
	n, err := h.uc.Count(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": n})
}

func (h *LoanHandler) LoanAtIndex(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return h.badRequest(c, "index must be an integer")
	}
	id, err := h.uc.IDAtIndex(c.Request().Context(), index)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"index": index, "loan_id": id})
}

func (h *LoanHandler) AdvanceStage(c echo.Context) error {
	var req advanceReq
	// notes are optional; an empty body is fine
	if c.Request().ContentLength != 0 {
		if ok, err := h.bind(c, &req); !ok {
			return err
		}
	}
	dto, err := h.uc.AdvanceStage(c.Request().Context(), caller(c), c.Param("loan_id"), req.Notes)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) InitiateAmendment(c echo.Context) error {
	dto, err := h.uc.InitiateAmendment(c.Request().Context(), caller(c), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Mature(c echo.Context) error {
	dto, err := h.uc.Mature(c.Request().Context(), caller(c), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
