package http

import (
	"net/http"

	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/usecase/esg"

	"github.com/labstack/echo/v4"
)

type ESGHandler struct {
	responder
	uc *esg.Usecase
}

func NewESGHandler(uc *esg.Usecase, rej RejectionCounter) *ESGHandler {
	return &ESGHandler{responder: responder{rej: rej}, uc: uc}
}

type classificationReq struct {
	Classification string `json:"classification" validate:"oneof=Standard Green SustainabilityLinked Social"`
}

type esgReportReq struct {
	ReportHash string `json:"report_hash" validate:"bytes32"`
	KPIName    string `json:"kpi_name"    validate:"required"`
}

func (h *ESGHandler) SetClassification(c echo.Context) error {
	var req classificationReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	ev, err := h.uc.SetClassification(c.Request().Context(), caller(c), c.Param("loan_id"), loan.ESGClassification(req.Classification))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *ESGHandler) RecordReport(c echo.Context) error {
	var req esgReportReq
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	ev, err := h.uc.RecordReport(c.Request().Context(), caller(c), c.Param("loan_id"), req.ReportHash, req.KPIName)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, ev)
}
