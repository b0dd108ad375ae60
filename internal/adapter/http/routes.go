package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health         *Handler
	Principals     *PrincipalHandler
	Loans          *LoanHandler
	Ledger         *LedgerHandler
	Participations *ParticipationHandler
	Covenants      *CovenantHandler
	ESG            *ESGHandler
}

// RegisterRoutes mounts the API. mw wraps everything except /health; the
// identity middleware must come first.
func RegisterRoutes(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	api := routeGroup{e: e, mw: mw}

	api.POST("/principals/agents", h.Principals.RegisterAgent)
	api.DELETE("/principals/agents/:principal", h.Principals.UnregisterAgent)
	api.GET("/principals/agents/:principal", h.Principals.IsAgent)

	api.POST("/loans", h.Loans.CreateLoan)
	api.GET("/loans/count", h.Loans.CountLoans)
	api.GET("/loans/index/:index", h.Loans.LoanAtIndex)
	api.GET("/loans/:loan_id", h.Loans.GetLoan)
	api.POST("/loans/:loan_id/advance", h.Loans.AdvanceStage)
	api.POST("/loans/:loan_id/amendment", h.Loans.InitiateAmendment)
	api.POST("/loans/:loan_id/mature", h.Loans.Mature)

	api.GET("/loans/:loan_id/events", h.Ledger.ListEvents)
	api.GET("/loans/:loan_id/events/count", h.Ledger.CountEvents)
	api.GET("/loans/:loan_id/events/verify", h.Ledger.VerifyEvents)
	api.POST("/loans/:loan_id/documents", h.Ledger.SubmitDocument)
	api.GET("/loans/:loan_id/documents", h.Ledger.ListDocuments)

	api.POST("/loans/:loan_id/participations", h.Participations.Record)
	api.GET("/loans/:loan_id/participations", h.Participations.List)
	api.POST("/loans/:loan_id/transfers", h.Participations.RecordTransfer)
	api.GET("/loans/:loan_id/participants/:principal", h.Participations.Standing)

	api.POST("/loans/:loan_id/covenants", h.Covenants.Define)
	api.GET("/loans/:loan_id/covenants", h.Covenants.List)
	api.PUT("/loans/:loan_id/covenants/:index/status", h.Covenants.UpdateStatus)
	api.POST("/loans/:loan_id/covenants/:index/tests", h.Covenants.Test)

	api.PUT("/loans/:loan_id/esg", h.ESG.SetClassification)
	api.POST("/loans/:loan_id/esg/reports", h.ESG.RecordReport)
}

// routeGroup attaches mw at route level so unknown paths still 404.
type routeGroup struct {
	e  *echo.Echo
	mw []echo.MiddlewareFunc
}

func (g routeGroup) GET(path string, h echo.HandlerFunc)  { g.e.Add(http.MethodGet, path, h, g.mw...) }
func (g routeGroup) POST(path string, h echo.HandlerFunc) { g.e.Add(http.MethodPost, path, h, g.mw...) }
func (g routeGroup) PUT(path string, h echo.HandlerFunc)  { g.e.Add(http.MethodPut, path, h, g.mw...) }
func (g routeGroup) DELETE(path string, h echo.HandlerFunc) {
	g.e.Add(http.MethodDelete, path, h, g.mw...)
}
