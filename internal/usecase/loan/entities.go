package loan

import (
	"time"

	"loan-ledger/internal/domain/loan"
)

type CreateLoanInput struct {
	FacilityName   string `json:"facility_name"`
	FacilityAmount int64  `json:"facility_amount"`
	Borrower       string `json:"borrower"`
}

type LoanDTO struct {
	LoanID            string    `json:"loan_id"`
	FacilityName      string    `json:"facility_name"`
	FacilityAmount    int64     `json:"facility_amount"`
	Stage             string    `json:"stage"`
	ESGClassification string    `json:"esg_classification"`
	Agent             string    `json:"agent"`
	Borrower          string    `json:"borrower"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	StageUpdatedAt    time.Time `json:"stage_updated_at"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:            l.LoanID,
		FacilityName:      l.FacilityName,
		FacilityAmount:    l.FacilityAmount,
		Stage:             string(l.Stage),
		ESGClassification: string(l.ESG),
		Agent:             l.AgentID,
		Borrower:          l.BorrowerID,
		IsActive:          l.IsActive,
		CreatedAt:         l.CreatedAt,
		StageUpdatedAt:    l.StageUpdatedAt,
	}
}
