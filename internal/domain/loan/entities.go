package loan

import (
	"time"
)

type Stage string

const (
	StageMandated           Stage = "Mandated"
	StageCreditApproved     Stage = "CreditApproved"
	StageDocumentation      Stage = "Documentation"
	StageCPPending          Stage = "CPPending"
	StageActive             Stage = "Active"
	StageCovenantMonitoring Stage = "CovenantMonitoring"
	StageAmendment          Stage = "Amendment"
	StageMatured            Stage = "Matured"
)

type ESGClassification string

const (
	ESGStandard             ESGClassification = "Standard"
	ESGGreen                ESGClassification = "Green"
	ESGSustainabilityLinked ESGClassification = "SustainabilityLinked"
	ESGSocial               ESGClassification = "Social"
)

func (c ESGClassification) Valid() bool {
	switch c {
	case ESGStandard, ESGGreen, ESGSustainabilityLinked, ESGSocial:
		return true
	}
	return false
}

type Loan struct {
	ID             uint64            `gorm:"primaryKey;column:id" json:"-"`
	LoanID         string            `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	FacilityName   string            `gorm:"size:255;not null" json:"facility_name"`
	FacilityAmount int64             `gorm:"not null" json:"facility_amount"`
	Stage          Stage             `gorm:"size:32;not null;default:'Mandated'" json:"stage"`
	ESG            ESGClassification `gorm:"column:esg_classification;size:32;not null;default:'Standard'" json:"esg_classification"`
	AgentID        string            `gorm:"size:66;not null;index:idx_loans_agent" json:"agent"`
	BorrowerID     string            `gorm:"size:66;not null;index:idx_loans_borrower" json:"borrower"`
	IsActive       bool              `gorm:"not null" json:"is_active"`
	StageUpdatedAt time.Time         `gorm:"precision:6" json:"stage_updated_at"`
	CreatedAt      time.Time         `gorm:"precision:6" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }
