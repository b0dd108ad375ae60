package covenant

import (
	"time"

	"github.com/shopspring/decimal"
)

type Operator string

const (
	OpLT  Operator = "LT"
	OpLTE Operator = "LTE"
	OpGT  Operator = "GT"
	OpGTE Operator = "GTE"
	OpEQ  Operator = "EQ"
)

func (o Operator) Valid() bool {
	switch o {
	case OpLT, OpLTE, OpGT, OpGTE, OpEQ:
		return true
	}
	return false
}

type Status string

const (
	StatusCompliant Status = "Compliant"
	StatusAtRisk    Status = "AtRisk"
	StatusBreached  Status = "Breached"
)

func (s Status) Valid() bool {
	return s == StatusCompliant || s == StatusAtRisk || s == StatusBreached
}

// Covenant is a compliance rule on a loan. Index is its zero-based position
// among the loan's covenants, the handle status updates address it by.
type Covenant struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	CovenantID   string          `gorm:"size:32;uniqueIndex:ux_covenants_covenant_id" json:"covenant_id"`
	LoanID       string          `gorm:"size:32;not null;uniqueIndex:ux_covenants_loan_index,priority:1" json:"loan_id"`
	Index        int             `gorm:"column:position;not null;uniqueIndex:ux_covenants_loan_index,priority:2" json:"index"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Threshold    decimal.Decimal `gorm:"type:varchar(65);not null" json:"threshold"`
	Operator     Operator        `gorm:"size:3;not null" json:"operator"`
	Status       Status          `gorm:"size:16;not null" json:"status"`
	LastTestedAt *time.Time      `gorm:"precision:6" json:"last_test_date,omitempty"`
	NextTestDue  time.Time       `gorm:"precision:6" json:"next_test_date"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Covenant) TableName() string { return "covenants" }

// MaxThresholdDigits bounds a threshold. It is stored as its decimal string so
// values past 2^63 stay exact on every backing store.
const MaxThresholdDigits = 65

// Satisfied evaluates observed <operator> threshold.
func (c *Covenant) Satisfied(observed decimal.Decimal) bool {
	cmp := observed.Cmp(c.Threshold)
	switch c.Operator {
	case OpLT:
		return cmp < 0
	case OpLTE:
		return cmp <= 0
	case OpGT:
		return cmp > 0
	case OpGTE:
		return cmp >= 0
	case OpEQ:
		return cmp == 0
	}
	return false
}
