package ledger

import (
	"time"

	"loan-ledger/internal/domain/loan"
)

type EventType string

const (
	EventLoanCreated           EventType = "LOAN_CREATED"
	EventStageTransition       EventType = "STAGE_TRANSITION"
	EventAmendmentInitiated    EventType = "AMENDMENT_INITIATED"
	EventLoanMatured           EventType = "LOAN_MATURED"
	EventDocumentSubmitted     EventType = "DOCUMENT_SUBMITTED"
	EventParticipationRecorded EventType = "PARTICIPATION_RECORDED"
	EventParticipationTransfer EventType = "PARTICIPATION_TRANSFER"
	EventCovenantDefined       EventType = "COVENANT_DEFINED"
	EventCovenantBreached      EventType = "COVENANT_BREACHED"
	EventCovenantAtRisk        EventType = "COVENANT_AT_RISK"
	EventCovenantCompliant     EventType = "COVENANT_COMPLIANT"
	EventESGClassificationSet  EventType = "ESG_CLASSIFICATION_SET"
	EventESGReportSubmitted    EventType = "ESG_REPORT_SUBMITTED"
)

// LoanEvent is one immutable entry of a loan's history. Sequence is 1-based
// per loan and Hash chains each entry to the one before it.
type LoanEvent struct {
	ID           uint64     `gorm:"primaryKey;column:id" json:"-"`
	EventID      string     `gorm:"size:32;uniqueIndex:ux_loan_events_event_id" json:"event_id"`
	LoanID       string     `gorm:"size:32;not null;uniqueIndex:ux_loan_events_loan_seq,priority:1" json:"loan_id"`
	Sequence     uint64     `gorm:"not null;uniqueIndex:ux_loan_events_loan_seq,priority:2" json:"sequence"`
	Type         EventType  `gorm:"column:event_type;size:40;not null" json:"event_type"`
	FromStage    loan.Stage `gorm:"size:32;not null" json:"from_stage"`
	ToStage      loan.Stage `gorm:"size:32;not null" json:"to_stage"`
	Actor        string     `gorm:"size:66;not null" json:"actor"`
	OccurredAt   time.Time  `gorm:"precision:6;not null" json:"timestamp"`
	DocumentHash string     `gorm:"size:66" json:"document_hash,omitempty"`
	Metadata     string     `gorm:"type:text" json:"metadata,omitempty"`
	PrevHash     string     `gorm:"size:64" json:"prev_hash"`
	Hash         string     `gorm:"size:64;not null" json:"hash"`
}

func (LoanEvent) TableName() string { return "loan_events" }

// Draft is what a component hands to the ledger; the ledger fills in
// identity, ordering and the chain.
type Draft struct {
	Type         EventType
	FromStage    loan.Stage
	ToStage      loan.Stage
	Actor        string
	DocumentHash string
	Metadata     string
}
