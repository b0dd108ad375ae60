package participation

import "time"

// MaxShareBps is 100% expressed in basis points.
const MaxShareBps = 10_000

type Participation struct {
	ID       uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID   string    `gorm:"size:32;not null;index:idx_participations_loan_lender,priority:1" json:"loan_id"`
	LenderID string    `gorm:"size:66;not null;index:idx_participations_loan_lender,priority:2" json:"lender"`
	Amount   int64     `gorm:"not null" json:"amount"`
	ShareBps int       `gorm:"not null" json:"share_bps"`
	JoinedAt time.Time `gorm:"precision:6" json:"joined_at"`
	IsActive bool      `gorm:"not null" json:"is_active"`
}

func (Participation) TableName() string { return "participations" }
