package mysql

import (
	"context"
	"errors"

	"loan-ledger/internal/domain/ledger"

	"gorm.io/gorm"
)

// EventRepository only inserts and reads; loan_events rows are never updated
// or deleted through it.
type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Append(ctx context.Context, e *ledger.LoanEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) ListByLoan(ctx context.Context, loanID string) ([]ledger.LoanEvent, error) {
	var out []ledger.LoanEvent
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("sequence ASC").
		Find(&out).Error
	return out, err
}

func (r *EventRepository) ListByLoanAndType(ctx context.Context, loanID string, t ledger.EventType) ([]ledger.LoanEvent, error) {
	var out []ledger.LoanEvent
	err := r.db.WithContext(ctx).
		Where("loan_id = ? AND event_type = ?", loanID, t).
		Order("sequence ASC").
		Find(&out).Error
	return out, err
}

func (r *EventRepository) CountByLoan(ctx context.Context, loanID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&ledger.LoanEvent{}).Where("loan_id = ?", loanID).Count(&n).Error
	return n, err
}

func (r *EventRepository) Last(ctx context.Context, loanID string) (*ledger.LoanEvent, error) {
	var out ledger.LoanEvent
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("sequence DESC").
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
