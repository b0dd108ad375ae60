package mysql

import (
	"context"

	"loan-ledger/internal/domain/participation"

	"gorm.io/gorm"
)

type ParticipationRepository struct{ db *gorm.DB }

func NewParticipationRepository(db *gorm.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

func (r *ParticipationRepository) Create(ctx context.Context, p *participation.Participation) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ParticipationRepository) ListByLoan(ctx context.Context, loanID string) ([]participation.Participation, error) {
	var out []participation.Participation
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *ParticipationRepository) HasActive(ctx context.Context, loanID, lenderID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&participation.Participation{}).
		Where("loan_id = ? AND lender_id = ? AND is_active = ?", loanID, lenderID, true).
		Count(&n).Error
	return n > 0, err
}

func (r *ParticipationRepository) ActiveShareBps(ctx context.Context, loanID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&participation.Participation{}).
		Select("COALESCE(SUM(share_bps), 0)").
		Where("loan_id = ? AND is_active = ?", loanID, true).
		Scan(&total).Error
	return total, err
}
