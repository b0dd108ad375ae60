package mysql

import (
	"context"

	"loan-ledger/internal/domain/covenant"

	"gorm.io/gorm"
)

type CovenantRepository struct{ db *gorm.DB }

func NewCovenantRepository(db *gorm.DB) *CovenantRepository { return &CovenantRepository{db: db} }

func (r *CovenantRepository) Create(ctx context.Context, c *covenant.Covenant) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CovenantRepository) ListByLoan(ctx context.Context, loanID string) ([]covenant.Covenant, error) {
	var out []covenant.Covenant
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("position ASC").Find(&out).Error
	return out, err
}

func (r *CovenantRepository) CountByLoan(ctx context.Context, loanID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&covenant.Covenant{}).Where("loan_id = ?", loanID).Count(&n).Error
	return n, err
}

func (r *CovenantRepository) GetByIndex(ctx context.Context, loanID string, index int) (*covenant.Covenant, error) {
	var out covenant.Covenant
	res := r.db.WithContext(ctx).Where("loan_id = ? AND position = ?", loanID, index).First(&out)
	return &out, res.Error
}

func (r *CovenantRepository) Save(ctx context.Context, c *covenant.Covenant) error {
	return r.db.WithContext(ctx).Save(c).Error
}
