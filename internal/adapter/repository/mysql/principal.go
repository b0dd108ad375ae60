package mysql

import (
	"context"

	"loan-ledger/internal/domain/principal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PrincipalRepository struct{ db *gorm.DB }

func NewPrincipalRepository(db *gorm.DB) *PrincipalRepository { return &PrincipalRepository{db: db} }

func (r *PrincipalRepository) Register(ctx context.Context, a *principal.Agent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "principal_id"}}, DoNothing: true}).
		Create(a).Error
}

func (r *PrincipalRepository) Unregister(ctx context.Context, principalID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("principal_id = ?", principalID).Delete(&principal.Agent{})
	return res.RowsAffected > 0, res.Error
}

func (r *PrincipalRepository) IsRegistered(ctx context.Context, principalID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&principal.Agent{}).Where("principal_id = ?", principalID).Count(&n).Error
	return n > 0, err
}

func (r *PrincipalRepository) Assign(ctx context.Context, ra *principal.RoleAssignment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ra).Error
}

func (r *PrincipalRepository) RolesOf(ctx context.Context, loanID, principalID string) ([]principal.Role, error) {
	var out []principal.Role
	err := r.db.WithContext(ctx).
		Model(&principal.RoleAssignment{}).
		Where("loan_id = ? AND principal_id = ?", loanID, principalID).
		Order("id ASC").
		Pluck("role", &out).Error
	return out, err
}
