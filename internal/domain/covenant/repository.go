package covenant

import "context"

type Repository interface {
	Create(ctx context.Context, c *Covenant) error
	ListByLoan(ctx context.Context, loanID string) ([]Covenant, error)
	CountByLoan(ctx context.Context, loanID string) (int64, error)
	GetByIndex(ctx context.Context, loanID string, index int) (*Covenant, error)
	Save(ctx context.Context, c *Covenant) error
}
