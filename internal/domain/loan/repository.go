package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate loads the loan holding its row lock until the
	// surrounding transaction ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	Count(ctx context.Context) (int64, error)
	// GetAtIndex returns the loan at a zero-based creation-order position.
	GetAtIndex(ctx context.Context, index int) (*Loan, error)
}
