package ledger

import "context"

// Repository is append-only: there is no update or delete.
type Repository interface {
	Append(ctx context.Context, e *LoanEvent) error
	ListByLoan(ctx context.Context, loanID string) ([]LoanEvent, error)
	ListByLoanAndType(ctx context.Context, loanID string, t EventType) ([]LoanEvent, error)
	CountByLoan(ctx context.Context, loanID string) (int64, error)
	// Last returns the tail of the loan's history, or nil when it is empty.
	Last(ctx context.Context, loanID string) (*LoanEvent, error)
}
