package participation

import "context"

type Repository interface {
	Create(ctx context.Context, p *Participation) error
	ListByLoan(ctx context.Context, loanID string) ([]Participation, error)
	// HasActive reports whether lenderID holds an active position on the loan.
	HasActive(ctx context.Context, loanID, lenderID string) (bool, error)
	ActiveShareBps(ctx context.Context, loanID string) (int64, error)
}
