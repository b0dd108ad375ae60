package ledger

import (
	"context"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/usecase/access"
)

// Usecase is the read side of the event ledger.
type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

type VerifyResult struct {
	LoanID   string `json:"loan_id"`
	Events   int    `json:"events"`
	Intact   bool   `json:"intact"`
	BrokenAt uint64 `json:"broken_at,omitempty"`
}

func (u *Usecase) Events(ctx context.Context, loanID string) ([]ledger.LoanEvent, error) {
	var out []ledger.LoanEvent
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByLoanID(ctx, loanID); err != nil {
			return err
		}
		var err error
		out, err = r.Events.ListByLoan(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}
	if out == nil {
		out = []ledger.LoanEvent{}
	}
	return out, nil
}

func (u *Usecase) Count(ctx context.Context, loanID string) (int64, error) {
	var n int64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByLoanID(ctx, loanID); err != nil {
			return err
		}
		var err error
		n, err = r.Events.CountByLoan(ctx, loanID)
		return err
	})
	return n, access.Translate(err)
}

// Verify recomputes the loan's hash chain.
func (u *Usecase) Verify(ctx context.Context, loanID string) (*VerifyResult, error) {
	events, err := u.Events(ctx, loanID)
	if err != nil {
		return nil, err
	}
	broken := ledger.Verify(events)
	return &VerifyResult{
		LoanID:   loanID,
		Events:   len(events),
		Intact:   broken == 0,
		BrokenAt: broken,
	}, nil
}
