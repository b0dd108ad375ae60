package uow

import (
	"context"

	"loan-ledger/internal/domain/covenant"
	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/participation"
	"loan-ledger/internal/domain/principal"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans          loan.Repository
	Events         ledger.Repository
	Participations participation.Repository
	Covenants      covenant.Repository
	Principals     principal.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan first, then pass it in; mutations on one loan serialize here
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
