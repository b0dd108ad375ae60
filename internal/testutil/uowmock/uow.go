// Package uowmock provides unit-of-work doubles for usecase tests.
package uowmock

import (
	"context"
	"errors"
	"sync/atomic"

	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed uow.UnitOfWork. Unset functions return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error

	txCalls     atomic.Int64
	loanTxCalls atomic.Int64
}

// Static runs every body against the same repositories without a transaction.
// WithinLoanTx loads the loan through repos.Loans first, like the real one.
func Static(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			l, err := repos.Loans.GetByLoanIDForUpdate(ctx, loanID)
			if err != nil {
				return err
			}
			return fn(repos, l)
		},
	}
}

// Wrap delegates to inner and lets edit swap repositories inside the
// transaction, e.g. to inject a failing event store.
func Wrap(inner uow.UnitOfWork, edit func(uow.Repos) uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return inner.WithinTx(ctx, func(r uow.Repos) error { return fn(edit(r)) })
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			return inner.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error { return fn(edit(r), l) })
		},
	}
}

// Calls reports how many times WithinTx and WithinLoanTx ran.
func (m *UoW) Calls() (tx, loanTx int64) { return m.txCalls.Load(), m.loanTxCalls.Load() }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	m.txCalls.Add(1)
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	m.loanTxCalls.Add(1)
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}
