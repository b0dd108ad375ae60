package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "loan-ledger/internal/domain/loan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	assert.NoError(t, m.Create(ctx, &domain.Loan{}))
	assert.NoError(t, m.Save(ctx, &domain.Loan{}))

	_, err := m.GetByLoanID(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.GetByLoanIDForUpdate(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.Count(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.GetAtIndex(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepo_ForwardsToFunctions(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	stored := &domain.Loan{LoanID: "LN-1", Stage: domain.StageActive}
	var calls []string

	m := &Repo{
		CreateFn: func(_ context.Context, l *domain.Loan) error {
			calls = append(calls, "create:"+l.LoanID)
			return boom
		},
		SaveFn: func(_ context.Context, l *domain.Loan) error {
			calls = append(calls, "save:"+string(l.Stage))
			return nil
		},
		GetByLoanIDFn: func(_ context.Context, id string) (*domain.Loan, error) {
			calls = append(calls, "get:"+id)
			return stored, nil
		},
		GetByLoanIDForUpdateFn: func(_ context.Context, id string) (*domain.Loan, error) {
			calls = append(calls, "lock:"+id)
			return stored, nil
		},
		CountFn: func(context.Context) (int64, error) {
			calls = append(calls, "count")
			return 3, nil
		},
		GetAtIndexFn: func(_ context.Context, i int) (*domain.Loan, error) {
			calls = append(calls, "index")
			if i > 2 {
				return nil, boom
			}
			return stored, nil
		},
	}

	assert.ErrorIs(t, m.Create(ctx, &domain.Loan{LoanID: "LN-2"}), boom)
	require.NoError(t, m.Save(ctx, stored))

	got, err := m.GetByLoanID(ctx, "LN-1")
	require.NoError(t, err)
	assert.Same(t, stored, got)
	got, err = m.GetByLoanIDForUpdate(ctx, "LN-1")
	require.NoError(t, err)
	assert.Same(t, stored, got)

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = m.GetAtIndex(ctx, 5)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"create:LN-2", "save:Active", "get:LN-1", "lock:LN-1", "count", "index"}, calls)
}
