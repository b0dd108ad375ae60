package esg

import (
	"context"
	"strings"
	"testing"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/testutil/fixture"
	"loan-ledger/pkg/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportHash = "0x" + strings.Repeat("5e", 32)

func TestReport_RequiresNonStandardClassification(t *testing.T) {
	env := fixture.New(t)
	uc := NewUsecase(env.UoW, env.ACL, env.Out)
	id := env.SeedLoan(t, loan.StageActive)
	ctx := context.Background()

	_, err := uc.RecordReport(ctx, fixture.Borrower, id, reportHash, "CO2 intensity")
	assert.ErrorIs(t, err, ErrNotReportable)
	assert.True(t, failure.HasCode(err, failure.CodeInvalidState))
	assert.Equal(t, int64(1), env.EventCount(t, id))

	ev, err := uc.SetClassification(ctx, fixture.Agent, id, loan.ESGGreen)
	require.NoError(t, err)
	assert.Equal(t, ledger.EventESGClassificationSet, ev.Type)
	assert.JSONEq(t, `{"classification":"Green","previous":"Standard"}`, ev.Metadata)
	assert.Equal(t, loan.ESGGreen, env.Loan(t, id).ESG)

	ev, err = uc.RecordReport(ctx, fixture.Borrower, id, reportHash, "CO2 intensity")
	require.NoError(t, err)
	assert.Equal(t, ledger.EventESGReportSubmitted, ev.Type)
	assert.Equal(t, reportHash, ev.DocumentHash)
	assert.Equal(t, "CO2 intensity", ev.Metadata)
	assert.Equal(t, int64(3), env.EventCount(t, id))
}

func TestSetClassification_Overwrites(t *testing.T) {
	env := fixture.New(t)
	uc := NewUsecase(env.UoW, env.ACL, env.Out)
	id := env.SeedLoan(t, loan.StageActive)
	ctx := context.Background()

	for _, c := range []loan.ESGClassification{loan.ESGSocial, loan.ESGSocial, loan.ESGStandard} {
		_, err := uc.SetClassification(ctx, fixture.Agent, id, c)
		require.NoError(t, err)
	}
	assert.Equal(t, loan.ESGStandard, env.Loan(t, id).ESG)
	assert.Equal(t, int64(4), env.EventCount(t, id))

	_, err := uc.RecordReport(ctx, fixture.Agent, id, reportHash, "kpi")
	assert.ErrorIs(t, err, ErrNotReportable)
}

func TestESG_Rejections(t *testing.T) {
	env := fixture.New(t)
	uc := NewUsecase(env.UoW, env.ACL, env.Out)
	id := env.SeedLoan(t, loan.StageActive)
	ctx := context.Background()

	_, err := uc.SetClassification(ctx, fixture.Agent, id, "Blue")
	assert.ErrorIs(t, err, ErrClassification)
	_, err = uc.SetClassification(ctx, fixture.Borrower, id, loan.ESGGreen)
	assert.True(t, failure.HasCode(err, failure.CodeAuthorization))

	_, err = uc.SetClassification(ctx, fixture.Agent, id, loan.ESGGreen)
	require.NoError(t, err)

	_, err = uc.RecordReport(ctx, fixture.Outsider, id, reportHash, "kpi")
	assert.True(t, failure.HasCode(err, failure.CodeAuthorization))
	_, err = uc.RecordReport(ctx, fixture.Agent, id, "nothex", "kpi")
	assert.ErrorIs(t, err, ErrReportHash)
	_, err = uc.RecordReport(ctx, fixture.Agent, id, reportHash, "")
	assert.ErrorIs(t, err, ErrKPIName)

	assert.Equal(t, int64(2), env.EventCount(t, id))
}
