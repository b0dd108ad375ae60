package esg

import (
	"context"
	"strings"
	"time"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/principal"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/usecase/access"
	ledgeruc "loan-ledger/internal/usecase/ledger"
	"loan-ledger/pkg/failure"
)

var (
	ErrClassification = failure.New(failure.CodeInvalidInput, "classification must be one of Standard, Green, SustainabilityLinked, Social")
	ErrReportHash     = failure.New(failure.CodeInvalidInput, "report hash must be a non-zero 32-byte hex digest")
	ErrKPIName        = failure.New(failure.CodeInvalidInput, "kpi name is required")
	ErrNotReportable  = failure.New(failure.CodeInvalidState, "ESG reporting does not apply to a Standard loan")
)

type Usecase struct {
	uow uow.UnitOfWork
	acl *access.Checker
	out *ledgeruc.Dispatcher
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, acl *access.Checker, out *ledgeruc.Dispatcher) *Usecase {
	return &Usecase{uow: tx, acl: acl, out: out, now: func() time.Time { return time.Now().UTC() }}
}

// SetClassification overwrites the loan's tag unconditionally.
func (u *Usecase) SetClassification(ctx context.Context, caller, loanID string, c loan.ESGClassification) (*ledger.LoanEvent, error) {
	if !c.Valid() {
		return nil, ErrClassification
	}

	var ev *ledger.LoanEvent
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := u.acl.Require(ctx, r, caller, l, access.CapAgent); err != nil {
			return err
		}
		prev := l.ESG
		l.ESG = c
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		var err error
		ev, err = ledgeruc.Append(ctx, r.Events, l.LoanID, ledger.Draft{
			Type:      ledger.EventESGClassificationSet,
			FromStage: l.Stage,
			ToStage:   l.Stage,
			Actor:     principal.Normalize(caller),
			Metadata: ledgeruc.Meta(map[string]any{
				"previous":       string(prev),
				"classification": string(c),
			}),
		}, u.now())
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}

	u.out.Events(ctx, ev)
	return ev, nil
}

// RecordReport is open to any participant of a non-Standard loan.
func (u *Usecase) RecordReport(ctx context.Context, caller, loanID, reportHash, kpiName string) (*ledger.LoanEvent, error) {
	h, err := ledger.NormalizeHash(reportHash)
	if err != nil {
		return nil, ErrReportHash
	}
	kpiName = strings.TrimSpace(kpiName)
	if kpiName == "" {
		return nil, ErrKPIName
	}

	var ev *ledger.LoanEvent
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := u.acl.Require(ctx, r, caller, l, access.CapAgent, access.CapBorrower, access.CapLender); err != nil {
			return err
		}
		if l.ESG == loan.ESGStandard {
			return ErrNotReportable
		}
		var err error
		ev, err = ledgeruc.Append(ctx, r.Events, l.LoanID, ledger.Draft{
			Type:         ledger.EventESGReportSubmitted,
			FromStage:    l.Stage,
			ToStage:      l.Stage,
			Actor:        principal.Normalize(caller),
			DocumentHash: h,
			Metadata:     kpiName,
		}, u.now())
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}

	u.out.Events(ctx, ev)
	return ev, nil
}
