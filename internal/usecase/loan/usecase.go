package loan

import (
	"context"
	"errors"
	"strings"
	"time"

	domainLedger "loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/principal"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/usecase/access"
	ledgeruc "loan-ledger/internal/usecase/ledger"
	"loan-ledger/pkg/failure"
	"loan-ledger/pkg/id"

	"gorm.io/gorm"
)

var (
	ErrEmptyName       = failure.New(failure.CodeInvalidInput, "facility name is required")
	ErrAmount          = failure.New(failure.CodeInvalidInput, "facility amount must be positive")
	ErrNullBorrower    = failure.New(failure.CodeInvalidInput, "borrower must not be empty or the zero address")
	ErrDuplicateID     = failure.New(failure.CodeDuplicate, "generated loan id already exists")
	ErrMatured         = failure.New(failure.CodeInvalidState, "loan has matured")
	ErrNoTransition    = failure.New(failure.CodeInvalidState, "no transition from the current stage")
	ErrCannotAmend     = failure.New(failure.CodeInvalidState, "amendment requires an Active or CovenantMonitoring loan")
	ErrCannotMature    = failure.New(failure.CodeInvalidState, "maturity requires an Active or CovenantMonitoring loan")
	ErrIndexOutOfRange = failure.New(failure.CodeNotFound, "no loan at that index")
)

// Usecase owns the loan record and its stage machine.
type Usecase struct {
	uow   uow.UnitOfWork
	acl   *access.Checker
	out   *ledgeruc.Dispatcher
	newID func() string
	now   func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, acl *access.Checker, out *ledgeruc.Dispatcher) *Usecase {
	return &Usecase{
		uow:   tx,
		acl:   acl,
		out:   out,
		newID: id.NewID32,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithIDGenerator swaps the loan id source; tests use it to force collisions.
func (u *Usecase) WithIDGenerator(gen func() string) *Usecase {
	u.newID = gen
	return u
}

func (u *Usecase) Create(ctx context.Context, caller string, in CreateLoanInput) (*LoanDTO, error) {
	name := strings.TrimSpace(in.FacilityName)
	switch {
	case name == "":
		return nil, ErrEmptyName
	case in.FacilityAmount <= 0:
		return nil, ErrAmount
	case principal.IsNull(in.Borrower):
		return nil, ErrNullBorrower
	}

	var (
		l  *loan.Loan
		ev *domainLedger.LoanEvent
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := u.acl.RequireRegisteredAgent(ctx, r, caller); err != nil {
			return err
		}

		loanID := u.newID()
		if _, err := r.Loans.GetByLoanID(ctx, loanID); err == nil {
			return ErrDuplicateID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := u.now()
		l = &loan.Loan{
			LoanID:         loanID,
			FacilityName:   name,
			FacilityAmount: in.FacilityAmount,
			Stage:          loan.StageMandated,
			ESG:            loan.ESGStandard,
			AgentID:        principal.Normalize(caller),
			BorrowerID:     principal.Normalize(in.Borrower),
			IsActive:       true,
			StageUpdatedAt: now,
			CreatedAt:      now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateID
			}
			return err
		}

		for _, ra := range []principal.RoleAssignment{
			{LoanID: loanID, PrincipalID: l.AgentID, Role: principal.RoleAgentBank},
			{LoanID: loanID, PrincipalID: l.BorrowerID, Role: principal.RoleBorrower},
		} {
			if err := r.Principals.Assign(ctx, &ra); err != nil {
				return err
			}
		}

		var err error
		ev, err = ledgeruc.Append(ctx, r.Events, loanID, domainLedger.Draft{
			Type:      domainLedger.EventLoanCreated,
			FromStage: loan.StageMandated,
			ToStage:   loan.StageMandated,
			Actor:     l.AgentID,
			Metadata: ledgeruc.Meta(map[string]any{
				"facility_name":   name,
				"facility_amount": in.FacilityAmount,
				"borrower":        l.BorrowerID,
			}),
		}, now)
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}

	u.out.Events(ctx, ev)
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	var l *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		l, err = r.Loans.GetByLoanID(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}
	return toDTO(l), nil
}

func (u *Usecase) Count(ctx context.Context) (int64, error) {
	var n int64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		n, err = r.Loans.Count(ctx)
		return err
	})
	return n, access.Translate(err)
}

// IDAtIndex returns the id of the index-th loan in creation order.
func (u *Usecase) IDAtIndex(ctx context.Context, index int) (string, error) {
	var l *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		l, err = r.Loans.GetAtIndex(ctx, index)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIndexOutOfRange
		}
		return err
	})
	if err != nil {
		return "", access.Translate(err)
	}
	return l.LoanID, nil
}

// AdvanceStage moves the loan one step along the transition table.
func (u *Usecase) AdvanceStage(ctx context.Context, caller, loanID, notes string) (*LoanDTO, error) {
	return u.transition(ctx, caller, loanID, func(l *loan.Loan) (loan.Stage, domainLedger.EventType, error) {
		if l.Stage.Terminal() {
			return "", "", ErrMatured
		}
		next, ok := loan.NextStage(l.Stage)
		if !ok {
			return "", "", ErrNoTransition
		}
		return next, domainLedger.EventStageTransition, nil
	}, strings.TrimSpace(notes))
}

func (u *Usecase) InitiateAmendment(ctx context.Context, caller, loanID string) (*LoanDTO, error) {
	return u.transition(ctx, caller, loanID, func(l *loan.Loan) (loan.Stage, domainLedger.EventType, error) {
		if !loan.CanAmend(l.Stage) {
			return "", "", ErrCannotAmend
		}
		return loan.StageAmendment, domainLedger.EventAmendmentInitiated, nil
	}, "")
}

func (u *Usecase) Mature(ctx context.Context, caller, loanID string) (*LoanDTO, error) {
	return u.transition(ctx, caller, loanID, func(l *loan.Loan) (loan.Stage, domainLedger.EventType, error) {
		if !loan.CanMature(l.Stage) {
			return "", "", ErrCannotMature
		}
		return loan.StageMatured, domainLedger.EventLoanMatured, nil
	}, "")
}

type stepFn func(l *loan.Loan) (loan.Stage, domainLedger.EventType, error)

func (u *Usecase) transition(ctx context.Context, caller, loanID string, step stepFn, notes string) (*LoanDTO, error) {
	var (
		out *loan.Loan
		ev  *domainLedger.LoanEvent
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := u.acl.Require(ctx, r, caller, l, access.CapAgent); err != nil {
			return err
		}
		to, typ, err := step(l)
		if err != nil {
			return err
		}

		from := l.Stage
		now := u.now()
		l.Stage = to
		l.StageUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		ev, err = ledgeruc.Append(ctx, r.Events, l.LoanID, domainLedger.Draft{
			Type:      typ,
			FromStage: from,
			ToStage:   to,
			Actor:     principal.Normalize(caller),
			Metadata:  notes,
		}, now)
		out = l
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}

	u.out.Events(ctx, ev)
	return toDTO(out), nil
}
