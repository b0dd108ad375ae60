package participation

import (
	"context"
	"log/slog"
	"time"

	domainLedger "loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/participation"
	"loan-ledger/internal/domain/principal"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/usecase/access"
	ledgeruc "loan-ledger/internal/usecase/ledger"
	"loan-ledger/pkg/failure"
)

var (
	ErrNullLender = failure.New(failure.CodeInvalidInput, "lender must not be empty or the zero address")
	ErrNullParty  = failure.New(failure.CodeInvalidInput, "transfer parties must not be empty or the zero address")
	ErrAmount     = failure.New(failure.CodeInvalidInput, "amount must be positive")
	ErrShare      = failure.New(failure.CodeInvalidInput, "share must be within (0, 10000] basis points")
)

type RecordInput struct {
	Lender   string `json:"lender"`
	Amount   int64  `json:"amount"`
	ShareBps int    `json:"share_bps"`
}

type TransferInput struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Standing summarises what an identity is on a loan.
type Standing struct {
	LoanID        string           `json:"loan_id"`
	Principal     string           `json:"principal"`
	IsParticipant bool             `json:"is_participant"`
	IsLender      bool             `json:"is_lender"`
	Roles         []principal.Role `json:"roles"`
}

type Usecase struct {
	uow uow.UnitOfWork
	acl *access.Checker
	out *ledgeruc.Dispatcher
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, acl *access.Checker, out *ledgeruc.Dispatcher) *Usecase {
	return &Usecase{uow: tx, acl: acl, out: out, now: func() time.Time { return time.Now().UTC() }}
}

// Record adds a position to the syndicate. Shares are bounded per record only;
// keeping the active total within 10000 bps is the agent's responsibility.
func (u *Usecase) Record(ctx context.Context, caller, loanID string, in RecordInput) (*participation.Participation, error) {
	switch {
	case principal.IsNull(in.Lender):
		return nil, ErrNullLender
	case in.Amount <= 0:
		return nil, ErrAmount
	case in.ShareBps <= 0 || in.ShareBps > participation.MaxShareBps:
		return nil, ErrShare
	}

	var (
		p     *participation.Participation
		ev    *domainLedger.LoanEvent
		total int64
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := u.acl.Require(ctx, r, caller, l, access.CapAgent); err != nil {
			return err
		}

		now := u.now()
		p = &participation.Participation{
			LoanID:   l.LoanID,
			LenderID: principal.Normalize(in.Lender),
			Amount:   in.Amount,
			ShareBps: in.ShareBps,
			JoinedAt: now,
			IsActive: true,
		}
		if err := r.Participations.Create(ctx, p); err != nil {
			return err
		}
		if err := r.Principals.Assign(ctx, &principal.RoleAssignment{
			LoanID: l.LoanID, PrincipalID: p.LenderID, Role: principal.RoleLender,
		}); err != nil {
			return err
		}

		var err error
		ev, err = ledgeruc.Append(ctx, r.Events, l.LoanID, domainLedger.Draft{
			Type:      domainLedger.EventParticipationRecorded,
			FromStage: l.Stage,
			ToStage:   l.Stage,
			Actor:     principal.Normalize(caller),
			Metadata: ledgeruc.Meta(map[string]any{
				"lender":    p.LenderID,
				"amount":    p.Amount,
				"share_bps": p.ShareBps,
			}),
		}, now)
		if err != nil {
			return err
		}
		total, err = r.Participations.ActiveShareBps(ctx, l.LoanID)
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}

	if total > participation.MaxShareBps {
		slog.WarnContext(ctx, "participation: active shares exceed 100%",
			"loan_id", loanID, "active_share_bps", total)
	}
	u.out.Events(ctx, ev)
	return p, nil
}

// RecordTransfer ledgers a secondary transfer. Positions are left untouched:
// settlement is a separate Record by the agent.
func (u *Usecase) RecordTransfer(ctx context.Context, caller, loanID string, in TransferInput) (*domainLedger.LoanEvent, error) {
	switch {
	case principal.IsNull(in.From) || principal.IsNull(in.To):
		return nil, ErrNullParty
	case in.Amount <= 0:
		return nil, ErrAmount
	}

	var ev *domainLedger.LoanEvent
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := u.acl.Require(ctx, r, caller, l, access.CapAgent); err != nil {
			return err
		}
		var err error
		ev, err = ledgeruc.Append(ctx, r.Events, l.LoanID, domainLedger.Draft{
			Type:      domainLedger.EventParticipationTransfer,
			FromStage: l.Stage,
			ToStage:   l.Stage,
			Actor:     principal.Normalize(caller),
			Metadata: ledgeruc.Meta(map[string]any{
				"from":   principal.Normalize(in.From),
				"to":     principal.Normalize(in.To),
				"amount": in.Amount,
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

func (u *Usecase) List(ctx context.Context, loanID string) ([]participation.Participation, error) {
	var out []participation.Participation
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByLoanID(ctx, loanID); err != nil {
			return err
		}
		var err error
		out, err = r.Participations.ListByLoan(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}
	if out == nil {
		out = []participation.Participation{}
	}
	return out, nil
}

func (u *Usecase) IsLender(ctx context.Context, loanID, identity string) (bool, error) {
	s, err := u.Standing(ctx, loanID, identity)
	if err != nil {
		return false, err
	}
	return s.IsLender, nil
}

func (u *Usecase) IsParticipant(ctx context.Context, loanID, identity string) (bool, error) {
	s, err := u.Standing(ctx, loanID, identity)
	if err != nil {
		return false, err
	}
	return s.IsParticipant, nil
}

func (u *Usecase) Standing(ctx context.Context, loanID, identity string) (*Standing, error) {
	identity = principal.Normalize(identity)
	s := &Standing{LoanID: loanID, Principal: identity, Roles: []principal.Role{}}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		if principal.IsNull(identity) {
			return nil
		}
		if s.IsLender, err = r.Participations.HasActive(ctx, loanID, identity); err != nil {
			return err
		}
		if s.IsParticipant, err = access.IsParticipant(ctx, r, l, identity); err != nil {
			return err
		}
		roles, err := r.Principals.RolesOf(ctx, loanID, identity)
		if err != nil {
			return err
		}
		if roles != nil {
			s.Roles = roles
		}
		return nil
	})
	if err != nil {
		return nil, access.Translate(err)
	}
	return s, nil
}
