package covenant

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"loan-ledger/internal/domain/covenant"
	domainLedger "loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/principal"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/usecase/access"
	ledgeruc "loan-ledger/internal/usecase/ledger"
	"loan-ledger/pkg/failure"
	"loan-ledger/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyName    = failure.New(failure.CodeInvalidInput, "covenant name is required")
	ErrThreshold    = failure.New(failure.CodeInvalidInput, "threshold must be a non-negative fixed-point integer")
	ErrOperator     = failure.New(failure.CodeInvalidInput, "operator must be one of LT, LTE, GT, GTE, EQ")
	ErrStatus       = failure.New(failure.CodeInvalidInput, "status must be one of Compliant, AtRisk, Breached")
	ErrNextTestDate = failure.New(failure.CodeInvalidInput, "next test date is required")
	ErrObserved     = failure.New(failure.CodeInvalidInput, "observed value must be a non-negative fixed-point integer")
	ErrIndex        = failure.New(failure.CodeInvalidState, "covenant index out of bounds")
)

type DefineInput struct {
	Name         string
	Threshold    decimal.Decimal
	Operator     covenant.Operator
	NextTestDate time.Time
}

// StatusChange is the outcome of a covenant test.
type StatusChange struct {
	Covenant *covenant.Covenant      `json:"covenant"`
	Previous covenant.Status         `json:"previous_status"`
	Event    *domainLedger.LoanEvent `json:"event"`
}

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

func fixedPoint(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Truncate(0)) && len(d.String()) <= covenant.MaxThresholdDigits
}

// EventFor picks the ledger event type recording a move into s.
func EventFor(s covenant.Status) domainLedger.EventType {
	switch s {
	case covenant.StatusBreached:
		return domainLedger.EventCovenantBreached
	case covenant.StatusAtRisk:
		return domainLedger.EventCovenantAtRisk
	}
	return domainLedger.EventCovenantCompliant
}

func (u *Usecase) Define(ctx context.Context, caller, loanID string, in DefineInput) (*covenant.Covenant, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, ErrEmptyName
	case !fixedPoint(in.Threshold):
		return nil, ErrThreshold
	case !in.Operator.Valid():
		return nil, ErrOperator
	case in.NextTestDate.IsZero():
		return nil, ErrNextTestDate
	}

	var (
		c  *covenant.Covenant
		ev *domainLedger.LoanEvent
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := u.acl.Require(ctx, r, caller, l, access.CapAgent); err != nil {
			return err
		}
		n, err := r.Covenants.CountByLoan(ctx, l.LoanID)
		if err != nil {
			return err
		}

		now := u.now()
		c = &covenant.Covenant{
			CovenantID:  u.newID(),
			LoanID:      l.LoanID,
			Index:       int(n),
			Name:        name,
			Threshold:   in.Threshold,
			Operator:    in.Operator,
			Status:      covenant.StatusCompliant,
			NextTestDue: in.NextTestDate.UTC(),
		}
		if err := r.Covenants.Create(ctx, c); err != nil {
			return err
		}

		ev, err = ledgeruc.Append(ctx, r.Events, l.LoanID, domainLedger.Draft{
			Type:      domainLedger.EventCovenantDefined,
			FromStage: l.Stage,
			ToStage:   l.Stage,
			Actor:     principal.Normalize(caller),
			Metadata: ledgeruc.Meta(map[string]any{
				"covenant_id": c.CovenantID,
				"index":       c.Index,
				"name":        c.Name,
				"threshold":   c.Threshold.String(),
				"operator":    string(c.Operator),
			}),
		}, now)
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}

	u.out.Events(ctx, ev)
	return c, nil
}

// UpdateStatus records the result of a covenant test. Any direction is
// allowed; every call is ledgered.
func (u *Usecase) UpdateStatus(ctx context.Context, caller, loanID string, index int, status covenant.Status) (*StatusChange, error) {
	if !status.Valid() {
		return nil, ErrStatus
	}
	return u.apply(ctx, caller, loanID, index, func(*covenant.Covenant) covenant.Status { return status }, "")
}

// Test evaluates observed against the covenant's threshold and records
// Compliant when it holds, Breached otherwise.
func (u *Usecase) Test(ctx context.Context, caller, loanID string, index int, observed decimal.Decimal) (*StatusChange, error) {
	if !fixedPoint(observed) {
		return nil, ErrObserved
	}
	return u.apply(ctx, caller, loanID, index, func(c *covenant.Covenant) covenant.Status {
		if c.Satisfied(observed) {
			return covenant.StatusCompliant
		}
		return covenant.StatusBreached
	}, observed.String())
}

func (u *Usecase) apply(ctx context.Context, caller, loanID string, index int, decide func(*covenant.Covenant) covenant.Status, observed string) (*StatusChange, error) {
	var change StatusChange
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := u.acl.Require(ctx, r, caller, l, access.CapAgent); err != nil {
			return err
		}
		if index < 0 {
			return ErrIndex
		}
		c, err := r.Covenants.GetByIndex(ctx, l.LoanID, index)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIndex
		}
		if err != nil {
			return err
		}

		now := u.now()
		change.Previous = c.Status
		c.Status = decide(c)
		c.LastTestedAt = &now
		if err := r.Covenants.Save(ctx, c); err != nil {
			return err
		}

		meta := map[string]any{
			"covenant_id":     c.CovenantID,
			"index":           c.Index,
			"name":            c.Name,
			"previous_status": string(change.Previous),
			"status":          string(c.Status),
		}
		if observed != "" {
			meta["observed"] = observed
		}
		change.Covenant = c
		change.Event, err = ledgeruc.Append(ctx, r.Events, l.LoanID, domainLedger.Draft{
			Type:      EventFor(c.Status),
			FromStage: l.Stage,
			ToStage:   l.Stage,
			Actor:     principal.Normalize(caller),
			Metadata:  ledgeruc.Meta(meta),
		}, now)
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}

	u.out.Events(ctx, change.Event)
	u.out.Dispatch(ctx, domainLedger.Notification{
		Type:      domainLedger.NotificationCovenantStatusChanged,
		LoanID:    loanID,
		Actor:     change.Event.Actor,
		Timestamp: change.Event.OccurredAt,
		Payload: map[string]string{
			"covenant_id":     change.Covenant.CovenantID,
			"index":           strconv.Itoa(change.Covenant.Index),
			"previous_status": string(change.Previous),
			"status":          string(change.Covenant.Status),
		},
	})
	return &change, nil
}

func (u *Usecase) List(ctx context.Context, loanID string) ([]covenant.Covenant, error) {
	var out []covenant.Covenant
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByLoanID(ctx, loanID); err != nil {
			return err
		}
		var err error
		out, err = r.Covenants.ListByLoan(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}
	if out == nil {
		out = []covenant.Covenant{}
	}
	return out, nil
}
