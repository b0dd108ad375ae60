// Package access resolves what a caller may do to a loan. Every mutating
// usecase calls it before touching state.
package access

import (
	"context"
	"errors"

	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/principal"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/pkg/failure"

	"gorm.io/gorm"
)

type Capability int

const (
	// CapAgent is held by the loan's administering agent and the administrator.
	CapAgent Capability = iota
	CapBorrower
	// CapLender requires an active participation, not just a Lender role.
	CapLender
)

var (
	ErrLoanNotFound  = failure.New(failure.CodeNotFound, "loan not found")
	ErrNotAdmin      = failure.New(failure.CodeAuthorization, "caller is not the administrator")
	ErrNotAgent      = failure.New(failure.CodeAuthorization, "caller is not a registered agent")
	ErrNotPermitted  = failure.New(failure.CodeAuthorization, "caller lacks the required role on this loan")
	ErrAnonymousUser = failure.New(failure.CodeAuthorization, "caller identity is required")
)

type Checker struct{ admin string }

func NewChecker(admin string) *Checker {
	return &Checker{admin: principal.Normalize(admin)}
}

func (c *Checker) IsAdmin(caller string) bool {
	caller = principal.Normalize(caller)
	return c.admin != "" && caller == c.admin
}

func (c *Checker) RequireAdmin(caller string) error {
	if principal.IsNull(caller) {
		return ErrAnonymousUser
	}
	if !c.IsAdmin(caller) {
		return ErrNotAdmin
	}
	return nil
}

// RequireRegisteredAgent checks the agent directory.
func (c *Checker) RequireRegisteredAgent(ctx context.Context, r uow.Repos, caller string) error {
	if principal.IsNull(caller) {
		return ErrAnonymousUser
	}
	ok, err := r.Principals.IsRegistered(ctx, principal.Normalize(caller))
	if err != nil {
		return failure.Wrap(err, failure.CodeInternal, "check agent directory")
	}
	if !ok {
		return ErrNotAgent
	}
	return nil
}

// Require passes when the caller holds any of caps on l.
func (c *Checker) Require(ctx context.Context, r uow.Repos, caller string, l *loan.Loan, caps ...Capability) error {
	if principal.IsNull(caller) {
		return ErrAnonymousUser
	}
	caller = principal.Normalize(caller)
	for _, cp := range caps {
		ok, err := c.holds(ctx, r, caller, l, cp)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrNotPermitted
}

func (c *Checker) holds(ctx context.Context, r uow.Repos, caller string, l *loan.Loan, cp Capability) (bool, error) {
	switch cp {
	case CapAgent:
		return caller == l.AgentID || c.IsAdmin(caller), nil
	case CapBorrower:
		return caller == l.BorrowerID, nil
	case CapLender:
		ok, err := r.Participations.HasActive(ctx, l.LoanID, caller)
		if err != nil {
			return false, failure.Wrap(err, failure.CodeInternal, "check participations")
		}
		return ok, nil
	}
	return false, nil
}

// IsParticipant reports whether identity is the agent, the borrower or an
// active lender of l.
func IsParticipant(ctx context.Context, r uow.Repos, l *loan.Loan, identity string) (bool, error) {
	identity = principal.Normalize(identity)
	if identity == "" {
		return false, nil
	}
	if identity == l.AgentID || identity == l.BorrowerID {
		return true, nil
	}
	ok, err := r.Participations.HasActive(ctx, l.LoanID, identity)
	if err != nil {
		return false, failure.Wrap(err, failure.CodeInternal, "check participations")
	}
	return ok, nil
}

// Translate maps storage errors escaping a unit of work onto the taxonomy.
// Coded errors pass through untouched.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var fe *failure.Error
	switch {
	case errors.As(err, &fe):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrLoanNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return failure.Wrap(err, failure.CodeDuplicate, "record already exists")
	}
	return failure.Wrap(err, failure.CodeInternal, "storage failure")
}
