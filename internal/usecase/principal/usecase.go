package principal

import (
	"context"

	"loan-ledger/internal/domain/principal"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/usecase/access"
	"loan-ledger/pkg/failure"
)

var (
	ErrNullPrincipal = failure.New(failure.CodeInvalidInput, "principal must not be empty or the zero address")
	ErrNotRegistered = failure.New(failure.CodeNotFound, "principal is not a registered agent")
)

// Usecase maintains the agent directory. Only the administrator mutates it.
type Usecase struct {
	uow uow.UnitOfWork
	acl *access.Checker
}

func NewUsecase(tx uow.UnitOfWork, acl *access.Checker) *Usecase {
	return &Usecase{uow: tx, acl: acl}
}

func (u *Usecase) Register(ctx context.Context, caller, p string) error {
	if err := u.acl.RequireAdmin(caller); err != nil {
		return err
	}
	if principal.IsNull(p) {
		return ErrNullPrincipal
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Principals.Register(ctx, &principal.Agent{
			PrincipalID:  principal.Normalize(p),
			RegisteredBy: principal.Normalize(caller),
		})
	})
	return access.Translate(err)
}

func (u *Usecase) Unregister(ctx context.Context, caller, p string) error {
	if err := u.acl.RequireAdmin(caller); err != nil {
		return err
	}
	if principal.IsNull(p) {
		return ErrNullPrincipal
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		removed, err := r.Principals.Unregister(ctx, principal.Normalize(p))
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotRegistered
		}
		return nil
	})
	return access.Translate(err)
}

func (u *Usecase) IsRegistered(ctx context.Context, p string) (bool, error) {
	if principal.IsNull(p) {
		return false, nil
	}
	var ok bool
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		ok, err = r.Principals.IsRegistered(ctx, principal.Normalize(p))
		return err
	})
	return ok, access.Translate(err)
}
