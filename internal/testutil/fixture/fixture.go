// Package fixture wires the usecase dependencies over an in-memory database.
package fixture

import (
	"context"
	"sync"
	"testing"
	"time"

	"loan-ledger/internal/adapter/repository/mysql"
	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/principal"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/testutil/sqlitedb"
	"loan-ledger/internal/usecase/access"
	ledgeruc "loan-ledger/internal/usecase/ledger"
	"loan-ledger/pkg/id"

	"gorm.io/gorm"
)

const (
	Admin    = "admin"
	Agent    = "0x00000000000000000000000000000000000000a1"
	Borrower = "0x00000000000000000000000000000000000000b1"
	LenderY  = "0x00000000000000000000000000000000000000c1"
	Outsider = "0x00000000000000000000000000000000000000ff"
)

// Recorder is a ledger.Publisher that keeps what it receives.
type Recorder struct {
	mu    sync.Mutex
	notes []ledger.Notification
	Err   error
}

func (r *Recorder) Publish(_ context.Context, n ledger.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return r.Err
}

func (r *Recorder) Notes() []ledger.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ledger.Notification(nil), r.notes...)
}

func (r *Recorder) Types() []string {
	var out []string
	for _, n := range r.Notes() {
		out = append(out, n.Type)
	}
	return out
}

type Env struct {
	DB  *gorm.DB
	UoW *mysql.GormUoW
	ACL *access.Checker
	Pub *Recorder
	Out *ledgeruc.Dispatcher
}

// New returns an environment where Agent is a registered agent and Admin is
// the administrator.
func New(t testing.TB) *Env {
	t.Helper()
	db := sqlitedb.Open(t)
	env := &Env{
		DB:  db,
		UoW: mysql.NewGormUoW(db),
		ACL: access.NewChecker(Admin),
		Pub: &Recorder{},
	}
	env.Out = ledgeruc.NewDispatcher(env.Pub)
	if err := env.UoW.Repos().Principals.Register(context.Background(), &principal.Agent{
		PrincipalID: Agent, RegisteredBy: Admin,
	}); err != nil {
		t.Fatalf("register agent: %v", err)
	}
	return env
}

// SeedLoan stores a loan at the given stage with its roles and a
// LOAN_CREATED entry, bypassing the stage machine.
func (e *Env) SeedLoan(t testing.TB, stage loan.Stage) string {
	t.Helper()
	ctx := context.Background()
	loanID := id.NewID32()
	err := e.UoW.WithinTx(ctx, func(r uow.Repos) error {
		now := time.Now().UTC()
		l := &loan.Loan{
			LoanID:         loanID,
			FacilityName:   "Seeded Facility",
			FacilityAmount: 50_000_000,
			Stage:          stage,
			ESG:            loan.ESGStandard,
			AgentID:        Agent,
			BorrowerID:     Borrower,
			IsActive:       true,
			StageUpdatedAt: now,
			CreatedAt:      now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		for _, ra := range []principal.RoleAssignment{
			{LoanID: loanID, PrincipalID: Agent, Role: principal.RoleAgentBank},
			{LoanID: loanID, PrincipalID: Borrower, Role: principal.RoleBorrower},
		} {
			if err := r.Principals.Assign(ctx, &ra); err != nil {
				return err
			}
		}
		_, err := ledgeruc.Append(ctx, r.Events, loanID, ledger.Draft{
			Type:      ledger.EventLoanCreated,
			FromStage: stage,
			ToStage:   stage,
			Actor:     Agent,
		}, now)
		return err
	})
	if err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return loanID
}

// EventCount reads the ledger length directly.
func (e *Env) EventCount(t testing.TB, loanID string) int64 {
	t.Helper()
	n, err := e.UoW.Repos().Events.CountByLoan(context.Background(), loanID)
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	return n
}

func (e *Env) Events(t testing.TB, loanID string) []ledger.LoanEvent {
	t.Helper()
	evs, err := e.UoW.Repos().Events.ListByLoan(context.Background(), loanID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	return evs
}

func (e *Env) Loan(t testing.TB, loanID string) *loan.Loan {
	t.Helper()
	l, err := e.UoW.Repos().Loans.GetByLoanID(context.Background(), loanID)
	if err != nil {
		t.Fatalf("load loan: %v", err)
	}
	return l
}
