package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "loan-ledger/internal/domain/loan"
	"loan-ledger/internal/testutil/sqlitedb"
	"loan-ledger/pkg/id"

	"gorm.io/gorm"
)

func makeLoan(loanID, borrowerID string) *domain.Loan {
	now := time.Now().UTC()
	return &domain.Loan{
		LoanID:         loanID,
		FacilityName:   "Term Loan A",
		FacilityAmount: 100_000_000,
		Stage:          domain.StageMandated,
		ESG:            domain.ESGStandard,
		AgentID:        "agent-1",
		BorrowerID:     borrowerID,
		IsActive:       true,
		StageUpdatedAt: now,
		CreatedAt:      now,
	}
}

func TestCreateAndGetByLoanID(t *testing.T) {
	repo := NewLoanRepository(sqlitedb.Open(t))
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, "borrower-x")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.LoanID != loanID || got.BorrowerID != "borrower-x" || got.Stage != domain.StageMandated {
		t.Errorf("unexpected loan: %+v", got)
	}
	if got.ESG != domain.ESGStandard || !got.IsActive {
		t.Errorf("defaults not persisted: %+v", got)
	}
}

func TestCreate_DuplicateLoanID(t *testing.T) {
	repo := NewLoanRepository(sqlitedb.Open(t))
	ctx := context.Background()

	if err := repo.Create(ctx, makeLoan("dup", "b1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, makeLoan("dup", "b2"))
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestSaveUpdatesStage(t *testing.T) {
	repo := NewLoanRepository(sqlitedb.Open(t))
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, "b1")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	l.Stage = domain.StageCreditApproved
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanIDForUpdate(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanIDForUpdate: %v", err)
	}
	if got.Stage != domain.StageCreditApproved {
		t.Errorf("stage not updated, got=%q", got.Stage)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	repo := NewLoanRepository(sqlitedb.Open(t))

	_, err := repo.GetByLoanID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestCountAndGetAtIndex(t *testing.T) {
	repo := NewLoanRepository(sqlitedb.Open(t))
	ctx := context.Background()

	ids := []string{"aaaa", "bbbb", "cccc"}
	for _, lid := range ids {
		if err := repo.Create(ctx, makeLoan(lid, "b")); err != nil {
			t.Fatalf("Create %s: %v", lid, err)
		}
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count = %d, %v", n, err)
	}
	for i, want := range ids {
		got, err := repo.GetAtIndex(ctx, i)
		if err != nil {
			t.Fatalf("GetAtIndex(%d): %v", i, err)
		}
		if got.LoanID != want {
			t.Fatalf("GetAtIndex(%d) = %s, want %s", i, got.LoanID, want)
		}
	}
	for _, bad := range []int{-1, 3} {
		if _, err := repo.GetAtIndex(ctx, bad); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("GetAtIndex(%d) err = %v", bad, err)
		}
	}
}
