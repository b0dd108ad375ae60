package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/testutil/sqlitedb"

	"gorm.io/gorm"
)

func makeEvent(loanID string, seq uint64, t ledger.EventType, prev string) *ledger.LoanEvent {
	e := &ledger.LoanEvent{
		EventID:    ledger.EventID(loanID, t, seq),
		LoanID:     loanID,
		Sequence:   seq,
		Type:       t,
		FromStage:  loan.StageMandated,
		ToStage:    loan.StageMandated,
		Actor:      "agent-1",
		OccurredAt: ledger.Stamp(time.Now()),
		PrevHash:   prev,
	}
	e.Hash = ledger.ComputeHash(e)
	return e
}

func TestEvents_AppendListCountLast(t *testing.T) {
	repo := NewEventRepository(sqlitedb.Open(t))
	ctx := context.Background()

	if last, err := repo.Last(ctx, "L1"); err != nil || last != nil {
		t.Fatalf("Last on empty history = %+v, %v", last, err)
	}

	e1 := makeEvent("L1", 1, ledger.EventLoanCreated, "")
	e2 := makeEvent("L1", 2, ledger.EventDocumentSubmitted, e1.Hash)
	e3 := makeEvent("L1", 3, ledger.EventDocumentSubmitted, e2.Hash)
	other := makeEvent("L2", 1, ledger.EventLoanCreated, "")
	for _, e := range []*ledger.LoanEvent{e1, e2, other, e3} {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := repo.ListByLoan(ctx, "L1")
	if err != nil {
		t.Fatalf("ListByLoan: %v", err)
	}
	if len(got) != 3 || got[0].Sequence != 1 || got[2].Sequence != 3 {
		t.Fatalf("unexpected history: %+v", got)
	}
	if broken := ledger.Verify(got); broken != 0 {
		t.Fatalf("chain broken at %d after round trip", broken)
	}

	docs, err := repo.ListByLoanAndType(ctx, "L1", ledger.EventDocumentSubmitted)
	if err != nil || len(docs) != 2 {
		t.Fatalf("ListByLoanAndType = %d, %v", len(docs), err)
	}

	n, err := repo.CountByLoan(ctx, "L1")
	if err != nil || n != 3 {
		t.Fatalf("CountByLoan = %d, %v", n, err)
	}

	last, err := repo.Last(ctx, "L1")
	if err != nil || last == nil || last.Sequence != 3 {
		t.Fatalf("Last = %+v, %v", last, err)
	}
}

func TestEvents_SequenceIsUniquePerLoan(t *testing.T) {
	repo := NewEventRepository(sqlitedb.Open(t))
	ctx := context.Background()

	if err := repo.Append(ctx, makeEvent("L1", 1, ledger.EventLoanCreated, "")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	dup := makeEvent("L1", 1, ledger.EventStageTransition, "")
	if err := repo.Append(ctx, dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}
