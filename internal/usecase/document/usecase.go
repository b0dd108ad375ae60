package document

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
	ErrHash = failure.New(failure.CodeInvalidInput, "document hash must be a non-zero 32-byte hex digest")
	ErrType = failure.New(failure.CodeInvalidInput, "document type is required")
)

// Proof is a submitted document hash as read back from the ledger.
type Proof struct {
	EventID      string    `json:"event_id"`
	Hash         string    `json:"hash"`
	DocumentType string    `json:"document_type"`
	SubmittedBy  string    `json:"submitted_by"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Usecase records content-hash proofs. Document content never reaches it.
type Usecase struct {
	uow uow.UnitOfWork
	acl *access.Checker
	out *ledgeruc.Dispatcher
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, acl *access.Checker, out *ledgeruc.Dispatcher) *Usecase {
	return &Usecase{uow: tx, acl: acl, out: out, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) Record(ctx context.Context, caller, loanID, hash, documentType string) (*ledger.LoanEvent, error) {
	h, err := ledger.NormalizeHash(hash)
	if err != nil {
		return nil, ErrHash
	}
	documentType = strings.TrimSpace(documentType)
	if documentType == "" {
		return nil, ErrType
	}

	var ev *ledger.LoanEvent
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := u.acl.Require(ctx, r, caller, l, access.CapAgent, access.CapBorrower, access.CapLender); err != nil {
			return err
		}
		var err error
		ev, err = ledgeruc.Append(ctx, r.Events, l.LoanID, ledger.Draft{
			Type:         ledger.EventDocumentSubmitted,
			FromStage:    l.Stage,
			ToStage:      l.Stage,
			Actor:        principal.Normalize(caller),
			DocumentHash: h,
			Metadata:     documentType,
		}, u.now())
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}

	u.out.Events(ctx, ev)
	return ev, nil
}

func (u *Usecase) List(ctx context.Context, loanID string) ([]Proof, error) {
	var events []ledger.LoanEvent
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByLoanID(ctx, loanID); err != nil {
			return err
		}
		var err error
		events, err = r.Events.ListByLoanAndType(ctx, loanID, ledger.EventDocumentSubmitted)
		return err
	})
	if err != nil {
		return nil, access.Translate(err)
	}
	out := make([]Proof, 0, len(events))
	for _, e := range events {
		out = append(out, Proof{
			EventID:      e.EventID,
			Hash:         e.DocumentHash,
			DocumentType: e.Metadata,
			SubmittedBy:  e.Actor,
			SubmittedAt:  e.OccurredAt,
		})
	}
	return out, nil
}
