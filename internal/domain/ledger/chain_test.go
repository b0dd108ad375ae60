package ledger

import (
	"strings"
	"testing"
	"time"

	"loan-ledger/internal/domain/loan"
)

func chain(n int) []LoanEvent {
	out := make([]LoanEvent, 0, n)
	prev := ""
	at := time.Date(2026, 1, 2, 3, 4, 5, 123456789, time.UTC)
	for i := 1; i <= n; i++ {
		e := LoanEvent{
			EventID:    EventID("loan-1", EventStageTransition, uint64(i)),
			LoanID:     "loan-1",
			Sequence:   uint64(i),
			Type:       EventStageTransition,
			FromStage:  loan.StageMandated,
			ToStage:    loan.StageCreditApproved,
			Actor:      "agent",
			OccurredAt: at,
			PrevHash:   prev,
		}
		e.Hash = ComputeHash(&e)
		prev = e.Hash
		out = append(out, e)
	}
	return out
}

func TestEventID_UniquePerSequence(t *testing.T) {
	a := EventID("loan-1", EventLoanCreated, 1)
	b := EventID("loan-1", EventLoanCreated, 2)
	c := EventID("loan-2", EventLoanCreated, 1)
	if a == b || a == c || b == c {
		t.Fatalf("ids collide: %s %s %s", a, b, c)
	}
	if len(a) != 32 {
		t.Fatalf("len = %d, want 32", len(a))
	}
	if a != EventID("loan-1", EventLoanCreated, 1) {
		t.Fatal("EventID must be deterministic")
	}
}

func TestVerify_IntactChain(t *testing.T) {
	if broken := Verify(chain(5)); broken != 0 {
		t.Fatalf("intact chain reported broken at %d", broken)
	}
	if broken := Verify(nil); broken != 0 {
		t.Fatalf("empty chain reported broken at %d", broken)
	}
}

func TestVerify_DetectsTampering(t *testing.T) {
	events := chain(4)
	events[2].Metadata = "rewritten"
	if broken := Verify(events); broken != 3 {
		t.Fatalf("broken = %d, want 3", broken)
	}

	events = chain(4)
	events = append(events[:1], events[2:]...)
	if broken := Verify(events); broken != 3 {
		t.Fatalf("gap: broken = %d, want 3", broken)
	}
}

func TestComputeHash_IgnoresSubMicrosecond(t *testing.T) {
	e := chain(1)[0]
	h := e.Hash
	e.OccurredAt = Stamp(e.OccurredAt)
	if ComputeHash(&e) != h {
		t.Fatal("hash changed after truncation to stored precision")
	}
}

func TestNormalizeHash(t *testing.T) {
	valid := strings.Repeat("ab", 32)
	got, err := NormalizeHash("0x" + strings.ToUpper(valid))
	if err != nil {
		t.Fatalf("NormalizeHash: %v", err)
	}
	if got != "0x"+valid {
		t.Fatalf("got %q", got)
	}
	if got, err := NormalizeHash(valid); err != nil || got != "0x"+valid {
		t.Fatalf("unprefixed: %q %v", got, err)
	}

	bad := []string{"", "0x", strings.Repeat("0", 64), "0x" + strings.Repeat("ab", 31), "zz" + strings.Repeat("ab", 31)}
	for _, b := range bad {
		if _, err := NormalizeHash(b); err == nil {
			t.Fatalf("expected error for %q", b)
		}
	}
}

func TestFromEvent(t *testing.T) {
	e := chain(1)[0]
	e.DocumentHash = "0x" + strings.Repeat("01", 32)
	n := FromEvent(&e)
	if n.Type != string(EventStageTransition) || n.LoanID != "loan-1" || n.Actor != "agent" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.Payload["sequence"] != "1" || n.Payload["document_hash"] != e.DocumentHash {
		t.Fatalf("unexpected payload: %+v", n.Payload)
	}
	if _, ok := n.Payload["metadata"]; ok {
		t.Fatal("empty metadata should be omitted")
	}
}
