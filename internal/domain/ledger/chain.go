package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// EventID derives the public id of the entry at seq. (loan, seq) is unique,
// so the id is too.
func EventID(loanID string, t EventType, seq uint64) string {
	sum := sha256.Sum256([]byte(loanID + "|" + string(t) + "|" + strconv.FormatUint(seq, 10)))
	return hex.EncodeToString(sum[:])[:32]
}

// Stamp truncates to the precision the store keeps so hashes survive a round trip.
func Stamp(t time.Time) time.Time { return t.UTC().Truncate(time.Microsecond) }

// ComputeHash hashes the canonical form of e chained onto e.PrevHash.
func ComputeHash(e *LoanEvent) string {
	fields := []string{
		e.PrevHash,
		e.EventID,
		e.LoanID,
		strconv.FormatUint(e.Sequence, 10),
		string(e.Type),
		string(e.FromStage),
		string(e.ToStage),
		e.Actor,
		Stamp(e.OccurredAt).Format(time.RFC3339Nano),
		e.DocumentHash,
		e.Metadata,
	}
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(strconv.Itoa(len(f))))
		h.Write([]byte{':'})
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Verify walks a loan's history in order. It returns the sequence of the
// first entry whose link or hash does not hold, or 0 when the chain is intact.
func Verify(events []LoanEvent) uint64 {
	prev := ""
	for i := range events {
		e := &events[i]
		if e.Sequence != uint64(i+1) || e.PrevHash != prev || ComputeHash(e) != e.Hash {
			return e.Sequence
		}
		prev = e.Hash
	}
	return 0
}

var ErrZeroHash = errors.New("hash must be 32 non-zero bytes in hex")

// NormalizeHash accepts a 32-byte hex digest with or without 0x and returns
// it lowercased with the 0x prefix.
func NormalizeHash(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return "", ErrZeroHash
	}
	for _, c := range b {
		if c != 0 {
			return "0x" + s, nil
		}
	}
	return "", ErrZeroHash
}
