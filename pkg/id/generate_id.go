// Package id generates the identifiers used for loans and covenants.
package id

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Len is the length of every generated identifier.
const Len = 32

var reID = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random uuid as 32 lowercase hex characters.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether s has the shape NewID32 produces.
func Valid(s string) bool { return reID.MatchString(s) }
