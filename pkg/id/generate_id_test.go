package id

import (
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID32(t *testing.T) {
	got := NewID32()
	require.Len(t, got, Len)
	assert.True(t, Valid(got), got)

	b, err := hex.DecodeString(got)
	require.NoError(t, err)
	u, err := uuid.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), u.Version())
}

func TestNewID32_Unique(t *testing.T) {
	seen := make(map[string]bool, 500)
	for i := 0; i < 500; i++ {
		v := NewID32()
		require.False(t, seen[v], "duplicate after %d: %s", i, v)
		seen[v] = true
	}
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88":     true,
		"3F9A6A1B3D544FBE8B3A6B3E8D6B2C88":     false,
		"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88": false,
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8":      false,
		"":                                     false,
		"LN-1":                                 false,
	}
	for in, want := range cases {
		assert.Equal(t, want, Valid(in), in)
	}
}
