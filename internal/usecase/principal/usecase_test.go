package principal

import (
	"context"
	"testing"

	"loan-ledger/internal/testutil/fixture"
	"loan-ledger/pkg/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newAgent = "0x00000000000000000000000000000000000000a2"

func TestRegisterAndUnregister(t *testing.T) {
	env := fixture.New(t)
	uc := NewUsecase(env.UoW, env.ACL)
	ctx := context.Background()

	ok, err := uc.IsRegistered(ctx, newAgent)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, uc.Register(ctx, fixture.Admin, newAgent))
	// registering twice is a no-op
	require.NoError(t, uc.Register(ctx, fixture.Admin, "0x00000000000000000000000000000000000000A2"))

	ok, err = uc.IsRegistered(ctx, newAgent)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, uc.Unregister(ctx, fixture.Admin, newAgent))
	ok, err = uc.IsRegistered(ctx, newAgent)
	require.NoError(t, err)
	assert.False(t, ok)

	err = uc.Unregister(ctx, fixture.Admin, newAgent)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestDirectory_AdminOnly(t *testing.T) {
	env := fixture.New(t)
	uc := NewUsecase(env.UoW, env.ACL)
	ctx := context.Background()

	for _, caller := range []string{fixture.Agent, fixture.Outsider, ""} {
		assert.True(t, failure.HasCode(uc.Register(ctx, caller, newAgent), failure.CodeAuthorization), caller)
		assert.True(t, failure.HasCode(uc.Unregister(ctx, caller, fixture.Agent), failure.CodeAuthorization), caller)
	}
	ok, err := uc.IsRegistered(ctx, fixture.Agent)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDirectory_NullPrincipal(t *testing.T) {
	env := fixture.New(t)
	uc := NewUsecase(env.UoW, env.ACL)
	ctx := context.Background()

	assert.ErrorIs(t, uc.Register(ctx, fixture.Admin, ""), ErrNullPrincipal)
	assert.ErrorIs(t, uc.Unregister(ctx, fixture.Admin, "0x0000000000000000000000000000000000000000"), ErrNullPrincipal)
	ok, err := uc.IsRegistered(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}
