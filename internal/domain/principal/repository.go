package principal

import "context"

type Repository interface {
	// Agent directory
	Register(ctx context.Context, a *Agent) error
	Unregister(ctx context.Context, principalID string) (bool, error)
	IsRegistered(ctx context.Context, principalID string) (bool, error)

	// Per-loan role assignments; assigning an existing role is a no-op.
	Assign(ctx context.Context, r *RoleAssignment) error
	RolesOf(ctx context.Context, loanID, principalID string) ([]Role, error)
}
