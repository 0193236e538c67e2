package ports

import (
	"context"
	"time"

	"scribe/contexts/identity-access/authorization-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for membership rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// PermissionCache stores effective permissions per user and workspace with
// TTL semantics.
type PermissionCache interface {
	Get(ctx context.Context, userID string, workspaceID string, now time.Time) ([]string, bool, error)
	Set(ctx context.Context, userID string, workspaceID string, permissions []string, expiresAt time.Time) error
	Invalidate(ctx context.Context, userID string, workspaceID string) error
}

// GrantMembershipInput is persisted atomically by the repository.
type GrantMembershipInput struct {
	MembershipID string
	UserID       string
	WorkspaceID  string
	RoleID       string
	GrantorID    string
	Reason       string
	GrantedAt    time.Time
	ExpiresAt    *time.Time
}

// RevokeMembershipInput captures revoke metadata.
type RevokeMembershipInput struct {
	UserID      string
	WorkspaceID string
	RoleID      string
	GrantorID   string
	Reason      string
	RevokedAt   time.Time
}

// Repository is the read/write boundary for authorization state. Permission
// resolution walks membership, then role, then permissions; a missing
// membership or role yields an empty set, never an error.
type Repository interface {
	ListEffectivePermissions(ctx context.Context, userID string, workspaceID string, now time.Time) ([]string, error)
	ListMemberships(ctx context.Context, userID string, now time.Time) ([]entities.WorkspaceMembership, error)
	ListRoles(ctx context.Context) ([]entities.Role, error)
	GrantMembership(ctx context.Context, input GrantMembershipInput) (entities.WorkspaceMembership, error)
	RevokeMembership(ctx context.Context, input RevokeMembershipInput) (entities.WorkspaceMembership, error)
}
