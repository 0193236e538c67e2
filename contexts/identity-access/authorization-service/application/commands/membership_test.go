package commands

import (
	"context"
	"errors"
	"testing"

	"scribe/contexts/identity-access/authorization-service/adapters/memory"
	domainerrors "scribe/contexts/identity-access/authorization-service/domain/errors"
)

func newGrantUseCase(store *memory.Store) GrantMembershipUseCase {
	return GrantMembershipUseCase{
		Repository:      store,
		PermissionCache: store,
		Clock:           store,
		IDGenerator:     store,
	}
}

func newRevokeUseCase(store *memory.Store) RevokeMembershipUseCase {
	return RevokeMembershipUseCase{
		Repository:      store,
		PermissionCache: store,
		Clock:           store,
	}
}

func TestGrantMembershipRequiresManagePermission(t *testing.T) {
	store := memory.NewStore()
	grant := newGrantUseCase(store)

	_, err := grant.Execute(context.Background(), GrantMembershipCommand{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		RoleID:      "author",
		GrantorID:   "stranger",
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGrantMembership(t *testing.T) {
	store := memory.NewStore()
	store.SeedMembership("admin-1", "ws-1", "workspace_admin")
	grant := newGrantUseCase(store)

	membership, err := grant.Execute(context.Background(), GrantMembershipCommand{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		RoleID:      "author",
		GrantorID:   "admin-1",
		Reason:      "onboarding",
	})
	if err != nil {
		t.Fatalf("grant returned error: %v", err)
	}
	if membership.RoleName != "author" || !membership.IsActive {
		t.Fatalf("expected active author membership, got %+v", membership)
	}

	_, err = grant.Execute(context.Background(), GrantMembershipCommand{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		RoleID:      "author",
		GrantorID:   "admin-1",
	})
	if !errors.Is(err, domainerrors.ErrMembershipExists) {
		t.Fatalf("expected ErrMembershipExists on duplicate, got %v", err)
	}
}

func TestGrantMembershipUnknownRole(t *testing.T) {
	store := memory.NewStore()
	store.SeedMembership("admin-1", "ws-1", "workspace_admin")
	grant := newGrantUseCase(store)

	_, err := grant.Execute(context.Background(), GrantMembershipCommand{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		RoleID:      "superuser",
		GrantorID:   "admin-1",
	})
	if !errors.Is(err, domainerrors.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRevokeMembership(t *testing.T) {
	store := memory.NewStore()
	store.SeedMembership("admin-1", "ws-1", "workspace_admin")
	grant := newGrantUseCase(store)
	revoke := newRevokeUseCase(store)
	ctx := context.Background()

	if _, err := grant.Execute(ctx, GrantMembershipCommand{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		RoleID:      "reviewer",
		GrantorID:   "admin-1",
	}); err != nil {
		t.Fatalf("grant returned error: %v", err)
	}

	membership, err := revoke.Execute(ctx, RevokeMembershipCommand{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		RoleID:      "reviewer",
		GrantorID:   "admin-1",
		Reason:      "offboarding",
	})
	if err != nil {
		t.Fatalf("revoke returned error: %v", err)
	}
	if membership.IsActive || membership.RevokedAt == nil {
		t.Fatalf("expected inactive membership with revoked_at, got %+v", membership)
	}

	_, err = revoke.Execute(ctx, RevokeMembershipCommand{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		RoleID:      "reviewer",
		GrantorID:   "admin-1",
	})
	if !errors.Is(err, domainerrors.ErrMembershipNotFound) {
		t.Fatalf("expected ErrMembershipNotFound on second revoke, got %v", err)
	}
}

func TestGrantValidatesIdentifiers(t *testing.T) {
	store := memory.NewStore()
	grant := newGrantUseCase(store)

	cases := []struct {
		name string
		cmd  GrantMembershipCommand
		want error
	}{
		{"missing user", GrantMembershipCommand{WorkspaceID: "ws-1", RoleID: "author", GrantorID: "admin-1"}, domainerrors.ErrInvalidUserID},
		{"missing workspace", GrantMembershipCommand{UserID: "user-1", RoleID: "author", GrantorID: "admin-1"}, domainerrors.ErrInvalidWorkspaceID},
		{"missing role", GrantMembershipCommand{UserID: "user-1", WorkspaceID: "ws-1", GrantorID: "admin-1"}, domainerrors.ErrInvalidRoleID},
		{"missing grantor", GrantMembershipCommand{UserID: "user-1", WorkspaceID: "ws-1", RoleID: "author"}, domainerrors.ErrInvalidGrantorID},
	}
	for _, tc := range cases {
		if _, err := grant.Execute(context.Background(), tc.cmd); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
