package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"scribe/contexts/identity-access/authorization-service/adapters/memory"
	"scribe/contexts/identity-access/authorization-service/ports"
)

type failingRepository struct {
	ports.Repository
}

func (failingRepository) ListEffectivePermissions(context.Context, string, string, time.Time) ([]string, error) {
	return nil, errors.New("connection refused")
}

func TestCheckPermissionDeniesUnknownUser(t *testing.T) {
	store := memory.NewStore()
	check := CheckPermissionUseCase{Repository: store, PermissionCache: store, Clock: store}

	decision, err := check.Execute(context.Background(), CheckPermissionQuery{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Permission:  "document.edit",
	})
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected deny for user with no memberships")
	}
	if decision.Reason != "permission_missing" {
		t.Fatalf("expected permission_missing reason, got %s", decision.Reason)
	}
}

func TestCheckPermissionAllowsViaRole(t *testing.T) {
	store := memory.NewStore()
	store.SeedMembership("user-1", "ws-1", "author")
	check := CheckPermissionUseCase{Repository: store, PermissionCache: store, Clock: store}

	decision, err := check.Execute(context.Background(), CheckPermissionQuery{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Permission:  "document.submit",
	})
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if !decision.Allowed || decision.Reason != "permission_granted" {
		t.Fatalf("expected allow via author role, got %+v", decision)
	}

	decision, err = check.Execute(context.Background(), CheckPermissionQuery{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Permission:  "document.review",
	})
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected deny for permission outside role bundle")
	}
}

func TestCheckPermissionServesSecondLookupFromCache(t *testing.T) {
	store := memory.NewStore()
	store.SeedMembership("user-1", "ws-1", "viewer")
	check := CheckPermissionUseCase{Repository: store, PermissionCache: store, Clock: store}

	first, err := check.Execute(context.Background(), CheckPermissionQuery{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Permission:  "document.view",
	})
	if err != nil {
		t.Fatalf("first execute returned error: %v", err)
	}
	if first.CacheHit {
		t.Fatalf("expected cold lookup on first check")
	}

	second, err := check.Execute(context.Background(), CheckPermissionQuery{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Permission:  "document.view",
	})
	if err != nil {
		t.Fatalf("second execute returned error: %v", err)
	}
	if !second.CacheHit || !second.Allowed {
		t.Fatalf("expected cached allow, got %+v", second)
	}
}

func TestCheckPermissionDeniesByDefaultOnLookupFailure(t *testing.T) {
	check := CheckPermissionUseCase{Repository: failingRepository{}}

	decision, err := check.Execute(context.Background(), CheckPermissionQuery{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Permission:  "document.edit",
	})
	if err != nil {
		t.Fatalf("expected lookup failure swallowed, got %v", err)
	}
	if decision.Allowed || decision.Reason != "deny_by_default" {
		t.Fatalf("expected deny_by_default, got %+v", decision)
	}
}

func TestCheckPermissionSeesRevocationAfterInvalidation(t *testing.T) {
	store := memory.NewStore()
	store.SeedMembership("user-1", "ws-1", "reviewer")
	check := CheckPermissionUseCase{Repository: store, PermissionCache: store, Clock: store}
	ctx := context.Background()

	decision, err := check.Execute(ctx, CheckPermissionQuery{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Permission:  "document.review",
	})
	if err != nil || !decision.Allowed {
		t.Fatalf("expected allow before revoke, got %+v err=%v", decision, err)
	}

	if _, err := store.RevokeMembership(ctx, ports.RevokeMembershipInput{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		RoleID:      "reviewer",
		GrantorID:   "admin-1",
		RevokedAt:   time.Now().UTC(),
	}); err != nil {
		t.Fatalf("revoke returned error: %v", err)
	}
	if err := store.Invalidate(ctx, "user-1", "ws-1"); err != nil {
		t.Fatalf("invalidate returned error: %v", err)
	}

	decision, err = check.Execute(ctx, CheckPermissionQuery{
		UserID:      "user-1",
		WorkspaceID: "ws-1",
		Permission:  "document.review",
	})
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected deny after revoke and cache invalidation")
	}
}
