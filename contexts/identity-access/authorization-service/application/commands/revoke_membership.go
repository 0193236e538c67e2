package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "scribe/contexts/identity-access/authorization-service/application"
	"scribe/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "scribe/contexts/identity-access/authorization-service/domain/errors"
	"scribe/contexts/identity-access/authorization-service/ports"
)

type RevokeMembershipCommand struct {
	UserID      string
	WorkspaceID string
	RoleID      string
	GrantorID   string
	Reason      string
}

type RevokeMembershipUseCase struct {
	Repository      ports.Repository
	PermissionCache ports.PermissionCache
	Clock           ports.Clock
	Logger          *slog.Logger
}

func (u RevokeMembershipUseCase) Execute(ctx context.Context, cmd RevokeMembershipCommand) (entities.WorkspaceMembership, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.UserID) == "" {
		return entities.WorkspaceMembership{}, domainerrors.ErrInvalidUserID
	}
	if strings.TrimSpace(cmd.WorkspaceID) == "" {
		return entities.WorkspaceMembership{}, domainerrors.ErrInvalidWorkspaceID
	}
	if strings.TrimSpace(cmd.RoleID) == "" {
		return entities.WorkspaceMembership{}, domainerrors.ErrInvalidRoleID
	}
	if strings.TrimSpace(cmd.GrantorID) == "" {
		return entities.WorkspaceMembership{}, domainerrors.ErrInvalidGrantorID
	}

	now := u.now()
	if err := ensureActorPermission(ctx, u.Repository, cmd.GrantorID, cmd.WorkspaceID, PermissionManageMembers, now); err != nil {
		return entities.WorkspaceMembership{}, err
	}

	membership, err := u.Repository.RevokeMembership(ctx, ports.RevokeMembershipInput{
		UserID:      strings.TrimSpace(cmd.UserID),
		WorkspaceID: strings.TrimSpace(cmd.WorkspaceID),
		RoleID:      strings.TrimSpace(cmd.RoleID),
		GrantorID:   strings.TrimSpace(cmd.GrantorID),
		Reason:      cmd.Reason,
		RevokedAt:   now,
	})
	if err != nil {
		return entities.WorkspaceMembership{}, err
	}

	if u.PermissionCache != nil {
		if err := u.PermissionCache.Invalidate(ctx, membership.UserID, membership.WorkspaceID); err != nil {
			logger.Warn("permission cache invalidate failed after revoke",
				"event", "authz_cache_invalidation_failed",
				"module", "identity-access/authorization-service",
				"layer", "application",
				"user_id", membership.UserID,
				"workspace_id", membership.WorkspaceID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("membership revoked",
		"event", "authz_membership_revoked",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"membership_id", membership.MembershipID,
		"user_id", membership.UserID,
		"workspace_id", membership.WorkspaceID,
		"role_id", membership.RoleID,
	)
	return membership, nil
}

func (u RevokeMembershipUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
