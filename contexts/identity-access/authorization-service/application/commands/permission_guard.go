package commands

import (
	"context"
	"time"

	domainerrors "scribe/contexts/identity-access/authorization-service/domain/errors"
	"scribe/contexts/identity-access/authorization-service/domain/services"
	"scribe/contexts/identity-access/authorization-service/ports"
)

// PermissionManageMembers gates membership grant/revoke inside a workspace.
const PermissionManageMembers = "workspace.manage_members"

func ensureActorPermission(
	ctx context.Context,
	repository ports.Repository,
	actorID string,
	workspaceID string,
	permission string,
	now time.Time,
) error {
	permissions, err := repository.ListEffectivePermissions(ctx, actorID, workspaceID, now)
	if err != nil {
		return err
	}
	if !services.GrantsPermission(permissions, permission) {
		return domainerrors.ErrForbidden
	}
	return nil
}
