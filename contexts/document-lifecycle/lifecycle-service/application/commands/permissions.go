package commands

import (
	"context"
	"strings"

	domainerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
	"scribe/contexts/document-lifecycle/lifecycle-service/ports"
)

const (
	PermissionEditDocument   = "document.edit"
	PermissionSubmitDocument = "document.submit"
	PermissionReviewDocument = "document.review"
)

// ensurePermission runs the RBAC check for a transition. A nil guard means
// the deployment wires no RBAC at all; a wired guard that does not know the
// actor denies.
func ensurePermission(
	ctx context.Context,
	guard ports.Guard,
	actorID string,
	workspaceID string,
	permission string,
) error {
	if strings.TrimSpace(actorID) == "" {
		return domainerrors.ErrPermissionDenied
	}
	if guard == nil {
		return nil
	}
	allowed, err := guard.HasPermission(ctx, actorID, workspaceID, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return domainerrors.ErrPermissionDenied
	}
	return nil
}
