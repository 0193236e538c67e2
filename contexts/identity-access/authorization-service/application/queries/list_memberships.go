package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"scribe/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "scribe/contexts/identity-access/authorization-service/domain/errors"
	"scribe/contexts/identity-access/authorization-service/ports"
)

// ListMembershipsUseCase returns a user's memberships across workspaces.
type ListMembershipsUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u ListMembershipsUseCase) Execute(ctx context.Context, userID string) ([]entities.WorkspaceMembership, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrInvalidUserID
	}
	now := time.Now().UTC()
	if u.Clock != nil {
		now = u.Clock.Now().UTC()
	}
	return u.Repository.ListMemberships(ctx, strings.TrimSpace(userID), now)
}
