package queries

import (
	"context"
	"log/slog"

	"scribe/contexts/identity-access/authorization-service/domain/entities"
	"scribe/contexts/identity-access/authorization-service/ports"
)

// ListRolesUseCase exposes the role catalogue.
type ListRolesUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ListRolesUseCase) Execute(ctx context.Context) ([]entities.Role, error) {
	return u.Repository.ListRoles(ctx)
}
