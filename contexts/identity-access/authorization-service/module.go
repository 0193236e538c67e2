package authorization

import (
	"log/slog"
	"time"

	httpadapter "scribe/contexts/identity-access/authorization-service/adapters/http"
	"scribe/contexts/identity-access/authorization-service/adapters/memory"
	"scribe/contexts/identity-access/authorization-service/application/commands"
	"scribe/contexts/identity-access/authorization-service/application/queries"
	"scribe/contexts/identity-access/authorization-service/ports"
)

// Module is the authorization-service composition root exposed to runtime
// wiring.
type Module struct {
	Handler         httpadapter.Handler
	CheckPermission queries.CheckPermissionUseCase
	Store           *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository         ports.Repository
	PermissionCache    ports.PermissionCache
	Clock              ports.Clock
	IDGenerator        ports.IDGenerator
	PermissionCacheTTL time.Duration
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	checkPermission := queries.CheckPermissionUseCase{
		Repository:         deps.Repository,
		PermissionCache:    deps.PermissionCache,
		Clock:              deps.Clock,
		PermissionCacheTTL: deps.PermissionCacheTTL,
		Logger:             deps.Logger,
	}
	listMemberships := queries.ListMembershipsUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	listRoles := queries.ListRolesUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	grantMembership := commands.GrantMembershipUseCase{
		Repository:      deps.Repository,
		PermissionCache: deps.PermissionCache,
		Clock:           deps.Clock,
		IDGenerator:     deps.IDGenerator,
		Logger:          deps.Logger,
	}
	revokeMembership := commands.RevokeMembershipUseCase{
		Repository:      deps.Repository,
		PermissionCache: deps.PermissionCache,
		Clock:           deps.Clock,
		Logger:          deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CheckPermission:  checkPermission,
			ListMemberships:  listMemberships,
			ListRoles:        listRoles,
			GrantMembership:  grantMembership,
			RevokeMembership: revokeMembership,
			Logger:           deps.Logger,
		},
		CheckPermission: checkPermission,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:         store,
		PermissionCache:    store,
		Clock:              store,
		IDGenerator:        store,
		PermissionCacheTTL: 5 * time.Minute,
		Logger:             logger,
	})
	module.Store = store
	return module
}
