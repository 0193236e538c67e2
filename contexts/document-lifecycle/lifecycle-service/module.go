package lifecycleservice

import (
	"log/slog"

	httpadapter "scribe/contexts/document-lifecycle/lifecycle-service/adapters/http"
	"scribe/contexts/document-lifecycle/lifecycle-service/adapters/memory"
	"scribe/contexts/document-lifecycle/lifecycle-service/application/commands"
	"scribe/contexts/document-lifecycle/lifecycle-service/application/queries"
	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	"scribe/contexts/document-lifecycle/lifecycle-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Guard      ports.Guard
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	// CancelPermission rebinds the permission gating cancel_submission.
	// Empty keeps the default (same permission as submit).
	CancelPermission string
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	register := commands.RegisterUseCase{
		Repository:  deps.Repository,
		Guard:       deps.Guard,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}
	draft := commands.DraftUseCase{
		Repository:  deps.Repository,
		Guard:       deps.Guard,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}
	content := commands.ContentUseCase{
		Repository:  deps.Repository,
		Guard:       deps.Guard,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}
	submit := commands.SubmitUseCase{
		Repository:  deps.Repository,
		Guard:       deps.Guard,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}
	review := commands.ReviewUseCase{
		Repository:  deps.Repository,
		Guard:       deps.Guard,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}
	cancel := commands.CancelUseCase{
		Repository:  deps.Repository,
		Guard:       deps.Guard,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Permission:  deps.CancelPermission,
		Logger:      deps.Logger,
	}
	query := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Register: register,
			Draft:    draft,
			Content:  content,
			Submit:   submit,
			Review:   review,
			Cancel:   cancel,
			Query:    query,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Document, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Guard:      store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
