package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "scribe/contexts/document-lifecycle/lifecycle-service/application"
	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	domainerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
	"scribe/contexts/document-lifecycle/lifecycle-service/ports"
)

// RegisterDocumentCommand creates the document record that versions attach
// to. Registration does not create a draft; the first GetOrCreate does.
type RegisterDocumentCommand struct {
	WorkspaceID string
	Kind        string
	ActorID     string
}

type RegisterUseCase struct {
	Repository  ports.Repository
	Guard       ports.Guard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u RegisterUseCase) Execute(ctx context.Context, cmd RegisterDocumentCommand) (entities.Document, error) {
	logger := application.ResolveLogger(u.Logger)
	workspaceID := strings.TrimSpace(cmd.WorkspaceID)
	actorID := strings.TrimSpace(cmd.ActorID)
	kind := entities.DocumentKind(strings.TrimSpace(cmd.Kind))
	if workspaceID == "" || actorID == "" {
		return entities.Document{}, domainerrors.ErrInvalidInput
	}
	if !entities.ValidDocumentKind(kind) {
		return entities.Document{}, domainerrors.ErrInvalidInput
	}

	var document entities.Document
	err := u.Repository.WithinTx(ctx, func(tx ports.Repository) error {
		if err := ensurePermission(ctx, u.Guard, actorID, workspaceID, PermissionEditDocument); err != nil {
			return err
		}

		documentID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		now := u.now()
		document = entities.Document{
			DocumentID:  documentID,
			WorkspaceID: workspaceID,
			Kind:        kind,
			Status:      entities.DocumentStatusDraft,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.CreateDocument(ctx, document); err != nil {
			return err
		}

		auditID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		if err := tx.AppendAudit(ctx, entities.AuditEntry{
			AuditID:    auditID,
			DocumentID: documentID,
			Action:     entities.AuditActionDocumentRegistered,
			EntityType: entities.AuditEntityDocument,
			EntityID:   documentID,
			ActorID:    actorID,
			Metadata: map[string]string{
				"workspace_id": workspaceID,
				"kind":         string(kind),
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		eventID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		envelope, err := newLifecycleEnvelope(eventID, EventTypeDocumentRegistered, documentID, now, map[string]any{
			"document_id":  documentID,
			"workspace_id": workspaceID,
			"kind":         string(kind),
			"created_by":   actorID,
		})
		if err != nil {
			return err
		}
		return tx.AppendOutbox(ctx, envelope)
	})
	if err != nil {
		return entities.Document{}, err
	}

	logger.Info("document registered",
		"event", "lifecycle_document_registered",
		"module", "document-lifecycle/lifecycle-service",
		"layer", "application",
		"document_id", document.DocumentID,
		"workspace_id", workspaceID,
		"kind", string(kind),
	)
	return document, nil
}

func (u RegisterUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
