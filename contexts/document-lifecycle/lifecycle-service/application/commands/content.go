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

// UpdateDraftCommand replaces the content payload of the document's draft.
// Only DRAFT versions accept edits; anything later in the lifecycle is
// immutable.
type UpdateDraftCommand struct {
	DocumentID string
	VersionID  string
	Content    entities.ContentPayload
	ActorID    string
}

type ContentUseCase struct {
	Repository  ports.Repository
	Guard       ports.Guard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u ContentUseCase) UpdateDraft(ctx context.Context, cmd UpdateDraftCommand) (entities.DocumentVersion, error) {
	logger := application.ResolveLogger(u.Logger)
	documentID := strings.TrimSpace(cmd.DocumentID)
	versionID := strings.TrimSpace(cmd.VersionID)
	actorID := strings.TrimSpace(cmd.ActorID)
	if documentID == "" || versionID == "" || actorID == "" {
		return entities.DocumentVersion{}, domainerrors.ErrInvalidInput
	}

	var updated entities.DocumentVersion
	err := u.Repository.WithinTx(ctx, func(tx ports.Repository) error {
		document, err := tx.GetDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if err := ensurePermission(ctx, u.Guard, actorID, document.WorkspaceID, PermissionEditDocument); err != nil {
			return err
		}

		version, err := tx.GetVersion(ctx, versionID)
		if err != nil {
			return err
		}
		if version.DocumentID != documentID {
			return domainerrors.ErrVersionNotFound
		}
		if !version.Editable() {
			return domainerrors.ErrInvalidState
		}

		now := u.now()
		version.Content = cmd.Content.Clone()
		if version.Content.Schema == 0 {
			version.Content.Schema = entities.ContentSchemaVersion
		}
		version.UpdatedAt = now
		if err := tx.UpdateVersion(ctx, version); err != nil {
			return err
		}

		auditID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		if err := tx.AppendAudit(ctx, entities.AuditEntry{
			AuditID:    auditID,
			DocumentID: documentID,
			Action:     entities.AuditActionDraftContentUpdated,
			EntityType: entities.AuditEntityVersion,
			EntityID:   version.VersionID,
			ActorID:    actorID,
			Metadata: map[string]string{
				"title": version.Content.Title,
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		updated = version
		return nil
	})
	if err != nil {
		return entities.DocumentVersion{}, err
	}

	logger.Info("draft content updated",
		"event", "lifecycle_draft_content_updated",
		"module", "document-lifecycle/lifecycle-service",
		"layer", "application",
		"document_id", documentID,
		"version_id", versionID,
	)
	return updated, nil
}

func (u ContentUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
