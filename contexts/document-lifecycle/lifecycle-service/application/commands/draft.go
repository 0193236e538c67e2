package commands

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "scribe/contexts/document-lifecycle/lifecycle-service/application"
	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	domainerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
	"scribe/contexts/document-lifecycle/lifecycle-service/ports"
)

// GetOrCreateDraftCommand requests the document's editable draft, creating
// one when none exists. SourceVersionID optionally pins the content source.
type GetOrCreateDraftCommand struct {
	DocumentID      string
	SourceVersionID string
	ActorID         string
}

// CloneVersionCommand spawns a new draft lineage from a finalized version.
type CloneVersionCommand struct {
	DocumentID      string
	SourceVersionID string
	ActorID         string
}

type DraftUseCase struct {
	Repository  ports.Repository
	Guard       ports.Guard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// GetOrCreate is idempotent: an existing draft is returned unchanged. A
// version in review blocks draft creation. Content source priority is
// explicit source, then most recent rejected, then current approved, then
// the empty template.
func (u DraftUseCase) GetOrCreate(ctx context.Context, cmd GetOrCreateDraftCommand) (entities.DocumentVersion, error) {
	logger := application.ResolveLogger(u.Logger)
	documentID := strings.TrimSpace(cmd.DocumentID)
	actorID := strings.TrimSpace(cmd.ActorID)
	if documentID == "" || actorID == "" {
		return entities.DocumentVersion{}, domainerrors.ErrInvalidInput
	}

	var draft entities.DocumentVersion
	var reused bool
	err := u.Repository.WithinTx(ctx, func(tx ports.Repository) error {
		document, err := tx.GetDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if err := ensurePermission(ctx, u.Guard, actorID, document.WorkspaceID, PermissionEditDocument); err != nil {
			return err
		}

		existing, found, err := tx.FindVersionByStatus(ctx, documentID, entities.VersionStatusDraft)
		if err != nil {
			return err
		}
		if found {
			draft = existing
			reused = true
			return nil
		}

		source, hasSource, err := u.resolveSource(ctx, tx, documentID, strings.TrimSpace(cmd.SourceVersionID))
		if err != nil {
			return err
		}
		draft, err = u.createDraft(ctx, tx, document, source, hasSource, actorID)
		return err
	})
	if err != nil {
		return entities.DocumentVersion{}, err
	}

	logger.Info("draft resolved",
		"event", "lifecycle_draft_resolved",
		"module", "document-lifecycle/lifecycle-service",
		"layer", "application",
		"document_id", documentID,
		"version_id", draft.VersionID,
		"version_number", draft.VersionNumber,
		"reused", reused,
	)
	return draft, nil
}

// Clone requires the source to be APPROVED or REJECTED; beyond that it
// behaves exactly like GetOrCreate with an explicit source.
func (u DraftUseCase) Clone(ctx context.Context, cmd CloneVersionCommand) (entities.DocumentVersion, error) {
	logger := application.ResolveLogger(u.Logger)
	documentID := strings.TrimSpace(cmd.DocumentID)
	sourceID := strings.TrimSpace(cmd.SourceVersionID)
	actorID := strings.TrimSpace(cmd.ActorID)
	if documentID == "" || sourceID == "" || actorID == "" {
		return entities.DocumentVersion{}, domainerrors.ErrInvalidInput
	}

	var draft entities.DocumentVersion
	err := u.Repository.WithinTx(ctx, func(tx ports.Repository) error {
		document, err := tx.GetDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if err := ensurePermission(ctx, u.Guard, actorID, document.WorkspaceID, PermissionEditDocument); err != nil {
			return err
		}

		source, err := tx.GetVersion(ctx, sourceID)
		if err != nil {
			return err
		}
		if source.DocumentID != documentID {
			return domainerrors.ErrVersionNotFound
		}
		if !source.Cloneable() {
			return domainerrors.ErrInvalidState
		}

		existing, found, err := tx.FindVersionByStatus(ctx, documentID, entities.VersionStatusDraft)
		if err != nil {
			return err
		}
		if found {
			draft = existing
			return nil
		}

		draft, err = u.createDraft(ctx, tx, document, source, true, actorID)
		return err
	})
	if err != nil {
		return entities.DocumentVersion{}, err
	}

	logger.Info("version cloned to draft",
		"event", "lifecycle_version_cloned",
		"module", "document-lifecycle/lifecycle-service",
		"layer", "application",
		"document_id", documentID,
		"source_version_id", sourceID,
		"version_id", draft.VersionID,
	)
	return draft, nil
}

func (u DraftUseCase) resolveSource(
	ctx context.Context,
	tx ports.Repository,
	documentID string,
	explicitID string,
) (entities.DocumentVersion, bool, error) {
	if explicitID != "" {
		source, err := tx.GetVersion(ctx, explicitID)
		if err != nil {
			return entities.DocumentVersion{}, false, err
		}
		if source.DocumentID != documentID {
			return entities.DocumentVersion{}, false, domainerrors.ErrVersionNotFound
		}
		return source, true, nil
	}

	rejected, found, err := tx.LatestRejectedVersion(ctx, documentID)
	if err != nil {
		return entities.DocumentVersion{}, false, err
	}
	if found {
		return rejected, true, nil
	}

	current, found, err := tx.CurrentVersion(ctx, documentID)
	if err != nil {
		return entities.DocumentVersion{}, false, err
	}
	if found {
		return current, true, nil
	}
	return entities.DocumentVersion{}, false, nil
}

func (u DraftUseCase) createDraft(
	ctx context.Context,
	tx ports.Repository,
	document entities.Document,
	source entities.DocumentVersion,
	hasSource bool,
	actorID string,
) (entities.DocumentVersion, error) {
	if _, found, err := tx.FindVersionByStatus(ctx, document.DocumentID, entities.VersionStatusInReview); err != nil {
		return entities.DocumentVersion{}, err
	} else if found {
		return entities.DocumentVersion{}, domainerrors.ErrInReviewConflict
	}

	latest, err := tx.LatestVersionNumber(ctx, document.DocumentID)
	if err != nil {
		return entities.DocumentVersion{}, err
	}
	versionID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.DocumentVersion{}, err
	}

	now := u.now()
	content := entities.EmptyContent()
	supersedes := ""
	if hasSource {
		content = source.Content.Clone()
		supersedes = source.VersionID
	}

	version := entities.DocumentVersion{
		VersionID:           versionID,
		DocumentID:          document.DocumentID,
		VersionNumber:       latest + 1,
		Status:              entities.VersionStatusDraft,
		SupersedesVersionID: supersedes,
		Content:             content,
		CreatedBy:           actorID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := tx.CreateVersion(ctx, version); err != nil {
		return entities.DocumentVersion{}, err
	}

	if document.HasApprovedVersion() {
		document.Status = entities.DocumentStatusApproved
	} else {
		document.Status = entities.DocumentStatusDraft
	}
	document.UpdatedAt = now
	if err := tx.UpdateDocument(ctx, document); err != nil {
		return entities.DocumentVersion{}, err
	}

	auditID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.DocumentVersion{}, err
	}
	if err := tx.AppendAudit(ctx, entities.AuditEntry{
		AuditID:    auditID,
		DocumentID: document.DocumentID,
		Action:     entities.AuditActionDraftCreated,
		EntityType: entities.AuditEntityVersion,
		EntityID:   version.VersionID,
		ActorID:    actorID,
		Metadata: map[string]string{
			"version_number":        strconv.Itoa(version.VersionNumber),
			"supersedes_version_id": supersedes,
		},
		CreatedAt: now,
	}); err != nil {
		return entities.DocumentVersion{}, err
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.DocumentVersion{}, err
	}
	envelope, err := newLifecycleEnvelope(eventID, EventTypeDraftCreated, document.DocumentID, now, map[string]any{
		"document_id":    document.DocumentID,
		"version_id":     version.VersionID,
		"version_number": version.VersionNumber,
		"created_by":     actorID,
	})
	if err != nil {
		return entities.DocumentVersion{}, err
	}
	if err := tx.AppendOutbox(ctx, envelope); err != nil {
		return entities.DocumentVersion{}, err
	}
	return version, nil
}

func (u DraftUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
