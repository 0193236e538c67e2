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

type CancelSubmissionCommand struct {
	DocumentID string
	VersionID  string
	ActorID    string
}

// CancelUseCase reverts IN_REVIEW back to DRAFT. Only the version creator
// may cancel. Permission is a wiring decision: deployments that want cancel
// gated differently from submit rebind Permission.
type CancelUseCase struct {
	Repository  ports.Repository
	Guard       ports.Guard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Permission  string
	Logger      *slog.Logger
}

func (u CancelUseCase) Execute(ctx context.Context, cmd CancelSubmissionCommand) (entities.DocumentVersion, error) {
	logger := application.ResolveLogger(u.Logger)
	documentID := strings.TrimSpace(cmd.DocumentID)
	versionID := strings.TrimSpace(cmd.VersionID)
	actorID := strings.TrimSpace(cmd.ActorID)
	if documentID == "" || versionID == "" || actorID == "" {
		return entities.DocumentVersion{}, domainerrors.ErrInvalidInput
	}

	var reverted entities.DocumentVersion
	err := u.Repository.WithinTx(ctx, func(tx ports.Repository) error {
		version, err := tx.GetVersion(ctx, versionID)
		if err != nil {
			return err
		}
		if version.DocumentID != documentID {
			return domainerrors.ErrVersionNotFound
		}
		document, err := tx.GetDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if err := ensurePermission(ctx, u.Guard, actorID, document.WorkspaceID, u.permission()); err != nil {
			return err
		}
		if version.Status != entities.VersionStatusInReview {
			return domainerrors.ErrInvalidState
		}
		if actorID != version.CreatedBy {
			return domainerrors.ErrPermissionDenied
		}

		validation, err := tx.GetValidation(ctx, version.ValidationID)
		if err != nil {
			return err
		}

		now := u.now()
		validation.Status = entities.ValidationStatusCancelled
		validation.CompletedAt = &now
		if err := tx.UpdateValidation(ctx, validation); err != nil {
			return err
		}

		cancelledValidationID := version.ValidationID
		version.Status = entities.VersionStatusDraft
		version.ValidationID = ""
		version.UpdatedAt = now
		if err := tx.UpdateVersion(ctx, version); err != nil {
			return err
		}

		if document.HasApprovedVersion() {
			document.Status = entities.DocumentStatusApproved
		} else {
			document.Status = entities.DocumentStatusDraft
		}
		document.UpdatedAt = now
		if err := tx.UpdateDocument(ctx, document); err != nil {
			return err
		}

		auditID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		if err := tx.AppendAudit(ctx, entities.AuditEntry{
			AuditID:    auditID,
			DocumentID: documentID,
			Action:     entities.AuditActionSubmissionCancelled,
			EntityType: entities.AuditEntityVersion,
			EntityID:   version.VersionID,
			ActorID:    actorID,
			Metadata: map[string]string{
				"validation_id": cancelledValidationID,
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		eventID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		envelope, err := newLifecycleEnvelope(eventID, EventTypeSubmissionCancelled, documentID, now, map[string]any{
			"document_id":   documentID,
			"version_id":    version.VersionID,
			"validation_id": cancelledValidationID,
			"cancelled_by":  actorID,
		})
		if err != nil {
			return err
		}
		if err := tx.AppendOutbox(ctx, envelope); err != nil {
			return err
		}

		reverted = version
		return nil
	})
	if err != nil {
		return entities.DocumentVersion{}, err
	}

	logger.Info("submission cancelled",
		"event", "lifecycle_submission_cancelled",
		"module", "document-lifecycle/lifecycle-service",
		"layer", "application",
		"document_id", documentID,
		"version_id", reverted.VersionID,
	)
	return reverted, nil
}

func (u CancelUseCase) permission() string {
	if strings.TrimSpace(u.Permission) == "" {
		return PermissionSubmitDocument
	}
	return u.Permission
}

func (u CancelUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
