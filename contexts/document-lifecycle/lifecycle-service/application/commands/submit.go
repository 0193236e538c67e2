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

type SubmitVersionCommand struct {
	VersionID   string
	SubmitterID string
}

type SubmitResult struct {
	Version    entities.DocumentVersion
	Validation entities.Validation
}

type SubmitUseCase struct {
	Repository  ports.Repository
	Guard       ports.Guard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute moves a DRAFT into review, opening its pending validation. The
// application-level in-review check gives the friendly error; the storage
// constraint on (document_id, version_status) settles concurrent submits.
func (u SubmitUseCase) Execute(ctx context.Context, cmd SubmitVersionCommand) (SubmitResult, error) {
	logger := application.ResolveLogger(u.Logger)
	versionID := strings.TrimSpace(cmd.VersionID)
	submitterID := strings.TrimSpace(cmd.SubmitterID)
	if versionID == "" || submitterID == "" {
		return SubmitResult{}, domainerrors.ErrInvalidInput
	}

	var result SubmitResult
	err := u.Repository.WithinTx(ctx, func(tx ports.Repository) error {
		version, err := tx.GetVersion(ctx, versionID)
		if err != nil {
			return err
		}
		document, err := tx.GetDocument(ctx, version.DocumentID)
		if err != nil {
			return err
		}
		if err := ensurePermission(ctx, u.Guard, submitterID, document.WorkspaceID, PermissionSubmitDocument); err != nil {
			return err
		}
		if version.Status != entities.VersionStatusDraft {
			return domainerrors.ErrInvalidState
		}
		if _, found, err := tx.FindVersionByStatus(ctx, version.DocumentID, entities.VersionStatusInReview); err != nil {
			return err
		} else if found {
			return domainerrors.ErrInReviewConflict
		}

		validationID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		now := u.now()
		validation := entities.Validation{
			ValidationID: validationID,
			DocumentID:   version.DocumentID,
			Status:       entities.ValidationStatusPending,
			CreatedAt:    now,
		}
		if err := tx.CreateValidation(ctx, validation); err != nil {
			return err
		}

		version.Status = entities.VersionStatusInReview
		version.ValidationID = validationID
		version.UpdatedAt = now
		if err := tx.UpdateVersion(ctx, version); err != nil {
			return err
		}

		document.Status = entities.DocumentStatusPendingValidation
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
			DocumentID: version.DocumentID,
			Action:     entities.AuditActionVersionSubmitted,
			EntityType: entities.AuditEntityVersion,
			EntityID:   version.VersionID,
			ActorID:    submitterID,
			Metadata: map[string]string{
				"validation_id":  validationID,
				"version_number": strconv.Itoa(version.VersionNumber),
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		eventID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		envelope, err := newLifecycleEnvelope(eventID, EventTypeVersionSubmitted, version.DocumentID, now, map[string]any{
			"document_id":   version.DocumentID,
			"version_id":    version.VersionID,
			"validation_id": validationID,
			"submitted_by":  submitterID,
		})
		if err != nil {
			return err
		}
		if err := tx.AppendOutbox(ctx, envelope); err != nil {
			return err
		}

		result = SubmitResult{Version: version, Validation: validation}
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	logger.Info("version submitted for review",
		"event", "lifecycle_version_submitted",
		"module", "document-lifecycle/lifecycle-service",
		"layer", "application",
		"document_id", result.Version.DocumentID,
		"version_id", result.Version.VersionID,
		"validation_id", result.Validation.ValidationID,
	)
	return result, nil
}

func (u SubmitUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
