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

type ApproveVersionCommand struct {
	ValidationID string
	ApproverID   string
}

type RejectVersionCommand struct {
	ValidationID string
	RejectorID   string
	Observations string
}

type ReviewResult struct {
	Version    entities.DocumentVersion
	Validation entities.Validation
}

type ReviewUseCase struct {
	Repository  ports.Repository
	Guard       ports.Guard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Approve publishes the version under review. The previously current
// version, if any, is demoted to OBSOLETE in the same transaction.
// Segregation of duties is identity-based: holding the review permission
// does not exempt the version's creator.
func (u ReviewUseCase) Approve(ctx context.Context, cmd ApproveVersionCommand) (ReviewResult, error) {
	logger := application.ResolveLogger(u.Logger)
	validationID := strings.TrimSpace(cmd.ValidationID)
	approverID := strings.TrimSpace(cmd.ApproverID)
	if validationID == "" || approverID == "" {
		return ReviewResult{}, domainerrors.ErrInvalidInput
	}

	var result ReviewResult
	err := u.Repository.WithinTx(ctx, func(tx ports.Repository) error {
		validation, version, document, err := u.loadReviewState(ctx, tx, validationID)
		if err != nil {
			return err
		}
		if err := ensurePermission(ctx, u.Guard, approverID, document.WorkspaceID, PermissionReviewDocument); err != nil {
			return err
		}
		if approverID == version.CreatedBy {
			return domainerrors.ErrSegregationViolation
		}

		now := u.now()
		if prior, found, err := tx.CurrentVersion(ctx, version.DocumentID); err != nil {
			return err
		} else if found && prior.VersionID != version.VersionID {
			prior.Status = entities.VersionStatusObsolete
			prior.IsCurrent = false
			prior.UpdatedAt = now
			if err := tx.UpdateVersion(ctx, prior); err != nil {
				return err
			}
		}

		version.Status = entities.VersionStatusApproved
		version.IsCurrent = true
		version.ApprovedBy = approverID
		version.ApprovedAt = &now
		version.UpdatedAt = now
		if err := tx.UpdateVersion(ctx, version); err != nil {
			return err
		}

		validation.Status = entities.ValidationStatusApproved
		validation.CompletedAt = &now
		if err := tx.UpdateValidation(ctx, validation); err != nil {
			return err
		}

		document.ApprovedVersionID = version.VersionID
		document.Status = entities.DocumentStatusApproved
		document.UpdatedAt = now
		if err := tx.UpdateDocument(ctx, document); err != nil {
			return err
		}

		if err := u.appendReviewAudit(ctx, tx, entities.AuditActionVersionApproved, version, validation, approverID, now, nil); err != nil {
			return err
		}
		if err := u.appendReviewEvent(ctx, tx, EventTypeVersionApproved, version, validation, approverID, now); err != nil {
			return err
		}

		result = ReviewResult{Version: version, Validation: validation}
		return nil
	})
	if err != nil {
		return ReviewResult{}, err
	}

	logger.Info("version approved",
		"event", "lifecycle_version_approved",
		"module", "document-lifecycle/lifecycle-service",
		"layer", "application",
		"document_id", result.Version.DocumentID,
		"version_id", result.Version.VersionID,
		"validation_id", result.Validation.ValidationID,
		"approved_by", approverID,
	)
	return result, nil
}

// Reject declines the version under review. Observations are mandatory and
// recorded on the validation.
func (u ReviewUseCase) Reject(ctx context.Context, cmd RejectVersionCommand) (ReviewResult, error) {
	logger := application.ResolveLogger(u.Logger)
	validationID := strings.TrimSpace(cmd.ValidationID)
	rejectorID := strings.TrimSpace(cmd.RejectorID)
	if validationID == "" || rejectorID == "" {
		return ReviewResult{}, domainerrors.ErrInvalidInput
	}
	if !entities.ValidObservations(cmd.Observations) {
		return ReviewResult{}, domainerrors.ErrObservationsRequired
	}

	var result ReviewResult
	err := u.Repository.WithinTx(ctx, func(tx ports.Repository) error {
		validation, version, document, err := u.loadReviewState(ctx, tx, validationID)
		if err != nil {
			return err
		}
		if err := ensurePermission(ctx, u.Guard, rejectorID, document.WorkspaceID, PermissionReviewDocument); err != nil {
			return err
		}
		if rejectorID == version.CreatedBy {
			return domainerrors.ErrSegregationViolation
		}

		now := u.now()
		version.Status = entities.VersionStatusRejected
		version.RejectedBy = rejectorID
		version.RejectedAt = &now
		version.UpdatedAt = now
		if err := tx.UpdateVersion(ctx, version); err != nil {
			return err
		}

		validation.Status = entities.ValidationStatusRejected
		validation.Observations = strings.TrimSpace(cmd.Observations)
		validation.CompletedAt = &now
		if err := tx.UpdateValidation(ctx, validation); err != nil {
			return err
		}

		document.Status = entities.DocumentStatusRejected
		document.UpdatedAt = now
		if err := tx.UpdateDocument(ctx, document); err != nil {
			return err
		}

		if err := u.appendReviewAudit(ctx, tx, entities.AuditActionVersionRejected, version, validation, rejectorID, now, map[string]string{
			"observations": validation.Observations,
		}); err != nil {
			return err
		}
		if err := u.appendReviewEvent(ctx, tx, EventTypeVersionRejected, version, validation, rejectorID, now); err != nil {
			return err
		}

		result = ReviewResult{Version: version, Validation: validation}
		return nil
	})
	if err != nil {
		return ReviewResult{}, err
	}

	logger.Info("version rejected",
		"event", "lifecycle_version_rejected",
		"module", "document-lifecycle/lifecycle-service",
		"layer", "application",
		"document_id", result.Version.DocumentID,
		"version_id", result.Version.VersionID,
		"validation_id", result.Validation.ValidationID,
		"rejected_by", rejectorID,
	)
	return result, nil
}

func (u ReviewUseCase) loadReviewState(
	ctx context.Context,
	tx ports.Repository,
	validationID string,
) (entities.Validation, entities.DocumentVersion, entities.Document, error) {
	validation, err := tx.GetValidation(ctx, validationID)
	if err != nil {
		return entities.Validation{}, entities.DocumentVersion{}, entities.Document{}, err
	}
	if !validation.IsPending() {
		return entities.Validation{}, entities.DocumentVersion{}, entities.Document{}, domainerrors.ErrInvalidState
	}
	version, found, err := tx.FindVersionByValidation(ctx, validationID)
	if err != nil {
		return entities.Validation{}, entities.DocumentVersion{}, entities.Document{}, err
	}
	if !found {
		return entities.Validation{}, entities.DocumentVersion{}, entities.Document{}, domainerrors.ErrVersionNotFound
	}
	document, err := tx.GetDocument(ctx, version.DocumentID)
	if err != nil {
		return entities.Validation{}, entities.DocumentVersion{}, entities.Document{}, err
	}
	return validation, version, document, nil
}

func (u ReviewUseCase) appendReviewAudit(
	ctx context.Context,
	tx ports.Repository,
	action string,
	version entities.DocumentVersion,
	validation entities.Validation,
	actorID string,
	now time.Time,
	extra map[string]string,
) error {
	auditID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	metadata := map[string]string{
		"validation_id":  validation.ValidationID,
		"version_number": strconv.Itoa(version.VersionNumber),
	}
	for key, value := range extra {
		metadata[key] = value
	}
	return tx.AppendAudit(ctx, entities.AuditEntry{
		AuditID:    auditID,
		DocumentID: version.DocumentID,
		Action:     action,
		EntityType: entities.AuditEntityVersion,
		EntityID:   version.VersionID,
		ActorID:    actorID,
		Metadata:   metadata,
		CreatedAt:  now,
	})
}

func (u ReviewUseCase) appendReviewEvent(
	ctx context.Context,
	tx ports.Repository,
	eventType string,
	version entities.DocumentVersion,
	validation entities.Validation,
	actorID string,
	now time.Time,
) error {
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newLifecycleEnvelope(eventID, eventType, version.DocumentID, now, map[string]any{
		"document_id":   version.DocumentID,
		"version_id":    version.VersionID,
		"validation_id": validation.ValidationID,
		"actor_id":      actorID,
	})
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, envelope)
}

func (u ReviewUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
