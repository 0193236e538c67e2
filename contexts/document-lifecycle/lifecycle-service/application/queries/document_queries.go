package queries

import (
	"context"
	"log/slog"
	"strings"

	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	domainerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
	"scribe/contexts/document-lifecycle/lifecycle-service/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// DocumentDetail is the read model for a document plus its live versions.
type DocumentDetail struct {
	Document       entities.Document
	CurrentVersion *entities.DocumentVersion
	DraftVersion   *entities.DocumentVersion
}

// EditableResult reports whether a new edit can start on the document.
// Editing is blocked if and only if a version is IN_REVIEW; an approved
// document with no open review remains editable through a new draft.
type EditableResult struct {
	Editable bool   `json:"editable"`
	Reason   string `json:"reason,omitempty"`
}

func (q QueryUseCase) GetDocument(ctx context.Context, documentID string) (DocumentDetail, error) {
	document, err := q.Repository.GetDocument(ctx, strings.TrimSpace(documentID))
	if err != nil {
		return DocumentDetail{}, err
	}

	detail := DocumentDetail{Document: document}
	if current, found, err := q.Repository.CurrentVersion(ctx, document.DocumentID); err != nil {
		return DocumentDetail{}, err
	} else if found {
		detail.CurrentVersion = &current
	}
	if draft, found, err := q.Repository.FindVersionByStatus(ctx, document.DocumentID, entities.VersionStatusDraft); err != nil {
		return DocumentDetail{}, err
	} else if found {
		detail.DraftVersion = &draft
	}
	return detail, nil
}

func (q QueryUseCase) ListVersions(ctx context.Context, documentID string) ([]entities.DocumentVersion, error) {
	documentID = strings.TrimSpace(documentID)
	if _, err := q.Repository.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return q.Repository.ListVersions(ctx, documentID)
}

func (q QueryUseCase) CheckEditable(ctx context.Context, documentID string) (EditableResult, error) {
	documentID = strings.TrimSpace(documentID)
	if _, err := q.Repository.GetDocument(ctx, documentID); err != nil {
		return EditableResult{}, err
	}
	if _, found, err := q.Repository.FindVersionByStatus(ctx, documentID, entities.VersionStatusInReview); err != nil {
		return EditableResult{}, err
	} else if found {
		return EditableResult{Editable: false, Reason: "a version is in review"}, nil
	}
	return EditableResult{Editable: true}, nil
}

func (q QueryUseCase) PendingValidation(ctx context.Context, documentID string) (entities.Validation, bool, error) {
	documentID = strings.TrimSpace(documentID)
	if _, err := q.Repository.GetDocument(ctx, documentID); err != nil {
		return entities.Validation{}, false, err
	}
	return q.Repository.PendingValidation(ctx, documentID)
}

// History returns the audit trail newest-first.
func (q QueryUseCase) History(ctx context.Context, documentID string, limit int) ([]entities.AuditEntry, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if _, err := q.Repository.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	return q.Repository.ListAudit(ctx, documentID, limit)
}
