package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	domainerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
	"scribe/contexts/document-lifecycle/lifecycle-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Partial unique index names created by Migrate. Violations are the
// single-winner outcome for concurrent writers racing the application-level
// existence checks.
const (
	draftUniqueIndex    = "document_versions_one_draft_idx"
	inReviewUniqueIndex = "document_versions_one_in_review_idx"
	currentUniqueIndex  = "document_versions_one_current_idx"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// WithinTx scopes fn to one gorm transaction; the nested repository shares
// the tx handle, so every write inside fn commits or rolls back together.
func (r *Repository) WithinTx(ctx context.Context, fn func(ports.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger})
	})
}

func (r *Repository) GetDocument(ctx context.Context, documentID string) (entities.Document, error) {
	var row documentModel
	err := r.db.WithContext(ctx).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Document{}, domainerrors.ErrDocumentNotFound
		}
		return entities.Document{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateDocument(ctx context.Context, document entities.Document) error {
	row := documentModelFromEntity(document)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) UpdateDocument(ctx context.Context, document entities.Document) error {
	row := documentModelFromEntity(document)
	result := r.db.WithContext(ctx).
		Model(&documentModel{}).
		Where("document_id = ?", row.DocumentID).
		Updates(map[string]any{
			"workspace_id":        row.WorkspaceID,
			"kind":                row.Kind,
			"approved_version_id": row.ApprovedVersionID,
			"status":              row.Status,
			"updated_at":          row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDocumentNotFound
	}
	return nil
}

func (r *Repository) GetVersion(ctx context.Context, versionID string) (entities.DocumentVersion, error) {
	var row documentVersionModel
	err := r.db.WithContext(ctx).
		Where("version_id = ?", strings.TrimSpace(versionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DocumentVersion{}, domainerrors.ErrVersionNotFound
		}
		return entities.DocumentVersion{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindVersionByStatus(ctx context.Context, documentID string, status entities.VersionStatus) (entities.DocumentVersion, bool, error) {
	var row documentVersionModel
	err := r.db.WithContext(ctx).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		Where("version_status = ?", string(status)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DocumentVersion{}, false, nil
		}
		return entities.DocumentVersion{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) FindVersionByValidation(ctx context.Context, validationID string) (entities.DocumentVersion, bool, error) {
	var row documentVersionModel
	err := r.db.WithContext(ctx).
		Where("validation_id = ?", strings.TrimSpace(validationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DocumentVersion{}, false, nil
		}
		return entities.DocumentVersion{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CurrentVersion(ctx context.Context, documentID string) (entities.DocumentVersion, bool, error) {
	var row documentVersionModel
	err := r.db.WithContext(ctx).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		Where("is_current = ?", true).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DocumentVersion{}, false, nil
		}
		return entities.DocumentVersion{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) LatestVersionNumber(ctx context.Context, documentID string) (int, error) {
	var latest int
	err := r.db.WithContext(ctx).
		Model(&documentVersionModel{}).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&latest).
		Error
	if err != nil {
		return 0, err
	}
	return latest, nil
}

func (r *Repository) LatestRejectedVersion(ctx context.Context, documentID string) (entities.DocumentVersion, bool, error) {
	var row documentVersionModel
	err := r.db.WithContext(ctx).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		Where("version_status = ?", string(entities.VersionStatusRejected)).
		Order("version_number DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DocumentVersion{}, false, nil
		}
		return entities.DocumentVersion{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVersions(ctx context.Context, documentID string) ([]entities.DocumentVersion, error) {
	var rows []documentVersionModel
	err := r.db.WithContext(ctx).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		Order("version_number DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.DocumentVersion, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateVersion(ctx context.Context, version entities.DocumentVersion) error {
	row, err := versionModelFromEntity(version)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (r *Repository) UpdateVersion(ctx context.Context, version entities.DocumentVersion) error {
	row, err := versionModelFromEntity(version)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&documentVersionModel{}).
		Where("version_id = ?", row.VersionID).
		Updates(map[string]any{
			"version_status":        row.VersionStatus,
			"supersedes_version_id": row.SupersedesVersionID,
			"content_payload":       row.ContentPayload,
			"approved_by":           row.ApprovedBy,
			"approved_at":           row.ApprovedAt,
			"rejected_by":           row.RejectedBy,
			"rejected_at":           row.RejectedAt,
			"validation_id":         row.ValidationID,
			"is_current":            row.IsCurrent,
			"updated_at":            row.UpdatedAt,
		})
	if result.Error != nil {
		return translateUniqueViolation(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVersionNotFound
	}
	return nil
}

func (r *Repository) GetValidation(ctx context.Context, validationID string) (entities.Validation, error) {
	var row validationModel
	err := r.db.WithContext(ctx).
		Where("validation_id = ?", strings.TrimSpace(validationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Validation{}, domainerrors.ErrValidationNotFound
		}
		return entities.Validation{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) PendingValidation(ctx context.Context, documentID string) (entities.Validation, bool, error) {
	var row validationModel
	err := r.db.WithContext(ctx).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		Where("status = ?", string(entities.ValidationStatusPending)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Validation{}, false, nil
		}
		return entities.Validation{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateValidation(ctx context.Context, validation entities.Validation) error {
	row := validationModelFromEntity(validation)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) UpdateValidation(ctx context.Context, validation entities.Validation) error {
	row := validationModelFromEntity(validation)
	result := r.db.WithContext(ctx).
		Model(&validationModel{}).
		Where("validation_id = ?", row.ValidationID).
		Updates(map[string]any{
			"status":       row.Status,
			"observations": row.Observations,
			"completed_at": row.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrValidationNotFound
	}
	return nil
}

func (r *Repository) AppendAudit(ctx context.Context, entry entities.AuditEntry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return err
	}
	row := auditModel{
		AuditID:    strings.TrimSpace(entry.AuditID),
		DocumentID: strings.TrimSpace(entry.DocumentID),
		Action:     strings.TrimSpace(entry.Action),
		EntityType: strings.TrimSpace(entry.EntityType),
		EntityID:   strings.TrimSpace(entry.EntityID),
		ActorID:    strings.TrimSpace(entry.ActorID),
		Metadata:   metadata,
		CreatedAt:  entry.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListAudit(ctx context.Context, documentID string, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []auditModel
	err := r.db.WithContext(ctx).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.AuditEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case draftUniqueIndex:
		return domainerrors.ErrDraftConflict
	case inReviewUniqueIndex:
		return domainerrors.ErrInReviewConflict
	}
	return err
}
