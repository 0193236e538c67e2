package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
)

type documentModel struct {
	DocumentID        string    `gorm:"column:document_id;primaryKey"`
	WorkspaceID       string    `gorm:"column:workspace_id"`
	Kind              string    `gorm:"column:kind"`
	ApprovedVersionID string    `gorm:"column:approved_version_id"`
	Status            string    `gorm:"column:status"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (documentModel) TableName() string {
	return "documents"
}

func documentModelFromEntity(item entities.Document) documentModel {
	return documentModel{
		DocumentID:        strings.TrimSpace(item.DocumentID),
		WorkspaceID:       strings.TrimSpace(item.WorkspaceID),
		Kind:              string(item.Kind),
		ApprovedVersionID: strings.TrimSpace(item.ApprovedVersionID),
		Status:            string(item.Status),
		CreatedAt:         item.CreatedAt.UTC(),
		UpdatedAt:         item.UpdatedAt.UTC(),
	}
}

func (m documentModel) toEntity() entities.Document {
	return entities.Document{
		DocumentID:        m.DocumentID,
		WorkspaceID:       m.WorkspaceID,
		Kind:              entities.DocumentKind(m.Kind),
		ApprovedVersionID: m.ApprovedVersionID,
		Status:            entities.DocumentStatus(m.Status),
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type documentVersionModel struct {
	VersionID           string     `gorm:"column:version_id;primaryKey"`
	DocumentID          string     `gorm:"column:document_id"`
	VersionNumber       int        `gorm:"column:version_number"`
	VersionStatus       string     `gorm:"column:version_status"`
	SupersedesVersionID string     `gorm:"column:supersedes_version_id"`
	ContentPayload      []byte     `gorm:"column:content_payload"`
	CreatedBy           string     `gorm:"column:created_by"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	ApprovedBy          string     `gorm:"column:approved_by"`
	ApprovedAt          *time.Time `gorm:"column:approved_at"`
	RejectedBy          string     `gorm:"column:rejected_by"`
	RejectedAt          *time.Time `gorm:"column:rejected_at"`
	ValidationID        string     `gorm:"column:validation_id"`
	IsCurrent           bool       `gorm:"column:is_current"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (documentVersionModel) TableName() string {
	return "document_versions"
}

func versionModelFromEntity(item entities.DocumentVersion) (documentVersionModel, error) {
	content, err := json.Marshal(item.Content)
	if err != nil {
		return documentVersionModel{}, err
	}
	return documentVersionModel{
		VersionID:           strings.TrimSpace(item.VersionID),
		DocumentID:          strings.TrimSpace(item.DocumentID),
		VersionNumber:       item.VersionNumber,
		VersionStatus:       string(item.Status),
		SupersedesVersionID: strings.TrimSpace(item.SupersedesVersionID),
		ContentPayload:      content,
		CreatedBy:           strings.TrimSpace(item.CreatedBy),
		CreatedAt:           item.CreatedAt.UTC(),
		ApprovedBy:          strings.TrimSpace(item.ApprovedBy),
		ApprovedAt:          normalizeOptionalTime(item.ApprovedAt),
		RejectedBy:          strings.TrimSpace(item.RejectedBy),
		RejectedAt:          normalizeOptionalTime(item.RejectedAt),
		ValidationID:        strings.TrimSpace(item.ValidationID),
		IsCurrent:           item.IsCurrent,
		UpdatedAt:           item.UpdatedAt.UTC(),
	}, nil
}

func (m documentVersionModel) toEntity() entities.DocumentVersion {
	content := entities.EmptyContent()
	if len(m.ContentPayload) > 0 {
		_ = json.Unmarshal(m.ContentPayload, &content)
	}
	return entities.DocumentVersion{
		VersionID:           m.VersionID,
		DocumentID:          m.DocumentID,
		VersionNumber:       m.VersionNumber,
		Status:              entities.VersionStatus(m.VersionStatus),
		SupersedesVersionID: m.SupersedesVersionID,
		Content:             content,
		CreatedBy:           m.CreatedBy,
		CreatedAt:           m.CreatedAt.UTC(),
		ApprovedBy:          m.ApprovedBy,
		ApprovedAt:          normalizeOptionalTime(m.ApprovedAt),
		RejectedBy:          m.RejectedBy,
		RejectedAt:          normalizeOptionalTime(m.RejectedAt),
		ValidationID:        m.ValidationID,
		IsCurrent:           m.IsCurrent,
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}

type validationModel struct {
	ValidationID string     `gorm:"column:validation_id;primaryKey"`
	DocumentID   string     `gorm:"column:document_id"`
	Status       string     `gorm:"column:status"`
	Observations string     `gorm:"column:observations"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
}

func (validationModel) TableName() string {
	return "validations"
}

func validationModelFromEntity(item entities.Validation) validationModel {
	return validationModel{
		ValidationID: strings.TrimSpace(item.ValidationID),
		DocumentID:   strings.TrimSpace(item.DocumentID),
		Status:       string(item.Status),
		Observations: item.Observations,
		CreatedAt:    item.CreatedAt.UTC(),
		CompletedAt:  normalizeOptionalTime(item.CompletedAt),
	}
}

func (m validationModel) toEntity() entities.Validation {
	return entities.Validation{
		ValidationID: m.ValidationID,
		DocumentID:   m.DocumentID,
		Status:       entities.ValidationStatus(m.Status),
		Observations: m.Observations,
		CreatedAt:    m.CreatedAt.UTC(),
		CompletedAt:  normalizeOptionalTime(m.CompletedAt),
	}
}

type auditModel struct {
	AuditID    string    `gorm:"column:audit_id;primaryKey"`
	DocumentID string    `gorm:"column:document_id"`
	Action     string    `gorm:"column:action"`
	EntityType string    `gorm:"column:entity_type"`
	EntityID   string    `gorm:"column:entity_id"`
	ActorID    string    `gorm:"column:actor_id"`
	Metadata   []byte    `gorm:"column:metadata"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (auditModel) TableName() string {
	return "audit_log"
}

func (m auditModel) toEntity() entities.AuditEntry {
	metadata := map[string]string{}
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return entities.AuditEntry{
		AuditID:    m.AuditID,
		DocumentID: m.DocumentID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		ActorID:    m.ActorID,
		Metadata:   metadata,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "lifecycle_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
