package entities

import "time"

const (
	AuditActionDocumentRegistered  = "document_registered"
	AuditActionDraftCreated        = "draft_created"
	AuditActionDraftContentUpdated = "draft_content_updated"
	AuditActionVersionSubmitted    = "version_submitted"
	AuditActionVersionApproved     = "version_approved"
	AuditActionVersionRejected     = "version_rejected"
	AuditActionSubmissionCancelled = "submission_cancelled"
)

const (
	AuditEntityDocument   = "document"
	AuditEntityVersion    = "document_version"
	AuditEntityValidation = "validation"
)

// AuditEntry is append-only; entries are never updated or deleted.
type AuditEntry struct {
	AuditID    string
	DocumentID string
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
	Metadata   map[string]string
	CreatedAt  time.Time
}
