package ports

import (
	"context"
	"time"

	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
)

// Repository is the transaction-scoped storage boundary for the lifecycle
// engine. WithinTx runs fn against a handle bound to one all-or-nothing
// transaction; every lifecycle transition executes entirely inside one call.
//
// CreateVersion and UpdateVersion translate storage-level uniqueness
// violations on (document_id, version_status) for draft/in_review rows into
// ErrDraftConflict/ErrInReviewConflict so concurrent writers get a
// deterministic single-winner outcome.
type Repository interface {
	WithinTx(ctx context.Context, fn func(Repository) error) error

	GetDocument(ctx context.Context, documentID string) (entities.Document, error)
	CreateDocument(ctx context.Context, document entities.Document) error
	UpdateDocument(ctx context.Context, document entities.Document) error

	GetVersion(ctx context.Context, versionID string) (entities.DocumentVersion, error)
	FindVersionByStatus(ctx context.Context, documentID string, status entities.VersionStatus) (entities.DocumentVersion, bool, error)
	FindVersionByValidation(ctx context.Context, validationID string) (entities.DocumentVersion, bool, error)
	CurrentVersion(ctx context.Context, documentID string) (entities.DocumentVersion, bool, error)
	LatestVersionNumber(ctx context.Context, documentID string) (int, error)
	LatestRejectedVersion(ctx context.Context, documentID string) (entities.DocumentVersion, bool, error)
	ListVersions(ctx context.Context, documentID string) ([]entities.DocumentVersion, error)
	CreateVersion(ctx context.Context, version entities.DocumentVersion) error
	UpdateVersion(ctx context.Context, version entities.DocumentVersion) error

	GetValidation(ctx context.Context, validationID string) (entities.Validation, error)
	PendingValidation(ctx context.Context, documentID string) (entities.Validation, bool, error)
	CreateValidation(ctx context.Context, validation entities.Validation) error
	UpdateValidation(ctx context.Context, validation entities.Validation) error

	AppendAudit(ctx context.Context, entry entities.AuditEntry) error
	ListAudit(ctx context.Context, documentID string, limit int) ([]entities.AuditEntry, error)

	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// Guard answers workspace-scoped permission checks. Absence of membership or
// role yields false, never an error. Segregation-of-duties is not a Guard
// concern; the engine enforces it on identity.
type Guard interface {
	HasPermission(ctx context.Context, actorID string, workspaceID string, permission string) (bool, error)
}

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for versions/validations/audit rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope is the canonical lifecycle event shape appended to the outbox
// inside the transition transaction.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SchemaVersion int             `json:"schema_version"`
	PartitionKey  string          `json:"partition_key"`
	Data          []byte          `json:"data"`
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// Publisher emits relayed lifecycle events to the event bus adapter.
type Publisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
