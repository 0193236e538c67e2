package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	domainerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
	"scribe/contexts/document-lifecycle/lifecycle-service/ports"
)

func testVersion(id string, number int, status entities.VersionStatus) entities.DocumentVersion {
	now := time.Now().UTC()
	return entities.DocumentVersion{
		VersionID:     id,
		DocumentID:    "doc-1",
		VersionNumber: number,
		Status:        status,
		CreatedBy:     "author-1",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCreateVersionEnforcesSingleDraft(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	if err := store.CreateVersion(ctx, testVersion("v-1", 1, entities.VersionStatusDraft)); err != nil {
		t.Fatalf("first draft returned error: %v", err)
	}
	err := store.CreateVersion(ctx, testVersion("v-2", 2, entities.VersionStatusDraft))
	if !errors.Is(err, domainerrors.ErrDraftConflict) {
		t.Fatalf("expected ErrDraftConflict, got %v", err)
	}
}

func TestUpdateVersionEnforcesSingleInReview(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	if err := store.CreateVersion(ctx, testVersion("v-1", 1, entities.VersionStatusInReview)); err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if err := store.CreateVersion(ctx, testVersion("v-2", 2, entities.VersionStatusDraft)); err != nil {
		t.Fatalf("create draft returned error: %v", err)
	}

	promoted := testVersion("v-2", 2, entities.VersionStatusInReview)
	err := store.UpdateVersion(ctx, promoted)
	if !errors.Is(err, domainerrors.ErrInReviewConflict) {
		t.Fatalf("expected ErrInReviewConflict, got %v", err)
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(tx ports.Repository) error {
		if err := tx.CreateVersion(ctx, testVersion("v-1", 1, entities.VersionStatusDraft)); err != nil {
			return err
		}
		if err := tx.AppendAudit(ctx, entities.AuditEntry{
			AuditID:    "audit-1",
			DocumentID: "doc-1",
			Action:     entities.AuditActionDraftCreated,
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	if _, err := store.GetVersion(ctx, "v-1"); !errors.Is(err, domainerrors.ErrVersionNotFound) {
		t.Fatalf("expected version write rolled back, got %v", err)
	}
	audit, err := store.ListAudit(ctx, "doc-1", 10)
	if err != nil {
		t.Fatalf("list audit returned error: %v", err)
	}
	if len(audit) != 0 {
		t.Fatalf("expected audit write rolled back, got %d entries", len(audit))
	}
}

func TestOutboxLifecycle(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:       "evt-1",
		EventType:     "document.version.drafted",
		SourceService: "lifecycle-service",
		OccurredAt:    now,
		SchemaVersion: 1,
		PartitionKey:  "doc-1",
		Data:          []byte(`{"document_id":"doc-1"}`),
	}); err != nil {
		t.Fatalf("append outbox returned error: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending returned error: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "evt-1" {
		t.Fatalf("expected one pending message, got %+v", pending)
	}

	if err := store.MarkOutboxPublished(ctx, "evt-1", now); err != nil {
		t.Fatalf("mark published returned error: %v", err)
	}
	pending, err = store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending returned error: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending messages after publish, got %d", len(pending))
	}
}

func TestGuardIsWorkspaceScoped(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	store.GrantPermission("author-1", "ws-1", "document.edit")

	allowed, err := store.HasPermission(ctx, "author-1", "ws-1", "document.edit")
	if err != nil || !allowed {
		t.Fatalf("expected grant honored, allowed=%v err=%v", allowed, err)
	}
	allowed, err = store.HasPermission(ctx, "author-1", "ws-2", "document.edit")
	if err != nil || allowed {
		t.Fatalf("expected deny in other workspace, allowed=%v err=%v", allowed, err)
	}
}
