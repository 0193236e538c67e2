package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"scribe/contexts/document-lifecycle/lifecycle-service/adapters/memory"
	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	domainerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
)

func seedStore(t *testing.T) (*memory.Store, QueryUseCase) {
	t.Helper()
	now := time.Now().UTC()
	store := memory.NewStore([]entities.Document{{
		DocumentID:  "doc-1",
		WorkspaceID: "ws-1",
		Kind:        entities.DocumentKindProcess,
		Status:      entities.DocumentStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}})
	return store, QueryUseCase{Repository: store}
}

func TestGetDocumentIncludesLiveVersions(t *testing.T) {
	store, query := seedStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.CreateVersion(ctx, entities.DocumentVersion{
		VersionID:     "v-1",
		DocumentID:    "doc-1",
		VersionNumber: 1,
		Status:        entities.VersionStatusApproved,
		IsCurrent:     true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		t.Fatalf("create version returned error: %v", err)
	}
	if err := store.CreateVersion(ctx, entities.DocumentVersion{
		VersionID:     "v-2",
		DocumentID:    "doc-1",
		VersionNumber: 2,
		Status:        entities.VersionStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		t.Fatalf("create draft returned error: %v", err)
	}

	detail, err := query.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get document returned error: %v", err)
	}
	if detail.CurrentVersion == nil || detail.CurrentVersion.VersionID != "v-1" {
		t.Fatalf("expected current version v-1, got %+v", detail.CurrentVersion)
	}
	if detail.DraftVersion == nil || detail.DraftVersion.VersionID != "v-2" {
		t.Fatalf("expected draft version v-2, got %+v", detail.DraftVersion)
	}
}

func TestGetDocumentUnknownID(t *testing.T) {
	_, query := seedStore(t)

	_, err := query.GetDocument(context.Background(), "missing")
	if !errors.Is(err, domainerrors.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestCheckEditableBlockedOnlyByReview(t *testing.T) {
	store, query := seedStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	result, err := query.CheckEditable(ctx, "doc-1")
	if err != nil {
		t.Fatalf("check editable returned error: %v", err)
	}
	if !result.Editable {
		t.Fatalf("expected editable with no versions, got %+v", result)
	}

	if err := store.CreateVersion(ctx, entities.DocumentVersion{
		VersionID:     "v-1",
		DocumentID:    "doc-1",
		VersionNumber: 1,
		Status:        entities.VersionStatusInReview,
		ValidationID:  "val-1",
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		t.Fatalf("create version returned error: %v", err)
	}

	result, err = query.CheckEditable(ctx, "doc-1")
	if err != nil {
		t.Fatalf("check editable returned error: %v", err)
	}
	if result.Editable || result.Reason == "" {
		t.Fatalf("expected blocked with reason while in review, got %+v", result)
	}
}

func TestHistoryReturnsNewestFirst(t *testing.T) {
	store, query := seedStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i, action := range []string{
		entities.AuditActionDocumentRegistered,
		entities.AuditActionDraftCreated,
		entities.AuditActionVersionSubmitted,
	} {
		if err := store.AppendAudit(ctx, entities.AuditEntry{
			AuditID:    "audit-" + action,
			DocumentID: "doc-1",
			Action:     action,
			EntityType: entities.AuditEntityDocument,
			EntityID:   "doc-1",
			ActorID:    "author-1",
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("append audit returned error: %v", err)
		}
	}

	items, err := query.History(ctx, "doc-1", 2)
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected limit applied, got %d entries", len(items))
	}
	if items[0].Action != entities.AuditActionVersionSubmitted {
		t.Fatalf("expected newest entry first, got %s", items[0].Action)
	}
}

func TestPendingValidationLookup(t *testing.T) {
	store, query := seedStore(t)
	ctx := context.Background()

	_, found, err := query.PendingValidation(ctx, "doc-1")
	if err != nil {
		t.Fatalf("pending validation returned error: %v", err)
	}
	if found {
		t.Fatalf("expected no pending validation")
	}

	if err := store.CreateValidation(ctx, entities.Validation{
		ValidationID: "val-1",
		DocumentID:   "doc-1",
		Status:       entities.ValidationStatusPending,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create validation returned error: %v", err)
	}

	validation, found, err := query.PendingValidation(ctx, "doc-1")
	if err != nil || !found {
		t.Fatalf("expected pending validation, found=%v err=%v", found, err)
	}
	if validation.ValidationID != "val-1" {
		t.Fatalf("expected val-1, got %s", validation.ValidationID)
	}
}
