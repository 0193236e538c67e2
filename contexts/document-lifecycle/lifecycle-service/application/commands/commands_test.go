package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"scribe/contexts/document-lifecycle/lifecycle-service/adapters/memory"
	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	domainerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
)

type testEnv struct {
	store    *memory.Store
	register RegisterUseCase
	draft    DraftUseCase
	content  ContentUseCase
	submit   SubmitUseCase
	review   ReviewUseCase
	cancel   CancelUseCase
}

func newTestEnv(seed ...entities.Document) testEnv {
	store := memory.NewStore(seed)
	return testEnv{
		store:    store,
		register: RegisterUseCase{Repository: store, Guard: store, Clock: store, IDGenerator: store},
		draft:    DraftUseCase{Repository: store, Guard: store, Clock: store, IDGenerator: store},
		content:  ContentUseCase{Repository: store, Guard: store, Clock: store, IDGenerator: store},
		submit:   SubmitUseCase{Repository: store, Guard: store, Clock: store, IDGenerator: store},
		review:   ReviewUseCase{Repository: store, Guard: store, Clock: store, IDGenerator: store},
		cancel:   CancelUseCase{Repository: store, Guard: store, Clock: store, IDGenerator: store},
	}
}

func seedDocument() entities.Document {
	now := time.Now().UTC()
	return entities.Document{
		DocumentID:  "doc-1",
		WorkspaceID: "ws-1",
		Kind:        entities.DocumentKindProcess,
		Status:      entities.DocumentStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestRegisterDocument(t *testing.T) {
	env := newTestEnv()
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument)

	document, err := env.register.Execute(context.Background(), RegisterDocumentCommand{
		WorkspaceID: "ws-1",
		Kind:        "recipe",
		ActorID:     "author-1",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if document.Status != entities.DocumentStatusDraft {
		t.Fatalf("expected draft status, got %s", document.Status)
	}
	if document.Kind != entities.DocumentKindRecipe {
		t.Fatalf("expected recipe kind, got %s", document.Kind)
	}

	audit, err := env.store.ListAudit(context.Background(), document.DocumentID, 10)
	if err != nil {
		t.Fatalf("list audit returned error: %v", err)
	}
	if len(audit) != 1 || audit[0].Action != entities.AuditActionDocumentRegistered {
		t.Fatalf("expected one document_registered audit entry, got %+v", audit)
	}

	pending, err := env.store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox returned error: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != EventTypeDocumentRegistered {
		t.Fatalf("expected one document.registered outbox message, got %+v", pending)
	}
}

func TestRegisterDocumentRejectsUnknownKind(t *testing.T) {
	env := newTestEnv()
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument)

	_, err := env.register.Execute(context.Background(), RegisterDocumentCommand{
		WorkspaceID: "ws-1",
		Kind:        "poem",
		ActorID:     "author-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterDocumentRequiresPermission(t *testing.T) {
	env := newTestEnv()

	_, err := env.register.Execute(context.Background(), RegisterDocumentCommand{
		WorkspaceID: "ws-1",
		Kind:        "process",
		ActorID:     "stranger",
	})
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestGetOrCreateDraftIsIdempotent(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument)

	first, err := env.draft.GetOrCreate(context.Background(), GetOrCreateDraftCommand{
		DocumentID: "doc-1",
		ActorID:    "author-1",
	})
	if err != nil {
		t.Fatalf("first call returned error: %v", err)
	}
	if first.VersionNumber != 1 {
		t.Fatalf("expected version number 1, got %d", first.VersionNumber)
	}

	second, err := env.draft.GetOrCreate(context.Background(), GetOrCreateDraftCommand{
		DocumentID: "doc-1",
		ActorID:    "author-1",
	})
	if err != nil {
		t.Fatalf("second call returned error: %v", err)
	}
	if first.VersionID != second.VersionID {
		t.Fatalf("expected same draft, got %s and %s", first.VersionID, second.VersionID)
	}
}

func TestGetOrCreateDraftBlockedWhileInReview(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument, PermissionSubmitDocument)

	draft, err := env.draft.GetOrCreate(context.Background(), GetOrCreateDraftCommand{
		DocumentID: "doc-1",
		ActorID:    "author-1",
	})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}
	if _, err := env.submit.Execute(context.Background(), SubmitVersionCommand{
		VersionID:   draft.VersionID,
		SubmitterID: "author-1",
	}); err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	_, err = env.draft.GetOrCreate(context.Background(), GetOrCreateDraftCommand{
		DocumentID: "doc-1",
		ActorID:    "author-1",
	})
	if !errors.Is(err, domainerrors.ErrInReviewConflict) {
		t.Fatalf("expected ErrInReviewConflict, got %v", err)
	}
}

func TestDraftSeedsFromLatestRejectedVersion(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument, PermissionSubmitDocument)
	env.store.GrantPermission("reviewer-1", "ws-1", PermissionReviewDocument)

	draft, err := env.draft.GetOrCreate(context.Background(), GetOrCreateDraftCommand{
		DocumentID: "doc-1",
		ActorID:    "author-1",
	})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}
	if _, err := env.content.UpdateDraft(context.Background(), UpdateDraftCommand{
		DocumentID: "doc-1",
		VersionID:  draft.VersionID,
		Content:    entities.ContentPayload{Title: "Brewing SOP"},
		ActorID:    "author-1",
	}); err != nil {
		t.Fatalf("update draft returned error: %v", err)
	}
	submitted, err := env.submit.Execute(context.Background(), SubmitVersionCommand{
		VersionID:   draft.VersionID,
		SubmitterID: "author-1",
	})
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if _, err := env.review.Reject(context.Background(), RejectVersionCommand{
		ValidationID: submitted.Validation.ValidationID,
		RejectorID:   "reviewer-1",
		Observations: "needs safety section",
	}); err != nil {
		t.Fatalf("reject returned error: %v", err)
	}

	next, err := env.draft.GetOrCreate(context.Background(), GetOrCreateDraftCommand{
		DocumentID: "doc-1",
		ActorID:    "author-1",
	})
	if err != nil {
		t.Fatalf("new draft returned error: %v", err)
	}
	if next.VersionNumber != 2 {
		t.Fatalf("expected version number 2, got %d", next.VersionNumber)
	}
	if next.SupersedesVersionID != draft.VersionID {
		t.Fatalf("expected draft to supersede %s, got %s", draft.VersionID, next.SupersedesVersionID)
	}
	if next.Content.Title != "Brewing SOP" {
		t.Fatalf("expected content carried from rejected version, got %q", next.Content.Title)
	}
}

func TestSubmitRejectsNonDraftVersion(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument, PermissionSubmitDocument)

	draft, err := env.draft.GetOrCreate(context.Background(), GetOrCreateDraftCommand{
		DocumentID: "doc-1",
		ActorID:    "author-1",
	})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}
	if _, err := env.submit.Execute(context.Background(), SubmitVersionCommand{
		VersionID:   draft.VersionID,
		SubmitterID: "author-1",
	}); err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	_, err = env.submit.Execute(context.Background(), SubmitVersionCommand{
		VersionID:   draft.VersionID,
		SubmitterID: "author-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestApprovePublishesAndDemotesPriorCurrent(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument, PermissionSubmitDocument)
	env.store.GrantPermission("reviewer-1", "ws-1", PermissionReviewDocument)
	ctx := context.Background()

	publish := func() entities.DocumentVersion {
		draft, err := env.draft.GetOrCreate(ctx, GetOrCreateDraftCommand{DocumentID: "doc-1", ActorID: "author-1"})
		if err != nil {
			t.Fatalf("draft returned error: %v", err)
		}
		submitted, err := env.submit.Execute(ctx, SubmitVersionCommand{VersionID: draft.VersionID, SubmitterID: "author-1"})
		if err != nil {
			t.Fatalf("submit returned error: %v", err)
		}
		result, err := env.review.Approve(ctx, ApproveVersionCommand{
			ValidationID: submitted.Validation.ValidationID,
			ApproverID:   "reviewer-1",
		})
		if err != nil {
			t.Fatalf("approve returned error: %v", err)
		}
		return result.Version
	}

	first := publish()
	if !first.IsCurrent || first.Status != entities.VersionStatusApproved {
		t.Fatalf("expected first version approved and current, got %+v", first)
	}
	document, err := env.store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get document returned error: %v", err)
	}
	if document.ApprovedVersionID != first.VersionID {
		t.Fatalf("expected approved version %s, got %s", first.VersionID, document.ApprovedVersionID)
	}

	second := publish()
	if !second.IsCurrent {
		t.Fatalf("expected second version to be current")
	}
	demoted, err := env.store.GetVersion(ctx, first.VersionID)
	if err != nil {
		t.Fatalf("get version returned error: %v", err)
	}
	if demoted.Status != entities.VersionStatusObsolete || demoted.IsCurrent {
		t.Fatalf("expected prior current demoted to obsolete, got %+v", demoted)
	}

	current, found, err := env.store.CurrentVersion(ctx, "doc-1")
	if err != nil || !found {
		t.Fatalf("expected a current version, found=%v err=%v", found, err)
	}
	if current.VersionID != second.VersionID {
		t.Fatalf("expected %s current, got %s", second.VersionID, current.VersionID)
	}
}

func TestApproveRejectsOwnSubmission(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1",
		PermissionEditDocument, PermissionSubmitDocument, PermissionReviewDocument)
	ctx := context.Background()

	draft, err := env.draft.GetOrCreate(ctx, GetOrCreateDraftCommand{DocumentID: "doc-1", ActorID: "author-1"})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}
	submitted, err := env.submit.Execute(ctx, SubmitVersionCommand{VersionID: draft.VersionID, SubmitterID: "author-1"})
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	_, err = env.review.Approve(ctx, ApproveVersionCommand{
		ValidationID: submitted.Validation.ValidationID,
		ApproverID:   "author-1",
	})
	if !errors.Is(err, domainerrors.ErrSegregationViolation) {
		t.Fatalf("expected ErrSegregationViolation, got %v", err)
	}

	version, err := env.store.GetVersion(ctx, draft.VersionID)
	if err != nil {
		t.Fatalf("get version returned error: %v", err)
	}
	if version.Status != entities.VersionStatusInReview {
		t.Fatalf("expected version still in review after failed approve, got %s", version.Status)
	}
	validation, err := env.store.GetValidation(ctx, submitted.Validation.ValidationID)
	if err != nil {
		t.Fatalf("get validation returned error: %v", err)
	}
	if !validation.IsPending() {
		t.Fatalf("expected validation still pending, got %s", validation.Status)
	}
}

func TestRejectRequiresObservations(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument, PermissionSubmitDocument)
	env.store.GrantPermission("reviewer-1", "ws-1", PermissionReviewDocument)
	ctx := context.Background()

	draft, err := env.draft.GetOrCreate(ctx, GetOrCreateDraftCommand{DocumentID: "doc-1", ActorID: "author-1"})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}
	submitted, err := env.submit.Execute(ctx, SubmitVersionCommand{VersionID: draft.VersionID, SubmitterID: "author-1"})
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	_, err = env.review.Reject(ctx, RejectVersionCommand{
		ValidationID: submitted.Validation.ValidationID,
		RejectorID:   "reviewer-1",
		Observations: "   ",
	})
	if !errors.Is(err, domainerrors.ErrObservationsRequired) {
		t.Fatalf("expected ErrObservationsRequired, got %v", err)
	}

	result, err := env.review.Reject(ctx, RejectVersionCommand{
		ValidationID: submitted.Validation.ValidationID,
		RejectorID:   "reviewer-1",
		Observations: "missing approval checklist",
	})
	if err != nil {
		t.Fatalf("reject returned error: %v", err)
	}
	if result.Version.Status != entities.VersionStatusRejected {
		t.Fatalf("expected rejected version, got %s", result.Version.Status)
	}
	if result.Validation.Observations != "missing approval checklist" {
		t.Fatalf("expected observations recorded, got %q", result.Validation.Observations)
	}

	document, err := env.store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get document returned error: %v", err)
	}
	if document.Status != entities.DocumentStatusRejected {
		t.Fatalf("expected rejected document status, got %s", document.Status)
	}
}

func TestCancelSubmissionIsCreatorOnly(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument, PermissionSubmitDocument)
	env.store.GrantPermission("author-2", "ws-1", PermissionSubmitDocument)
	ctx := context.Background()

	draft, err := env.draft.GetOrCreate(ctx, GetOrCreateDraftCommand{DocumentID: "doc-1", ActorID: "author-1"})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}
	submitted, err := env.submit.Execute(ctx, SubmitVersionCommand{VersionID: draft.VersionID, SubmitterID: "author-1"})
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	_, err = env.cancel.Execute(ctx, CancelSubmissionCommand{
		DocumentID: "doc-1",
		VersionID:  draft.VersionID,
		ActorID:    "author-2",
	})
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for non-creator, got %v", err)
	}

	reverted, err := env.cancel.Execute(ctx, CancelSubmissionCommand{
		DocumentID: "doc-1",
		VersionID:  draft.VersionID,
		ActorID:    "author-1",
	})
	if err != nil {
		t.Fatalf("cancel returned error: %v", err)
	}
	if reverted.Status != entities.VersionStatusDraft || reverted.ValidationID != "" {
		t.Fatalf("expected version reverted to draft, got %+v", reverted)
	}

	validation, err := env.store.GetValidation(ctx, submitted.Validation.ValidationID)
	if err != nil {
		t.Fatalf("get validation returned error: %v", err)
	}
	if validation.Status != entities.ValidationStatusCancelled {
		t.Fatalf("expected cancelled validation, got %s", validation.Status)
	}
}

func TestCloneRequiresFinalizedSource(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument, PermissionSubmitDocument)
	env.store.GrantPermission("reviewer-1", "ws-1", PermissionReviewDocument)
	ctx := context.Background()

	draft, err := env.draft.GetOrCreate(ctx, GetOrCreateDraftCommand{DocumentID: "doc-1", ActorID: "author-1"})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}

	_, err = env.draft.Clone(ctx, CloneVersionCommand{
		DocumentID:      "doc-1",
		SourceVersionID: draft.VersionID,
		ActorID:         "author-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState cloning a draft, got %v", err)
	}

	if _, err := env.content.UpdateDraft(ctx, UpdateDraftCommand{
		DocumentID: "doc-1",
		VersionID:  draft.VersionID,
		Content:    entities.ContentPayload{Title: "Line Cleaning"},
		ActorID:    "author-1",
	}); err != nil {
		t.Fatalf("update draft returned error: %v", err)
	}
	submitted, err := env.submit.Execute(ctx, SubmitVersionCommand{VersionID: draft.VersionID, SubmitterID: "author-1"})
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if _, err := env.review.Approve(ctx, ApproveVersionCommand{
		ValidationID: submitted.Validation.ValidationID,
		ApproverID:   "reviewer-1",
	}); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}

	clone, err := env.draft.Clone(ctx, CloneVersionCommand{
		DocumentID:      "doc-1",
		SourceVersionID: draft.VersionID,
		ActorID:         "author-1",
	})
	if err != nil {
		t.Fatalf("clone returned error: %v", err)
	}
	if clone.Status != entities.VersionStatusDraft || clone.VersionNumber != 2 {
		t.Fatalf("expected draft version 2, got %+v", clone)
	}
	if clone.SupersedesVersionID != draft.VersionID || clone.Content.Title != "Line Cleaning" {
		t.Fatalf("expected clone to carry source content, got %+v", clone)
	}
}

func TestUpdateDraftRejectsFrozenVersion(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument, PermissionSubmitDocument)
	ctx := context.Background()

	draft, err := env.draft.GetOrCreate(ctx, GetOrCreateDraftCommand{DocumentID: "doc-1", ActorID: "author-1"})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}
	if _, err := env.submit.Execute(ctx, SubmitVersionCommand{VersionID: draft.VersionID, SubmitterID: "author-1"}); err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	_, err = env.content.UpdateDraft(ctx, UpdateDraftCommand{
		DocumentID: "doc-1",
		VersionID:  draft.VersionID,
		Content:    entities.ContentPayload{Title: "late edit"},
		ActorID:    "author-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestUpdateDraftDefaultsContentSchema(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument)
	ctx := context.Background()

	draft, err := env.draft.GetOrCreate(ctx, GetOrCreateDraftCommand{DocumentID: "doc-1", ActorID: "author-1"})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}

	updated, err := env.content.UpdateDraft(ctx, UpdateDraftCommand{
		DocumentID: "doc-1",
		VersionID:  draft.VersionID,
		Content: entities.ContentPayload{
			Title:    "Opening Checklist",
			Sections: []entities.Section{{Heading: "Prep", Body: "Unlock and count the till."}},
		},
		ActorID: "author-1",
	})
	if err != nil {
		t.Fatalf("update draft returned error: %v", err)
	}
	if updated.Content.Schema != entities.ContentSchemaVersion {
		t.Fatalf("expected schema defaulted to %d, got %d", entities.ContentSchemaVersion, updated.Content.Schema)
	}
}

func TestCancelPermissionRebind(t *testing.T) {
	env := newTestEnv(seedDocument())
	env.cancel.Permission = "document.recall"
	env.store.GrantPermission("author-1", "ws-1", PermissionEditDocument, PermissionSubmitDocument)
	ctx := context.Background()

	draft, err := env.draft.GetOrCreate(ctx, GetOrCreateDraftCommand{DocumentID: "doc-1", ActorID: "author-1"})
	if err != nil {
		t.Fatalf("draft returned error: %v", err)
	}
	if _, err := env.submit.Execute(ctx, SubmitVersionCommand{VersionID: draft.VersionID, SubmitterID: "author-1"}); err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	_, err = env.cancel.Execute(ctx, CancelSubmissionCommand{
		DocumentID: "doc-1",
		VersionID:  draft.VersionID,
		ActorID:    "author-1",
	})
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied under rebound permission, got %v", err)
	}

	env.store.GrantPermission("author-1", "ws-1", "document.recall")
	if _, err := env.cancel.Execute(ctx, CancelSubmissionCommand{
		DocumentID: "doc-1",
		VersionID:  draft.VersionID,
		ActorID:    "author-1",
	}); err != nil {
		t.Fatalf("cancel returned error after grant: %v", err)
	}
}
