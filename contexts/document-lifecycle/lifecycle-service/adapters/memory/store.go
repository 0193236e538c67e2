package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"scribe/contexts/document-lifecycle/lifecycle-service/domain/entities"
	domainerrors "scribe/contexts/document-lifecycle/lifecycle-service/domain/errors"
	"scribe/contexts/document-lifecycle/lifecycle-service/ports"

	"github.com/google/uuid"
)

type outboxRow struct {
	message     ports.OutboxMessage
	published   bool
	publishedAt time.Time
}

type state struct {
	documents   map[string]entities.Document
	versions    map[string]entities.DocumentVersion
	validations map[string]entities.Validation
	audits      []entities.AuditEntry
	outbox      []outboxRow
}

// Store is the in-memory Repository used by tests and local wiring. A single
// mutex serializes transactions, which is the memory-equivalent of the
// serializable check-then-insert the postgres adapter gets from its partial
// unique indexes. WithinTx works on a copy and swaps it in on success, so a
// failed transition leaves no partial writes.
type Store struct {
	mu sync.Mutex
	st *state

	// grants back the Guard port and are read mid-transaction, so they get
	// their own lock.
	grantsMu sync.RWMutex
	grants   map[string]map[string][]string
}

func NewStore(seed []entities.Document) *Store {
	documents := make(map[string]entities.Document, len(seed))
	for _, item := range seed {
		documents[item.DocumentID] = item
	}
	return &Store{
		st: &state{
			documents:   documents,
			versions:    make(map[string]entities.DocumentVersion),
			validations: make(map[string]entities.Validation),
		},
		grants: make(map[string]map[string][]string),
	}
}

func (s *Store) WithinTx(_ context.Context, fn func(ports.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.st.clone()
	if err := fn(&txStore{st: working}); err != nil {
		return err
	}
	s.st = working
	return nil
}

func (s *Store) GetDocument(ctx context.Context, documentID string) (entities.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.getDocument(documentID)
}

func (s *Store) CreateDocument(_ context.Context, document entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createDocument(document)
}

func (s *Store) UpdateDocument(_ context.Context, document entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.updateDocument(document)
}

func (s *Store) GetVersion(_ context.Context, versionID string) (entities.DocumentVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.getVersion(versionID)
}

func (s *Store) FindVersionByStatus(_ context.Context, documentID string, status entities.VersionStatus) (entities.DocumentVersion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.findVersionByStatus(documentID, status)
}

func (s *Store) FindVersionByValidation(_ context.Context, validationID string) (entities.DocumentVersion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.findVersionByValidation(validationID)
}

func (s *Store) CurrentVersion(_ context.Context, documentID string) (entities.DocumentVersion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.currentVersion(documentID)
}

func (s *Store) LatestVersionNumber(_ context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.latestVersionNumber(documentID)
}

func (s *Store) LatestRejectedVersion(_ context.Context, documentID string) (entities.DocumentVersion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.latestRejectedVersion(documentID)
}

func (s *Store) ListVersions(_ context.Context, documentID string) ([]entities.DocumentVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.listVersions(documentID)
}

func (s *Store) CreateVersion(_ context.Context, version entities.DocumentVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createVersion(version)
}

func (s *Store) UpdateVersion(_ context.Context, version entities.DocumentVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.updateVersion(version)
}

func (s *Store) GetValidation(_ context.Context, validationID string) (entities.Validation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.getValidation(validationID)
}

func (s *Store) PendingValidation(_ context.Context, documentID string) (entities.Validation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.pendingValidation(documentID)
}

func (s *Store) CreateValidation(_ context.Context, validation entities.Validation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createValidation(validation)
}

func (s *Store) UpdateValidation(_ context.Context, validation entities.Validation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.updateValidation(validation)
}

func (s *Store) AppendAudit(_ context.Context, entry entities.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.appendAudit(entry)
}

func (s *Store) ListAudit(_ context.Context, documentID string, limit int) ([]entities.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.listAudit(documentID, limit)
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.appendOutbox(envelope)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.st.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.st.outbox {
		if s.st.outbox[i].message.OutboxID == outboxID {
			s.st.outbox[i].published = true
			s.st.outbox[i].publishedAt = publishedAt.UTC()
			return nil
		}
	}
	return domainerrors.ErrInvalidInput
}

// GrantPermission seeds workspace-scoped grants for the Guard port.
func (s *Store) GrantPermission(actorID string, workspaceID string, permissions ...string) {
	s.grantsMu.Lock()
	defer s.grantsMu.Unlock()

	if s.grants[actorID] == nil {
		s.grants[actorID] = make(map[string][]string)
	}
	s.grants[actorID][workspaceID] = append(s.grants[actorID][workspaceID], permissions...)
}

func (s *Store) HasPermission(_ context.Context, actorID string, workspaceID string, permission string) (bool, error) {
	s.grantsMu.RLock()
	defer s.grantsMu.RUnlock()

	for _, granted := range s.grants[actorID][workspaceID] {
		if granted == permission {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// txStore runs inside WithinTx; the store mutex is already held.
type txStore struct {
	st *state
}

func (t *txStore) WithinTx(_ context.Context, fn func(ports.Repository) error) error {
	return fn(t)
}

func (t *txStore) GetDocument(_ context.Context, documentID string) (entities.Document, error) {
	return t.st.getDocument(documentID)
}

func (t *txStore) CreateDocument(_ context.Context, document entities.Document) error {
	return t.st.createDocument(document)
}

func (t *txStore) UpdateDocument(_ context.Context, document entities.Document) error {
	return t.st.updateDocument(document)
}

func (t *txStore) GetVersion(_ context.Context, versionID string) (entities.DocumentVersion, error) {
	return t.st.getVersion(versionID)
}

func (t *txStore) FindVersionByStatus(_ context.Context, documentID string, status entities.VersionStatus) (entities.DocumentVersion, bool, error) {
	return t.st.findVersionByStatus(documentID, status)
}

func (t *txStore) FindVersionByValidation(_ context.Context, validationID string) (entities.DocumentVersion, bool, error) {
	return t.st.findVersionByValidation(validationID)
}

func (t *txStore) CurrentVersion(_ context.Context, documentID string) (entities.DocumentVersion, bool, error) {
	return t.st.currentVersion(documentID)
}

func (t *txStore) LatestVersionNumber(_ context.Context, documentID string) (int, error) {
	return t.st.latestVersionNumber(documentID)
}

func (t *txStore) LatestRejectedVersion(_ context.Context, documentID string) (entities.DocumentVersion, bool, error) {
	return t.st.latestRejectedVersion(documentID)
}

func (t *txStore) ListVersions(_ context.Context, documentID string) ([]entities.DocumentVersion, error) {
	return t.st.listVersions(documentID)
}

func (t *txStore) CreateVersion(_ context.Context, version entities.DocumentVersion) error {
	return t.st.createVersion(version)
}

func (t *txStore) UpdateVersion(_ context.Context, version entities.DocumentVersion) error {
	return t.st.updateVersion(version)
}

func (t *txStore) GetValidation(_ context.Context, validationID string) (entities.Validation, error) {
	return t.st.getValidation(validationID)
}

func (t *txStore) PendingValidation(_ context.Context, documentID string) (entities.Validation, bool, error) {
	return t.st.pendingValidation(documentID)
}

func (t *txStore) CreateValidation(_ context.Context, validation entities.Validation) error {
	return t.st.createValidation(validation)
}

func (t *txStore) UpdateValidation(_ context.Context, validation entities.Validation) error {
	return t.st.updateValidation(validation)
}

func (t *txStore) AppendAudit(_ context.Context, entry entities.AuditEntry) error {
	return t.st.appendAudit(entry)
}

func (t *txStore) ListAudit(_ context.Context, documentID string, limit int) ([]entities.AuditEntry, error) {
	return t.st.listAudit(documentID, limit)
}

func (t *txStore) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	return t.st.appendOutbox(envelope)
}

func (st *state) clone() *state {
	documents := make(map[string]entities.Document, len(st.documents))
	for key, value := range st.documents {
		documents[key] = value
	}
	versions := make(map[string]entities.DocumentVersion, len(st.versions))
	for key, value := range st.versions {
		versions[key] = value
	}
	validations := make(map[string]entities.Validation, len(st.validations))
	for key, value := range st.validations {
		validations[key] = value
	}
	return &state{
		documents:   documents,
		versions:    versions,
		validations: validations,
		audits:      append([]entities.AuditEntry(nil), st.audits...),
		outbox:      append([]outboxRow(nil), st.outbox...),
	}
}

func (st *state) getDocument(documentID string) (entities.Document, error) {
	item, exists := st.documents[strings.TrimSpace(documentID)]
	if !exists {
		return entities.Document{}, domainerrors.ErrDocumentNotFound
	}
	return item, nil
}

func (st *state) createDocument(document entities.Document) error {
	st.documents[document.DocumentID] = document
	return nil
}

func (st *state) updateDocument(document entities.Document) error {
	if _, exists := st.documents[document.DocumentID]; !exists {
		return domainerrors.ErrDocumentNotFound
	}
	st.documents[document.DocumentID] = document
	return nil
}

func (st *state) getVersion(versionID string) (entities.DocumentVersion, error) {
	item, exists := st.versions[strings.TrimSpace(versionID)]
	if !exists {
		return entities.DocumentVersion{}, domainerrors.ErrVersionNotFound
	}
	return item, nil
}

func (st *state) findVersionByStatus(documentID string, status entities.VersionStatus) (entities.DocumentVersion, bool, error) {
	for _, item := range st.versions {
		if item.DocumentID == documentID && item.Status == status {
			return item, true, nil
		}
	}
	return entities.DocumentVersion{}, false, nil
}

func (st *state) findVersionByValidation(validationID string) (entities.DocumentVersion, bool, error) {
	for _, item := range st.versions {
		if item.ValidationID == validationID {
			return item, true, nil
		}
	}
	return entities.DocumentVersion{}, false, nil
}

func (st *state) currentVersion(documentID string) (entities.DocumentVersion, bool, error) {
	for _, item := range st.versions {
		if item.DocumentID == documentID && item.IsCurrent {
			return item, true, nil
		}
	}
	return entities.DocumentVersion{}, false, nil
}

func (st *state) latestVersionNumber(documentID string) (int, error) {
	latest := 0
	for _, item := range st.versions {
		if item.DocumentID == documentID && item.VersionNumber > latest {
			latest = item.VersionNumber
		}
	}
	return latest, nil
}

func (st *state) latestRejectedVersion(documentID string) (entities.DocumentVersion, bool, error) {
	var result entities.DocumentVersion
	found := false
	for _, item := range st.versions {
		if item.DocumentID != documentID || item.Status != entities.VersionStatusRejected {
			continue
		}
		if !found || item.VersionNumber > result.VersionNumber {
			result = item
			found = true
		}
	}
	return result, found, nil
}

func (st *state) listVersions(documentID string) ([]entities.DocumentVersion, error) {
	items := make([]entities.DocumentVersion, 0)
	for _, item := range st.versions {
		if item.DocumentID == documentID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].VersionNumber > items[j].VersionNumber
	})
	return items, nil
}

func (st *state) createVersion(version entities.DocumentVersion) error {
	if err := st.checkStatusUniqueness(version); err != nil {
		return err
	}
	st.versions[version.VersionID] = version
	return nil
}

func (st *state) updateVersion(version entities.DocumentVersion) error {
	if _, exists := st.versions[version.VersionID]; !exists {
		return domainerrors.ErrVersionNotFound
	}
	if err := st.checkStatusUniqueness(version); err != nil {
		return err
	}
	st.versions[version.VersionID] = version
	return nil
}

// checkStatusUniqueness mirrors the postgres partial unique indexes: at most
// one draft and one in_review version per document.
func (st *state) checkStatusUniqueness(candidate entities.DocumentVersion) error {
	if candidate.Status != entities.VersionStatusDraft && candidate.Status != entities.VersionStatusInReview {
		return nil
	}
	for _, item := range st.versions {
		if item.VersionID == candidate.VersionID {
			continue
		}
		if item.DocumentID != candidate.DocumentID || item.Status != candidate.Status {
			continue
		}
		if candidate.Status == entities.VersionStatusDraft {
			return domainerrors.ErrDraftConflict
		}
		return domainerrors.ErrInReviewConflict
	}
	return nil
}

func (st *state) getValidation(validationID string) (entities.Validation, error) {
	item, exists := st.validations[strings.TrimSpace(validationID)]
	if !exists {
		return entities.Validation{}, domainerrors.ErrValidationNotFound
	}
	return item, nil
}

func (st *state) pendingValidation(documentID string) (entities.Validation, bool, error) {
	for _, item := range st.validations {
		if item.DocumentID == documentID && item.Status == entities.ValidationStatusPending {
			return item, true, nil
		}
	}
	return entities.Validation{}, false, nil
}

func (st *state) createValidation(validation entities.Validation) error {
	st.validations[validation.ValidationID] = validation
	return nil
}

func (st *state) updateValidation(validation entities.Validation) error {
	if _, exists := st.validations[validation.ValidationID]; !exists {
		return domainerrors.ErrValidationNotFound
	}
	st.validations[validation.ValidationID] = validation
	return nil
}

func (st *state) appendAudit(entry entities.AuditEntry) error {
	st.audits = append(st.audits, entry)
	return nil
}

func (st *state) listAudit(documentID string, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.AuditEntry, 0, limit)
	for i := len(st.audits) - 1; i >= 0 && len(items) < limit; i-- {
		if st.audits[i].DocumentID == documentID {
			items = append(items, st.audits[i])
		}
	}
	return items, nil
}

func (st *state) appendOutbox(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	st.outbox = append(st.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:  envelope.EventID,
			EventType: envelope.EventType,
			Payload:   payload,
			CreatedAt: envelope.OccurredAt.UTC(),
		},
	})
	return nil
}
