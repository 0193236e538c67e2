package entities

import "time"

type DocumentKind string

const (
	DocumentKindProcess DocumentKind = "process"
	DocumentKindRecipe  DocumentKind = "recipe"
)

type DocumentStatus string

const (
	DocumentStatusDraft             DocumentStatus = "draft"
	DocumentStatusPendingValidation DocumentStatus = "pending_validation"
	DocumentStatusApproved          DocumentStatus = "approved"
	DocumentStatusRejected          DocumentStatus = "rejected"
)

// Document is the aggregate root. ApprovedVersionID points at the currently
// published version; empty means the document has never been approved.
// Mutated only through lifecycle transitions.
type Document struct {
	DocumentID        string
	WorkspaceID       string
	Kind              DocumentKind
	ApprovedVersionID string
	Status            DocumentStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (d Document) HasApprovedVersion() bool {
	return d.ApprovedVersionID != ""
}

func ValidDocumentKind(kind DocumentKind) bool {
	return kind == DocumentKindProcess || kind == DocumentKindRecipe
}
