package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterDocumentRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Kind        string `json:"kind"`
}

type CreateDraftRequest struct {
	SourceVersionID string `json:"source_version_id,omitempty"`
}

type SectionDTO struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type ContentPayloadDTO struct {
	Schema   int          `json:"schema"`
	Title    string       `json:"title"`
	Sections []SectionDTO `json:"sections"`
	Rendered string       `json:"rendered,omitempty"`
}

type UpdateDraftRequest struct {
	Content ContentPayloadDTO `json:"content"`
}

type RejectVersionRequest struct {
	Observations string `json:"observations"`
}

type DocumentDTO struct {
	DocumentID        string `json:"document_id"`
	WorkspaceID       string `json:"workspace_id"`
	Kind              string `json:"kind"`
	ApprovedVersionID string `json:"approved_version_id,omitempty"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type VersionDTO struct {
	VersionID           string            `json:"version_id"`
	DocumentID          string            `json:"document_id"`
	VersionNumber       int               `json:"version_number"`
	Status              string            `json:"status"`
	SupersedesVersionID string            `json:"supersedes_version_id,omitempty"`
	Content             ContentPayloadDTO `json:"content"`
	CreatedBy           string            `json:"created_by"`
	CreatedAt           string            `json:"created_at"`
	ApprovedBy          string            `json:"approved_by,omitempty"`
	ApprovedAt          string            `json:"approved_at,omitempty"`
	RejectedBy          string            `json:"rejected_by,omitempty"`
	RejectedAt          string            `json:"rejected_at,omitempty"`
	ValidationID        string            `json:"validation_id,omitempty"`
	IsCurrent           bool              `json:"is_current"`
	UpdatedAt           string            `json:"updated_at"`
}

type ValidationDTO struct {
	ValidationID string `json:"validation_id"`
	DocumentID   string `json:"document_id"`
	Status       string `json:"status"`
	Observations string `json:"observations,omitempty"`
	CreatedAt    string `json:"created_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
}

type AuditEntryDTO struct {
	AuditID    string            `json:"audit_id"`
	DocumentID string            `json:"document_id"`
	Action     string            `json:"action"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	ActorID    string            `json:"actor_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  string            `json:"created_at"`
}

type RegisterDocumentResponse struct {
	Document DocumentDTO `json:"document"`
}

type DraftResponse struct {
	Version VersionDTO `json:"version"`
}

type SubmitVersionResponse struct {
	Version    VersionDTO    `json:"version"`
	Validation ValidationDTO `json:"validation"`
}

type ReviewResponse struct {
	Version    VersionDTO    `json:"version"`
	Validation ValidationDTO `json:"validation"`
}

type GetDocumentResponse struct {
	Document       DocumentDTO `json:"document"`
	CurrentVersion *VersionDTO `json:"current_version,omitempty"`
	DraftVersion   *VersionDTO `json:"draft_version,omitempty"`
}

type ListVersionsResponse struct {
	Items []VersionDTO `json:"items"`
}

type EditableResponse struct {
	Editable bool   `json:"editable"`
	Reason   string `json:"reason,omitempty"`
}

type PendingValidationResponse struct {
	Validation *ValidationDTO `json:"validation,omitempty"`
}

type AuditHistoryResponse struct {
	Items []AuditEntryDTO `json:"items"`
}
