package entities

import "time"

type VersionStatus string

const (
	VersionStatusDraft    VersionStatus = "draft"
	VersionStatusInReview VersionStatus = "in_review"
	VersionStatusApproved VersionStatus = "approved"
	VersionStatusRejected VersionStatus = "rejected"
	VersionStatusObsolete VersionStatus = "obsolete"
)

// Section is one structured block of document content.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// ContentPayload is the versioned content schema stored on every version.
// Schema is bumped when the section shape changes; Rendered holds the
// Markdown produced outside the engine.
type ContentPayload struct {
	Schema   int       `json:"schema"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
	Rendered string    `json:"rendered"`
}

const ContentSchemaVersion = 1

func EmptyContent() ContentPayload {
	return ContentPayload{Schema: ContentSchemaVersion}
}

func (p ContentPayload) Clone() ContentPayload {
	cloned := p
	cloned.Sections = append([]Section(nil), p.Sections...)
	return cloned
}

// DocumentVersion is an immutable-once-finalized content snapshot.
// VersionNumber strictly increases per document and is never reused.
type DocumentVersion struct {
	VersionID           string
	DocumentID          string
	VersionNumber       int
	Status              VersionStatus
	SupersedesVersionID string
	Content             ContentPayload
	CreatedBy           string
	CreatedAt           time.Time
	ApprovedBy          string
	ApprovedAt          *time.Time
	RejectedBy          string
	RejectedAt          *time.Time
	ValidationID        string
	IsCurrent           bool
	UpdatedAt           time.Time
}

// Editable reports whether the version content may still change.
func (v DocumentVersion) Editable() bool {
	return v.Status == VersionStatusDraft
}

// Cloneable reports whether the version may seed a new draft lineage.
// OBSOLETE is terminal and IN_REVIEW content is frozen mid-cycle.
func (v DocumentVersion) Cloneable() bool {
	return v.Status == VersionStatusApproved || v.Status == VersionStatusRejected
}
