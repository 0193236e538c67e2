package entities

import (
	"strings"
	"time"
)

type ValidationStatus string

const (
	ValidationStatusPending   ValidationStatus = "pending"
	ValidationStatusApproved  ValidationStatus = "approved"
	ValidationStatusRejected  ValidationStatus = "rejected"
	ValidationStatusCancelled ValidationStatus = "cancelled"
)

// Validation is one review cycle, 1:1 with the version currently IN_REVIEW.
// Observations are required on rejection.
type Validation struct {
	ValidationID string
	DocumentID   string
	Status       ValidationStatus
	Observations string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

func (v Validation) IsPending() bool {
	return v.Status == ValidationStatusPending
}

// ValidObservations rejects blank or whitespace-only rejection notes.
func ValidObservations(observations string) bool {
	return strings.TrimSpace(observations) != ""
}
