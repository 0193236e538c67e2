package errors

import "errors"

var (
	ErrDocumentNotFound     = errors.New("document not found")
	ErrVersionNotFound      = errors.New("document version not found")
	ErrValidationNotFound   = errors.New("validation not found")
	ErrInvalidState         = errors.New("invalid lifecycle state for this transition")
	ErrDraftConflict        = errors.New("document already has a draft version")
	ErrInReviewConflict     = errors.New("document already has a version in review")
	ErrSegregationViolation = errors.New("version creator cannot review their own version")
	ErrObservationsRequired = errors.New("rejection observations are required")
	ErrPermissionDenied     = errors.New("actor is not permitted to perform this action")
	ErrInvalidInput         = errors.New("invalid lifecycle input")
)
