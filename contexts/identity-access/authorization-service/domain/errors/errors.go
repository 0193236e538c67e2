package errors

import "errors"

var (
	ErrInvalidPermission  = errors.New("invalid permission")
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrInvalidWorkspaceID = errors.New("invalid workspace id")
	ErrInvalidRoleID      = errors.New("invalid role id")
	ErrInvalidGrantorID   = errors.New("invalid grantor id")
	ErrRoleNotFound       = errors.New("role not found")
	ErrMembershipExists   = errors.New("membership already active for this role")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid authorization input")
)
