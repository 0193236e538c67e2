package entities

import "time"

// WorkspaceMembership binds a user to a role inside one workspace. A user
// may hold memberships in many workspaces; permissions never cross them.
type WorkspaceMembership struct {
	MembershipID string     `json:"membership_id"`
	UserID       string     `json:"user_id"`
	WorkspaceID  string     `json:"workspace_id"`
	RoleID       string     `json:"role_id"`
	RoleName     string     `json:"role_name"`
	GrantedBy    string     `json:"granted_by"`
	Reason       string     `json:"reason"`
	GrantedAt    time.Time  `json:"granted_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	IsActive     bool       `json:"is_active"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

// ActiveAt reports whether the membership contributes permissions at the
// given instant.
func (m WorkspaceMembership) ActiveAt(now time.Time) bool {
	if !m.IsActive {
		return false
	}
	if m.ExpiresAt != nil && !m.ExpiresAt.After(now) {
		return false
	}
	return true
}
