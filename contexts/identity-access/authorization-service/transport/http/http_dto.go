package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CheckPermissionRequest struct {
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
	Permission  string `json:"permission"`
}

type CheckPermissionResponse struct {
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
	Permission  string `json:"permission"`
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason"`
	CheckedAt   string `json:"checked_at"`
	CacheHit    bool   `json:"cache_hit"`
}

type GrantMembershipRequest struct {
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
	RoleID      string `json:"role_id"`
	Reason      string `json:"reason"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

type RevokeMembershipRequest struct {
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
	RoleID      string `json:"role_id"`
	Reason      string `json:"reason"`
}

type MembershipDTO struct {
	MembershipID string `json:"membership_id"`
	UserID       string `json:"user_id"`
	WorkspaceID  string `json:"workspace_id"`
	RoleID       string `json:"role_id"`
	RoleName     string `json:"role_name"`
	GrantedBy    string `json:"granted_by"`
	Reason       string `json:"reason,omitempty"`
	GrantedAt    string `json:"granted_at"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	IsActive     bool   `json:"is_active"`
	RevokedAt    string `json:"revoked_at,omitempty"`
}

type MembershipResponse struct {
	Membership MembershipDTO `json:"membership"`
}

type ListMembershipsResponse struct {
	Items []MembershipDTO `json:"items"`
}

type RoleDTO struct {
	RoleID      string   `json:"role_id"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

type ListRolesResponse struct {
	Items []RoleDTO `json:"items"`
}
