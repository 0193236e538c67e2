package entities

// Role models a permission bundle that workspace members hold.
type Role struct {
	RoleID      string   `json:"role_id"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

// DefaultRoles is the baseline role catalogue installed on fresh
// deployments and in-memory stores.
func DefaultRoles() []Role {
	return []Role{
		{
			RoleID:      "viewer",
			RoleName:    "viewer",
			Permissions: []string{"document.view"},
		},
		{
			RoleID:      "author",
			RoleName:    "author",
			Permissions: []string{"document.view", "document.edit", "document.submit"},
		},
		{
			RoleID:      "reviewer",
			RoleName:    "reviewer",
			Permissions: []string{"document.view", "document.review"},
		},
		{
			RoleID:   "workspace_admin",
			RoleName: "workspace_admin",
			Permissions: []string{
				"document.view", "document.edit", "document.submit",
				"document.review", "workspace.manage_members",
			},
		},
	}
}
