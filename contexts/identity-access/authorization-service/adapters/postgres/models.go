package postgresadapter

import (
	"encoding/json"
	"time"

	"scribe/contexts/identity-access/authorization-service/domain/entities"
)

type roleModel struct {
	RoleID      string `gorm:"column:role_id;primaryKey"`
	RoleName    string `gorm:"column:role_name"`
	Permissions []byte `gorm:"column:permissions"`
}

func (roleModel) TableName() string {
	return "roles"
}

func (m roleModel) toEntity() entities.Role {
	permissions := []string{}
	if len(m.Permissions) > 0 {
		_ = json.Unmarshal(m.Permissions, &permissions)
	}
	return entities.Role{
		RoleID:      m.RoleID,
		RoleName:    m.RoleName,
		Permissions: permissions,
	}
}

type membershipModel struct {
	MembershipID string     `gorm:"column:membership_id;primaryKey"`
	UserID       string     `gorm:"column:user_id"`
	WorkspaceID  string     `gorm:"column:workspace_id"`
	RoleID       string     `gorm:"column:role_id"`
	GrantedBy    string     `gorm:"column:granted_by"`
	Reason       string     `gorm:"column:reason"`
	GrantedAt    time.Time  `gorm:"column:granted_at"`
	ExpiresAt    *time.Time `gorm:"column:expires_at"`
	IsActive     bool       `gorm:"column:is_active"`
	RevokedAt    *time.Time `gorm:"column:revoked_at"`
}

func (membershipModel) TableName() string {
	return "workspace_memberships"
}

func (m membershipModel) toEntity(roleName string) entities.WorkspaceMembership {
	return entities.WorkspaceMembership{
		MembershipID: m.MembershipID,
		UserID:       m.UserID,
		WorkspaceID:  m.WorkspaceID,
		RoleID:       m.RoleID,
		RoleName:     roleName,
		GrantedBy:    m.GrantedBy,
		Reason:       m.Reason,
		GrantedAt:    m.GrantedAt.UTC(),
		ExpiresAt:    normalizeOptionalTime(m.ExpiresAt),
		IsActive:     m.IsActive,
		RevokedAt:    normalizeOptionalTime(m.RevokedAt),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
