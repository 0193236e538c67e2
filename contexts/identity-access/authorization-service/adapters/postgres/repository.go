package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"scribe/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "scribe/contexts/identity-access/authorization-service/domain/errors"
	"scribe/contexts/identity-access/authorization-service/ports"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) ListEffectivePermissions(ctx context.Context, userID string, workspaceID string, now time.Time) ([]string, error) {
	var rows []membershipModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("workspace_id = ?", strings.TrimSpace(workspaceID)).
		Where("is_active = ?", true).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	permissions := make(map[string]struct{})
	for _, row := range rows {
		if row.ExpiresAt != nil && !row.ExpiresAt.After(now) {
			continue
		}
		var role roleModel
		err := r.db.WithContext(ctx).
			Where("role_id = ?", row.RoleID).
			First(&role).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		for _, permission := range role.toEntity().Permissions {
			permissions[permission] = struct{}{}
		}
	}

	items := make([]string, 0, len(permissions))
	for permission := range permissions {
		items = append(items, permission)
	}
	sort.Strings(items)
	return items, nil
}

func (r *Repository) ListMemberships(ctx context.Context, userID string, now time.Time) ([]entities.WorkspaceMembership, error) {
	var rows []membershipModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("granted_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.WorkspaceMembership, 0, len(rows))
	for _, row := range rows {
		if row.IsActive && row.ExpiresAt != nil && !row.ExpiresAt.After(now) {
			continue
		}
		items = append(items, row.toEntity(r.roleName(ctx, row.RoleID)))
	}
	return items, nil
}

func (r *Repository) ListRoles(ctx context.Context) ([]entities.Role, error) {
	var rows []roleModel
	err := r.db.WithContext(ctx).
		Order("role_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Role, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GrantMembership(ctx context.Context, input ports.GrantMembershipInput) (entities.WorkspaceMembership, error) {
	var granted membershipModel
	var roleName string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role roleModel
		if err := tx.Where("role_id = ?", input.RoleID).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRoleNotFound
			}
			return err
		}
		roleName = role.RoleName

		var existing int64
		err := tx.Model(&membershipModel{}).
			Where("user_id = ?", input.UserID).
			Where("workspace_id = ?", input.WorkspaceID).
			Where("role_id = ?", input.RoleID).
			Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", input.GrantedAt).
			Count(&existing).
			Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return domainerrors.ErrMembershipExists
		}

		granted = membershipModel{
			MembershipID: input.MembershipID,
			UserID:       input.UserID,
			WorkspaceID:  input.WorkspaceID,
			RoleID:       input.RoleID,
			GrantedBy:    input.GrantorID,
			Reason:       input.Reason,
			GrantedAt:    input.GrantedAt.UTC(),
			ExpiresAt:    normalizeOptionalTime(input.ExpiresAt),
			IsActive:     true,
		}
		return tx.Create(&granted).Error
	})
	if err != nil {
		return entities.WorkspaceMembership{}, err
	}
	return granted.toEntity(roleName), nil
}

func (r *Repository) RevokeMembership(ctx context.Context, input ports.RevokeMembershipInput) (entities.WorkspaceMembership, error) {
	var revoked membershipModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", input.UserID).
			Where("workspace_id = ?", input.WorkspaceID).
			Where("role_id = ?", input.RoleID).
			Where("is_active = ?", true).
			First(&revoked).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrMembershipNotFound
			}
			return err
		}

		revokedAt := input.RevokedAt.UTC()
		result := tx.Model(&membershipModel{}).
			Where("membership_id = ?", revoked.MembershipID).
			Updates(map[string]any{
				"is_active":  false,
				"revoked_at": revokedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		revoked.IsActive = false
		revoked.RevokedAt = &revokedAt
		return nil
	})
	if err != nil {
		return entities.WorkspaceMembership{}, err
	}
	return revoked.toEntity(r.roleName(ctx, revoked.RoleID)), nil
}

// SeedRoles installs the baseline role catalogue. Existing rows win; grants
// in flight never observe a partially updated role.
func (r *Repository) SeedRoles(ctx context.Context, roles []entities.Role) error {
	for _, role := range roles {
		permissions, err := json.Marshal(role.Permissions)
		if err != nil {
			return err
		}
		row := roleModel{
			RoleID:      role.RoleID,
			RoleName:    role.RoleName,
			Permissions: permissions,
		}
		var existing int64
		if err := r.db.WithContext(ctx).
			Model(&roleModel{}).
			Where("role_id = ?", role.RoleID).
			Count(&existing).
			Error; err != nil {
			return err
		}
		if existing > 0 {
			continue
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) roleName(ctx context.Context, roleID string) string {
	var role roleModel
	err := r.db.WithContext(ctx).
		Where("role_id = ?", roleID).
		First(&role).
		Error
	if err != nil {
		return ""
	}
	return role.RoleName
}
