package postgresadapter

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates the authorization tables and lookup indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&roleModel{},
		&membershipModel{},
	); err != nil {
		return fmt.Errorf("authorization automigrate: %w", err)
	}

	statements := []string{
		`CREATE INDEX IF NOT EXISTS workspace_memberships_user_workspace_idx ON workspace_memberships (user_id, workspace_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS workspace_memberships_active_role_idx ON workspace_memberships (user_id, workspace_id, role_id) WHERE is_active`,
	}
	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			return fmt.Errorf("authorization index migration: %w", err)
		}
	}
	return nil
}
