package postgresadapter

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates the lifecycle tables and the partial unique indexes that
// back the single-draft, single-in-review and single-current invariants at
// the storage layer. Application-level existence checks run first; these
// indexes are the arbiter when concurrent transactions race past them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&documentModel{},
		&documentVersionModel{},
		&validationModel{},
		&auditModel{},
		&outboxModel{},
	); err != nil {
		return fmt.Errorf("lifecycle automigrate: %w", err)
	}

	statements := []string{
		fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s ON document_versions (document_id) WHERE version_status = 'draft'`,
			draftUniqueIndex,
		),
		fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s ON document_versions (document_id) WHERE version_status = 'in_review'`,
			inReviewUniqueIndex,
		),
		fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s ON document_versions (document_id) WHERE is_current`,
			currentUniqueIndex,
		),
		`CREATE UNIQUE INDEX IF NOT EXISTS document_versions_document_number_idx ON document_versions (document_id, version_number)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS validations_one_pending_idx ON validations (document_id) WHERE status = 'pending'`,
		`CREATE INDEX IF NOT EXISTS audit_log_document_created_idx ON audit_log (document_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS lifecycle_outbox_status_idx ON lifecycle_outbox (status, created_at)`,
	}
	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			return fmt.Errorf("lifecycle index migration: %w", err)
		}
	}
	return nil
}
