package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database. The
// composite unique index on contributors (project_id, user_id) comes from
// the model tags; everything here is a secondary lookup index.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Contributor lookups drive every authorization check
		{"contributors", "idx_contributors_project_id", "project_id"},
		{"contributors", "idx_contributors_user_id", "user_id"},
		{"contributors", "idx_contributors_role", "role"},

		// Issue indexes for project listing and ownership lookups
		{"issues", "idx_issues_project_id", "project_id"},
		{"issues", "idx_issues_author_id", "author_id"},
		{"issues", "idx_issues_status", "status"},

		// Comment indexes
		{"comments", "idx_comments_issue_id", "issue_id"},
		{"comments", "idx_comments_author_id", "author_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	// Postgres enforces the one-Manager-per-project invariant declaratively.
	// MySQL has no partial indexes; there the locking read in the membership
	// store carries the invariant alone.
	if db.Dialector.Name() == "postgres" {
		const name = "uk_contributors_project_manager"
		if !db.Migrator().HasIndex("contributors", name) {
			sql := fmt.Sprintf(
				"CREATE UNIQUE INDEX %s ON contributors (project_id) WHERE role = 'Manager'", name)
			if err := db.Exec(sql).Error; err != nil {
				return fmt.Errorf("failed to create index %s: %w", name, err)
			}
		}
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
