package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Run creates the schema. Every statement is idempotent.
func Run(db *sqlx.DB, log logrus.FieldLogger) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS app_state (
            key TEXT PRIMARY KEY,
            body TEXT NOT NULL,
            updated_at TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS backup_snapshots (
            id TEXT PRIMARY KEY,
            created_at TEXT NOT NULL,
            size BIGINT NOT NULL,
            body TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS backup_snapshots_created_at ON backup_snapshots (created_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	log.WithField("statements", len(schema)).Debug("migrations applied")
	return nil
}
