package database

import (
	"database/sql"
	"fmt"

	"github.com/careops/careops/internal/database/schema"
)

// InitializeDatabase creates the Record Store tables in a single transaction.
// Every statement is idempotent, so this runs on each start.
func InitializeDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, query := range schema.TableDefinitions {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	return nil
}
