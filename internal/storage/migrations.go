package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// expectedSchemaVersion is the latest schema version the journal expects.
const expectedSchemaVersion = 1

// migration represents one journal schema migration.
type migration struct {
	up          func(*sql.Tx) error
	description string
	version     int
}

var migrations = []migration{
	{
		version:     1,
		description: "Mutation journal",
		up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS mutations (
					id TEXT PRIMARY KEY,
					op TEXT NOT NULL,
					category TEXT NOT NULL,
					word TEXT NOT NULL,
					weight REAL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_mutations_created_at ON mutations(created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_mutations_word ON mutations(word)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// migrate brings the journal schema up to the expected version.
func (j *Journal) migrate(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	err := j.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := j.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}

		if err := m.up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			m.version, m.description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}

		slog.Info("applied journal migration", "version", m.version, "description", m.description)
	}

	if current > expectedSchemaVersion {
		return fmt.Errorf("journal schema version %d is newer than expected %d", current, expectedSchemaVersion)
	}
	return nil
}
