package ledger

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the ledger tables when missing.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init ledger schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init ledger schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDailyStatsQuery := `
	CREATE TABLE IF NOT EXISTS daily_stats (
		date TEXT PRIMARY KEY,
		time_saved_minutes REAL NOT NULL DEFAULT 0,
		fuel_saved_liters REAL NOT NULL DEFAULT 0,
		trip_count INTEGER NOT NULL DEFAULT 0
	);
	`

	createMetaQuery := `
	CREATE TABLE IF NOT EXISTS ledger_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	statements := []string{
		createDailyStatsQuery,
		createMetaQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init ledger schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init ledger schema: commit tx: %w", err)
	}

	return nil
}
