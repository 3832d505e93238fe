package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					date DATETIME NOT NULL,
					title TEXT,
					description TEXT,
					amount TEXT NOT NULL,
					kind TEXT NOT NULL,
					owner_ref TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_owner ON transactions(owner_ref)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,

				`CREATE TABLE IF NOT EXISTS investigations (
					id TEXT PRIMARY KEY,
					case_number TEXT UNIQUE NOT NULL,
					title TEXT NOT NULL,
					allegations TEXT,
					period_start DATETIME,
					period_end DATETIME,
					status TEXT NOT NULL DEFAULT 'open',
					owner_ref TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_investigations_owner ON investigations(owner_ref)`,

				`CREATE TABLE IF NOT EXISTS evidence (
					id TEXT PRIMARY KEY,
					investigation_id TEXT NOT NULL,
					evidence_number TEXT NOT NULL,
					type TEXT NOT NULL,
					description TEXT,
					source TEXT,
					received_date DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (investigation_id) REFERENCES investigations(id)
				)`,
				`CREATE INDEX idx_evidence_investigation ON evidence(investigation_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Chain of custody entries",
		Up: func(tx *sql.Tx) error {
			// Custody entries are their own rows so an append is an INSERT:
			// two concurrent transfers both land, nothing is overwritten.
			queries := []string{
				`CREATE TABLE IF NOT EXISTS custody_entries (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					evidence_id TEXT NOT NULL,
					transferred_to TEXT NOT NULL,
					transferred_by TEXT NOT NULL,
					location TEXT NOT NULL,
					purpose TEXT NOT NULL,
					timestamp DATETIME NOT NULL,
					FOREIGN KEY (evidence_id) REFERENCES evidence(id)
				)`,
				`CREATE INDEX idx_custody_evidence ON custody_entries(evidence_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Analysis results",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transaction_analyses (
					id TEXT PRIMARY KEY,
					investigation_id TEXT NOT NULL,
					transaction_id TEXT NOT NULL,
					risk_level TEXT NOT NULL,
					legitimacy TEXT NOT NULL,
					red_flags TEXT,
					score INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (investigation_id) REFERENCES investigations(id)
				)`,
				`CREATE INDEX idx_analyses_investigation ON transaction_analyses(investigation_id)`,

				`CREATE TABLE IF NOT EXISTS anomalies (
					id TEXT PRIMARY KEY,
					investigation_id TEXT NOT NULL,
					type TEXT NOT NULL,
					severity TEXT NOT NULL,
					description TEXT,
					transaction_ids TEXT,
					method TEXT,
					status TEXT NOT NULL DEFAULT 'pending',
					detected_at DATETIME NOT NULL,
					FOREIGN KEY (investigation_id) REFERENCES investigations(id)
				)`,
				`CREATE INDEX idx_anomalies_investigation ON anomalies(investigation_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// SchemaVersion returns the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
