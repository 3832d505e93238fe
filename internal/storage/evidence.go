package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/model"
)

// CreateEvidence inserts a new evidence item, including any custody entries
// already on it.
func (s *SQLiteStorage) CreateEvidence(ctx context.Context, ev *model.Evidence) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEvidence(ev); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO evidence (id, investigation_id, evidence_number, type, description, source, received_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.InvestigationID, ev.EvidenceNumber, ev.Type,
		ev.Description, ev.Source, nullableTime(ev.ReceivedDate), ev.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert evidence: %w", err)
	}

	for i := range ev.CustodyLog {
		if err := insertCustodyEntry(ctx, tx, ev.ID, &ev.CustodyLog[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetEvidence returns one evidence item with its full custody log, oldest
// entry first, or common.ErrNotFound.
func (s *SQLiteStorage) GetEvidence(ctx context.Context, id string) (*model.Evidence, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var (
		ev           model.Evidence
		description  sql.NullString
		source       sql.NullString
		receivedDate sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, investigation_id, evidence_number, type, description, source, received_date, created_at
		FROM evidence
		WHERE id = ?
	`, id).Scan(&ev.ID, &ev.InvestigationID, &ev.EvidenceNumber, &ev.Type,
		&description, &source, &receivedDate, &ev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan evidence: %w", err)
	}

	ev.Description = description.String
	ev.Source = source.String
	ev.ReceivedDate = receivedDate.Time

	rows, err := s.db.QueryContext(ctx, `
		SELECT transferred_to, transferred_by, location, purpose, timestamp
		FROM custody_entries
		WHERE evidence_id = ?
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query custody log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var entry model.CustodyEntry
		if err := rows.Scan(&entry.TransferredTo, &entry.TransferredBy,
			&entry.Location, &entry.Purpose, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan custody entry: %w", err)
		}
		ev.CustodyLog = append(ev.CustodyLog, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ev, nil
}

// AppendCustodyEntry adds one entry to the end of an evidence item's custody
// log. The entry becomes a new row, so concurrent appends cannot clobber
// each other; prior entries are never touched.
func (s *SQLiteStorage) AppendCustodyEntry(ctx context.Context, evidenceID string, entry model.CustodyEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(evidenceID, "evidenceID"); err != nil {
		return err
	}
	if err := validateCustodyEntry(&entry); err != nil {
		return err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM evidence WHERE id = ?`, evidenceID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check evidence: %w", err)
	}

	return insertCustodyEntry(ctx, s.db, evidenceID, &entry)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertCustodyEntry(ctx context.Context, db execer, evidenceID string, entry *model.CustodyEntry) error {
	if _, err := db.ExecContext(ctx, `
		INSERT INTO custody_entries (evidence_id, transferred_to, transferred_by, location, purpose, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, evidenceID, entry.TransferredTo, entry.TransferredBy,
		entry.Location, entry.Purpose, entry.Timestamp); err != nil {
		return fmt.Errorf("failed to insert custody entry: %w", err)
	}
	return nil
}
