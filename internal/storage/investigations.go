package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/model"
)

// CreateInvestigation inserts a new investigation.
func (s *SQLiteStorage) CreateInvestigation(ctx context.Context, inv *model.Investigation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInvestigation(inv); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO investigations (id, case_number, title, allegations, period_start, period_end, status, owner_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.CaseNumber, inv.Title, inv.Allegations,
		nullableTime(inv.PeriodStart), nullableTime(inv.PeriodEnd),
		string(inv.Status), inv.OwnerRef, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert investigation: %w", err)
	}
	return nil
}

// GetInvestigation returns one investigation by id, or common.ErrNotFound.
// Ownership is the manager's concern: storage reports what exists.
func (s *SQLiteStorage) GetInvestigation(ctx context.Context, id string) (*model.Investigation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, case_number, title, allegations, period_start, period_end, status, owner_ref, created_at, updated_at
		FROM investigations
		WHERE id = ?
	`, id)

	inv, err := scanInvestigation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return inv, err
}

// ListInvestigations returns all investigations owned by ownerRef, newest
// first.
func (s *SQLiteStorage) ListInvestigations(ctx context.Context, ownerRef string) ([]model.Investigation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerRef, "ownerRef"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, case_number, title, allegations, period_start, period_end, status, owner_ref, created_at, updated_at
		FROM investigations
		WHERE owner_ref = ?
		ORDER BY created_at DESC
	`, ownerRef)
	if err != nil {
		return nil, fmt.Errorf("failed to query investigations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var investigations []model.Investigation
	for rows.Next() {
		inv, err := scanInvestigation(rows)
		if err != nil {
			return nil, err
		}
		investigations = append(investigations, *inv)
	}
	return investigations, rows.Err()
}

// UpdateInvestigationStatus sets the status of an investigation.
func (s *SQLiteStorage) UpdateInvestigationStatus(ctx context.Context, id string, status model.InvestigationStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE investigations
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update investigation status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvestigation(row rowScanner) (*model.Investigation, error) {
	var (
		inv         model.Investigation
		allegations sql.NullString
		periodStart sql.NullTime
		periodEnd   sql.NullTime
		status      string
	)
	if err := row.Scan(&inv.ID, &inv.CaseNumber, &inv.Title, &allegations,
		&periodStart, &periodEnd, &status, &inv.OwnerRef, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan investigation: %w", err)
	}

	inv.Allegations = allegations.String
	inv.PeriodStart = periodStart.Time
	inv.PeriodEnd = periodEnd.Time
	inv.Status = model.InvestigationStatus(status)
	return &inv, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
