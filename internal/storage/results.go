package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/haldane/ledgerscope/internal/model"
)

// InsertTransactionAnalyses inserts scorer verdicts. Analyses are immutable:
// re-analysis inserts new rows rather than editing existing ones.
func (s *SQLiteStorage) InsertTransactionAnalyses(ctx context.Context, analyses []model.TransactionAnalysis) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(analyses) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transaction_analyses (id, investigation_id, transaction_id, risk_level, legitimacy, red_flags, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range analyses {
		flags, err := json.Marshal(a.RedFlags)
		if err != nil {
			return fmt.Errorf("failed to encode red flags: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.InvestigationID, a.TransactionID,
			string(a.RiskLevel), string(a.Legitimacy), string(flags), a.Score, a.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert analysis %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// InsertAnomalies inserts detector findings. Writes are additive; detectors
// never update or read each other's rows.
func (s *SQLiteStorage) InsertAnomalies(ctx context.Context, anomalies []model.Anomaly) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(anomalies) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO anomalies (id, investigation_id, type, severity, description, transaction_ids, method, status, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range anomalies {
		ids, err := json.Marshal(a.TransactionIDs)
		if err != nil {
			return fmt.Errorf("failed to encode transaction ids: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.InvestigationID, string(a.Type), string(a.Severity),
			a.Description, string(ids), a.Method, string(a.Status), a.DetectedAt,
		); err != nil {
			return fmt.Errorf("failed to insert anomaly %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}
