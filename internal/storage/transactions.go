package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/haldane/ledgerscope/internal/model"
)

// SaveTransactions saves multiple transactions, ignoring ids that already
// exist. Used by the import path; the engine itself never writes
// transactions.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, date, title, description, amount, kind, owner_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		if _, err := stmt.ExecContext(ctx,
			txn.ID, txn.Date, txn.Title, txn.Description,
			txn.Amount.String(), string(txn.Kind), txn.OwnerRef,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// ListTransactions returns every transaction belonging to the given owner,
// oldest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, ownerRef string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerRef, "ownerRef"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, title, description, amount, kind, owner_ref
		FROM transactions
		WHERE owner_ref = ?
		ORDER BY date ASC, id ASC
	`, ownerRef)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionsByIDs returns the transactions matching ids. Missing ids
// are silently skipped; callers decide whether absence matters.
func (s *SQLiteStorage) GetTransactionsByIDs(ctx context.Context, ids []string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, date, title, description, amount, kind, owner_ref
		FROM transactions
		WHERE id IN (%s)
		ORDER BY date ASC, id ASC
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var (
			txn         model.Transaction
			date        time.Time
			title       sql.NullString
			description sql.NullString
			amount      string
			kind        string
		)
		if err := rows.Scan(&txn.ID, &date, &title, &description, &amount, &kind, &txn.OwnerRef); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}

		txn.Date = date
		txn.Title = title.String
		txn.Description = description.String
		txn.Amount = parsed
		txn.Kind = model.TransactionKind(kind)
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}
