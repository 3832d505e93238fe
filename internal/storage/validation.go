package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haldane/ledgerscope/internal/model"
)

// Validation errors.
var (
	ErrNilContext           = errors.New("context cannot be nil")
	ErrEmptyString          = errors.New("string parameter cannot be empty")
	ErrNilParameter         = errors.New("parameter cannot be nil")
	ErrInvalidTransaction   = errors.New("invalid transaction")
	ErrInvalidInvestigation = errors.New("invalid investigation")
	ErrInvalidEvidence      = errors.New("invalid evidence")
	ErrInvalidCustodyEntry  = errors.New("invalid custody entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.OwnerRef == "" {
		return fmt.Errorf("%w: missing owner reference", ErrInvalidTransaction)
	}
	return nil
}

func validateInvestigation(inv *model.Investigation) error {
	if inv == nil {
		return fmt.Errorf("%w: investigation", ErrNilParameter)
	}
	if inv.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidInvestigation)
	}
	if strings.TrimSpace(inv.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidInvestigation)
	}
	if inv.OwnerRef == "" {
		return fmt.Errorf("%w: missing owner reference", ErrInvalidInvestigation)
	}
	return nil
}

func validateEvidence(ev *model.Evidence) error {
	if ev == nil {
		return fmt.Errorf("%w: evidence", ErrNilParameter)
	}
	if ev.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidEvidence)
	}
	if ev.InvestigationID == "" {
		return fmt.Errorf("%w: missing investigation ID", ErrInvalidEvidence)
	}
	if strings.TrimSpace(ev.EvidenceNumber) == "" {
		return fmt.Errorf("%w: missing evidence number", ErrInvalidEvidence)
	}
	return nil
}

func validateCustodyEntry(entry *model.CustodyEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: custody entry", ErrNilParameter)
	}
	for name, value := range map[string]string{
		"transferredTo": entry.TransferredTo,
		"transferredBy": entry.TransferredBy,
		"location":      entry.Location,
		"purpose":       entry.Purpose,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: missing %s", ErrInvalidCustodyEntry, name)
		}
	}
	if entry.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidCustodyEntry)
	}
	return nil
}
