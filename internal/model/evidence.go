package model

import "time"

// CustodyEntry is one transfer in an evidence item's chain of custody.
// Entries are append-only: they are never edited or removed once recorded.
type CustodyEntry struct {
	Timestamp     time.Time
	TransferredTo string
	TransferredBy string
	Location      string
	Purpose       string
}

// Evidence is a single item of evidentiary material attached to an
// investigation. The custody log is the authoritative provenance trail,
// ordered oldest first.
type Evidence struct {
	ReceivedDate    time.Time
	CreatedAt       time.Time
	ID              string
	InvestigationID string
	EvidenceNumber  string
	Type            string
	Description     string
	Source          string
	CustodyLog      []CustodyEntry
}
