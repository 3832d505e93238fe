// Package service defines the contracts between the forensics engine and its
// external collaborators.
package service

import (
	"context"
	"time"

	"github.com/haldane/ledgerscope/internal/benford"
	"github.com/haldane/ledgerscope/internal/model"
)

// Storage is the persistence collaborator. The engine never branches on the
// concrete backend; the orchestration layer chooses one.
type Storage interface {
	// Transaction operations. The engine only reads transactions; writes
	// happen upstream (or through the import path).
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	ListTransactions(ctx context.Context, ownerRef string) ([]model.Transaction, error)
	GetTransactionsByIDs(ctx context.Context, ids []string) ([]model.Transaction, error)

	// Investigation operations.
	CreateInvestigation(ctx context.Context, inv *model.Investigation) error
	GetInvestigation(ctx context.Context, id string) (*model.Investigation, error)
	ListInvestigations(ctx context.Context, ownerRef string) ([]model.Investigation, error)
	UpdateInvestigationStatus(ctx context.Context, id string, status model.InvestigationStatus) error

	// Evidence operations. AppendCustodyEntry must have append semantics:
	// concurrent appends to the same evidence never clobber each other.
	CreateEvidence(ctx context.Context, ev *model.Evidence) error
	GetEvidence(ctx context.Context, id string) (*model.Evidence, error)
	AppendCustodyEntry(ctx context.Context, evidenceID string, entry model.CustodyEntry) error

	// Analysis result operations. Inserts are additive; detectors never read
	// each other's output.
	InsertTransactionAnalyses(ctx context.Context, analyses []model.TransactionAnalysis) error
	InsertAnomalies(ctx context.Context, anomalies []model.Anomaly) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// AuditEntry describes one state-changing action for the external
// append-only ledger.
type AuditEntry struct {
	EntityType string
	EntityID   string
	Action     string
	Actor      string
	ActorType  string
	Metadata   map[string]any
}

// AuditReceipt is the ledger's acknowledgment of an appended entry.
type AuditReceipt struct {
	ID             string
	SequenceNumber int64
	Hash           string
}

// AuditLedger is the external append-only ledger collaborator. Emission is
// always best-effort: callers must tolerate a nil receipt and must never
// block a response on the ledger.
type AuditLedger interface {
	PostEntry(ctx context.Context, entry AuditEntry) (*AuditReceipt, error)
}

// AnalysisError records the failure of a single analysis component during an
// otherwise-successful run.
type AnalysisError struct {
	Analysis string
	Message  string
}

// AnalysisReport is the aggregate result of a full investigation analysis
// pass. Partial detector failures land in Errors; the remaining sections are
// still populated.
type AnalysisReport struct {
	GeneratedAt          time.Time
	InvestigationID      string
	TransactionAnalyses  []model.TransactionAnalysis
	DuplicatePayments    []model.Anomaly
	UnusualTiming        []model.Anomaly
	AfterHoursAdvisories []model.Anomaly
	RoundDollars         []model.Anomaly
	BenfordViolations    []model.Anomaly
	BenfordsLaw          []benford.DigitResult
	Errors               []AnalysisError
}
