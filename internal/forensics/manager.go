// Package forensics implements the investigation and evidence manager: the
// one component with externally visible state. It owns ownership checks, the
// investigation status workflow, the append-only chain of custody, and the
// orchestration of the analysis components.
package forensics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/model"
	"github.com/haldane/ledgerscope/internal/service"
)

// Manager coordinates investigations, evidence, and analysis runs against
// the persistence and audit-ledger collaborators.
type Manager struct {
	store    service.Storage
	ledger   service.AuditLedger
	validate *validator.Validate
	audits   auditDispatcher
}

// NewManager creates a manager. The ledger may be nil; auditing then
// degrades to a no-op rather than an error.
func NewManager(store service.Storage, ledger service.AuditLedger) *Manager {
	return &Manager{
		store:    store,
		ledger:   ledger,
		validate: validator.New(),
	}
}

// CreateInvestigationRequest carries the caller-supplied fields for a new
// investigation.
type CreateInvestigationRequest struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Title       string `validate:"required,min=3,max=200"`
	Allegations string
}

// CreateInvestigation opens a new case for the acting user. New cases always
// start in the open state.
func (m *Manager) CreateInvestigation(ctx context.Context, actor string, req CreateInvestigationRequest) (*model.Investigation, error) {
	if actor == "" {
		return nil, common.ValidationError("actor", "is required")
	}
	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if !req.PeriodStart.IsZero() && !req.PeriodEnd.IsZero() && req.PeriodEnd.Before(req.PeriodStart) {
		return nil, common.ValidationError("periodEnd", "must not precede periodStart")
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	inv := &model.Investigation{
		ID:          id,
		CaseNumber:  caseNumber(now, id),
		Title:       req.Title,
		Allegations: req.Allegations,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Status:      model.StatusOpen,
		OwnerRef:    actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.store.CreateInvestigation(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create investigation: %w", err)
	}

	m.emitAudit("investigation", inv.ID, "created", actor, map[string]any{
		"caseNumber": inv.CaseNumber,
		"title":      inv.Title,
	})

	return inv, nil
}

// GetInvestigation returns one investigation owned by the acting user.
// A case owned by someone else is reported exactly like a nonexistent one.
func (m *Manager) GetInvestigation(ctx context.Context, actor, id string) (*model.Investigation, error) {
	return m.ownedInvestigation(ctx, actor, id)
}

// ListInvestigations returns the acting user's cases.
func (m *Manager) ListInvestigations(ctx context.Context, actor string) ([]model.Investigation, error) {
	if actor == "" {
		return nil, common.ValidationError("actor", "is required")
	}
	return m.store.ListInvestigations(ctx, actor)
}

// SetStatus applies an explicit status-set request. Any known status may be
// set from any current status; the workflow is investigator-directed, and
// manual overrides (reopening a closed case) are allowed.
func (m *Manager) SetStatus(ctx context.Context, actor, id string, status model.InvestigationStatus) (*model.Investigation, error) {
	if !model.ValidStatus(status) {
		return nil, common.ValidationError("status", fmt.Sprintf("%q is not a known status", status))
	}

	inv, err := m.ownedInvestigation(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	previous := inv.Status
	if err := m.store.UpdateInvestigationStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	inv.Status = status

	m.emitAudit("investigation", id, "status_changed", actor, map[string]any{
		"from": string(previous),
		"to":   string(status),
	})

	return inv, nil
}

// AddEvidenceRequest carries the caller-supplied fields for a new evidence
// item.
type AddEvidenceRequest struct {
	ReceivedDate   time.Time
	EvidenceNumber string `validate:"required"`
	Type           string `validate:"required"`
	Description    string
	Source         string
}

// AddEvidence attaches a new evidence item to an investigation owned by the
// acting user.
func (m *Manager) AddEvidence(ctx context.Context, actor, investigationID string, req AddEvidenceRequest) (*model.Evidence, error) {
	if _, err := m.ownedInvestigation(ctx, actor, investigationID); err != nil {
		return nil, err
	}
	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	ev := &model.Evidence{
		ID:              uuid.New().String(),
		InvestigationID: investigationID,
		EvidenceNumber:  req.EvidenceNumber,
		Type:            req.Type,
		Description:     req.Description,
		Source:          req.Source,
		ReceivedDate:    req.ReceivedDate,
		CreatedAt:       time.Now().UTC(),
	}

	if err := m.store.CreateEvidence(ctx, ev); err != nil {
		return nil, fmt.Errorf("failed to create evidence: %w", err)
	}

	m.emitAudit("evidence", ev.ID, "created", actor, map[string]any{
		"investigationId": investigationID,
		"evidenceNumber":  ev.EvidenceNumber,
	})

	return ev, nil
}

// CustodyTransferRequest describes one transfer of control over an evidence
// item. All four fields are required.
type CustodyTransferRequest struct {
	TransferredTo string `validate:"required"`
	TransferredBy string `validate:"required"`
	Location      string `validate:"required"`
	Purpose       string `validate:"required"`
}

// AppendCustody appends one transfer to an evidence item's chain of custody
// and returns the updated evidence record. Prior entries are never edited or
// removed; the storage layer guarantees concurrent appends both land.
func (m *Manager) AppendCustody(ctx context.Context, actor, evidenceID string, req CustodyTransferRequest) (*model.Evidence, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	ev, err := m.store.GetEvidence(ctx, evidenceID)
	if err != nil {
		return nil, err
	}
	if _, err := m.ownedInvestigation(ctx, actor, ev.InvestigationID); err != nil {
		return nil, err
	}

	entry := model.CustodyEntry{
		TransferredTo: req.TransferredTo,
		TransferredBy: req.TransferredBy,
		Location:      req.Location,
		Purpose:       req.Purpose,
		Timestamp:     time.Now().UTC(),
	}
	if err := m.store.AppendCustodyEntry(ctx, evidenceID, entry); err != nil {
		return nil, fmt.Errorf("failed to append custody entry: %w", err)
	}

	updated, err := m.store.GetEvidence(ctx, evidenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload evidence: %w", err)
	}

	m.emitAudit("evidence", evidenceID, "custody_transferred", actor, map[string]any{
		"transferredTo": entry.TransferredTo,
		"transferredBy": entry.TransferredBy,
		"location":      entry.Location,
	})

	return updated, nil
}

// GetEvidence returns one evidence item, subject to the same ownership rule
// as the investigation it belongs to.
func (m *Manager) GetEvidence(ctx context.Context, actor, evidenceID string) (*model.Evidence, error) {
	ev, err := m.store.GetEvidence(ctx, evidenceID)
	if err != nil {
		return nil, err
	}
	if _, err := m.ownedInvestigation(ctx, actor, ev.InvestigationID); err != nil {
		return nil, err
	}
	return ev, nil
}

// ownedInvestigation loads an investigation and re-verifies ownership.
// Nonexistent and not-owned collapse into the same error so callers cannot
// distinguish the two.
func (m *Manager) ownedInvestigation(ctx context.Context, actor, id string) (*model.Investigation, error) {
	if actor == "" {
		return nil, common.ValidationError("actor", "is required")
	}
	if strings.TrimSpace(id) == "" {
		return nil, common.ValidationError("id", "is required")
	}

	inv, err := m.store.GetInvestigation(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.OwnerRef != actor {
		return nil, common.ErrNotFound
	}
	return inv, nil
}

func caseNumber(now time.Time, id string) string {
	return fmt.Sprintf("CASE-%d-%s", now.Year(), strings.ToUpper(id[:8]))
}
