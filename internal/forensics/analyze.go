package forensics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haldane/ledgerscope/internal/anomaly"
	"github.com/haldane/ledgerscope/internal/model"
	"github.com/haldane/ledgerscope/internal/risk"
	"github.com/haldane/ledgerscope/internal/service"
)

// Analyze runs the full analysis pass over an investigation's transactions:
// per-transaction risk scoring plus every anomaly detector, concurrently.
// A failing component is isolated into the report's Errors list; the rest
// still complete. Persistence failures are hard failures.
func (m *Manager) Analyze(ctx context.Context, actor, investigationID string) (*service.AnalysisReport, error) {
	inv, err := m.ownedInvestigation(ctx, actor, investigationID)
	if err != nil {
		return nil, err
	}

	txns, err := m.store.ListTransactions(ctx, inv.OwnerRef)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	txns = filterPeriod(txns, inv.PeriodStart, inv.PeriodEnd)

	slog.Info("Starting analysis pass",
		"investigation_id", investigationID,
		"transaction_count", len(txns))

	report := &service.AnalysisReport{
		GeneratedAt:     time.Now().UTC(),
		InvestigationID: investigationID,
		Errors:          []service.AnalysisError{},
	}

	run := analysisRun{report: report}

	run.launch("risk_scoring", func() {
		analyses := make([]model.TransactionAnalysis, 0, len(txns))
		now := time.Now().UTC()
		for _, txn := range txns {
			a := risk.Score(txn)
			analyses = append(analyses, model.TransactionAnalysis{
				ID:              uuid.New().String(),
				InvestigationID: investigationID,
				TransactionID:   txn.ID,
				RiskLevel:       a.RiskLevel,
				Legitimacy:      a.Legitimacy,
				RedFlags:        a.RedFlags,
				Score:           a.Score,
				CreatedAt:       now,
			})
		}
		run.set(func() { report.TransactionAnalyses = analyses })
	})

	run.launch("duplicate_payments", func() {
		found := anomaly.DetectDuplicates(investigationID, txns)
		run.set(func() { report.DuplicatePayments = found })
	})

	run.launch("unusual_timing", func() {
		result := anomaly.DetectUnusualTiming(investigationID, txns)
		run.set(func() {
			report.UnusualTiming = result.Stored
			report.AfterHoursAdvisories = result.Advisory
		})
	})

	run.launch("round_dollar", func() {
		found := anomaly.DetectRoundDollarExcess(investigationID, txns)
		run.set(func() { report.RoundDollars = found })
	})

	run.launch("benfords_law", func() {
		found, digits := anomaly.DetectBenfordViolation(investigationID, txns)
		run.set(func() {
			report.BenfordsLaw = digits
			report.BenfordViolations = found
		})
	})

	run.wait()

	if err := m.persistReport(ctx, report); err != nil {
		return nil, err
	}

	m.emitAudit("investigation", investigationID, "analyzed", actor, map[string]any{
		"transactionCount": len(txns),
		"anomalyCount": len(report.DuplicatePayments) + len(report.UnusualTiming) +
			len(report.RoundDollars) + len(report.BenfordViolations),
		"errorCount": len(report.Errors),
	})

	return report, nil
}

// persistReport writes the scorer verdicts and all stored anomalies. The
// after-hours advisories are reported only, never written.
func (m *Manager) persistReport(ctx context.Context, report *service.AnalysisReport) error {
	if err := m.store.InsertTransactionAnalyses(ctx, report.TransactionAnalyses); err != nil {
		return fmt.Errorf("failed to persist transaction analyses: %w", err)
	}

	var stored []model.Anomaly
	stored = append(stored, report.DuplicatePayments...)
	stored = append(stored, report.UnusualTiming...)
	stored = append(stored, report.RoundDollars...)
	stored = append(stored, report.BenfordViolations...)
	if err := m.store.InsertAnomalies(ctx, stored); err != nil {
		return fmt.Errorf("failed to persist anomalies: %w", err)
	}
	return nil
}

// analysisRun fans analysis components out to goroutines, isolating each
// one: a panic becomes an entry in the report's error list instead of
// taking the whole pass down.
type analysisRun struct {
	report *service.AnalysisReport
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func (r *analysisRun) launch(name string, fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Analysis component failed",
					"analysis", name,
					"error", rec)
				r.set(func() {
					r.report.Errors = append(r.report.Errors, service.AnalysisError{
						Analysis: name,
						Message:  fmt.Sprint(rec),
					})
				})
			}
		}()
		fn()
	}()
}

// set applies a mutation to the shared report under the run lock.
func (r *analysisRun) set(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

func (r *analysisRun) wait() {
	r.wg.Wait()
}

func filterPeriod(txns []model.Transaction, start, end time.Time) []model.Transaction {
	if start.IsZero() && end.IsZero() {
		return txns
	}
	filtered := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if !start.IsZero() && txn.Date.Before(start) {
			continue
		}
		if !end.IsZero() && txn.Date.After(end) {
			continue
		}
		filtered = append(filtered, txn)
	}
	return filtered
}
