// Package anomaly detects structural irregularities across the transactions
// of a single investigation: duplicate payments, suspicious timing,
// round-dollar excess, and Benford's Law violations.
package anomaly

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haldane/ledgerscope/internal/benford"
	"github.com/haldane/ledgerscope/internal/model"
)

// roundDollarExcessThreshold is the fraction of round-dollar transactions
// above which the whole set is anomalous. The comparison is strict: a set at
// exactly the threshold does not fire.
const roundDollarExcessThreshold = 20.0

// Business hours for the after-hours advisory check, in local transaction time.
const (
	businessHoursStart = 6
	businessHoursEnd   = 22
)

func newAnomaly(investigationID string, typ model.AnomalyType, severity model.Severity, description, method string, txnIDs []string) model.Anomaly {
	return model.Anomaly{
		ID:              uuid.New().String(),
		InvestigationID: investigationID,
		Type:            typ,
		Severity:        severity,
		Description:     description,
		Method:          method,
		Status:          model.AnomalyPending,
		TransactionIDs:  txnIDs,
		DetectedAt:      time.Now(),
	}
}

// DetectDuplicates reports one anomaly per group of two or more transactions
// sharing the same amount, description, and calendar day.
//
// The grouping key deliberately ignores transaction ids, so two legitimately
// identical payments on the same day (two tenants paying the same rent with
// the same memo) are flagged too. That false-positive source is part of the
// method: the investigator dismisses them during review.
func DetectDuplicates(investigationID string, txns []model.Transaction) []model.Anomaly {
	groups := make(map[string][]string)
	for _, txn := range txns {
		description := txn.Description
		if description == "" {
			description = "none"
		}
		key := fmt.Sprintf("%s|%s|%s", txn.Amount.String(), description, txn.Date.Format("2006-01-02"))
		groups[key] = append(groups[key], txn.ID)
	}

	keys := make([]string, 0, len(groups))
	for key, ids := range groups {
		if len(ids) >= 2 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var anomalies []model.Anomaly
	for _, key := range keys {
		ids := groups[key]
		anomalies = append(anomalies, newAnomaly(
			investigationID,
			model.AnomalyDuplicatePayment,
			model.SeverityHigh,
			fmt.Sprintf("%d transactions share the same amount, description, and date", len(ids)),
			"composite key grouping",
			ids,
		))
	}
	return anomalies
}

// TimingResult separates findings the engine persists from advisory findings
// it only reports.
type TimingResult struct {
	// Stored anomalies: weekend transactions, one anomaly each.
	Stored []model.Anomaly
	// Advisory anomalies: transactions outside business hours. Reported to
	// the caller, never written to the anomaly collection.
	Advisory []model.Anomaly
}

// DetectUnusualTiming flags weekend transactions as stored anomalies and
// after-hours transactions (outside 06:00-22:00 local time) as advisory-only
// findings.
func DetectUnusualTiming(investigationID string, txns []model.Transaction) TimingResult {
	var result TimingResult
	for _, txn := range txns {
		if txn.IsWeekend() {
			result.Stored = append(result.Stored, newAnomaly(
				investigationID,
				model.AnomalyUnusualTiming,
				model.SeverityMedium,
				fmt.Sprintf("Transaction dated %s falls on a %s", txn.Date.Format("2006-01-02"), txn.Date.Weekday()),
				"weekend detection",
				[]string{txn.ID},
			))
		}

		hour := txn.Date.Hour()
		if hour < businessHoursStart || hour >= businessHoursEnd {
			result.Advisory = append(result.Advisory, newAnomaly(
				investigationID,
				model.AnomalyUnusualTiming,
				model.SeverityMedium,
				fmt.Sprintf("Transaction at %s is outside business hours", txn.Date.Format("15:04")),
				"after-hours detection",
				[]string{txn.ID},
			))
		}
	}
	return result
}

// DetectRoundDollarExcess emits at most one anomaly: when the fraction of
// round-dollar transactions strictly exceeds 20% of the set.
func DetectRoundDollarExcess(investigationID string, txns []model.Transaction) []model.Anomaly {
	if len(txns) == 0 {
		return nil
	}

	var roundIDs []string
	for _, txn := range txns {
		if txn.IsRoundDollar() {
			roundIDs = append(roundIDs, txn.ID)
		}
	}

	percent := float64(len(roundIDs)) / float64(len(txns)) * 100
	if percent <= roundDollarExcessThreshold {
		return nil
	}

	return []model.Anomaly{newAnomaly(
		investigationID,
		model.AnomalyRoundDollar,
		model.SeverityMedium,
		fmt.Sprintf("%.1f%% of transactions are round-dollar amounts, above the %.0f%% threshold", percent, roundDollarExcessThreshold),
		"round dollar ratio",
		roundIDs,
	)}
}

// DetectBenfordViolation screens the full amount set against Benford's Law
// and emits at most one anomaly when the distribution fails overall. The
// affected-transaction list is the entire set: the violation is a property
// of the distribution, not of any single transaction.
func DetectBenfordViolation(investigationID string, txns []model.Transaction) ([]model.Anomaly, []benford.DigitResult) {
	amounts := make([]decimal.Decimal, len(txns))
	for i, txn := range txns {
		amounts[i] = txn.Amount
	}

	results := benford.Analyze(amounts)
	if results[0].OverallPassed {
		return nil, results
	}

	ids := make([]string, len(txns))
	for i, txn := range txns {
		ids[i] = txn.ID
	}

	anomalies := []model.Anomaly{newAnomaly(
		investigationID,
		model.AnomalyBenfordViolation,
		model.SeverityHigh,
		fmt.Sprintf("Leading-digit distribution fails Benford's Law (chi-square %.3f, critical value %.3f)", results[0].TotalChiSquare, results[0].CriticalValue),
		"benford analysis",
		ids,
	)}
	return anomalies, results
}
