package model

import "time"

// RiskLevel buckets a transaction's fraud-risk score.
type RiskLevel string

// Risk levels from lowest to highest.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Legitimacy is the scorer's assessment of whether a transaction looks proper.
type Legitimacy string

// Legitimacy assessments.
const (
	LegitimacyProper       Legitimacy = "proper"
	LegitimacyQuestionable Legitimacy = "questionable"
	LegitimacyImproper     Legitimacy = "improper"
	LegitimacyUndetermined Legitimacy = "unable_to_determine"
)

// TransactionAnalysis is the scorer's verdict for one transaction within one
// investigation. Records are immutable once created; re-analysis inserts new
// records rather than editing in place.
type TransactionAnalysis struct {
	CreatedAt       time.Time
	ID              string
	InvestigationID string
	TransactionID   string
	RiskLevel       RiskLevel
	Legitimacy      Legitimacy
	RedFlags        []string
	Score           int
}
