package model

import "time"

// AnomalyType identifies which detector produced an anomaly.
type AnomalyType string

// Anomaly types.
const (
	AnomalyDuplicatePayment AnomalyType = "duplicate_payment"
	AnomalyUnusualTiming    AnomalyType = "unusual_timing"
	AnomalyRoundDollar      AnomalyType = "round_dollar"
	AnomalyBenfordViolation AnomalyType = "benford_violation"
)

// Severity ranks how strongly an anomaly suggests manipulation.
type Severity string

// Severity levels.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AnomalyStatus tracks the investigator workflow for a detected anomaly.
// Status is the only field that may change after creation.
type AnomalyStatus string

// Anomaly workflow states.
const (
	AnomalyPending   AnomalyStatus = "pending"
	AnomalyReviewed  AnomalyStatus = "reviewed"
	AnomalyDismissed AnomalyStatus = "dismissed"
	AnomalyConfirmed AnomalyStatus = "confirmed"
)

// Anomaly is a structural irregularity detected across one investigation's
// transactions.
type Anomaly struct {
	DetectedAt      time.Time
	ID              string
	InvestigationID string
	Type            AnomalyType
	Severity        Severity
	Description     string
	Method          string
	Status          AnomalyStatus
	TransactionIDs  []string
}
