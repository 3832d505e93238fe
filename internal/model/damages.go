package model

import "github.com/shopspring/decimal"

// DamageMethod identifies the forensic-accounting method used for a
// damage calculation.
type DamageMethod string

// Supported damage calculation methods.
const (
	MethodDirectLoss DamageMethod = "direct_loss"
	MethodNetWorth   DamageMethod = "net_worth"
)

// ConfidenceLevel expresses how reliable a damage figure is.
type ConfidenceLevel string

// Confidence levels.
const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// DamageItem is one line of a damage calculation breakdown.
type DamageItem struct {
	Category    string
	Description string
	Amount      decimal.Decimal
}

// DamageCalculationResult is the outcome of one damage calculation. The
// total may legitimately be negative; callers must not clamp it. Results are
// ephemeral; persisting them is the caller's concern.
type DamageCalculationResult struct {
	Method      DamageMethod
	Confidence  ConfidenceLevel
	TotalDamage decimal.Decimal
	Breakdown   []DamageItem
	Assumptions []string
	Limitations []string
}
