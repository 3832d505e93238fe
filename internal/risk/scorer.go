// Package risk scores individual transactions against fixed fraud-risk
// heuristics.
package risk

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/haldane/ledgerscope/internal/model"
)

// Point weights for each heuristic.
const (
	pointsRoundDollar    = 15
	pointsLargeAmount    = 25
	pointsWeekend        = 20
	pointsVague          = 10
	pointsSuspiciousWord = 15
)

// Red-flag labels attached to scored transactions.
const (
	FlagRoundDollar     = "Round dollar amount"
	FlagLargeAmount     = "Unusually large amount"
	FlagWeekend         = "Weekend transaction"
	FlagVagueDesc       = "Vague or missing description"
	FlagSuspiciousWords = "Suspicious description keywords"
)

// largeAmountThreshold is the absolute amount above which a transaction is
// unusually large for this platform.
var largeAmountThreshold = decimal.NewFromInt(50000)

// suspiciousKeywords are description fragments commonly used to obscure the
// nature of a payment.
var suspiciousKeywords = []string{"cash", "consulting", "misc", "various", "expenses"}

// Assessment is the scorer's verdict for a single transaction.
type Assessment struct {
	RiskLevel  model.RiskLevel
	Legitimacy model.Legitimacy
	RedFlags   []string
	Score      int
}

// Score evaluates one transaction against the fixed heuristics. It is a pure
// function of the transaction: no side effects, no randomness.
//
// The amount-shape checks are tiered: an unusually large amount subsumes the
// round-dollar flag, so at most one of the two fires per transaction.
func Score(txn model.Transaction) Assessment {
	a := Assessment{RedFlags: []string{}}

	abs := txn.Amount.Abs()
	switch {
	case abs.GreaterThan(largeAmountThreshold):
		a.RedFlags = append(a.RedFlags, FlagLargeAmount)
		a.Score += pointsLargeAmount
	case txn.IsRoundDollar():
		a.RedFlags = append(a.RedFlags, FlagRoundDollar)
		a.Score += pointsRoundDollar
	}

	if txn.IsWeekend() {
		a.RedFlags = append(a.RedFlags, FlagWeekend)
		a.Score += pointsWeekend
	}

	if len(txn.Description) < 10 {
		a.RedFlags = append(a.RedFlags, FlagVagueDesc)
		a.Score += pointsVague
	}

	if containsSuspiciousKeyword(txn.Description) {
		a.RedFlags = append(a.RedFlags, FlagSuspiciousWords)
		a.Score += pointsSuspiciousWord
	}

	a.RiskLevel = riskLevel(a.Score)
	a.Legitimacy = legitimacy(a.Score)

	return a
}

func containsSuspiciousKeyword(description string) bool {
	lower := strings.ToLower(description)
	for _, keyword := range suspiciousKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func riskLevel(score int) model.RiskLevel {
	switch {
	case score >= 50:
		return model.RiskHigh
	case score >= 25:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func legitimacy(score int) model.Legitimacy {
	switch {
	case score >= 60:
		return model.LegitimacyImproper
	case score >= 40:
		return model.LegitimacyQuestionable
	case score < 20:
		return model.LegitimacyProper
	default:
		return model.LegitimacyUndetermined
	}
}
