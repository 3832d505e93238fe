// Package damages computes monetary damages under accepted
// forensic-accounting methods: direct loss summation, the net-worth method,
// and simple pre-judgment interest.
package damages

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/model"
)

// daysPerYear is the average calendar year length used for interest accrual.
// It accounts for leap years; do not substitute 365 or 366.
const daysPerYear = 365.25

// DirectLoss sums the absolute amounts of transactions an investigator has
// marked improper. Each transaction becomes one breakdown line item. An empty
// input is a valid outcome: zero damages at high confidence.
func DirectLoss(improper []model.Transaction) *model.DamageCalculationResult {
	result := &model.DamageCalculationResult{
		Method:      model.MethodDirectLoss,
		Confidence:  model.ConfidenceHigh,
		TotalDamage: decimal.Zero,
		Breakdown:   []model.DamageItem{},
		Limitations: []string{
			"Excludes indirect losses, lost profits, and consequential damages",
		},
	}

	if len(improper) == 0 {
		result.Assumptions = []string{
			"No improper transactions were identified for this investigation",
		}
		return result
	}

	for _, txn := range improper {
		amount := txn.Amount.Abs()
		result.TotalDamage = result.TotalDamage.Add(amount)
		result.Breakdown = append(result.Breakdown, model.DamageItem{
			Category:    string(txn.Kind),
			Amount:      amount,
			Description: txn.Description,
		})
	}

	result.Assumptions = []string{
		fmt.Sprintf("All %d listed transactions are improper in their full amount", len(improper)),
	}
	return result
}

// NetWorthInput holds the four figures required by the net-worth method.
type NetWorthInput struct {
	BeginningNetWorth    decimal.Decimal
	EndingNetWorth       decimal.Decimal
	PersonalExpenditures decimal.Decimal
	LegitimateIncome     decimal.Decimal
}

// NetWorth estimates unexplained wealth as net worth growth plus personal
// spending minus documented legitimate income. A negative total is a valid
// outcome (documented income exceeded observed accumulation) and is passed
// through unclamped. Confidence is always medium: the method depends on the
// completeness of the underlying asset and income records.
func NetWorth(in NetWorthInput) *model.DamageCalculationResult {
	increase := in.EndingNetWorth.Sub(in.BeginningNetWorth)
	total := increase.Add(in.PersonalExpenditures).Sub(in.LegitimateIncome)

	return &model.DamageCalculationResult{
		Method:      model.MethodNetWorth,
		Confidence:  model.ConfidenceMedium,
		TotalDamage: total,
		Breakdown: []model.DamageItem{
			{
				Category:    "Net Worth Increase",
				Amount:      increase,
				Description: "Change in net worth over the investigation period",
			},
			{
				Category:    "Personal Expenditures",
				Amount:      in.PersonalExpenditures,
				Description: "Personal spending during the investigation period",
			},
			{
				Category:    "Legitimate Income",
				Amount:      in.LegitimateIncome.Neg(),
				Description: "Documented legitimate income, offset against the increase",
			},
		},
		Assumptions: []string{
			"Beginning and ending net worth figures are complete and accurate",
			"All legitimate income sources have been documented",
		},
		Limitations: []string{
			"Undocumented legitimate income would overstate damages",
			"Asset valuations are taken at face value",
		},
	}
}

// InterestInput holds the figures for a pre-judgment interest calculation.
type InterestInput struct {
	LossDate   time.Time
	LossAmount decimal.Decimal
	AnnualRate float64
}

// InterestResult is the outcome of a pre-judgment interest calculation using
// a simple (non-compounding) annual rate.
type InterestResult struct {
	Interest   decimal.Decimal
	Years      float64
	AnnualRate float64
}

// PrejudgmentInterest accrues simple interest on a loss amount from the loss
// date to asOf. Interest scales linearly in both the loss amount and the
// rate, and is zero when the loss date is asOf.
func PrejudgmentInterest(in InterestInput, asOf time.Time) (*InterestResult, error) {
	if in.LossDate.IsZero() {
		return nil, common.ValidationError("lossDate", "is required")
	}
	if in.LossDate.After(asOf) {
		return nil, common.ValidationError("lossDate", "must not be in the future")
	}
	if in.AnnualRate < 0 {
		return nil, common.ValidationError("annualRate", "must not be negative")
	}

	years := asOf.Sub(in.LossDate).Hours() / 24 / daysPerYear
	interest := in.LossAmount.Mul(decimal.NewFromFloat(in.AnnualRate * years))

	return &InterestResult{
		Interest:   interest,
		Years:      years,
		AnnualRate: in.AnnualRate,
	}, nil
}
