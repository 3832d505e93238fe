package damages

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/model"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestDirectLoss(t *testing.T) {
	improper := []model.Transaction{
		{ID: "a", Amount: dec(-1250.50), Kind: model.KindExpense, Description: "Consulting fee to shell vendor"},
		{ID: "b", Amount: dec(300), Kind: model.KindExpense, Description: "Duplicate maintenance invoice"},
	}

	result := DirectLoss(improper)

	assert.Equal(t, model.MethodDirectLoss, result.Method)
	assert.Equal(t, model.ConfidenceHigh, result.Confidence)
	assert.True(t, result.TotalDamage.Equal(dec(1550.50)), "got %s", result.TotalDamage)
	require.Len(t, result.Breakdown, 2)
	assert.Equal(t, "expense", result.Breakdown[0].Category)
	assert.True(t, result.Breakdown[0].Amount.Equal(dec(1250.50)), "absolute value of the signed amount")
}

func TestDirectLoss_Empty(t *testing.T) {
	result := DirectLoss(nil)

	assert.True(t, result.TotalDamage.IsZero())
	assert.Empty(t, result.Breakdown)
	assert.Equal(t, model.ConfidenceHigh, result.Confidence)
	require.Len(t, result.Assumptions, 1)
	assert.Contains(t, result.Assumptions[0], "No improper transactions")
}

func TestNetWorth(t *testing.T) {
	tests := []struct {
		name  string
		input NetWorthInput
		want  decimal.Decimal
	}{
		{
			name: "positive damage",
			input: NetWorthInput{
				BeginningNetWorth:    dec(100000),
				EndingNetWorth:       dec(150000),
				PersonalExpenditures: dec(20000),
				LegitimateIncome:     dec(40000),
			},
			want: dec(30000),
		},
		{
			name: "negative damage is valid",
			input: NetWorthInput{
				BeginningNetWorth:    dec(100000),
				EndingNetWorth:       dec(110000),
				PersonalExpenditures: dec(10000),
				LegitimateIncome:     dec(100000),
			},
			want: dec(-80000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NetWorth(tt.input)

			assert.Equal(t, model.MethodNetWorth, result.Method)
			assert.Equal(t, model.ConfidenceMedium, result.Confidence)
			assert.True(t, result.TotalDamage.Equal(tt.want), "got %s want %s", result.TotalDamage, tt.want)
		})
	}
}

func TestNetWorth_BreakdownFixedOrder(t *testing.T) {
	result := NetWorth(NetWorthInput{
		BeginningNetWorth:    dec(100000),
		EndingNetWorth:       dec(150000),
		PersonalExpenditures: dec(20000),
		LegitimateIncome:     dec(40000),
	})

	require.Len(t, result.Breakdown, 3)
	assert.Equal(t, "Net Worth Increase", result.Breakdown[0].Category)
	assert.True(t, result.Breakdown[0].Amount.Equal(dec(50000)))
	assert.Equal(t, "Personal Expenditures", result.Breakdown[1].Category)
	assert.True(t, result.Breakdown[1].Amount.Equal(dec(20000)))
	assert.Equal(t, "Legitimate Income", result.Breakdown[2].Category)
	assert.True(t, result.Breakdown[2].Amount.Equal(dec(-40000)), "income enters the breakdown negated")
}

func TestPrejudgmentInterest(t *testing.T) {
	asOf := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	oneYearAgo := asOf.Add(-time.Duration(365.25 * 24 * float64(time.Hour)))

	result, err := PrejudgmentInterest(InterestInput{
		LossAmount: dec(1000),
		LossDate:   oneYearAgo,
		AnnualRate: 1.0,
	}, asOf)
	require.NoError(t, err)

	got, _ := result.Interest.Float64()
	assert.InDelta(t, 1000, got, 0.01, "one full average year at 100% doubles the loss")
	assert.InDelta(t, 1.0, result.Years, 1e-6)
}

func TestPrejudgmentInterest_LinearScaling(t *testing.T) {
	asOf := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	lossDate := asOf.AddDate(-2, 0, 0)

	base, err := PrejudgmentInterest(InterestInput{LossAmount: dec(1000), LossDate: lossDate, AnnualRate: 0.05}, asOf)
	require.NoError(t, err)
	doubleAmount, err := PrejudgmentInterest(InterestInput{LossAmount: dec(2000), LossDate: lossDate, AnnualRate: 0.05}, asOf)
	require.NoError(t, err)
	doubleRate, err := PrejudgmentInterest(InterestInput{LossAmount: dec(1000), LossDate: lossDate, AnnualRate: 0.10}, asOf)
	require.NoError(t, err)

	baseF, _ := base.Interest.Float64()
	amountF, _ := doubleAmount.Interest.Float64()
	rateF, _ := doubleRate.Interest.Float64()
	assert.InDelta(t, 2*baseF, amountF, 1e-6)
	assert.InDelta(t, 2*baseF, rateF, 1e-6)
}

func TestPrejudgmentInterest_ZeroAtLossDate(t *testing.T) {
	asOf := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	result, err := PrejudgmentInterest(InterestInput{LossAmount: dec(5000), LossDate: asOf, AnnualRate: 0.09}, asOf)
	require.NoError(t, err)

	assert.True(t, result.Interest.IsZero())
}

func TestPrejudgmentInterest_Validation(t *testing.T) {
	asOf := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	_, err := PrejudgmentInterest(InterestInput{LossAmount: dec(5000), AnnualRate: 0.09}, asOf)
	assert.ErrorIs(t, err, common.ErrValidation, "zero loss date")

	_, err = PrejudgmentInterest(InterestInput{LossAmount: dec(5000), LossDate: asOf.AddDate(1, 0, 0), AnnualRate: 0.09}, asOf)
	assert.ErrorIs(t, err, common.ErrValidation, "future loss date")

	_, err = PrejudgmentInterest(InterestInput{LossAmount: dec(5000), LossDate: asOf.AddDate(-1, 0, 0), AnnualRate: -0.09}, asOf)
	assert.ErrorIs(t, err, common.ErrValidation, "negative rate")
}
