package benford

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amounts(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

// benfordLike builds a set whose leading digits roughly follow the Benford
// distribution (counts per digit out of 1000).
func benfordLike() []decimal.Decimal {
	counts := [9]int{301, 176, 125, 97, 79, 67, 58, 51, 46}
	var out []decimal.Decimal
	for digit := 1; digit <= 9; digit++ {
		for i := 0; i < counts[digit-1]; i++ {
			out = append(out, decimal.NewFromInt(int64(digit*100+i%100)))
		}
	}
	return out
}

func TestLeadingDigit(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   int
	}{
		{"simple", decimal.NewFromInt(523), 5},
		{"negative sign ignored", decimal.NewFromInt(-523), 5},
		{"fractional below one", decimal.NewFromFloat(0.045), 4},
		{"zero", decimal.Zero, 0},
		{"single digit", decimal.NewFromInt(9), 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LeadingDigit(tt.amount))
		})
	}
}

func TestAnalyze_AlwaysNineResults(t *testing.T) {
	for _, input := range [][]decimal.Decimal{nil, amounts(1), benfordLike()} {
		results := Analyze(input)
		require.Len(t, results, 9)
		for i, r := range results {
			assert.Equal(t, i+1, r.Digit)
		}
	}
}

func TestAnalyze_ObservedPercentagesSumToHundred(t *testing.T) {
	results := Analyze(amounts(12, 23, 34, 45, 56, 67, 78, 89, 91, 15.50, -210))

	sum := 0.0
	for _, r := range results {
		sum += r.ObservedPercent
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	results := Analyze(nil)

	require.Len(t, results, 9)
	for _, r := range results {
		assert.Zero(t, r.ObservedPercent)
		assert.Zero(t, r.ChiSquare)
		assert.Zero(t, r.ZScore)
		assert.False(t, r.Passed, "digit %d must not pass with no data", r.Digit)
	}
	assert.Zero(t, results[0].TotalChiSquare)
	assert.Equal(t, CriticalValue, results[0].CriticalValue)
}

func TestAnalyze_CriticalValueFixed(t *testing.T) {
	results := Analyze(benfordLike())

	assert.Equal(t, 15.507, results[0].CriticalValue)
	assert.Equal(t, results[0].TotalChiSquare <= 15.507, results[0].OverallPassed)
}

func TestAnalyze_ConformingSetPasses(t *testing.T) {
	results := Analyze(benfordLike())

	assert.True(t, results[0].OverallPassed,
		"total chi-square %f should be under the critical value", results[0].TotalChiSquare)
	for _, r := range results {
		assert.True(t, r.Passed, "digit %d z-score %f", r.Digit, r.ZScore)
	}
}

func TestAnalyze_AllNinesFails(t *testing.T) {
	var input []decimal.Decimal
	for i := 0; i < 100; i++ {
		input = append(input, decimal.NewFromInt(int64(900+i)))
	}

	results := Analyze(input)

	assert.False(t, results[0].OverallPassed)
	assert.Greater(t, results[8].ZScore, 1.96, "digit 9 is massively over-represented")
	assert.Less(t, results[0].ZScore, -1.96, "digit 1 is absent entirely")
}

func TestAnalyze_Deterministic(t *testing.T) {
	input := amounts(105, 23.75, 34, 4500, 5.25, -67, 780, 89, 9100)

	first := Analyze(input)
	second := Analyze(input)

	assert.Equal(t, first, second)
}

func TestAnalyze_SignIgnored(t *testing.T) {
	positive := Analyze(amounts(150, 275, 390))
	negative := Analyze(amounts(-150, -275, -390))

	assert.Equal(t, positive, negative)
}

func TestAnalyze_ChiSquareContribution(t *testing.T) {
	// 10 amounts all leading with 1: observed count 10, expected 3.01.
	var input []decimal.Decimal
	for i := 0; i < 10; i++ {
		input = append(input, decimal.NewFromInt(int64(100+i)))
	}

	results := Analyze(input)

	expectedCount := 10 * 0.301
	wantChi := math.Pow(10-expectedCount, 2) / expectedCount
	assert.InDelta(t, wantChi, results[0].ChiSquare, 1e-9)
	assert.InDelta(t, 100.0, results[0].ObservedPercent, 1e-9)
	assert.InDelta(t, 100.0-30.1, results[0].Deviation, 1e-9)
}
