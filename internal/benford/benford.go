// Package benford screens sets of monetary amounts for conformance with
// Benford's Law of leading-digit distribution.
package benford

import (
	"math"

	"github.com/shopspring/decimal"
)

// CriticalValue is the chi-square critical value at 95% confidence with
// 8 degrees of freedom. A distribution whose total chi-square exceeds it
// fails the screen.
const CriticalValue = 15.507

// zThreshold is the two-tailed 95% bound for a single digit's z-score.
const zThreshold = 1.96

// expectedPercent is the Benford distribution for leading digits 1 through 9.
var expectedPercent = [9]float64{30.1, 17.6, 12.5, 9.7, 7.9, 6.7, 5.8, 5.1, 4.6}

// DigitResult holds the screen statistics for one leading digit. The digit-1
// result additionally carries the whole-distribution totals.
type DigitResult struct {
	Digit           int
	ObservedPercent float64
	ExpectedPercent float64
	Deviation       float64
	ChiSquare       float64
	ZScore          float64
	Passed          bool
	TotalChiSquare  float64
	CriticalValue   float64
	OverallPassed   bool
}

// LeadingDigit returns the first nonzero digit of the absolute value of d,
// or 0 if d has no nonzero digit. The sign of an amount is not a statistical
// feature, so it is ignored.
func LeadingDigit(d decimal.Decimal) int {
	for _, r := range d.Abs().String() {
		if r >= '1' && r <= '9' {
			return int(r - '0')
		}
	}
	return 0
}

// Analyze computes the Benford leading-digit screen over amounts. It always
// returns exactly nine results, one per digit 1 through 9, in digit order.
// An empty input yields the degenerate all-zero result with every per-digit
// pass flag false; it is a no-data case, not a statistical pass.
// Identical input always yields identical output.
func Analyze(amounts []decimal.Decimal) []DigitResult {
	var counts [9]int
	n := 0
	for _, amt := range amounts {
		if d := LeadingDigit(amt); d > 0 {
			counts[d-1]++
			n++
		}
	}

	results := make([]DigitResult, 9)
	totalChiSquare := 0.0

	for i := range results {
		r := &results[i]
		r.Digit = i + 1
		r.ExpectedPercent = expectedPercent[i]

		if n == 0 {
			continue
		}

		pExp := expectedPercent[i] / 100
		pObs := float64(counts[i]) / float64(n)
		expectedCount := float64(n) * pExp

		r.ObservedPercent = pObs * 100
		r.Deviation = r.ObservedPercent - r.ExpectedPercent
		r.ChiSquare = math.Pow(float64(counts[i])-expectedCount, 2) / expectedCount
		r.ZScore = (pObs - pExp) / math.Sqrt(pExp*(1-pExp)/float64(n))
		r.Passed = math.Abs(r.ZScore) <= zThreshold

		totalChiSquare += r.ChiSquare
	}

	results[0].TotalChiSquare = totalChiSquare
	results[0].CriticalValue = CriticalValue
	results[0].OverallPassed = totalChiSquare <= CriticalValue

	return results
}
