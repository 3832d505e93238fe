// Package model defines the core domain types shared across the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tags the direction of a transaction as recorded upstream.
type TransactionKind string

// Transaction kinds recorded by the accounting platform.
const (
	KindExpense TransactionKind = "expense"
	KindIncome  TransactionKind = "income"
)

// Transaction is a single dated, signed monetary transaction belonging to an
// owner. Transactions are created and mutated entirely outside this engine;
// the engine only reads them.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string
	Title       string
	OwnerRef    string
	Kind        TransactionKind
	Amount      decimal.Decimal
}

// IsWeekend reports whether the transaction date falls on a Saturday or Sunday.
func (t *Transaction) IsWeekend() bool {
	wd := t.Date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsRoundDollar reports whether the absolute amount is a whole number of at
// least 100. Small whole amounts (a $20 lunch) are too common to be a signal.
func (t *Transaction) IsRoundDollar() bool {
	abs := t.Amount.Abs()
	return abs.IsInteger() && abs.GreaterThanOrEqual(decimal.NewFromInt(100))
}
