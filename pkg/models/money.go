package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CentsFromDecimal converts an amount to integer cents.
//
// The ledger stores all money as cents so that rollup arithmetic in the
// database is exact. Amounts with more than two fractional digits are rejected.
func CentsFromDecimal(amount decimal.Decimal) (int64, error) {
	if !amount.Equal(amount.Truncate(2)) {
		return 0, fmt.Errorf("%w: the amount must not have more than two decimal places, got %s", ErrValidation, amount)
	}

	cents := amount.Shift(2)
	if !cents.IsInteger() || cents.GreaterThan(decimal.NewFromInt(maxCents)) || cents.LessThan(decimal.NewFromInt(-maxCents)) {
		return 0, fmt.Errorf("%w: the amount %s is out of range", ErrValidation, amount)
	}

	return cents.IntPart(), nil
}

// DecimalFromCents converts integer cents to a decimal amount with two decimal places.
func DecimalFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// maxCents is the largest amount in cents accepted on a single transaction, 999999999999.99.
const maxCents int64 = 99999999999999
