package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tally-ledger/backend/internal/types"
	"gorm.io/gorm"
)

// TransactionType determines if the amount of a transaction is
// added to the income or the expense side of the ledger.
type TransactionType string

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

// ParseTransactionType returns the TransactionType for s. Matching is exact.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", ErrTransactionTypeInvalid
	}

	return t, nil
}

// Valid reports if t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction is a single income or expense of a user.
type Transaction struct {
	DefaultModel
	UserID      string          `gorm:"index:transaction_user_date,priority:1;not null"`
	AmountCents int64           `gorm:"check:amount_positive,amount_cents > 0"` // Always positive, Type determines the effect
	Date        types.Day       `gorm:"index:transaction_user_date,priority:2"`
	Type        TransactionType `gorm:"not null"`
	Category    string          // Name of the category. This is not a foreign key, deleting a category keeps its transactions.
	Description string
}

// Amount returns the amount as a decimal.
func (t Transaction) Amount() decimal.Decimal {
	return DecimalFromCents(t.AmountCents)
}

// BeforeSave trims whitespace from string fields and verifies the type.
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Category = strings.TrimSpace(t.Category)
	t.Description = strings.TrimSpace(t.Description)

	if !t.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	if t.AmountCents <= 0 {
		return fmt.Errorf("%w: the amount must be positive", ErrValidation)
	}

	return nil
}

// FindTransaction returns the transaction with the ID if it belongs to the user.
//
// The user is part of the lookup, a transaction of another user
// is reported as not existing.
func FindTransaction(db *gorm.DB, userID string, id uuid.UUID) (Transaction, error) {
	var t Transaction
	err := db.Where("transactions.user_id = ? AND transactions.id = ?", userID, id.String()).First(&t).Error
	return t, err
}
