package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// DefaultCurrency is used for users that never set a currency.
const DefaultCurrency = "USD"

// UserSettings are the display preferences of a user.
//
// The currency is only used by clients to format amounts, the ledger
// does not convert between currencies.
type UserSettings struct {
	UserID   string `gorm:"primaryKey"`
	Currency string `gorm:"not null"`
	Timestamps
}

// BeforeSave normalizes the currency and verifies that it is a known ISO 4217 code.
func (s *UserSettings) BeforeSave(_ *gorm.DB) (err error) {
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))

	unit, err := currency.ParseISO(s.Currency)
	if err != nil {
		return fmt.Errorf("%w: invalid currency: %s", ErrValidation, s.Currency)
	}

	s.Currency = unit.String()
	return nil
}
