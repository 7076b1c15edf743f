package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

// Category is a named category of a user for one transaction type.
//
// Transactions reference categories by name only.
type Category struct {
	DefaultModel
	UserID string          `gorm:"uniqueIndex:category_user_name_type,priority:1;not null"`
	Name   string          `gorm:"uniqueIndex:category_user_name_type,priority:2"`
	Type   TransactionType `gorm:"uniqueIndex:category_user_name_type,priority:3"`
	Icon   string
}

// BeforeSave trims whitespace from string fields and verifies them.
func (c *Category) BeforeSave(_ *gorm.DB) (err error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Icon = strings.TrimSpace(c.Icon)

	if n := utf8.RuneCountInString(c.Name); n < 3 || n > 20 {
		return fmt.Errorf("%w: the category name must be between 3 and 20 characters long", ErrValidation)
	}

	if utf8.RuneCountInString(c.Icon) > 20 {
		return fmt.Errorf("%w: the category icon must not be longer than 20 characters", ErrValidation)
	}

	if !c.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	return nil
}
