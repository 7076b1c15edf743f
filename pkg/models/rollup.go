package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyRollup holds the running income and expense sums of a user for a single day.
//
// Rows are created on the first transaction of the day and never deleted,
// a row at zero is valid.
type DailyRollup struct {
	UserID       string `gorm:"primaryKey"`
	Year         int    `gorm:"primaryKey;autoIncrement:false"`
	Month        int    `gorm:"primaryKey;autoIncrement:false"` // Zero-based, January is 0
	Day          int    `gorm:"primaryKey;autoIncrement:false"` // Day of the month, starting at 1
	IncomeCents  int64  `gorm:"check:daily_income_not_negative,income_cents >= 0"`
	ExpenseCents int64  `gorm:"check:daily_expense_not_negative,expense_cents >= 0"`
	Timestamps
}

func (r DailyRollup) String() string {
	return fmt.Sprintf("daily rollup %04d-%02d-%02d", r.Year, r.Month+1, r.Day)
}

func (r DailyRollup) key() map[string]any {
	return map[string]any{"user_id": r.UserID, "year": r.Year, "month": r.Month, "day": r.Day}
}

// MonthlyRollup holds the running income and expense sums of a user for a month.
// It has the same lifecycle as the DailyRollup.
type MonthlyRollup struct {
	UserID       string `gorm:"primaryKey"`
	Year         int    `gorm:"primaryKey;autoIncrement:false"`
	Month        int    `gorm:"primaryKey;autoIncrement:false"` // Zero-based, January is 0
	IncomeCents  int64  `gorm:"check:monthly_income_not_negative,income_cents >= 0"`
	ExpenseCents int64  `gorm:"check:monthly_expense_not_negative,expense_cents >= 0"`
	Timestamps
}

func (r MonthlyRollup) String() string {
	return fmt.Sprintf("monthly rollup %04d-%02d", r.Year, r.Month+1)
}

func (r MonthlyRollup) key() map[string]any {
	return map[string]any{"user_id": r.UserID, "year": r.Year, "month": r.Month}
}

// DailyRollup returns the daily rollup row seeded with the transaction.
func (t Transaction) DailyRollup() DailyRollup {
	income, expense := t.split()
	return DailyRollup{
		UserID:       t.UserID,
		Year:         t.Date.Year(),
		Month:        t.Date.MonthIndex(),
		Day:          t.Date.DayOfMonth(),
		IncomeCents:  income,
		ExpenseCents: expense,
	}
}

// MonthlyRollup returns the monthly rollup row seeded with the transaction.
func (t Transaction) MonthlyRollup() MonthlyRollup {
	income, expense := t.split()
	return MonthlyRollup{
		UserID:       t.UserID,
		Year:         t.Date.Year(),
		Month:        t.Date.MonthIndex(),
		IncomeCents:  income,
		ExpenseCents: expense,
	}
}

// split returns the amount on the income and the expense side.
func (t Transaction) split() (income, expense int64) {
	if t.Type == Income {
		return t.AmountCents, 0
	}
	return 0, t.AmountCents
}

// column returns the rollup column the transaction is summed in.
func (t Transaction) column() string {
	if t.Type == Income {
		return "income_cents"
	}
	return "expense_cents"
}

// incrementOnConflict turns an INSERT into an atomic increment of the existing
// row when a row with the same key already exists.
func incrementOnConflict(keys ...string) clause.OnConflict {
	columns := make([]clause.Column, 0, len(keys))
	for _, k := range keys {
		columns = append(columns, clause.Column{Name: k})
	}

	return clause.OnConflict{
		Columns: columns,
		DoUpdates: clause.Assignments(map[string]any{
			"income_cents":  gorm.Expr("income_cents + excluded.income_cents"),
			"expense_cents": gorm.Expr("expense_cents + excluded.expense_cents"),
			"updated_at":    gorm.Expr("excluded.updated_at"),
		}),
	}
}

// IncrementRollups adds the transaction to its daily and monthly rollup.
//
// Each rollup is written with a single INSERT ... ON CONFLICT DO UPDATE statement,
// concurrent writers for the same bucket cannot lose an increment.
// It must be called inside the database transaction that creates t.
func IncrementRollups(tx *gorm.DB, t Transaction) error {
	daily := t.DailyRollup()
	err := tx.Clauses(incrementOnConflict("user_id", "year", "month", "day")).Create(&daily).Error
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", daily, err)
	}

	monthly := t.MonthlyRollup()
	err = tx.Clauses(incrementOnConflict("user_id", "year", "month")).Create(&monthly).Error
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", monthly, err)
	}

	return nil
}

// DecrementRollups removes the transaction from its daily and monthly rollup.
//
// A missing rollup or a sum that would become negative is an ErrIntegrity,
// the rollups are never clamped. It must be called inside the database
// transaction that deletes t.
func DecrementRollups(tx *gorm.DB, t Transaction) error {
	daily := t.DailyRollup()
	err := decrement(tx, &DailyRollup{}, daily.key(), daily.String(), t.column(), t.AmountCents)
	if err != nil {
		return err
	}

	monthly := t.MonthlyRollup()
	return decrement(tx, &MonthlyRollup{}, monthly.key(), monthly.String(), t.column(), t.AmountCents)
}

func decrement(tx *gorm.DB, model any, key map[string]any, name, column string, cents int64) error {
	res := tx.Model(model).
		Where(key).
		Where(fmt.Sprintf("%s >= ?", column), cents).
		Updates(map[string]any{column: gorm.Expr(fmt.Sprintf("%s - ?", column), cents)})
	if res.Error != nil {
		return fmt.Errorf("failed to decrement %s: %w", name, res.Error)
	}

	if res.RowsAffected == 1 {
		return nil
	}

	// Nothing was updated, find out why
	err := tx.Model(model).Where(key).Take(model).Error
	if errors.Is(err, ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s does not exist", ErrIntegrity, name)
	} else if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	return fmt.Errorf("%w: %s would become negative when removing %s from %s", ErrIntegrity, name, DecimalFromCents(cents), column)
}
