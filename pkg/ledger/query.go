package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tally-ledger/backend/internal/types"
	"github.com/tally-ledger/backend/pkg/database"
	"github.com/tally-ledger/backend/pkg/models"
	"gorm.io/gorm"
)

// Balance is the income and expense sum of a user in a date range.
type Balance struct {
	From    types.Day
	To      types.Day
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryTotal is the sum of all transactions of a user in one category.
type CategoryTotal struct {
	Type     models.TransactionType
	Category string
	Amount   decimal.Decimal
}

// Timeframe selects the granularity of the history.
type Timeframe string

const (
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// Valid reports if t is a known timeframe.
func (t Timeframe) Valid() bool {
	return t == TimeframeMonth || t == TimeframeYear
}

// HistoryEntry is one bucket of the history. Day is 0 for a yearly history.
type HistoryEntry struct {
	Year    int
	Month   int // Zero-based, January is 0
	Day     int
	Income  decimal.Decimal
	Expense decimal.Decimal
}

const (
	minHistoryYear = 2000
	maxHistoryYear = 3000
)

// dateRange validates an inclusive range of days and returns its bounds.
func dateRange(from, to types.Day) (time.Time, time.Time, error) {
	if from.IsZero() || to.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: both from and to must be set", models.ErrValidation)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from (%s) must not be after to (%s)", models.ErrValidation, from, to)
	}

	return from.Time(), to.Time(), nil
}

// inRange scopes a transaction query to the user and the inclusive range.
//
// The upper bound is compared on the day itself, SQLite cannot represent the
// day after 9999-12-31.
func inRange(db *gorm.DB, userID string, from, to time.Time) *gorm.DB {
	return db.Model(&models.Transaction{}).
		Where("transactions.user_id = ?", userID).
		Where("transactions.date >= date(?) AND date(transactions.date) <= date(?)", from, to)
}

// Balance sums the income and expense transactions of the user from the first
// to the last day, both inclusive.
//
// It reads the transactions, not the rollups.
func (l *Ledger) Balance(ctx context.Context, userID string, from, to types.Day) (Balance, error) {
	if userID == "" {
		return Balance{}, models.ErrUnauthenticated
	}

	start, end, err := dateRange(from, to)
	if err != nil {
		return Balance{}, err
	}

	var sums []struct {
		Type  models.TransactionType
		Total int64
	}

	err = inRange(l.db.WithContext(ctx), userID, start, end).
		Select("transactions.type AS type, SUM(transactions.amount_cents) AS total").
		Group("transactions.type").
		Scan(&sums).Error
	if err != nil {
		return Balance{}, database.Classify(err)
	}

	balance := Balance{
		From:    from,
		To:      to,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}

	for _, s := range sums {
		switch s.Type {
		case models.Income:
			balance.Income = models.DecimalFromCents(s.Total)
		case models.Expense:
			balance.Expense = models.DecimalFromCents(s.Total)
		}
	}

	return balance, nil
}

// CategoryBreakdown sums the transactions of the user per type and category in
// the inclusive range. The result is ordered by amount, largest first.
func (l *Ledger) CategoryBreakdown(ctx context.Context, userID string, from, to types.Day) ([]CategoryTotal, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}

	start, end, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}

	var sums []struct {
		Type     models.TransactionType
		Category string
		Total    int64
	}

	err = inRange(l.db.WithContext(ctx), userID, start, end).
		Select("transactions.type AS type, transactions.category AS category, SUM(transactions.amount_cents) AS total").
		Group("transactions.type, transactions.category").
		Order("total DESC, type, category").
		Scan(&sums).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for _, s := range sums {
		totals = append(totals, CategoryTotal{
			Type:     s.Type,
			Category: s.Category,
			Amount:   models.DecimalFromCents(s.Total),
		})
	}

	return totals, nil
}

// History returns the dense income and expense series of the user.
//
// For TimeframeYear, it has exactly 12 entries, one per month of the year.
// For TimeframeMonth, it has one entry per day of the month. Buckets without
// transactions are zero. The month is zero-based and ignored for TimeframeYear.
func (l *Ledger) History(ctx context.Context, userID string, timeframe Timeframe, year, month int) ([]HistoryEntry, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}

	if !timeframe.Valid() {
		return nil, fmt.Errorf("%w: the timeframe must be one of 'month' or 'year'", models.ErrValidation)
	}

	if year < minHistoryYear || year > maxHistoryYear {
		return nil, fmt.Errorf("%w: the year must be between %d and %d", models.ErrValidation, minHistoryYear, maxHistoryYear)
	}

	if month < 0 || month > 11 {
		return nil, fmt.Errorf("%w: the month must be between 0 and 11", models.ErrValidation)
	}

	db := l.db.WithContext(ctx)

	if timeframe == TimeframeYear {
		var rollups []models.MonthlyRollup
		err := db.Where(map[string]any{"user_id": userID, "year": year}).Find(&rollups).Error
		if err != nil {
			return nil, database.Classify(err)
		}

		entries := make([]HistoryEntry, 12)
		for i := range entries {
			entries[i] = HistoryEntry{Year: year, Month: i, Income: decimal.Zero, Expense: decimal.Zero}
		}

		for _, r := range rollups {
			if r.Month < 0 || r.Month >= len(entries) {
				continue
			}
			entries[r.Month].Income = models.DecimalFromCents(r.IncomeCents)
			entries[r.Month].Expense = models.DecimalFromCents(r.ExpenseCents)
		}

		return entries, nil
	}

	var rollups []models.DailyRollup
	err := db.Where(map[string]any{"user_id": userID, "year": year, "month": month}).Find(&rollups).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	entries := make([]HistoryEntry, types.DaysIn(year, time.Month(month+1)))
	for i := range entries {
		entries[i] = HistoryEntry{Year: year, Month: month, Day: i + 1, Income: decimal.Zero, Expense: decimal.Zero}
	}

	for _, r := range rollups {
		if r.Day < 1 || r.Day > len(entries) {
			continue
		}
		entries[r.Day-1].Income = models.DecimalFromCents(r.IncomeCents)
		entries[r.Day-1].Expense = models.DecimalFromCents(r.ExpenseCents)
	}

	return entries, nil
}

// HistoryPeriods returns the years in which the user has monthly rollups,
// in ascending order. If there are none, the current year is returned.
func (l *Ledger) HistoryPeriods(ctx context.Context, userID string) ([]int, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}

	var years []int
	err := l.db.WithContext(ctx).
		Model(&models.MonthlyRollup{}).
		Where("user_id = ?", userID).
		Distinct().
		Order("year").
		Pluck("year", &years).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	if len(years) == 0 {
		years = []int{l.now().Year()}
	}

	return years, nil
}

// TransactionFilter restricts the transaction listing. Zero days are unbounded.
type TransactionFilter struct {
	From   types.Day
	To     types.Day
	Offset int
	Limit  int // Negative or zero means no limit
}

// Transactions lists the transactions of the user, most recent first, and
// returns the number of transactions matching the filter without offset and limit.
func (l *Ledger) Transactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, int64, error) {
	if userID == "" {
		return nil, 0, models.ErrUnauthenticated
	}

	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, 0, fmt.Errorf("%w: from (%s) must not be after to (%s)", models.ErrValidation, filter.From, filter.To)
	}

	if filter.Offset < 0 {
		return nil, 0, fmt.Errorf("%w: the offset must not be negative", models.ErrValidation)
	}

	query := l.db.WithContext(ctx).Model(&models.Transaction{}).Where("transactions.user_id = ?", userID)

	if !filter.From.IsZero() {
		query = query.Where("transactions.date >= date(?)", filter.From.Time())
	}

	if !filter.To.IsZero() {
		query = query.Where("date(transactions.date) <= date(?)", filter.To.Time())
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	query = query.Order("transactions.date DESC, transactions.created_at DESC").Offset(filter.Offset).Limit(limit)

	var transactions []models.Transaction
	err := query.Find(&transactions).Error
	if err != nil {
		return nil, 0, database.Classify(err)
	}

	var count int64
	err = query.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		return nil, 0, database.Classify(err)
	}

	return transactions, count, nil
}
