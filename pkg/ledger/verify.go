package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tally-ledger/backend/pkg/database"
	"github.com/tally-ledger/backend/pkg/models"
	"gorm.io/gorm"
)

// Drift is a rollup whose sums differ from the sums of its transactions.
type Drift struct {
	UserID          string
	Bucket          string // YYYY-MM-DD for daily rollups, YYYY-MM for monthly rollups
	ExpectedIncome  decimal.Decimal
	ActualIncome    decimal.Decimal
	ExpectedExpense decimal.Decimal
	ActualExpense   decimal.Decimal
	Missing         bool // The rollup row does not exist
}

func (d Drift) String() string {
	if d.Missing {
		return fmt.Sprintf("%s %s: rollup missing, expected income %s, expense %s", d.UserID, d.Bucket, d.ExpectedIncome, d.ExpectedExpense)
	}

	return fmt.Sprintf("%s %s: income %s, expected %s; expense %s, expected %s", d.UserID, d.Bucket, d.ActualIncome, d.ExpectedIncome, d.ActualExpense, d.ExpectedExpense)
}

type sums struct {
	income  int64
	expense int64
}

func (s *sums) add(t models.Transaction) {
	if t.Type == models.Income {
		s.income += t.AmountCents
		return
	}
	s.expense += t.AmountCents
}

// Users returns all users that have transactions or rollups, sorted.
func (l *Ledger) Users(ctx context.Context) ([]string, error) {
	db := l.db.WithContext(ctx)

	var fromTransactions, fromRollups []string
	err := db.Model(&models.Transaction{}).Distinct().Pluck("user_id", &fromTransactions).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	err = db.Model(&models.DailyRollup{}).Distinct().Pluck("user_id", &fromRollups).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	set := make(map[string]struct{}, len(fromTransactions))
	for _, u := range append(fromTransactions, fromRollups...) {
		set[u] = struct{}{}
	}

	users := make([]string, 0, len(set))
	for u := range set {
		users = append(users, u)
	}
	sort.Strings(users)

	return users, nil
}

// Verify recomputes the daily and monthly rollups of the user from the
// transactions and returns every rollup that does not match. It does not write.
func (l *Ledger) Verify(ctx context.Context, userID string) ([]Drift, error) {
	db := l.db.WithContext(ctx)

	daily := make(map[string]*sums)
	monthly := make(map[string]*sums)

	var batch []models.Transaction
	err := db.Where("transactions.user_id = ?", userID).FindInBatches(&batch, 500, func(_ *gorm.DB, _ int) error {
		for _, t := range batch {
			d := t.DailyRollup().String()
			if daily[d] == nil {
				daily[d] = &sums{}
			}
			daily[d].add(t)

			m := t.MonthlyRollup().String()
			if monthly[m] == nil {
				monthly[m] = &sums{}
			}
			monthly[m].add(t)
		}
		return nil
	}).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	var dailyRollups []models.DailyRollup
	err = db.Where("user_id = ?", userID).Find(&dailyRollups).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	var monthlyRollups []models.MonthlyRollup
	err = db.Where("user_id = ?", userID).Find(&monthlyRollups).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	stored := make(map[string]sums, len(dailyRollups)+len(monthlyRollups))
	for _, r := range dailyRollups {
		stored[r.String()] = sums{r.IncomeCents, r.ExpenseCents}
	}
	for _, r := range monthlyRollups {
		stored[r.String()] = sums{r.IncomeCents, r.ExpenseCents}
	}

	expected := make(map[string]sums, len(daily)+len(monthly))
	for k, s := range daily {
		expected[k] = *s
	}
	for k, s := range monthly {
		expected[k] = *s
	}

	drifts := make([]Drift, 0)
	for key, want := range expected {
		got, ok := stored[key]
		if ok && got == want {
			continue
		}
		drifts = append(drifts, drift(userID, key, want, got, !ok))
	}

	// Rollups without transactions must be zero
	for key, got := range stored {
		if _, ok := expected[key]; ok || got == (sums{}) {
			continue
		}
		drifts = append(drifts, drift(userID, key, sums{}, got, false))
	}

	sort.Slice(drifts, func(i, j int) bool {
		return drifts[i].Bucket < drifts[j].Bucket
	})

	return drifts, nil
}

func drift(userID, key string, want, got sums, missing bool) Drift {
	return Drift{
		UserID:          userID,
		Bucket:          bucket(key),
		ExpectedIncome:  models.DecimalFromCents(want.income),
		ActualIncome:    models.DecimalFromCents(got.income),
		ExpectedExpense: models.DecimalFromCents(want.expense),
		ActualExpense:   models.DecimalFromCents(got.expense),
		Missing:         missing,
	}
}

// bucket strips the rollup kind from the key, "daily rollup 2024-03-15" becomes "2024-03-15".
func bucket(key string) string {
	return key[strings.LastIndex(key, " ")+1:]
}
