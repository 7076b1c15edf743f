package ledger_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tally-ledger/backend/internal/types"
	"github.com/tally-ledger/backend/pkg/ledger"
	"github.com/tally-ledger/backend/pkg/models"
)

func (suite *TestSuiteStandard) TestBalanceRangeIsInclusive() {
	suite.createCategory("alice", "Salary", models.Income)
	suite.createCategory("alice", "Rent", models.Expense)

	suite.record("alice", "1.00", types.NewDay(2024, 2, 29), models.Income, "Salary")
	suite.record("alice", "10.00", types.NewDay(2024, 3, 1), models.Income, "Salary")
	suite.record("alice", "20.50", types.NewDay(2024, 3, 31), models.Expense, "Rent")
	suite.record("alice", "1000.00", types.NewDay(2024, 4, 1), models.Income, "Salary")

	balance, err := suite.ledger.Balance(context.Background(), "alice", types.NewDay(2024, 3, 1), types.NewDay(2024, 3, 31))
	suite.Require().Nil(err)
	suite.Assert().Equal("10.00", balance.Income.StringFixed(2))
	suite.Assert().Equal("20.50", balance.Expense.StringFixed(2))

	// Single day
	balance, err = suite.ledger.Balance(context.Background(), "alice", types.NewDay(2024, 2, 29), types.NewDay(2024, 2, 29))
	suite.Require().Nil(err)
	suite.Assert().Equal("1.00", balance.Income.StringFixed(2))
	suite.Assert().True(balance.Expense.IsZero())

	// Other users see nothing
	balance, err = suite.ledger.Balance(context.Background(), "bob", types.NewDay(2024, 1, 1), types.NewDay(2024, 12, 31))
	suite.Require().Nil(err)
	suite.Assert().True(balance.Income.IsZero())
	suite.Assert().True(balance.Expense.IsZero())
}

func (suite *TestSuiteStandard) TestRangeEndsOnLastRepresentableDay() {
	suite.createCategory("alice", "Salary", models.Income)

	suite.record("alice", "100.00", types.NewDay(2024, 3, 15), models.Income, "Salary")
	suite.record("alice", "200.00", types.NewDay(2024, 3, 20), models.Income, "Salary")
	suite.record("alice", "300.00", types.NewDay(2024, 4, 2), models.Income, "Salary")
	suite.record("alice", "5.00", types.NewDay(9999, 12, 31), models.Income, "Salary")

	end := types.NewDay(9999, 12, 31)

	balance, err := suite.ledger.Balance(context.Background(), "alice", types.NewDay(2024, 1, 1), end)
	suite.Require().Nil(err)
	suite.Assert().Equal("605.00", balance.Income.StringFixed(2))

	totals, err := suite.ledger.CategoryBreakdown(context.Background(), "alice", types.NewDay(2024, 1, 1), end)
	suite.Require().Nil(err)
	suite.Require().Len(totals, 1)
	suite.Assert().Equal("605.00", totals[0].Amount.StringFixed(2))

	transactions, count, err := suite.ledger.Transactions(context.Background(), "alice", ledger.TransactionFilter{
		From: types.NewDay(2024, 3, 16),
		To:   end,
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(3), count)
	suite.Assert().Len(transactions, 3)
}

func (suite *TestSuiteStandard) TestBalanceValidation() {
	_, err := suite.ledger.Balance(context.Background(), "alice", types.NewDay(2024, 3, 31), types.NewDay(2024, 3, 1))
	suite.Assert().ErrorIs(err, models.ErrValidation)

	_, err = suite.ledger.Balance(context.Background(), "alice", types.Day{}, types.NewDay(2024, 3, 1))
	suite.Assert().ErrorIs(err, models.ErrValidation)

	_, err = suite.ledger.Balance(context.Background(), "", types.NewDay(2024, 3, 1), types.NewDay(2024, 3, 1))
	suite.Assert().ErrorIs(err, models.ErrUnauthenticated)
}

func (suite *TestSuiteStandard) TestCategoryBreakdown() {
	suite.createCategory("alice", "Salary", models.Income)
	suite.createCategory("alice", "Rent", models.Expense)
	suite.createCategory("alice", "Groceries", models.Expense)

	suite.record("alice", "2000.00", march15, models.Income, "Salary")
	suite.record("alice", "800.00", march15, models.Expense, "Rent")
	suite.record("alice", "45.10", types.NewDay(2024, 3, 2), models.Expense, "Groceries")
	suite.record("alice", "54.90", types.NewDay(2024, 3, 20), models.Expense, "Groceries")
	suite.record("alice", "99.00", types.NewDay(2024, 4, 2), models.Expense, "Groceries")

	totals, err := suite.ledger.CategoryBreakdown(context.Background(), "alice", types.NewDay(2024, 3, 1), types.NewDay(2024, 3, 31))
	suite.Require().Nil(err)
	suite.Require().Len(totals, 3)

	suite.Assert().Equal(models.Income, totals[0].Type)
	suite.Assert().Equal("Salary", totals[0].Category)
	suite.Assert().Equal("2000.00", totals[0].Amount.StringFixed(2))
	suite.Assert().Equal(models.Expense, totals[1].Type)
	suite.Assert().Equal("Rent", totals[1].Category)
	suite.Assert().Equal("800.00", totals[1].Amount.StringFixed(2))
	suite.Assert().Equal("Groceries", totals[2].Category)
	suite.Assert().Equal("100.00", totals[2].Amount.StringFixed(2))
}

func (suite *TestSuiteStandard) TestHistoryYearIsDense() {
	suite.createCategory("alice", "Salary", models.Income)
	suite.createCategory("alice", "Rent", models.Expense)

	suite.record("alice", "100.00", types.NewDay(2024, 1, 31), models.Income, "Salary")
	suite.record("alice", "40.00", types.NewDay(2024, 12, 1), models.Expense, "Rent")

	history, err := suite.ledger.History(context.Background(), "alice", ledger.TimeframeYear, 2024, 0)
	suite.Require().Nil(err)
	suite.Require().Len(history, 12)

	for i, entry := range history {
		suite.Assert().Equal(2024, entry.Year)
		suite.Assert().Equal(i, entry.Month)
		suite.Assert().Equal(0, entry.Day)
	}

	suite.Assert().True(decimal.NewFromInt(100).Equal(history[0].Income))
	suite.Assert().True(decimal.NewFromInt(40).Equal(history[11].Expense))
	suite.Assert().True(history[5].Income.IsZero())
	suite.Assert().True(history[5].Expense.IsZero())
}

func (suite *TestSuiteStandard) TestHistoryMonthIsDense() {
	suite.createCategory("alice", "Salary", models.Income)
	suite.record("alice", "12.34", types.NewDay(2024, 2, 29), models.Income, "Salary")

	history, err := suite.ledger.History(context.Background(), "alice", ledger.TimeframeMonth, 2024, 1)
	suite.Require().Nil(err)
	suite.Require().Len(history, 29)
	suite.Assert().Equal(1, history[0].Day)
	suite.Assert().Equal(29, history[28].Day)
	suite.Assert().Equal("12.34", history[28].Income.StringFixed(2))

	history, err = suite.ledger.History(context.Background(), "alice", ledger.TimeframeMonth, 2023, 1)
	suite.Require().Nil(err)
	suite.Assert().Len(history, 28)

	// No data at all still returns every bucket
	history, err = suite.ledger.History(context.Background(), "bob", ledger.TimeframeMonth, 2024, 0)
	suite.Require().Nil(err)
	suite.Assert().Len(history, 31)
	for _, entry := range history {
		suite.Assert().True(entry.Income.IsZero())
		suite.Assert().True(entry.Expense.IsZero())
	}
}

func (suite *TestSuiteStandard) TestHistoryIsIdempotent() {
	suite.createCategory("alice", "Salary", models.Income)
	suite.record("alice", "12.34", march15, models.Income, "Salary")

	first, err := suite.ledger.History(context.Background(), "alice", ledger.TimeframeMonth, 2024, 2)
	suite.Require().Nil(err)

	second, err := suite.ledger.History(context.Background(), "alice", ledger.TimeframeMonth, 2024, 2)
	suite.Require().Nil(err)

	suite.Assert().Equal(first, second)
}

func (suite *TestSuiteStandard) TestHistoryValidation() {
	tests := []struct {
		name      string
		timeframe ledger.Timeframe
		year      int
		month     int
	}{
		{"Unknown timeframe", "week", 2024, 0},
		{"Year too small", ledger.TimeframeYear, 1999, 0},
		{"Year too large", ledger.TimeframeYear, 3001, 0},
		{"Month too small", ledger.TimeframeMonth, 2024, -1},
		{"Month too large", ledger.TimeframeMonth, 2024, 12},
	}

	for _, tt := range tests {
		_, err := suite.ledger.History(context.Background(), "alice", tt.timeframe, tt.year, tt.month)
		suite.Assert().ErrorIs(err, models.ErrValidation, tt.name)
	}
}

func (suite *TestSuiteStandard) TestHistoryPeriods() {
	years, err := suite.ledger.HistoryPeriods(context.Background(), "alice")
	suite.Require().Nil(err)
	suite.Assert().Equal([]int{time.Now().UTC().Year()}, years)

	suite.createCategory("alice", "Salary", models.Income)
	suite.record("alice", "1.00", types.NewDay(2024, 5, 1), models.Income, "Salary")
	suite.record("alice", "1.00", types.NewDay(2022, 5, 1), models.Income, "Salary")
	suite.record("alice", "1.00", types.NewDay(2024, 6, 1), models.Income, "Salary")

	years, err = suite.ledger.HistoryPeriods(context.Background(), "alice")
	suite.Require().Nil(err)
	suite.Assert().Equal([]int{2022, 2024}, years)
}

func (suite *TestSuiteStandard) TestTransactionsListing() {
	suite.createCategory("alice", "Salary", models.Income)
	suite.createCategory("bob", "Salary", models.Income)

	early := suite.record("alice", "1.00", types.NewDay(2024, 1, 10), models.Income, "Salary")
	middle := suite.record("alice", "2.00", types.NewDay(2024, 2, 10), models.Income, "Salary")
	late := suite.record("alice", "3.00", types.NewDay(2024, 3, 10), models.Income, "Salary")
	suite.record("bob", "4.00", types.NewDay(2024, 2, 10), models.Income, "Salary")

	transactions, count, err := suite.ledger.Transactions(context.Background(), "alice", ledger.TransactionFilter{})
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(3), count)
	suite.Require().Len(transactions, 3)
	suite.Assert().Equal(late.ID, transactions[0].ID)
	suite.Assert().Equal(middle.ID, transactions[1].ID)
	suite.Assert().Equal(early.ID, transactions[2].ID)

	transactions, count, err = suite.ledger.Transactions(context.Background(), "alice", ledger.TransactionFilter{
		From: types.NewDay(2024, 2, 1),
		To:   types.NewDay(2024, 3, 10),
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(2), count)
	suite.Assert().Len(transactions, 2)

	transactions, count, err = suite.ledger.Transactions(context.Background(), "alice", ledger.TransactionFilter{Offset: 1, Limit: 1})
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(3), count)
	suite.Require().Len(transactions, 1)
	suite.Assert().Equal(middle.ID, transactions[0].ID)

	_, _, err = suite.ledger.Transactions(context.Background(), "alice", ledger.TransactionFilter{
		From: types.NewDay(2024, 3, 1),
		To:   types.NewDay(2024, 2, 1),
	})
	suite.Assert().ErrorIs(err, models.ErrValidation)
}
