package controllers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tally-ledger/backend/internal/types"
	"github.com/tally-ledger/backend/pkg/controllers"
	"github.com/tally-ledger/backend/pkg/models"
	"github.com/tally-ledger/backend/pkg/test"
)

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	transaction := suite.createTestTransaction(alice, controllers.TransactionEditable{
		Amount:      decimal.RequireFromString("12.5"),
		Date:        types.NewDay(2024, 3, 15),
		Type:        models.Expense,
		Category:    "Groceries",
		Description: "Weekly shopping",
	})

	assert.True(suite.T(), decimal.RequireFromString("12.5").Equal(transaction.Amount))
	assert.Equal(suite.T(), types.NewDay(2024, 3, 15), transaction.Date)
	assert.Equal(suite.T(), models.Expense, transaction.Type)
	assert.Equal(suite.T(), "Groceries", transaction.Category)
	assert.Equal(suite.T(), "Weekly shopping", transaction.Description)
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/transactions/%s", transaction.ID), transaction.Links.Self)

	// The rollups of the day and the month are updated with the transaction
	r := suite.request(alice, http.MethodGet, "http://example.com/v1/history?timeframe=month&year=2024&month=2", nil)
	suite.assertHTTPStatus(&r, http.StatusOK)

	var history controllers.HistoryResponse
	suite.decodeResponse(&r, &history)
	assert.True(suite.T(), decimal.RequireFromString("12.5").Equal(history.Data[14].Expense))

	r = suite.request(alice, http.MethodGet, "http://example.com/v1/history?timeframe=year&year=2024", nil)
	suite.assertHTTPStatus(&r, http.StatusOK)
	suite.decodeResponse(&r, &history)
	assert.True(suite.T(), decimal.RequireFromString("12.5").Equal(history.Data[2].Expense))
}

func (suite *TestSuiteStandard) TestTransactionsCreateFails() {
	suite.createTestCategory(alice, controllers.CategoryEditable{Name: "Salary", Type: models.Income})

	tests := []struct {
		name   string
		body   any
		status int
		err    string
	}{
		{"Empty body", "", http.StatusBadRequest, "the request body must not be empty"},
		{"Broken JSON", `{ "amount": 12 `, http.StatusBadRequest, "the body of your request contains invalid"},
		{"Zero amount", `{ "amount": 0, "date": "2024-03-15", "type": "Income", "category": "Salary" }`, http.StatusBadRequest, "positive"},
		{"Negative amount", `{ "amount": -5, "date": "2024-03-15", "type": "Income", "category": "Salary" }`, http.StatusBadRequest, "positive"},
		{"Too many decimal places", `{ "amount": 10.005, "date": "2024-03-15", "type": "Income", "category": "Salary" }`, http.StatusBadRequest, "decimal places"},
		{"Invalid type", `{ "amount": 10, "date": "2024-03-15", "type": "income", "category": "Salary" }`, http.StatusBadRequest, "'Income' or 'Expense'"},
		{"Invalid date", `{ "amount": 10, "date": "15.03.2024", "type": "Income", "category": "Salary" }`, http.StatusBadRequest, "the body of your request contains invalid"},
		{"Missing date", `{ "amount": 10, "type": "Income", "category": "Salary" }`, http.StatusBadRequest, "date"},
		{"Unknown category", `{ "amount": 10, "date": "2024-03-15", "type": "Income", "category": "Bonus" }`, http.StatusNotFound, "there is no category"},
		{"Category of other type", `{ "amount": 10, "date": "2024-03-15", "type": "Expense", "category": "Salary" }`, http.StatusNotFound, "there is no category"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodPost, "http://example.com/v1/transactions", tt.body, as(alice))
			assert.Equal(t, tt.status, r.Code, r.Body.String())
			assert.Contains(t, test.DecodeError(t, r.Body.Bytes()), tt.err)
		})
	}

	// Nothing was recorded
	r := suite.request(alice, http.MethodGet, "http://example.com/v1/transactions", nil)
	var list controllers.TransactionListResponse
	suite.decodeResponse(&r, &list)
	assert.Len(suite.T(), list.Data, 0)
}

func (suite *TestSuiteStandard) TestTransactionsUnauthenticated() {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/transactions"},
		{http.MethodPost, "/v1/transactions"},
		{http.MethodGet, fmt.Sprintf("/v1/transactions/%s", uuid.New())},
		{http.MethodDelete, fmt.Sprintf("/v1/transactions/%s", uuid.New())},
	}

	for _, tt := range tests {
		suite.T().Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			r := test.Request(t, suite.router, tt.method, "http://example.com"+tt.path, nil)
			assert.Equal(t, http.StatusUnauthorized, r.Code)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsGet() {
	transaction := suite.createTestTransaction(alice, controllers.TransactionEditable{
		Amount:   decimal.NewFromInt(100),
		Date:     types.NewDay(2024, 3, 15),
		Type:     models.Income,
		Category: "Salary",
	})

	r := suite.request(alice, http.MethodGet, transaction.Links.Self, nil)
	suite.assertHTTPStatus(&r, http.StatusOK)

	var response controllers.TransactionResponse
	suite.decodeResponse(&r, &response)
	assert.Equal(suite.T(), transaction.ID, response.Data.ID)

	// Other users cannot see the transaction
	r = suite.request(bob, http.MethodGet, transaction.Links.Self, nil)
	suite.assertHTTPStatus(&r, http.StatusNotFound)

	r = suite.request(alice, http.MethodGet, "http://example.com/v1/transactions/not-a-uuid", nil)
	suite.assertHTTPStatus(&r, http.StatusBadRequest)

	r = suite.request(alice, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions/%s", uuid.New()), nil)
	suite.assertHTTPStatus(&r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionsList() {
	days := []types.Day{
		types.NewDay(2024, 2, 28),
		types.NewDay(2024, 3, 1),
		types.NewDay(2024, 3, 15),
		types.NewDay(2024, 3, 31),
		types.NewDay(2024, 4, 1),
	}

	for _, day := range days {
		suite.createTestTransaction(alice, controllers.TransactionEditable{
			Amount:   decimal.NewFromInt(10),
			Date:     day,
			Type:     models.Expense,
			Category: "Groceries",
		})
	}

	suite.createTestTransaction(bob, controllers.TransactionEditable{
		Amount:   decimal.NewFromInt(10),
		Date:     types.NewDay(2024, 3, 15),
		Type:     models.Expense,
		Category: "Groceries",
	})

	tests := []struct {
		query string
		dates []string
		total int64
		limit int
	}{
		{"", []string{"2024-04-01", "2024-03-31", "2024-03-15", "2024-03-01", "2024-02-28"}, 5, 50},
		{"from=2024-03-01&to=2024-03-31", []string{"2024-03-31", "2024-03-15", "2024-03-01"}, 3, 50},
		{"from=2024-03-15", []string{"2024-04-01", "2024-03-31", "2024-03-15"}, 3, 50},
		{"to=2024-03-01T23:59:59Z", []string{"2024-03-01", "2024-02-28"}, 2, 50},
		{"limit=2", []string{"2024-04-01", "2024-03-31"}, 5, 2},
		{"limit=2&offset=2", []string{"2024-03-15", "2024-03-01"}, 5, 2},
		{"offset=4", []string{"2024-02-28"}, 5, 50},
		{"from=2025-01-01", []string{}, 0, 50},
	}

	for _, tt := range tests {
		suite.T().Run(tt.query, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodGet, "http://example.com/v1/transactions?"+tt.query, nil, as(alice))
			assert.Equal(t, http.StatusOK, r.Code, r.Body.String())

			var response controllers.TransactionListResponse
			test.DecodeResponse(t, &r, &response)

			dates := make([]string, 0, len(response.Data))
			for _, transaction := range response.Data {
				dates = append(dates, transaction.Date.String())
			}

			assert.Equal(t, tt.dates, dates)
			assert.Equal(t, tt.total, response.Pagination.Total)
			assert.Equal(t, len(tt.dates), response.Pagination.Count)
			assert.Equal(t, tt.limit, response.Pagination.Limit)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsListFails() {
	for _, query := range []string{"from=yesterday", "offset=-1", "limit=many", "from=2024-03-02&to=2024-03-01"} {
		r := suite.request(alice, http.MethodGet, "http://example.com/v1/transactions?"+query, nil)
		suite.assertHTTPStatus(&r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestTransactionsDelete() {
	income := suite.createTestTransaction(alice, controllers.TransactionEditable{
		Amount:   decimal.NewFromInt(100),
		Date:     types.NewDay(2024, 3, 15),
		Type:     models.Income,
		Category: "Salary",
	})

	expense := suite.createTestTransaction(alice, controllers.TransactionEditable{
		Amount:   decimal.RequireFromString("30.25"),
		Date:     types.NewDay(2024, 3, 15),
		Type:     models.Expense,
		Category: "Groceries",
	})

	// Other users cannot delete the transaction
	r := suite.request(bob, http.MethodDelete, income.Links.Self, nil)
	suite.assertHTTPStatus(&r, http.StatusNotFound)

	r = suite.request(alice, http.MethodDelete, income.Links.Self, nil)
	suite.assertHTTPStatus(&r, http.StatusOK)

	var success controllers.SuccessResponse
	suite.decodeResponse(&r, &success)
	assert.True(suite.T(), success.Success)

	// Deleting again fails, the transaction does not exist anymore
	r = suite.request(alice, http.MethodDelete, income.Links.Self, nil)
	suite.assertHTTPStatus(&r, http.StatusNotFound)

	// Only the expense is left in the rollups
	r = suite.request(alice, http.MethodGet, "http://example.com/v1/history?timeframe=month&year=2024&month=2", nil)
	var history controllers.HistoryResponse
	suite.decodeResponse(&r, &history)
	assert.True(suite.T(), history.Data[14].Income.IsZero())
	assert.True(suite.T(), decimal.RequireFromString("30.25").Equal(history.Data[14].Expense))

	r = suite.request(alice, http.MethodDelete, expense.Links.Self, nil)
	suite.assertHTTPStatus(&r, http.StatusOK)

	r = suite.request(alice, http.MethodGet, "http://example.com/v1/history?timeframe=year&year=2024", nil)
	suite.decodeResponse(&r, &history)
	for _, entry := range history.Data {
		assert.True(suite.T(), entry.Income.IsZero())
		assert.True(suite.T(), entry.Expense.IsZero())
	}
}

func (suite *TestSuiteStandard) TestTransactionsOptions() {
	transaction := suite.createTestTransaction(alice, controllers.TransactionEditable{
		Amount:   decimal.NewFromInt(100),
		Date:     types.NewDay(2024, 3, 15),
		Type:     models.Income,
		Category: "Salary",
	})

	r := suite.request(alice, http.MethodOptions, "http://example.com/v1/transactions", nil)
	suite.assertHTTPStatus(&r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, POST", r.Header().Get("allow"))

	r = suite.request(alice, http.MethodOptions, transaction.Links.Self, nil)
	suite.assertHTTPStatus(&r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, DELETE", r.Header().Get("allow"))

	r = suite.request(alice, http.MethodOptions, fmt.Sprintf("http://example.com/v1/transactions/%s", uuid.New()), nil)
	suite.assertHTTPStatus(&r, http.StatusNotFound)

	r = suite.request(alice, http.MethodOptions, "http://example.com/v1/transactions/not-a-uuid", nil)
	suite.assertHTTPStatus(&r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransactionsMethodNotAllowed() {
	r := suite.request(alice, http.MethodPatch, "http://example.com/v1/transactions", nil)
	suite.assertHTTPStatus(&r, http.StatusMethodNotAllowed)
	assert.True(suite.T(), strings.HasPrefix(test.DecodeError(suite.T(), r.Body.Bytes()), "This HTTP method is not allowed"))
}

func (suite *TestSuiteClosedDB) TestTransactionsCreateClosedDB() {
	r := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/v1/transactions", controllers.TransactionEditable{
		Amount:   decimal.NewFromInt(100),
		Date:     types.NewDay(2024, 3, 15),
		Type:     models.Income,
		Category: "Salary",
	}, as(alice))

	assert.Equal(suite.T(), http.StatusInternalServerError, r.Code, r.Body.String())
	assert.Contains(suite.T(), test.DecodeError(suite.T(), r.Body.Bytes()), "The request id is")
}

func (suite *TestSuiteClosedDB) TestTransactionsListClosedDB() {
	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/transactions", nil, as(alice))
	assert.Equal(suite.T(), http.StatusInternalServerError, r.Code, r.Body.String())
}
