package controllers_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tally-ledger/backend/internal/types"
	"github.com/tally-ledger/backend/pkg/controllers"
	"github.com/tally-ledger/backend/pkg/models"
	"github.com/tally-ledger/backend/pkg/test"
)

func (suite *TestSuiteStandard) TestCategoriesCreate() {
	category := suite.createTestCategory(alice, controllers.CategoryEditable{Name: " Groceries ", Icon: "🛒", Type: models.Expense})

	assert.NotEqual(suite.T(), "", category.ID.String())
	assert.Equal(suite.T(), "Groceries", category.Name)
	assert.Equal(suite.T(), "🛒", category.Icon)
	assert.Equal(suite.T(), models.Expense, category.Type)
}

func (suite *TestSuiteStandard) TestCategoriesCreateFails() {
	suite.createTestCategory(alice, controllers.CategoryEditable{Name: "Groceries", Type: models.Expense})

	tests := []struct {
		name string
		body any
		err  string
	}{
		{"Duplicate", controllers.CategoryEditable{Name: "Groceries", Type: models.Expense}, "must be unique"},
		{"Name too short", controllers.CategoryEditable{Name: "Go", Type: models.Expense}, "between 3 and 20 characters"},
		{"Name too long", controllers.CategoryEditable{Name: "Groceries and household items", Type: models.Expense}, "between 3 and 20 characters"},
		{"Invalid type", controllers.CategoryEditable{Name: "Groceries", Type: "Transfer"}, "'Income' or 'Expense'"},
		{"Empty body", "", "must not be empty"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodPost, "http://example.com/v1/categories", tt.body, as(alice))
			assert.Equal(t, http.StatusBadRequest, r.Code, r.Body.String())
			assert.Contains(t, test.DecodeError(t, r.Body.Bytes()), tt.err)
		})
	}

	// The same name is fine for another type and another user
	suite.createTestCategory(alice, controllers.CategoryEditable{Name: "Groceries", Type: models.Income})
	suite.createTestCategory(bob, controllers.CategoryEditable{Name: "Groceries", Type: models.Expense})
}

func (suite *TestSuiteStandard) TestCategoriesList() {
	suite.createTestCategory(alice, controllers.CategoryEditable{Name: "Salary", Type: models.Income})
	suite.createTestCategory(alice, controllers.CategoryEditable{Name: "Groceries", Type: models.Expense})
	suite.createTestCategory(alice, controllers.CategoryEditable{Name: "Gifts", Type: models.Expense})
	suite.createTestCategory(alice, controllers.CategoryEditable{Name: "Gifts", Type: models.Income})
	suite.createTestCategory(bob, controllers.CategoryEditable{Name: "Rent", Type: models.Expense})

	tests := []struct {
		query string
		names []string
	}{
		{"", []string{"Gifts", "Gifts", "Groceries", "Salary"}},
		{"type=Expense", []string{"Gifts", "Groceries"}},
		{"type=Income", []string{"Gifts", "Salary"}},
		{"name=G*", []string{"Gifts", "Gifts", "Groceries"}},
		{"name=G*&type=Expense", []string{"Gifts", "Groceries"}},
		{"name=Rent", []string{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.query, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodGet, "http://example.com/v1/categories?"+tt.query, nil, as(alice))
			assert.Equal(t, http.StatusOK, r.Code, r.Body.String())

			var response controllers.CategoryListResponse
			test.DecodeResponse(t, &r, &response)

			names := make([]string, 0, len(response.Data))
			for _, c := range response.Data {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}

	r := suite.request(alice, http.MethodGet, "http://example.com/v1/categories?type=Transfer", nil)
	suite.assertHTTPStatus(&r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCategoriesDelete() {
	suite.createTestTransaction(alice, controllers.TransactionEditable{
		Amount:   decimal.NewFromInt(20),
		Date:     types.NewDay(2024, 3, 15),
		Type:     models.Expense,
		Category: "Groceries",
	})

	r := suite.request(alice, http.MethodDelete, "http://example.com/v1/categories", controllers.CategoryDelete{Name: "Groceries", Type: models.Expense})
	suite.assertHTTPStatus(&r, http.StatusOK)

	// Deleting again fails
	r = suite.request(alice, http.MethodDelete, "http://example.com/v1/categories", controllers.CategoryDelete{Name: "Groceries", Type: models.Expense})
	suite.assertHTTPStatus(&r, http.StatusNotFound)

	// The transaction keeps its category name
	r = suite.request(alice, http.MethodGet, "http://example.com/v1/transactions", nil)
	var list controllers.TransactionListResponse
	suite.decodeResponse(&r, &list)
	suite.Require().Len(list.Data, 1)
	assert.Equal(suite.T(), "Groceries", list.Data[0].Category)

	// New transactions cannot use it anymore
	r = suite.request(alice, http.MethodPost, "http://example.com/v1/transactions", controllers.TransactionEditable{
		Amount:   decimal.NewFromInt(20),
		Date:     types.NewDay(2024, 3, 15),
		Type:     models.Expense,
		Category: "Groceries",
	})
	suite.assertHTTPStatus(&r, http.StatusNotFound)

	r = suite.request(alice, http.MethodDelete, "http://example.com/v1/categories", "")
	suite.assertHTTPStatus(&r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCategoriesOptions() {
	r := suite.request(alice, http.MethodOptions, "http://example.com/v1/categories", nil)
	suite.assertHTTPStatus(&r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, POST, DELETE", r.Header().Get("allow"))
}
