package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"

	"github.com/stretchr/testify/assert"
	"github.com/tally-ledger/backend/pkg/auth"
	"github.com/tally-ledger/backend/pkg/controllers"
	"github.com/tally-ledger/backend/pkg/test"
)

const (
	alice = "alice"
	bob   = "bob"
)

// as returns the headers that the authenticating proxy sets for the user.
func as(userID string) map[string]string {
	return map[string]string{auth.HeaderUserID: userID}
}

// request makes a request as the user.
func (suite *TestSuiteStandard) request(userID, method, url string, body any) httptest.ResponseRecorder {
	return test.Request(suite.T(), suite.router, method, url, body, as(userID))
}

func (suite *TestSuiteStandard) assertHTTPStatus(r *httptest.ResponseRecorder, expectedStatus ...int) {
	assert.Contains(suite.T(), expectedStatus, r.Code, "HTTP status is wrong. Request ID: '%s' Response body: %s", r.Result().Header.Get("x-request-id"), r.Body.String())
}

// decodeResponse decodes an HTTP response into a target struct.
func (suite *TestSuiteStandard) decodeResponse(r *httptest.ResponseRecorder, target interface{}) {
	err := json.NewDecoder(r.Body).Decode(target)
	if err != nil {
		assert.FailNow(suite.T(), "Parsing error", "Unable to parse response from server %q into %v, '%v', Request ID: %s", r.Body, reflect.TypeOf(target), err, r.Result().Header.Get("x-request-id"))
	}
}

func (suite *TestSuiteStandard) createTestCategory(userID string, c controllers.CategoryEditable) controllers.Category {
	r := suite.request(userID, http.MethodPost, "http://example.com/v1/categories", c)
	suite.assertHTTPStatus(&r, http.StatusCreated)

	var response controllers.CategoryResponse
	suite.decodeResponse(&r, &response)
	return response.Data
}

// createTestTransaction records a transaction. The category is created if
// it does not exist yet.
func (suite *TestSuiteStandard) createTestTransaction(userID string, t controllers.TransactionEditable) controllers.Transaction {
	r := suite.request(userID, http.MethodGet, fmt.Sprintf("http://example.com/v1/categories?type=%s&name=%s", t.Type, t.Category), nil)
	suite.assertHTTPStatus(&r, http.StatusOK)

	var categories controllers.CategoryListResponse
	suite.decodeResponse(&r, &categories)
	if len(categories.Data) == 0 {
		suite.createTestCategory(userID, controllers.CategoryEditable{Name: t.Category, Type: t.Type})
	}

	r = suite.request(userID, http.MethodPost, "http://example.com/v1/transactions", t)
	suite.assertHTTPStatus(&r, http.StatusCreated)

	var response controllers.TransactionResponse
	suite.decodeResponse(&r, &response)
	return response.Data
}
