package controllers_test

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/tally-ledger/backend/pkg/controllers"
)

func (suite *TestSuiteStandard) TestUserSettings() {
	r := suite.request(alice, http.MethodGet, "http://example.com/v1/user-settings", nil)
	suite.assertHTTPStatus(&r, http.StatusOK)

	var response controllers.UserSettingsResponse
	suite.decodeResponse(&r, &response)
	assert.Equal(suite.T(), "USD", response.Data.Currency)

	r = suite.request(alice, http.MethodPatch, "http://example.com/v1/user-settings", `{ "currency": "eur" }`)
	suite.assertHTTPStatus(&r, http.StatusOK)
	suite.decodeResponse(&r, &response)
	assert.Equal(suite.T(), "EUR", response.Data.Currency)

	// A patch without fields keeps the settings
	r = suite.request(alice, http.MethodPatch, "http://example.com/v1/user-settings", `{}`)
	suite.assertHTTPStatus(&r, http.StatusOK)
	suite.decodeResponse(&r, &response)
	assert.Equal(suite.T(), "EUR", response.Data.Currency)

	// Settings are per user
	r = suite.request(bob, http.MethodGet, "http://example.com/v1/user-settings", nil)
	suite.decodeResponse(&r, &response)
	assert.Equal(suite.T(), "USD", response.Data.Currency)
}

func (suite *TestSuiteStandard) TestUserSettingsFails() {
	for _, body := range []string{"", `{ "currency": "EURO" }`, `{ "currency": 42 }`, `{ "currency": "" }`} {
		r := suite.request(alice, http.MethodPatch, "http://example.com/v1/user-settings", body)
		suite.assertHTTPStatus(&r, http.StatusBadRequest)
	}

	r := suite.request(alice, http.MethodOptions, "http://example.com/v1/user-settings", nil)
	suite.assertHTTPStatus(&r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, PATCH", r.Header().Get("allow"))
}
