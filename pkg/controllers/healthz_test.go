package controllers_test

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/tally-ledger/backend/pkg/test"
)

func (suite *TestSuiteStandard) TestHealthzSuccess() {
	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/healthz", nil)
	suite.assertHTTPStatus(&recorder, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestHealthzNoUserNeeded() {
	recorder := test.Request(suite.T(), suite.router, http.MethodOptions, "http://example.com/healthz", nil)
	suite.assertHTTPStatus(&recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestHealthzFail() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/healthz", nil)
	suite.assertHTTPStatus(&recorder, http.StatusInternalServerError)
	assert.Contains(suite.T(), test.DecodeError(suite.T(), recorder.Body.Bytes()), "An error occurred on the server during your request")
}
