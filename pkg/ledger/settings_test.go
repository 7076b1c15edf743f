package ledger_test

import (
	"context"

	"github.com/tally-ledger/backend/pkg/models"
)

func (suite *TestSuiteStandard) TestUserSettingsDefault() {
	settings, err := suite.ledger.UserSettings(context.Background(), "alice")
	suite.Require().Nil(err)
	suite.Assert().Equal("USD", settings.Currency)

	// Reading twice does not fail on the existing row
	_, err = suite.ledger.UserSettings(context.Background(), "alice")
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestSetCurrency() {
	settings, err := suite.ledger.SetCurrency(context.Background(), "alice", "eur")
	suite.Require().Nil(err)
	suite.Assert().Equal("EUR", settings.Currency)

	settings, err = suite.ledger.SetCurrency(context.Background(), "alice", "JPY")
	suite.Require().Nil(err)
	suite.Assert().Equal("JPY", settings.Currency)

	_, err = suite.ledger.SetCurrency(context.Background(), "alice", "EURO")
	suite.Assert().ErrorIs(err, models.ErrValidation)

	settings, err = suite.ledger.UserSettings(context.Background(), "alice")
	suite.Require().Nil(err)
	suite.Assert().Equal("JPY", settings.Currency)

	// Other users keep the default
	settings, err = suite.ledger.UserSettings(context.Background(), "bob")
	suite.Require().Nil(err)
	suite.Assert().Equal(models.DefaultCurrency, settings.Currency)
}
