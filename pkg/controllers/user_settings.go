package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tally-ledger/backend/pkg/auth"
	"github.com/tally-ledger/backend/pkg/httperrors"
	"github.com/tally-ledger/backend/pkg/httputil"
	"github.com/tally-ledger/backend/pkg/models"
	"golang.org/x/exp/slices"
)

type UserSettingsEditable struct {
	Currency string `json:"currency" example:"EUR"` // ISO 4217 code of the currency used to display amounts
}

type UserSettings struct {
	UserSettingsEditable
	UpdatedAt time.Time `json:"updatedAt" example:"2022-04-17T20:14:01.048145Z"` // Last time the settings were updated
}

type UserSettingsResponse struct {
	Data UserSettings `json:"data"`
}

func newUserSettings(model models.UserSettings) UserSettings {
	return UserSettings{
		UserSettingsEditable: UserSettingsEditable{
			Currency: model.Currency,
		},
		UpdatedAt: model.UpdatedAt,
	}
}

// RegisterUserSettingsRoutes registers the routes for the user settings with
// the RouterGroup that is passed.
func (co Controller) RegisterUserSettingsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsUserSettings)
	r.GET("", co.GetUserSettings)
	r.PATCH("", co.UpdateUserSettings)
}

// OptionsUserSettings returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			User Settings
//	@Success		204
//	@Router			/v1/user-settings [options]
func (co Controller) OptionsUserSettings(c *gin.Context) {
	httputil.OptionsGetPatch(c)
}

// GetUserSettings returns the settings of the user
//
//	@Summary		Get user settings
//	@Description	Returns the settings of the user. They are created with the default currency on first access.
//	@Tags			User Settings
//	@Produce		json
//	@Success		200	{object}	UserSettingsResponse
//	@Failure		401	{object}	httperrors.HTTPError
//	@Failure		500	{object}	httperrors.HTTPError
//	@Router			/v1/user-settings [get]
func (co Controller) GetUserSettings(c *gin.Context) {
	settings, err := co.Ledger.UserSettings(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, UserSettingsResponse{Data: newUserSettings(settings)})
}

// UpdateUserSettings updates the settings of the user
//
//	@Summary		Update user settings
//	@Description	Updates the settings of the user. Only values to be updated need to be specified.
//	@Tags			User Settings
//	@Accept			json
//	@Produce		json
//	@Success		200			{object}	UserSettingsResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		401			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			settings	body		UserSettingsEditable	true	"User settings"
//	@Router			/v1/user-settings [patch]
func (co Controller) UpdateUserSettings(c *gin.Context) {
	updateFields, err := httputil.GetBodyFields(c, UserSettingsEditable{})
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	var data UserSettingsEditable
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := auth.UserID(c)

	var settings models.UserSettings
	if slices.Contains(updateFields, "Currency") {
		settings, err = co.Ledger.SetCurrency(ctx, userID, data.Currency)
	} else {
		settings, err = co.Ledger.UserSettings(ctx, userID)
	}
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, UserSettingsResponse{Data: newUserSettings(settings)})
}
