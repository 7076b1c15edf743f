package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tally-ledger/backend/pkg/auth"
	"github.com/tally-ledger/backend/pkg/httperrors"
	"github.com/tally-ledger/backend/pkg/httputil"
	"github.com/tally-ledger/backend/pkg/ledger"
)

type HistoryQueryFilter struct {
	Timeframe ledger.Timeframe `form:"timeframe"` // "year" or "month"
	Year      int              `form:"year"`
	Month     int              `form:"month"` // Zero-based month, only used for the "month" timeframe
}

type HistoryEntry struct {
	Year    int             `json:"year" example:"2024"`
	Month   int             `json:"month" example:"2"`          // Zero-based, January is 0
	Day     int             `json:"day,omitempty" example:"15"` // Day of the month, only set for the "month" timeframe
	Income  decimal.Decimal `json:"income" example:"2500"`
	Expense decimal.Decimal `json:"expense" example:"87.12"`
}

type HistoryResponse struct {
	Data []HistoryEntry `json:"data"`
}

type HistoryPeriodsResponse struct {
	Data []int `json:"data" example:"2023,2024"` // Years with transactions
}

// RegisterHistoryRoutes registers the routes for the history with
// the RouterGroup that is passed.
func (co Controller) RegisterHistoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsHistory)
	r.GET("", co.GetHistory)
	r.OPTIONS("/periods", co.OptionsHistory)
	r.GET("/periods", co.GetHistoryPeriods)
}

// OptionsHistory returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			History
//	@Success		204
//	@Router			/v1/history [options]
//	@Router			/v1/history/periods [options]
func (co Controller) OptionsHistory(c *gin.Context) {
	httputil.OptionsGet(c)
}

// GetHistory returns the income and expense series
//
//	@Summary		Get history
//	@Description	Returns one entry per month of the year for the "year" timeframe and one entry per day of the month for the "month" timeframe. Periods without transactions are zero.
//	@Tags			History
//	@Produce		json
//	@Success		200			{object}	HistoryResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		401			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			timeframe	query		string	true	"'year' or 'month'"
//	@Param			year		query		int		true	"Year, between 2000 and 3000"
//	@Param			month		query		int		false	"Zero-based month, January is 0"
//	@Router			/v1/history [get]
func (co Controller) GetHistory(c *gin.Context) {
	var filter HistoryQueryFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		httperrors.Handler(c, err)
		return
	}

	entries, err := co.Ledger.History(c.Request.Context(), auth.UserID(c), filter.Timeframe, filter.Year, filter.Month)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		data = append(data, HistoryEntry(e))
	}

	c.JSON(http.StatusOK, HistoryResponse{Data: data})
}

// GetHistoryPeriods returns the years with data
//
//	@Summary		Get history periods
//	@Description	Returns the years in which the user has transactions, oldest first. If there are none, the current year is returned.
//	@Tags			History
//	@Produce		json
//	@Success		200	{object}	HistoryPeriodsResponse
//	@Failure		401	{object}	httperrors.HTTPError
//	@Failure		500	{object}	httperrors.HTTPError
//	@Router			/v1/history/periods [get]
func (co Controller) GetHistoryPeriods(c *gin.Context) {
	years, err := co.Ledger.HistoryPeriods(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, HistoryPeriodsResponse{Data: years})
}
