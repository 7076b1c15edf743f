package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tally-ledger/backend/internal/types"
	"github.com/tally-ledger/backend/pkg/auth"
	"github.com/tally-ledger/backend/pkg/httperrors"
	"github.com/tally-ledger/backend/pkg/httputil"
	"github.com/tally-ledger/backend/pkg/models"
)

type StatsQueryFilter struct {
	From types.Day `form:"from"` // First day of the range, inclusive
	To   types.Day `form:"to"`   // Last day of the range, inclusive
}

type Balance struct {
	From    types.Day       `json:"from" example:"2024-03-01"`
	To      types.Day       `json:"to" example:"2024-03-31"`
	Income  decimal.Decimal `json:"income" example:"2500"`
	Expense decimal.Decimal `json:"expense" example:"1312.4"`
}

type BalanceResponse struct {
	Data Balance `json:"data"`
}

type CategoryTotal struct {
	Type     models.TransactionType `json:"type" example:"Expense"`
	Category string                 `json:"category" example:"Groceries"`
	Amount   decimal.Decimal        `json:"amount" example:"412.87"`
}

type CategoryTotalListResponse struct {
	Data []CategoryTotal `json:"data"`
}

// RegisterStatsRoutes registers the routes for the statistics with
// the RouterGroup that is passed.
func (co Controller) RegisterStatsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/balance", co.OptionsStats)
	r.GET("/balance", co.GetBalance)
	r.OPTIONS("/categories", co.OptionsStats)
	r.GET("/categories", co.GetCategoryTotals)
}

// OptionsStats returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Statistics
//	@Success		204
//	@Router			/v1/stats/balance [options]
//	@Router			/v1/stats/categories [options]
func (co Controller) OptionsStats(c *gin.Context) {
	httputil.OptionsGet(c)
}

// GetBalance returns the income and expense totals in a date range
//
//	@Summary		Get balance
//	@Description	Returns the sums of income and expense transactions between from and to, both inclusive
//	@Tags			Statistics
//	@Produce		json
//	@Success		200		{object}	BalanceResponse
//	@Failure		400		{object}	httperrors.HTTPError
//	@Failure		401		{object}	httperrors.HTTPError
//	@Failure		500		{object}	httperrors.HTTPError
//	@Param			from	query		string	true	"First day of the range"
//	@Param			to		query		string	true	"Last day of the range"
//	@Router			/v1/stats/balance [get]
func (co Controller) GetBalance(c *gin.Context) {
	var filter StatsQueryFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		httperrors.Handler(c, err)
		return
	}

	balance, err := co.Ledger.Balance(c.Request.Context(), auth.UserID(c), filter.From, filter.To)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{Data: Balance{
		From:    balance.From,
		To:      balance.To,
		Income:  balance.Income,
		Expense: balance.Expense,
	}})
}

// GetCategoryTotals returns the totals per category in a date range
//
//	@Summary		Get category totals
//	@Description	Returns the sum of the transactions per type and category between from and to, both inclusive. The largest amount is first.
//	@Tags			Statistics
//	@Produce		json
//	@Success		200		{object}	CategoryTotalListResponse
//	@Failure		400		{object}	httperrors.HTTPError
//	@Failure		401		{object}	httperrors.HTTPError
//	@Failure		500		{object}	httperrors.HTTPError
//	@Param			from	query		string	true	"First day of the range"
//	@Param			to		query		string	true	"Last day of the range"
//	@Router			/v1/stats/categories [get]
func (co Controller) GetCategoryTotals(c *gin.Context) {
	var filter StatsQueryFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		httperrors.Handler(c, err)
		return
	}

	totals, err := co.Ledger.CategoryBreakdown(c.Request.Context(), auth.UserID(c), filter.From, filter.To)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := make([]CategoryTotal, 0, len(totals))
	for _, t := range totals {
		data = append(data, CategoryTotal{
			Type:     t.Type,
			Category: t.Category,
			Amount:   t.Amount,
		})
	}

	c.JSON(http.StatusOK, CategoryTotalListResponse{Data: data})
}
