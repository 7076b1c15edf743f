package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tally-ledger/backend/pkg/auth"
	"github.com/tally-ledger/backend/pkg/httperrors"
	"github.com/tally-ledger/backend/pkg/httputil"
	"github.com/tally-ledger/backend/pkg/ledger"
	"github.com/tally-ledger/backend/pkg/models"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsTransactions)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", co.OptionsTransactionDetail)
		r.GET("/:id", co.GetTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

// OptionsTransactions returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Transactions
//	@Success		204
//	@Router			/v1/transactions [options]
func (co Controller) OptionsTransactions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// OptionsTransactionDetail returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Transactions
//	@Success		204
//	@Failure		400	{object}	httperrors.HTTPError
//	@Failure		404	{object}	httperrors.HTTPError
//	@Failure		500	{object}	httperrors.HTTPError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/transactions/{id} [options]
func (co Controller) OptionsTransactionDetail(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	_, err = co.Ledger.Transaction(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	httputil.OptionsGetDelete(c)
}

// CreateTransaction records a transaction and updates the daily and monthly
// rollups of its date in the same database transaction.
//
//	@Summary		Create transaction
//	@Description	Records a transaction. The daily and monthly rollups are updated atomically with it.
//	@Tags			Transactions
//	@Produce		json
//	@Success		201			{object}	TransactionResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		401			{object}	httperrors.HTTPError
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Failure		503			{object}	httperrors.HTTPError
//	@Param			transaction	body		TransactionEditable	true	"Transaction"
//	@Router			/v1/transactions [post]
func (co Controller) CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httperrors.Handler(c, err)
		return
	}

	userID := auth.UserID(c)
	transaction, err := ledger.WithRetry(c.Request.Context(), co.Retry, func(ctx context.Context) (models.Transaction, error) {
		return co.Ledger.RecordTransaction(ctx, userID, editable.create())
	})
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Data: newTransaction(c, transaction)})
}

// GetTransactions returns the transactions of the user
//
//	@Summary		Get transactions
//	@Description	Returns the transactions of the user, most recent first
//	@Tags			Transactions
//	@Produce		json
//	@Success		200		{object}	TransactionListResponse
//	@Failure		400		{object}	httperrors.HTTPError
//	@Failure		401		{object}	httperrors.HTTPError
//	@Failure		500		{object}	httperrors.HTTPError
//	@Router			/v1/transactions [get]
//	@Param			from	query	string	false	"Transactions at and after this date. Ignores exact time, matches on the UTC day of the timestamp provided."
//	@Param			to		query	string	false	"Transactions before and at this date. Ignores exact time, matches on the UTC day of the timestamp provided."
//	@Param			offset	query	uint	false	"The offset of the first Transaction returned. Defaults to 0."
//	@Param			limit	query	int		false	"Maximum number of transactions to return. Defaults to 50."
func (co Controller) GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		httperrors.Handler(c, err)
		return
	}

	// Default to 50 transactions and set the limit
	limit := 50
	if slices.Contains(httputil.GetURLFields(c.Request.URL, filter), "Limit") {
		limit = filter.Limit
	}

	transactions, total, err := co.Ledger.Transactions(c.Request.Context(), auth.UserID(c), ledger.TransactionFilter{
		From:   filter.From,
		To:     filter.To,
		Offset: int(filter.Offset),
		Limit:  limit,
	})
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		data = append(data, newTransaction(c, t))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: Pagination{
			Count:  len(data),
			Total:  total,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// GetTransaction returns a specific transaction
//
//	@Summary		Get transaction
//	@Description	Returns a specific transaction
//	@Tags			Transactions
//	@Produce		json
//	@Success		200	{object}	TransactionResponse
//	@Failure		400	{object}	httperrors.HTTPError
//	@Failure		401	{object}	httperrors.HTTPError
//	@Failure		404	{object}	httperrors.HTTPError
//	@Failure		500	{object}	httperrors.HTTPError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/transactions/{id} [get]
func (co Controller) GetTransaction(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	transaction, err := co.Ledger.Transaction(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: newTransaction(c, transaction)})
}

// DeleteTransaction deletes a transaction and reverses its effect on the rollups
//
//	@Summary		Delete transaction
//	@Description	Deletes a transaction. Its amount is subtracted from the daily and monthly rollups of its date in the same database transaction.
//	@Tags			Transactions
//	@Success		200	{object}	SuccessResponse
//	@Failure		400	{object}	httperrors.HTTPError
//	@Failure		401	{object}	httperrors.HTTPError
//	@Failure		404	{object}	httperrors.HTTPError
//	@Failure		500	{object}	httperrors.HTTPError
//	@Failure		503	{object}	httperrors.HTTPError
//	@Param			id	path		string	true	"ID formatted as string"
//	@Router			/v1/transactions/{id} [delete]
func (co Controller) DeleteTransaction(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	userID := auth.UserID(c)
	_, err = ledger.WithRetry(c.Request.Context(), co.Retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, co.Ledger.DeleteTransaction(ctx, userID, id)
	})
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
