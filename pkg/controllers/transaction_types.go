package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tally-ledger/backend/internal/types"
	"github.com/tally-ledger/backend/pkg/httputil"
	"github.com/tally-ledger/backend/pkg/ledger"
	"github.com/tally-ledger/backend/pkg/models"
)

type TransactionEditable struct {
	// The maximum value is "999999999999.99", swagger unfortunately rounds this.
	Amount      decimal.Decimal        `json:"amount" example:"14.03" minimum:"0.01" maximum:"999999999999.99" multipleOf:"0.01"` // The amount of the transaction. Always positive, the type determines if it is income or expense
	Date        types.Day              `json:"date" example:"2024-03-15"`                                                         // Date of the transaction. The time is ignored, the UTC day is used
	Type        models.TransactionType `json:"type" example:"Expense" enums:"Income,Expense"`                                     // Income or Expense
	Category    string                 `json:"category" example:"Groceries"`                                                      // Name of an existing category of the type
	Description string                 `json:"description" example:"Weekly shopping" default:""`                                  // A description
}

// create returns the ledger input for the editable fields
func (editable TransactionEditable) create() ledger.TransactionCreate {
	return ledger.TransactionCreate{
		Amount:      editable.Amount,
		Date:        editable.Date,
		Type:        editable.Type,
		Category:    editable.Category,
		Description: editable.Description,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the API representation of a Transaction.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(httputil.URLContextKey)

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Amount:      model.Amount(),
			Date:        model.Date,
			Type:        model.Type,
			Category:    model.Category,
			Description: model.Description,
		},
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionResponse struct {
	Data Transaction `json:"data"` // Data for the transaction
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`       // List of transactions
	Pagination Pagination    `json:"pagination"` // Pagination information
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

type TransactionQueryFilter struct {
	From   types.Day `form:"from"`   // Transactions at and after this date. Time is ignored.
	To     types.Day `form:"to"`     // Transactions before and at this date. Time is ignored.
	Offset uint      `form:"offset"` // The offset of the first Transaction returned. Defaults to 0.
	Limit  int       `form:"limit"`  // Maximum number of transactions to return. Defaults to 50.
}
