// Package controllers implements the HTTP handlers of the API.
package controllers

import (
	"github.com/tally-ledger/backend/pkg/ledger"
	"gorm.io/gorm"
)

// Controller holds the dependencies of the handlers.
type Controller struct {
	DB     *gorm.DB
	Ledger *ledger.Ledger
	Retry  ledger.RetryConfig // Retries of writes that failed with a transient storage error
}

// New returns a Controller for the database. Writes are retried up to
// retries times on transient storage errors.
func New(db *gorm.DB, retries int) Controller {
	retry := ledger.DefaultRetryConfig
	retry.MaxRetries = retries

	return Controller{
		DB:     db,
		Ledger: ledger.New(db),
		Retry:  retry,
	}
}

// SuccessResponse is returned by endpoints that have no data to return.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}
