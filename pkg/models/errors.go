package models

import (
	"errors"
	"fmt"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrValidation       = errors.New("the request is invalid")
	ErrUnauthenticated  = errors.New("the request is not authenticated")

	// ErrIntegrity means the ledger invariant was already broken before the
	// operation that detected it.
	ErrIntegrity = errors.New("ledger integrity violation")

	// ErrStorageTransient is returned when the storage could not complete an
	// operation. Nothing has been applied, the whole operation can be retried.
	ErrStorageTransient = errors.New("the storage is temporarily unavailable, please retry")
)

var (
	ErrCategoryNameNotUnique  = fmt.Errorf("%w: the category name must be unique for the user and transaction type", ErrValidation)
	ErrTransactionTypeInvalid = fmt.Errorf("%w: the transaction type must be one of 'Income' or 'Expense'", ErrValidation)
)
