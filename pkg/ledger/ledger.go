// Package ledger records income and expense transactions and keeps the daily
// and monthly rollups consistent with them.
//
// The Ledger is the only writer of rollups. Every create and delete changes
// the transaction row and both rollup rows in one database transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tally-ledger/backend/internal/types"
	"github.com/tally-ledger/backend/pkg/database"
	"github.com/tally-ledger/backend/pkg/models"
	"gorm.io/gorm"
)

// Ledger is the consistency engine for transactions and their rollups.
type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

// New returns a Ledger working on db. The caller keeps ownership of db.
func New(db *gorm.DB) *Ledger {
	return &Ledger{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// TransactionCreate contains the data to record a transaction.
type TransactionCreate struct {
	Amount      decimal.Decimal
	Date        types.Day
	Type        models.TransactionType
	Category    string
	Description string
}

// model validates the data and returns the transaction to insert.
func (c TransactionCreate) model(userID string) (models.Transaction, error) {
	if !c.Amount.IsPositive() {
		return models.Transaction{}, fmt.Errorf("%w: the amount must be positive, got %s", models.ErrValidation, c.Amount)
	}

	cents, err := models.CentsFromDecimal(c.Amount)
	if err != nil {
		return models.Transaction{}, err
	}

	if !c.Type.Valid() {
		return models.Transaction{}, models.ErrTransactionTypeInvalid
	}

	if c.Date.IsZero() {
		return models.Transaction{}, fmt.Errorf("%w: the date must be set", models.ErrValidation)
	}

	return models.Transaction{
		UserID:      userID,
		AmountCents: cents,
		Date:        types.DayOf(c.Date.Time()),
		Type:        c.Type,
		Category:    strings.TrimSpace(c.Category),
		Description: strings.TrimSpace(c.Description),
	}, nil
}

// RecordTransaction creates a transaction for the user and adds it to the
// daily and monthly rollup of its date.
//
// The category must exist for the user and the transaction type. Either the
// transaction and both rollup increments are committed, or nothing is.
func (l *Ledger) RecordTransaction(ctx context.Context, userID string, create TransactionCreate) (models.Transaction, error) {
	if userID == "" {
		return models.Transaction{}, models.ErrUnauthenticated
	}

	transaction, err := create.model(userID)
	if err != nil {
		return models.Transaction{}, err
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := findCategory(tx, userID, transaction.Category, transaction.Type)
		if err != nil {
			return err
		}

		err = tx.Create(&transaction).Error
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		return models.IncrementRollups(tx, transaction)
	})
	if err != nil {
		return models.Transaction{}, l.failed("record", userID, uuid.Nil, err)
	}

	transactionsRecorded.WithLabelValues(string(transaction.Type)).Inc()
	log.Debug().
		Str("user", userID).
		Str("transaction", transaction.ID.String()).
		Str("type", string(transaction.Type)).
		Str("date", transaction.Date.String()).
		Msg("Recorded transaction")

	return transaction, nil
}

// DeleteTransaction deletes a transaction of the user and removes it from the
// rollups.
//
// A transaction of another user is reported as not existing. Either the
// deletion and both rollup decrements are committed, or nothing is.
func (l *Ledger) DeleteTransaction(ctx context.Context, userID string, id uuid.UUID) error {
	if userID == "" {
		return models.ErrUnauthenticated
	}

	var transaction models.Transaction
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = models.FindTransaction(tx, userID, id)
		if err != nil {
			return err
		}

		err = models.DecrementRollups(tx, transaction)
		if err != nil {
			return err
		}

		res := tx.Where("user_id = ?", userID).Delete(&transaction)
		if res.Error != nil {
			return fmt.Errorf("failed to delete transaction: %w", res.Error)
		}

		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: deleted %d rows for transaction %s", models.ErrIntegrity, res.RowsAffected, id)
		}

		return nil
	})
	if err != nil {
		return l.failed("delete", userID, id, err)
	}

	transactionsDeleted.WithLabelValues(string(transaction.Type)).Inc()
	log.Debug().
		Str("user", userID).
		Str("transaction", id.String()).
		Msg("Deleted transaction")

	return nil
}

// Transaction returns a single transaction of the user.
func (l *Ledger) Transaction(ctx context.Context, userID string, id uuid.UUID) (models.Transaction, error) {
	if userID == "" {
		return models.Transaction{}, models.ErrUnauthenticated
	}

	transaction, err := models.FindTransaction(l.db.WithContext(ctx), userID, id)
	if err != nil {
		return models.Transaction{}, database.Classify(err)
	}

	return transaction, nil
}

// failed classifies the error of a write operation and reports integrity
// violations, which must never go unnoticed.
func (l *Ledger) failed(operation, userID string, id uuid.UUID, err error) error {
	err = database.Classify(err)

	if errors.Is(err, models.ErrIntegrity) {
		integrityViolations.Inc()
		log.Error().
			Err(err).
			Str("operation", operation).
			Str("user", userID).
			Str("transaction", id.String()).
			Msg("Ledger integrity violation, the rollups do not match the transactions")
	} else if errors.Is(err, models.ErrStorageTransient) {
		log.Warn().Err(err).Str("operation", operation).Str("user", userID).Msg("Ledger write failed, nothing was applied")
	}

	return err
}
