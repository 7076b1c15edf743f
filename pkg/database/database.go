// Package database opens the SQLite storage of the ledger.
package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/tally-ledger/backend/pkg/models"
	"gorm.io/gorm"
)

// SQLite primary result codes that mean the database could not be
// accessed right now, see https://www.sqlite.org/rescode.html
const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

// Connect opens the SQLite database and configures the connection pool.
//
// The returned handle is owned by the caller, who must close it with Close.
func Connect(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &logger{
			Logger: log.Logger,
		},
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection serializes all writers and prevents SQLITE_BUSY errors.
	// This is also what keeps an in-memory database alive across requests.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	err = registerCallbacks(db)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func registerCallbacks(db *gorm.DB) error {
	// Query callbacks
	err := db.Callback().Query().After("*").Register("ledger:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("ledger:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	// Create callbacks
	err = db.Callback().Create().After("*").Register("ledger:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("ledger:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	// Update callbacks
	err = db.Callback().Update().After("*").Register("ledger:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("ledger:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	// Delete callbacks
	err = db.Callback().Delete().After("*").Register("ledger:after_delete_general", generalCallback)
	if err != nil {
		return err
	}

	// Row callbacks, used by aggregations with Scan
	err = db.Callback().Row().After("*").Register("ledger:after_row_general", generalCallback)
	if err != nil {
		return err
	}

	return nil
}

var pluralIes = regexp.MustCompile("ies$")

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		name = pluralIes.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", models.ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// Category names need to be unique per user and type
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: categories.") {
		db.Error = models.ErrCategoryNameNotUnique
		return
	}

	// Rollup sums must never be negative. The ledger checks this itself before
	// writing, the constraint only fires if that check was bypassed.
	if strings.Contains(db.Error.Error(), "CHECK constraint failed") && strings.Contains(db.Error.Error(), "not_negative") {
		db.Error = fmt.Errorf("%w: %s", models.ErrIntegrity, db.Error.Error())
		return
	}

	if strings.Contains(db.Error.Error(), "CHECK constraint failed: amount_positive") {
		db.Error = fmt.Errorf("%w: the amount must be positive", models.ErrValidation)
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	db.Error = Classify(db.Error)
}

// Classify maps driver errors to the errors of the models package.
//
// The callbacks do this for all statements. Errors from beginning or committing
// a transaction do not pass through callbacks and need to be classified explicitly.
func Classify(err error) error {
	if err == nil || errors.Is(err, models.ErrStorageTransient) || errors.Is(err, models.ErrGeneral) {
		return err
	}

	// The request was cancelled or timed out. Whatever was written is rolled back with the transaction.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", models.ErrStorageTransient, err)
	}

	var sqliteErr *go_sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqliteBusy, sqliteLocked:
			log.Warn().Msgf("%T: %v", err, err.Error())
			return fmt.Errorf("%w: %w", models.ErrStorageTransient, err)
		}
	}

	// "sql: database is closed" is hard-coded in the sql module, see
	// https://cs.opensource.google/go/go/+/master:src/database/sql/sql.go;l=1298;drc=0d018b49e33b1383dc0ae5cc968e800dffeeaf7d
	if strings.HasSuffix(err.Error(), "sql: database is closed") || sqliteErr != nil {
		// A general error where we cannot provide more useful information to the end user
		// We log the error and provide a general error message so that server admins can debug
		log.Error().Msgf("%T: %v", err, err.Error())
		return models.ErrGeneral
	}

	return err
}
