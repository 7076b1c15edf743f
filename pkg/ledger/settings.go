package ledger

import (
	"context"

	"github.com/tally-ledger/backend/pkg/database"
	"github.com/tally-ledger/backend/pkg/models"
	"gorm.io/gorm/clause"
)

// UserSettings returns the settings of the user. They are created with the
// default currency on first access.
func (l *Ledger) UserSettings(ctx context.Context, userID string) (models.UserSettings, error) {
	if userID == "" {
		return models.UserSettings{}, models.ErrUnauthenticated
	}

	db := l.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserSettings{
		UserID:   userID,
		Currency: models.DefaultCurrency,
	}).Error
	if err != nil {
		return models.UserSettings{}, database.Classify(err)
	}

	var settings models.UserSettings
	err = db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return models.UserSettings{}, database.Classify(err)
	}

	return settings, nil
}

// SetCurrency sets the currency of the user. It must be an ISO 4217 code.
func (l *Ledger) SetCurrency(ctx context.Context, userID, currency string) (models.UserSettings, error) {
	if userID == "" {
		return models.UserSettings{}, models.ErrUnauthenticated
	}

	settings := models.UserSettings{
		UserID:   userID,
		Currency: currency,
	}

	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"currency", "updated_at"}),
	}).Create(&settings).Error
	if err != nil {
		return models.UserSettings{}, database.Classify(err)
	}

	return l.UserSettings(ctx, userID)
}
