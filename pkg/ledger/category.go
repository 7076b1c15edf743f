package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryanuber/go-glob"
	"github.com/tally-ledger/backend/pkg/database"
	"github.com/tally-ledger/backend/pkg/models"
	"gorm.io/gorm"
)

// CategoryCreate contains the data to create a category.
type CategoryCreate struct {
	Name string
	Icon string
	Type models.TransactionType
}

// CategoryFilter restricts the category listing.
type CategoryFilter struct {
	Type models.TransactionType // Empty for all types
	Name string                 // Glob pattern on the name, empty for all names
}

// findCategory returns the category of the user with the name and type.
func findCategory(db *gorm.DB, userID, name string, t models.TransactionType) (models.Category, error) {
	var category models.Category
	err := db.Where(map[string]any{"user_id": userID, "name": name, "type": t}).First(&category).Error
	return category, err
}

// CreateCategory creates a category for the user.
//
// The name must be unique for the user and the transaction type.
func (l *Ledger) CreateCategory(ctx context.Context, userID string, create CategoryCreate) (models.Category, error) {
	if userID == "" {
		return models.Category{}, models.ErrUnauthenticated
	}

	category := models.Category{
		UserID: userID,
		Name:   create.Name,
		Icon:   create.Icon,
		Type:   create.Type,
	}

	err := l.db.WithContext(ctx).Create(&category).Error
	if err != nil {
		return models.Category{}, database.Classify(err)
	}

	return category, nil
}

// DeleteCategory deletes the category of the user with the name and type.
//
// Transactions reference the category by name and keep it.
func (l *Ledger) DeleteCategory(ctx context.Context, userID, name string, t models.TransactionType) error {
	if userID == "" {
		return models.ErrUnauthenticated
	}

	if !t.Valid() {
		return models.ErrTransactionTypeInvalid
	}

	res := l.db.WithContext(ctx).
		Where(map[string]any{"user_id": userID, "name": strings.TrimSpace(name), "type": t}).
		Delete(&models.Category{})
	if res.Error != nil {
		return database.Classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w category matching your query", models.ErrResourceNotFound)
	}

	return nil
}

// Categories lists the categories of the user ordered by name.
func (l *Ledger) Categories(ctx context.Context, userID string, filter CategoryFilter) ([]models.Category, error) {
	if userID == "" {
		return nil, models.ErrUnauthenticated
	}

	query := l.db.WithContext(ctx).Where("categories.user_id = ?", userID)

	if filter.Type != "" {
		if !filter.Type.Valid() {
			return nil, models.ErrTransactionTypeInvalid
		}
		query = query.Where("categories.type = ?", filter.Type)
	}

	var categories []models.Category
	err := query.Order("categories.name, categories.type").Find(&categories).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	if filter.Name == "" {
		return categories, nil
	}

	matching := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if glob.Glob(filter.Name, c.Name) {
			matching = append(matching, c)
		}
	}

	return matching, nil
}
