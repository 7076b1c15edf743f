package controllers

import (
	"github.com/tally-ledger/backend/pkg/ledger"
	"github.com/tally-ledger/backend/pkg/models"
)

type CategoryEditable struct {
	Name string                 `json:"name" example:"Groceries"`                      // Name of the category, between 3 and 20 characters
	Icon string                 `json:"icon" example:"🛒" default:""`                  // Icon of the category
	Type models.TransactionType `json:"type" example:"Expense" enums:"Income,Expense"` // Transaction type the category is used for
}

func (editable CategoryEditable) create() ledger.CategoryCreate {
	return ledger.CategoryCreate{
		Name: editable.Name,
		Icon: editable.Icon,
		Type: editable.Type,
	}
}

// Category is the API representation of a Category.
type Category struct {
	models.DefaultModel
	CategoryEditable
}

func newCategory(model models.Category) Category {
	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			Name: model.Name,
			Icon: model.Icon,
			Type: model.Type,
		},
	}
}

type CategoryResponse struct {
	Data Category `json:"data"` // Data for the category
}

type CategoryListResponse struct {
	Data []Category `json:"data"` // List of categories
}

type CategoryQueryFilter struct {
	Type models.TransactionType `form:"type"` // Only categories of this type
	Name string                 `form:"name"` // Glob pattern for the name, e.g. "Gro*"
}

// CategoryDelete identifies the category to delete.
type CategoryDelete struct {
	Name string                 `json:"name" example:"Groceries"`
	Type models.TransactionType `json:"type" example:"Expense" enums:"Income,Expense"`
}
