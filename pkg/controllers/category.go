package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tally-ledger/backend/pkg/auth"
	"github.com/tally-ledger/backend/pkg/httperrors"
	"github.com/tally-ledger/backend/pkg/httputil"
	"github.com/tally-ledger/backend/pkg/ledger"
)

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsCategories)
	r.GET("", co.GetCategories)
	r.POST("", co.CreateCategory)
	r.DELETE("", co.DeleteCategory)
}

// OptionsCategories returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			Categories
//	@Success		204
//	@Router			/v1/categories [options]
func (co Controller) OptionsCategories(c *gin.Context) {
	httputil.OptionsGetPostDelete(c)
}

// GetCategories returns the categories of the user
//
//	@Summary		Get categories
//	@Description	Returns the categories of the user ordered by name
//	@Tags			Categories
//	@Produce		json
//	@Success		200		{object}	CategoryListResponse
//	@Failure		400		{object}	httperrors.HTTPError
//	@Failure		401		{object}	httperrors.HTTPError
//	@Failure		500		{object}	httperrors.HTTPError
//	@Param			type	query		string	false	"Filter by transaction type, 'Income' or 'Expense'"
//	@Param			name	query		string	false	"Filter by name. Supports glob patterns"
//	@Router			/v1/categories [get]
func (co Controller) GetCategories(c *gin.Context) {
	var filter CategoryQueryFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		httperrors.Handler(c, err)
		return
	}

	categories, err := co.Ledger.Categories(c.Request.Context(), auth.UserID(c), ledger.CategoryFilter{
		Type: filter.Type,
		Name: filter.Name,
	})
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := make([]Category, 0, len(categories))
	for _, category := range categories {
		data = append(data, newCategory(category))
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: data})
}

// CreateCategory creates a category
//
//	@Summary		Create category
//	@Description	Creates a category. The name must be unique for the user and the transaction type.
//	@Tags			Categories
//	@Produce		json
//	@Success		201			{object}	CategoryResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		401			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			category	body		CategoryEditable	true	"Category"
//	@Router			/v1/categories [post]
func (co Controller) CreateCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httperrors.Handler(c, err)
		return
	}

	category, err := co.Ledger.CreateCategory(c.Request.Context(), auth.UserID(c), editable.create())
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, CategoryResponse{Data: newCategory(category)})
}

// DeleteCategory deletes a category
//
//	@Summary		Delete category
//	@Description	Deletes the category with the name and type. Transactions using it are kept.
//	@Tags			Categories
//	@Success		200			{object}	SuccessResponse
//	@Failure		400			{object}	httperrors.HTTPError
//	@Failure		401			{object}	httperrors.HTTPError
//	@Failure		404			{object}	httperrors.HTTPError
//	@Failure		500			{object}	httperrors.HTTPError
//	@Param			category	body		CategoryDelete	true	"Category"
//	@Router			/v1/categories [delete]
func (co Controller) DeleteCategory(c *gin.Context) {
	var data CategoryDelete
	if err := httputil.BindData(c, &data); err != nil {
		httperrors.Handler(c, err)
		return
	}

	err := co.Ledger.DeleteCategory(c.Request.Context(), auth.UserID(c), data.Name, data.Type)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
