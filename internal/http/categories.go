package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// CategoryStore defines database operations for category management.
type CategoryStore interface {
	List() ([]entities.Category, error)
	GetByID(id uint) (*entities.Category, error)
	Create(category *entities.Category) error
	Update(id uint, fields map[string]any) (*entities.Category, error)
	Delete(id uint) error
}

type CategoriesController struct {
	store CategoryStore
}

func NewCategoriesController(store CategoryStore) *CategoriesController {
	return &CategoriesController{store: store}
}

// List returns all categories with their live books_count
// GET /api/categories
func (cc *CategoriesController) List(c *gin.Context) {
	categories, err := cc.store.List()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create validates and inserts a new category
// POST /api/categories
func (cc *CategoriesController) Create(c *gin.Context) {
	var in validation.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondUnprocessable(c, "invalid request body")
		return
	}

	fields, err := validation.Category(in, validation.ModeCreate)
	if err != nil {
		respondRuleError(c, err, "validate category")
		return
	}

	category := &entities.Category{
		Name: fields["name"].(string),
	}
	if description, ok := fields["description"].(string); ok {
		category.Description = description
	}

	if err := cc.store.Create(category); err != nil {
		respondStoreError(c, err, "Category")
		return
	}

	respondCreated(c, category)
}

// Get returns a single category with its books
// GET /api/categories/:id
func (cc *CategoriesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "Category")
	if !ok {
		return
	}

	category, err := cc.store.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "Category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// Update applies a partial field set to a category
// PUT/PATCH /api/categories/:id
func (cc *CategoriesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "Category")
	if !ok {
		return
	}

	if _, err := cc.store.GetByID(id); err != nil {
		respondStoreError(c, err, "Category")
		return
	}

	var in validation.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondUnprocessable(c, "invalid request body")
		return
	}

	fields, err := validation.Category(in, validation.ModeUpdate)
	if err != nil {
		respondRuleError(c, err, "validate category")
		return
	}

	category, err := cc.store.Update(id, fields)
	if err != nil {
		respondStoreError(c, err, "Category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete removes a category and cascades to its books
// DELETE /api/categories/:id
func (cc *CategoriesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "Category")
	if !ok {
		return
	}

	if err := cc.store.Delete(id); err != nil {
		respondStoreError(c, err, "Category")
		return
	}
	respondDeleted(c, "Category")
}
