// Package categories provides database operations for category records.
package categories

import (
	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/entities"
)

const booksCountSelect = "categories.*, (SELECT COUNT(*) FROM books WHERE books.category_id = categories.id) AS books_count"

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all categories in insertion order with their books_count.
func (r *Repository) List() ([]entities.Category, error) {
	categories := []entities.Category{}
	err := r.db.Model(&entities.Category{}).
		Select(booksCountSelect).
		Order("categories.id").
		Find(&categories).Error
	return categories, err
}

// GetByID retrieves a single category with its books attached.
func (r *Repository) GetByID(id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Preload("Books").First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category.
func (r *Repository) Create(category *entities.Category) error {
	return r.db.Create(category).Error
}

// Update applies the given column values and returns the refreshed row.
func (r *Repository) Update(id uint, fields map[string]any) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.Model(&category).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category and, via the FK cascade, its books.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists reports whether a category row with the given id exists.
func (r *Repository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
