// Package books provides database operations for book records. Reads
// eagerly load the owning author and category so a single call returns
// everything the listing needs.
package books

import (
	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all books in insertion order with author and category attached.
func (r *Repository) List() ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.Preload("Author").Preload("Category").Order("id").Find(&books).Error
	return books, err
}

// GetByID retrieves a single book with author and category attached.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Preload("Category").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book and returns it with relations attached.
func (r *Repository) Create(book *entities.Book) (*entities.Book, error) {
	if err := r.db.Create(book).Error; err != nil {
		return nil, err
	}
	return r.GetByID(book.ID)
}

// Update applies the given column values and returns the refreshed row
// with relations attached.
func (r *Repository) Update(id uint, fields map[string]any) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.Model(&book).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(id)
}

// Delete removes a book.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ISBNTaken reports whether another book already uses the ISBN.
// A non-zero excludeID leaves that book out of the comparison.
func (r *Repository) ISBNTaken(isbn string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entities.Book{}).Where("isbn = ?", isbn)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CountByAuthor returns the number of books referencing an author.
func (r *Repository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// CountByCategory returns the number of books referencing a category.
func (r *Repository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}
