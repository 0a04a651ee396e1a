// Package authors provides database operations for author records.
//
// List results carry a live books_count computed with a correlated
// subquery; single-row reads eagerly load the author's books instead.
package authors

import (
	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/entities"
)

const booksCountSelect = "authors.*, (SELECT COUNT(*) FROM books WHERE books.author_id = authors.id) AS books_count"

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all authors in insertion order with their books_count.
func (r *Repository) List() ([]entities.Author, error) {
	authors := []entities.Author{}
	err := r.db.Model(&entities.Author{}).
		Select(booksCountSelect).
		Order("authors.id").
		Find(&authors).Error
	return authors, err
}

// GetByID retrieves a single author with their books attached.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Preload("Books").First(&author, id).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// Create inserts a new author.
func (r *Repository) Create(author *entities.Author) error {
	return r.db.Create(author).Error
}

// Update applies the given column values to an author and returns the
// refreshed row. Columns absent from fields keep their prior value.
func (r *Repository) Update(id uint, fields map[string]any) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.Model(&author).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// Delete removes an author. The books FK is declared ON DELETE CASCADE,
// so the author's books go with it.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Author{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EmailTaken reports whether another author already uses the email.
// A non-zero excludeID leaves that author out of the comparison.
func (r *Repository) EmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entities.Author{}).Where("email = ?", email)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Exists reports whether an author row with the given id exists.
func (r *Repository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
