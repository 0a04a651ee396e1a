package entities

import (
	"time"
)

type Author struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255" json:"name"`
	Email   string `gorm:"uniqueIndex;size:255" json:"email"`
	Bio     string `gorm:"type:text" json:"bio,omitempty"`
	Country string `gorm:"size:255" json:"country,omitempty"`

	// BooksCount is populated by list queries only; it is never a column.
	BooksCount *int64 `gorm:"->;-:migration" json:"books_count,omitempty"`

	Books []Book `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"books,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	BooksCount *int64 `gorm:"->;-:migration" json:"books_count,omitempty"`

	Books []Book `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"books,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Title         string  `gorm:"size:255" json:"title"`
	ISBN          string  `gorm:"uniqueIndex;size:20;column:isbn" json:"isbn"`
	Description   string  `gorm:"type:text" json:"description,omitempty"`
	PublishedYear int     `json:"published_year"`
	Pages         int     `json:"pages"`
	Price         float64 `json:"price"`

	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Author     *Author   `json:"author,omitempty"`
	Category   *Category `json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
