package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// BookStore defines database operations for book management.
type BookStore interface {
	List() ([]entities.Book, error)
	GetByID(id uint) (*entities.Book, error)
	Create(book *entities.Book) (*entities.Book, error)
	Update(id uint, fields map[string]any) (*entities.Book, error)
	Delete(id uint) error
}

type BooksController struct {
	store   BookStore
	lookups validation.Lookups
}

func NewBooksController(store BookStore, lookups validation.Lookups) *BooksController {
	return &BooksController{store: store, lookups: lookups}
}

// List returns all books with author and category attached
// GET /api/books
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.store.List()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// Create validates and inserts a new book
// POST /api/books
func (bc *BooksController) Create(c *gin.Context) {
	var in validation.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondUnprocessable(c, "invalid request body")
		return
	}

	fields, err := validation.Book(in, validation.ModeCreate, 0, bc.lookups, time.Now())
	if err != nil {
		respondRuleError(c, err, "validate book")
		return
	}

	book := &entities.Book{
		Title:         fields["title"].(string),
		ISBN:          fields["isbn"].(string),
		PublishedYear: fields["published_year"].(int),
		Pages:         fields["pages"].(int),
		Price:         fields["price"].(float64),
		AuthorID:      fields["author_id"].(uint),
		CategoryID:    fields["category_id"].(uint),
	}
	if description, ok := fields["description"].(string); ok {
		book.Description = description
	}

	created, err := bc.store.Create(book)
	if err != nil {
		respondStoreError(c, err, "Book")
		return
	}

	respondCreated(c, created)
}

// Get returns a single book with author and category attached
// GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "Book")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "Book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Update applies a partial field set to a book. Reassigning author_id or
// category_id is a valid update as long as the target row exists.
// PUT/PATCH /api/books/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "Book")
	if !ok {
		return
	}

	if _, err := bc.store.GetByID(id); err != nil {
		respondStoreError(c, err, "Book")
		return
	}

	var in validation.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondUnprocessable(c, "invalid request body")
		return
	}

	fields, err := validation.Book(in, validation.ModeUpdate, id, bc.lookups, time.Now())
	if err != nil {
		respondRuleError(c, err, "validate book")
		return
	}

	book, err := bc.store.Update(id, fields)
	if err != nil {
		respondStoreError(c, err, "Book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Delete removes a book
// DELETE /api/books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "Book")
	if !ok {
		return
	}

	if err := bc.store.Delete(id); err != nil {
		respondStoreError(c, err, "Book")
		return
	}
	respondDeleted(c, "Book")
}
