package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// AuthorStore defines database operations for author management.
type AuthorStore interface {
	List() ([]entities.Author, error)
	GetByID(id uint) (*entities.Author, error)
	Create(author *entities.Author) error
	Update(id uint, fields map[string]any) (*entities.Author, error)
	Delete(id uint) error
}

type AuthorsController struct {
	store   AuthorStore
	lookups validation.Lookups
}

func NewAuthorsController(store AuthorStore, lookups validation.Lookups) *AuthorsController {
	return &AuthorsController{store: store, lookups: lookups}
}

// List returns all authors with their live books_count
// GET /api/authors
func (ac *AuthorsController) List(c *gin.Context) {
	authors, err := ac.store.List()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// Create validates and inserts a new author
// POST /api/authors
func (ac *AuthorsController) Create(c *gin.Context) {
	var in validation.AuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondUnprocessable(c, "invalid request body")
		return
	}

	fields, err := validation.Author(in, validation.ModeCreate, 0, ac.lookups)
	if err != nil {
		respondRuleError(c, err, "validate author")
		return
	}

	author := &entities.Author{
		Name:  fields["name"].(string),
		Email: fields["email"].(string),
	}
	if bio, ok := fields["bio"].(string); ok {
		author.Bio = bio
	}
	if country, ok := fields["country"].(string); ok {
		author.Country = country
	}

	if err := ac.store.Create(author); err != nil {
		respondStoreError(c, err, "Author")
		return
	}

	respondCreated(c, author)
}

// Get returns a single author with their books
// GET /api/authors/:id
func (ac *AuthorsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "Author")
	if !ok {
		return
	}

	author, err := ac.store.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "Author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// Update applies a partial field set to an author
// PUT/PATCH /api/authors/:id
func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "Author")
	if !ok {
		return
	}

	// Resolve the target before validating so a missing id is a 404,
	// not a validation failure.
	if _, err := ac.store.GetByID(id); err != nil {
		respondStoreError(c, err, "Author")
		return
	}

	var in validation.AuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondUnprocessable(c, "invalid request body")
		return
	}

	fields, err := validation.Author(in, validation.ModeUpdate, id, ac.lookups)
	if err != nil {
		respondRuleError(c, err, "validate author")
		return
	}

	author, err := ac.store.Update(id, fields)
	if err != nil {
		respondStoreError(c, err, "Author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// Delete removes an author and cascades to their books
// DELETE /api/authors/:id
func (ac *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "Author")
	if !ok {
		return
	}

	if err := ac.store.Delete(id); err != nil {
		respondStoreError(c, err, "Author")
		return
	}
	respondDeleted(c, "Author")
}
