package database

import (
	"github.com/mrlokans/library-catalog/internal/database/authors"
	"github.com/mrlokans/library-catalog/internal/database/books"
	"github.com/mrlokans/library-catalog/internal/database/categories"
	"github.com/mrlokans/library-catalog/internal/database/users"
)

// Lookups bundles the uniqueness and existence checks the validation
// layer needs, backed by the per-entity repositories.
type Lookups struct {
	Authors    *authors.Repository
	Categories *categories.Repository
	Books      *books.Repository
	Users      *users.Repository
}

func (l Lookups) AuthorEmailTaken(email string, excludeID uint) (bool, error) {
	return l.Authors.EmailTaken(email, excludeID)
}

func (l Lookups) UserEmailTaken(email string, excludeID uint) (bool, error) {
	return l.Users.EmailTaken(email, excludeID)
}

func (l Lookups) BookISBNTaken(isbn string, excludeID uint) (bool, error) {
	return l.Books.ISBNTaken(isbn, excludeID)
}

func (l Lookups) AuthorExists(id uint) (bool, error) {
	return l.Authors.Exists(id)
}

func (l Lookups) CategoryExists(id uint) (bool, error) {
	return l.Categories.Exists(id)
}
