// Package validation implements the field-level rule checking that runs
// before any catalog mutation. Validators are pure: uniqueness and
// reference checks go through the Lookups interface, so the package can be
// unit tested against fakes and never touches the store itself.
//
// Each validator takes the entity input (pointer fields distinguish absent
// from present, which is what makes partial updates work), a mode, and for
// updates the id of the record being changed so uniqueness checks exclude
// it. It returns the accepted column→value map, or an *Error listing every
// violated field.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Mode selects which rule set applies.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// MinPublishedYear is the lower bound for a book's published_year. The
// upper bound is the wall-clock year at validation time.
const MinPublishedYear = 1000

const maxStringLength = 255

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Errors maps a field name to every message recorded against it.
type Errors map[string][]string

// Add records a violation message for a field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Error carries the per-field violations of a rejected payload.
type Error struct {
	Errors Errors `json:"errors"`
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Lookups answers the store-backed questions the rule table needs.
type Lookups interface {
	AuthorEmailTaken(email string, excludeID uint) (bool, error)
	UserEmailTaken(email string, excludeID uint) (bool, error)
	BookISBNTaken(isbn string, excludeID uint) (bool, error)
	AuthorExists(id uint) (bool, error)
	CategoryExists(id uint) (bool, error)
}

// AuthorInput is the decoded body of an author create or update request.
type AuthorInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Bio     *string `json:"bio"`
	Country *string `json:"country"`
}

// CategoryInput is the decoded body of a category create or update request.
type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// BookInput is the decoded body of a book create or update request.
type BookInput struct {
	Title         *string  `json:"title"`
	ISBN          *string  `json:"isbn"`
	Description   *string  `json:"description"`
	PublishedYear *int     `json:"published_year"`
	Pages         *int     `json:"pages"`
	Price         *float64 `json:"price"`
	AuthorID      *uint    `json:"author_id"`
	CategoryID    *uint    `json:"category_id"`
}

// RegisterInput is the decoded body of a registration request.
type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Author validates an author payload and returns the accepted columns.
func Author(in AuthorInput, mode Mode, excludeID uint, lookups Lookups) (map[string]any, error) {
	errs := Errors{}
	fields := map[string]any{}

	checkRequiredString(errs, fields, "name", in.Name, mode)

	if in.Email == nil {
		if mode == ModeCreate {
			errs.Add("email", "email is required")
		}
	} else {
		email := strings.TrimSpace(*in.Email)
		switch {
		case email == "":
			errs.Add("email", "email is required")
		case len(email) > maxStringLength || !emailPattern.MatchString(email):
			errs.Add("email", "email must be a valid email address")
		default:
			taken, err := lookups.AuthorEmailTaken(email, excludeID)
			if err != nil {
				return nil, err
			}
			if taken {
				errs.Add("email", "email has already been taken")
			} else {
				fields["email"] = email
			}
		}
	}

	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.Country != nil {
		fields["country"] = *in.Country
	}

	if len(errs) > 0 {
		return nil, &Error{Errors: errs}
	}
	return fields, nil
}

// Category validates a category payload and returns the accepted columns.
func Category(in CategoryInput, mode Mode) (map[string]any, error) {
	errs := Errors{}
	fields := map[string]any{}

	checkRequiredString(errs, fields, "name", in.Name, mode)

	if in.Description != nil {
		fields["description"] = *in.Description
	}

	if len(errs) > 0 {
		return nil, &Error{Errors: errs}
	}
	return fields, nil
}

// Book validates a book payload and returns the accepted columns. The
// published_year upper bound is the calendar year of now, so the same
// payload can flip validity at year rollover.
func Book(in BookInput, mode Mode, excludeID uint, lookups Lookups, now time.Time) (map[string]any, error) {
	errs := Errors{}
	fields := map[string]any{}

	checkRequiredString(errs, fields, "title", in.Title, mode)

	if in.ISBN == nil {
		if mode == ModeCreate {
			errs.Add("isbn", "isbn is required")
		}
	} else {
		isbn := strings.TrimSpace(*in.ISBN)
		if isbn == "" {
			errs.Add("isbn", "isbn is required")
		} else {
			taken, err := lookups.BookISBNTaken(isbn, excludeID)
			if err != nil {
				return nil, err
			}
			if taken {
				errs.Add("isbn", "isbn has already been taken")
			} else {
				fields["isbn"] = isbn
			}
		}
	}

	if in.Description != nil {
		fields["description"] = *in.Description
	}

	currentYear := now.Year()
	if in.PublishedYear == nil {
		if mode == ModeCreate {
			errs.Add("published_year", "published_year is required")
		}
	} else if *in.PublishedYear < MinPublishedYear || *in.PublishedYear > currentYear {
		errs.Add("published_year", fmt.Sprintf("published_year must be between %d and %d", MinPublishedYear, currentYear))
	} else {
		fields["published_year"] = *in.PublishedYear
	}

	if in.Pages == nil {
		if mode == ModeCreate {
			errs.Add("pages", "pages is required")
		}
	} else if *in.Pages < 1 {
		errs.Add("pages", "pages must be at least 1")
	} else {
		fields["pages"] = *in.Pages
	}

	if in.Price == nil {
		if mode == ModeCreate {
			errs.Add("price", "price is required")
		}
	} else if *in.Price < 0 {
		errs.Add("price", "price must be zero or greater")
	} else {
		fields["price"] = math.Round(*in.Price*100) / 100
	}

	if in.AuthorID == nil {
		if mode == ModeCreate {
			errs.Add("author_id", "author_id is required")
		}
	} else {
		exists, err := lookups.AuthorExists(*in.AuthorID)
		if err != nil {
			return nil, err
		}
		if !exists {
			errs.Add("author_id", "author_id must reference an existing author")
		} else {
			fields["author_id"] = *in.AuthorID
		}
	}

	if in.CategoryID == nil {
		if mode == ModeCreate {
			errs.Add("category_id", "category_id is required")
		}
	} else {
		exists, err := lookups.CategoryExists(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			errs.Add("category_id", "category_id must reference an existing category")
		} else {
			fields["category_id"] = *in.CategoryID
		}
	}

	if len(errs) > 0 {
		return nil, &Error{Errors: errs}
	}
	return fields, nil
}

// Register validates a registration payload.
func Register(in RegisterInput, lookups Lookups) error {
	errs := Errors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.Add("name", "name is required")
	} else if len(name) > maxStringLength {
		errs.Add("name", fmt.Sprintf("name must not exceed %d characters", maxStringLength))
	}

	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		errs.Add("email", "email is required")
	case len(email) > maxStringLength || !emailPattern.MatchString(email):
		errs.Add("email", "email must be a valid email address")
	default:
		taken, err := lookups.UserEmailTaken(email, 0)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("email", "email has already been taken")
		}
	}

	if in.Password == "" {
		errs.Add("password", "password is required")
	} else if len(in.Password) < MinPasswordLength {
		errs.Add("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if in.Password != in.PasswordConfirmation {
		errs.Add("password", "password confirmation does not match")
	}

	if len(errs) > 0 {
		return &Error{Errors: errs}
	}
	return nil
}

// checkRequiredString applies the shared rule for name/title fields:
// required non-empty on create, optional on update, never above 255
// characters when present.
func checkRequiredString(errs Errors, fields map[string]any, field string, value *string, mode Mode) {
	if value == nil {
		if mode == ModeCreate {
			errs.Add(field, field+" is required")
		}
		return
	}
	trimmed := strings.TrimSpace(*value)
	switch {
	case trimmed == "":
		errs.Add(field, field+" is required")
	case len(trimmed) > maxStringLength:
		errs.Add(field, fmt.Sprintf("%s must not exceed %d characters", field, maxStringLength))
	default:
		fields[field] = trimmed
	}
}
