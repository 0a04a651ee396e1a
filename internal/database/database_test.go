package database

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase_MigratesSchema(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{"users", "access_tokens", "authors", "categories", "books"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}
}

func TestNewDatabase_EnforcesForeignKeys(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{
		Title:         "Orphan",
		ISBN:          "isbn-orphan",
		PublishedYear: 1999,
		Pages:         100,
		Price:         5.0,
		AuthorID:      999,
		CategoryID:    999,
	}
	err := db.DB.Create(book).Error

	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrForeignKeyViolated))
}

func TestNewDatabase_CascadeDeleteThroughFK(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	author := &entities.Author{Name: "Frank Herbert", Email: "frank@example.com"}
	require.NoError(t, db.DB.Create(author).Error)
	category := &entities.Category{Name: "Science Fiction"}
	require.NoError(t, db.DB.Create(category).Error)
	book := &entities.Book{
		Title:         "Dune",
		ISBN:          "isbn-1",
		PublishedYear: 1965,
		Pages:         412,
		Price:         9.99,
		AuthorID:      author.ID,
		CategoryID:    category.ID,
	}
	require.NoError(t, db.DB.Create(book).Error)

	require.NoError(t, db.DB.Delete(category).Error)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDatabase_Close(t *testing.T) {
	dbPath := "./test_close.db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	assert.NoError(t, db.Close())
}
