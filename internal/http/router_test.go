package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/database/authors"
	"github.com/mrlokans/library-catalog/internal/database/books"
	"github.com/mrlokans/library-catalog/internal/database/categories"
	"github.com/mrlokans/library-catalog/internal/database/users"
)

func setupTestRouter(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_router_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	authorsRepo := authors.NewRepository(db.DB)
	categoriesRepo := categories.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	usersRepo := users.NewRepository(db.DB)

	lookups := database.Lookups{
		Authors:    authorsRepo,
		Categories: categoriesRepo,
		Books:      booksRepo,
		Users:      usersRepo,
	}

	authService := auth.NewService(usersRepo, lookups, config.Auth{BcryptCost: bcrypt.MinCost})

	router := NewRouter(RouterConfig{
		Database:    db,
		Authors:     authorsRepo,
		Categories:  categoriesRepo,
		Books:       booksRepo,
		Lookups:     lookups,
		AuthService: authService,
		Version:     "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return router, cleanup
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerUser creates an account and returns its bearer token.
func registerUser(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/register", "", gin.H{
		"name":                  "Test User",
		"email":                 "test@example.com",
		"password":              "pw123456",
		"password_confirmation": "pw123456",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createAuthor(t *testing.T, router *gin.Engine, token, name, email string) uint {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/authors", token, gin.H{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

func createCategory(t *testing.T, router *gin.Engine, token, name string) uint {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/categories", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

func createBook(t *testing.T, router *gin.Engine, token string, authorID, categoryID uint, title, isbn string) uint {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/books", token, gin.H{
		"title":          title,
		"isbn":           isbn,
		"published_year": 1999,
		"pages":          300,
		"price":          9.99,
		"author_id":      authorID,
		"category_id":    categoryID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

func TestHealthEndpoint_Public(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	for _, path := range []string{"/api/user", "/api/authors", "/api/categories", "/api/books"} {
		w := doJSON(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		body := decodeBody(t, w)
		assert.Equal(t, "Unauthenticated.", body["message"])
	}
}

func TestProtectedRoutes_RejectGarbageToken(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(router, http.MethodGet, "/api/authors", "not-a-token", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	registerUser(t, router)

	w := doJSON(router, http.MethodPost, "/api/login", "", gin.H{
		"email":    "test@example.com",
		"password": "pw123456",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	w = doJSON(router, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)
	assert.Equal(t, "test@example.com", user["email"])
	// The password hash never leaves the server.
	_, exposed := user["password_hash"]
	assert.False(t, exposed)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	registerUser(t, router)

	w := doJSON(router, http.MethodPost, "/api/login", "", gin.H{
		"email":    "test@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestLogout_RevokesOnlyPresentedToken(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	first := registerUser(t, router)

	w := doJSON(router, http.MethodPost, "/api/login", "", gin.H{
		"email":    "test@example.com",
		"password": "pw123456",
	})
	require.Equal(t, http.StatusOK, w.Code)
	second, _ := decodeBody(t, w)["token"].(string)

	w = doJSON(router, http.MethodPost, "/api/logout", first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodGet, "/api/user", first, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/user", second, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Logging out an already revoked token still succeeds.
	w = doJSON(router, http.MethodPost, "/api/logout", first, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthors_CRUD(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	token := registerUser(t, router)

	id := createAuthor(t, router, token, "Frank Herbert", "frank@example.com")

	w := doJSON(router, http.MethodGet, "/api/authors", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Frank Herbert", list[0]["name"])
	assert.Equal(t, float64(0), list[0]["books_count"])

	w = doJSON(router, http.MethodPatch, fmt.Sprintf("/api/authors/%d", id), token, gin.H{"country": "USA"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)
	assert.Equal(t, "USA", updated["country"])
	assert.Equal(t, "Frank Herbert", updated["name"])

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/authors/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Author deleted successfully", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/authors/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Author not found", decodeBody(t, w)["message"])
}

func TestAuthors_ValidationErrorShape(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	token := registerUser(t, router)

	w := doJSON(router, http.MethodPost, "/api/authors", token, gin.H{"name": "", "email": "bogus"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "The given data was invalid.", body["message"])
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
}

func TestAuthors_DuplicateEmailRejected(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	token := registerUser(t, router)
	createAuthor(t, router, token, "Frank Herbert", "frank@example.com")

	w := doJSON(router, http.MethodPost, "/api/authors", token, gin.H{
		"name":  "Impostor",
		"email": "frank@example.com",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decodeBody(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
}

func TestAuthors_MalformedIDIsNotFound(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	token := registerUser(t, router)

	w := doJSON(router, http.MethodGet, "/api/authors/abc", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_CreateWithRelations(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	token := registerUser(t, router)
	authorID := createAuthor(t, router, token, "Frank Herbert", "frank@example.com")
	categoryID := createCategory(t, router, token, "Science Fiction")

	bookID := createBook(t, router, token, authorID, categoryID, "Dune", "9780441013593")

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/books/%d", bookID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	author, ok := body["author"].(map[string]any)
	require.True(t, ok, "author relation is embedded")
	assert.Equal(t, "Frank Herbert", author["name"])
	category, ok := body["category"].(map[string]any)
	require.True(t, ok, "category relation is embedded")
	assert.Equal(t, "Science Fiction", category["name"])

	// The author's list row now counts the book.
	w = doJSON(router, http.MethodGet, "/api/authors", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var authorsList []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &authorsList))
	require.Len(t, authorsList, 1)
	assert.Equal(t, float64(1), authorsList[0]["books_count"])
}

func TestBooks_PublishedYearUpperBound(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	token := registerUser(t, router)
	authorID := createAuthor(t, router, token, "Frank Herbert", "frank@example.com")
	categoryID := createCategory(t, router, token, "Science Fiction")

	w := doJSON(router, http.MethodPost, "/api/books", token, gin.H{
		"title":          "From the Future",
		"isbn":           "isbn-future",
		"published_year": time.Now().Year() + 1,
		"pages":          100,
		"price":          5.0,
		"author_id":      authorID,
		"category_id":    categoryID,
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decodeBody(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "published_year")
}

func TestBooks_UnknownRelationsRejected(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	token := registerUser(t, router)

	w := doJSON(router, http.MethodPost, "/api/books", token, gin.H{
		"title":          "Orphan",
		"isbn":           "isbn-orphan",
		"published_year": 1999,
		"pages":          100,
		"price":          5.0,
		"author_id":      99,
		"category_id":    98,
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decodeBody(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "author_id")
	assert.Contains(t, errs, "category_id")
}

func TestBooks_PartialUpdate(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	token := registerUser(t, router)
	authorID := createAuthor(t, router, token, "Frank Herbert", "frank@example.com")
	categoryID := createCategory(t, router, token, "Science Fiction")
	bookID := createBook(t, router, token, authorID, categoryID, "Dune", "isbn-1")

	w := doJSON(router, http.MethodPatch, fmt.Sprintf("/api/books/%d", bookID), token, gin.H{"price": 12.5})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 12.5, body["price"])
	assert.Equal(t, "Dune", body["title"])
	assert.Equal(t, "isbn-1", body["isbn"])
}

func TestAuthors_DeleteCascadesToBooks(t *testing.T) {
	router, cleanup := setupTestRouter(t)
	defer cleanup()

	token := registerUser(t, router)
	authorID := createAuthor(t, router, token, "Frank Herbert", "frank@example.com")
	categoryID := createCategory(t, router, token, "Science Fiction")
	bookID := createBook(t, router, token, authorID, categoryID, "Dune", "isbn-1")

	w := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/authors/%d", authorID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/books/%d", bookID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
