package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/database/authors"
	"github.com/mrlokans/library-catalog/internal/database/books"
	"github.com/mrlokans/library-catalog/internal/database/categories"
)

// RouterConfig carries all router dependencies, improving testability and
// reducing parameter count.
type RouterConfig struct {
	Database    *database.Database
	Authors     *authors.Repository
	Categories  *categories.Repository
	Books       *books.Repository
	Lookups     database.Lookups
	AuthService *auth.Service
	Version     string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	authController := auth.NewController(cfg.AuthService)
	authMiddleware := auth.NewMiddleware(cfg.AuthService)

	authorsController := NewAuthorsController(cfg.Authors, cfg.Lookups)
	categoriesController := NewCategoriesController(cfg.Categories)
	booksController := NewBooksController(cfg.Books, cfg.Lookups)

	api := router.Group("/api")

	// Public routes
	api.POST("/register", authController.Register)
	api.POST("/login", authController.Login)
	// Logout revokes whatever token is presented; an already revoked
	// token still gets a 200, so it stays outside the auth gate.
	api.POST("/logout", authController.Logout)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())

	protected.GET("/user", authController.User)

	protected.GET("/authors", authorsController.List)
	protected.POST("/authors", authorsController.Create)
	protected.GET("/authors/:id", authorsController.Get)
	protected.PUT("/authors/:id", authorsController.Update)
	protected.PATCH("/authors/:id", authorsController.Update)
	protected.DELETE("/authors/:id", authorsController.Delete)

	protected.GET("/categories", categoriesController.List)
	protected.POST("/categories", categoriesController.Create)
	protected.GET("/categories/:id", categoriesController.Get)
	protected.PUT("/categories/:id", categoriesController.Update)
	protected.PATCH("/categories/:id", categoriesController.Update)
	protected.DELETE("/categories/:id", categoriesController.Delete)

	protected.GET("/books", booksController.List)
	protected.POST("/books", booksController.Create)
	protected.GET("/books/:id", booksController.Get)
	protected.PUT("/books/:id", booksController.Update)
	protected.PATCH("/books/:id", booksController.Update)
	protected.DELETE("/books/:id", booksController.Delete)

	return router
}
