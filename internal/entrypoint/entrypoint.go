package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/database/authors"
	"github.com/mrlokans/library-catalog/internal/database/books"
	"github.com/mrlokans/library-catalog/internal/database/categories"
	"github.com/mrlokans/library-catalog/internal/database/users"
	http_controllers "github.com/mrlokans/library-catalog/internal/http"
	"github.com/mrlokans/library-catalog/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Library Catalog v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

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

	authService := auth.NewService(usersRepo, lookups, cfg.Auth)

	// Expired token cleanup runs on a cron schedule while the server is up.
	cleanup := scheduler.NewTokenCleanupScheduler(usersRepo, cfg.Auth)
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	if err := cleanup.Start(cleanupCtx); err != nil {
		log.Fatalf("Failed to start token cleanup scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:    db,
		Authors:     authorsRepo,
		Categories:  categoriesRepo,
		Books:       booksRepo,
		Lookups:     lookups,
		AuthService: authService,
		Version:     version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		cleanup.Stop()
		cleanupCancel()
	}

	Serve(router, cfg, onShutdown)
}
