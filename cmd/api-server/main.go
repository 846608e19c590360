package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"bookly/database"
	"bookly/internal/cache"
	"bookly/internal/catalog/google"
	"bookly/internal/config"
	"bookly/internal/http-api/handler"
	"bookly/internal/http-api/middleware"
	"bookly/internal/http-api/repository"
	"bookly/internal/http-api/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("could not load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// 2. Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	// 3. Redis search cache; a nil handle degrades to no caching
	searchCache, err := cache.NewSearchCache(cfg.RedisURL, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		logger.Warn("redis unavailable, search caching disabled", "error", err)
		searchCache = nil
	} else {
		defer searchCache.Close()
	}

	// 4. External catalog client
	catalogClient := google.NewClient(cfg.GoogleBooksAPIURL, cfg.GoogleBooksAPIKey)

	// 5. Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// 6. Services
	authService := service.NewAuthService(userRepo, cfg)
	bookService := service.NewBookService(bookRepo, favoriteRepo, ratingRepo, reviewRepo, catalogClient, searchCache, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, bookRepo, bookService)
	ratingService := service.NewRatingService(ratingRepo, bookRepo, bookService)
	reviewService := service.NewReviewService(reviewRepo, bookRepo, bookService)

	// 7. Handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	bookHandler := handler.NewBookHandler(bookService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// 8. Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSOrigins))

	requireAuth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	api := r.Group("/api")

	api.GET("/ping", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	authHandler.RegisterRoutes(api, requireAuth)

	books := api.Group("/books")
	bookHandler.RegisterRoutes(books, optionalAuth)
	favoriteHandler.RegisterRoutes(books, requireAuth)
	ratingHandler.RegisterRoutes(books, requireAuth)
	reviewHandler.RegisterRoutes(books, requireAuth)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server running", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
