package main

import (
	"log"
	"net/http"

	_ "courseshelf/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"courseshelf/internal/auth"
	"courseshelf/internal/cache"
	"courseshelf/internal/config"
	"courseshelf/internal/db"
	"courseshelf/internal/handler"
	"courseshelf/internal/model"
	"courseshelf/internal/repository"
	"courseshelf/internal/router"
	"courseshelf/internal/service"
	"courseshelf/internal/storage"
)

// @title Course Shelf API
// @version 1.0
// @description Subject-tagged course file repository: admins upload documents, students browse and download them.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.DownloadRecord{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	// Create the upload root and one folder per subject
	fileRepo := storage.NewDiskRepository(cfg.UploadRoot)
	if err := fileRepo.EnsureLayout(); err != nil {
		log.Fatalf("upload layout: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	downloadRepo := repository.NewDownloadRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cfg.AdminUsername, cfg.AdminPassword)
	libraryService := service.NewLibraryService(fileRepo, downloadRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	subjectHandler := handler.NewSubjectHandler(libraryService)
	adminHandler := handler.NewAdminHandler(libraryService)
	downloadHandler := handler.NewDownloadHandler(libraryService)

	// Register routes
	router.Register(
		e,
		jwtService,
		tokenStore,
		authHandler,
		subjectHandler,
		adminHandler,
		downloadHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
