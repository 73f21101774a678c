package main

import (
	"log"
	"net/http"
	"os"

	_ "blogapi/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"blogapi/internal/auth"
	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/handler"
	"blogapi/internal/identity"
	"blogapi/internal/model"
	"blogapi/internal/repository"
	"blogapi/internal/router"
	"blogapi/internal/service"
)

// @title Blog API
// @version 1.0
// @description Multi-user blog API with JWT authentication and ownership-gated post CRUD.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Post{},
			&model.Profile{},
			&identity.Credential{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&identity.Credential{},
		&model.Profile{},
		&model.Post{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories and the identity provider
	profileRepo := repository.NewProfileRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	provider := identity.NewStore(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(profileRepo, provider, jwtService)
	postService := service.NewPostService(postRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)

	// Register routes
	router.Register(e, cfg, jwtService, authHandler, postHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
