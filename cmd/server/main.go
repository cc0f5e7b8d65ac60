package main

import (
	"context"
	"log"
	"net/http"

	"medmsg/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"medmsg/internal/auth"
	"medmsg/internal/cache"
	"medmsg/internal/config"
	"medmsg/internal/db"
	"medmsg/internal/handler"
	"medmsg/internal/logger"
	"medmsg/internal/model"
	"medmsg/internal/repository"
	"medmsg/internal/router"
	"medmsg/internal/service"
	"medmsg/internal/storage"
)

// @title Healthcare Messenger API
// @version 1.0
// @description Internal messaging API for healthcare staff: prioritized one-to-one messages with optional file attachments.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zlog.Fatalw("database init", "error", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Department{},
		&model.User{},
		&model.Message{},
	); err != nil {
		zlog.Fatalw("auto-migrate", "error", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	blobs, err := newBlobStore(cfg)
	if err != nil {
		zlog.Fatalw("blob store init", "backend", cfg.StorageBackend, "error", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	deptRepo := repository.NewDepartmentRepository(gormDB)
	msgRepo := repository.NewMessageRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, deptRepo, jwtService, tokenStore)
	deliveryService := service.NewDeliveryService(userRepo, msgRepo, blobs, cacheClient, zlog)
	inboxService := service.NewInboxService(msgRepo, cacheClient)
	messageService := service.NewMessageService(msgRepo, blobs, cacheClient)
	departmentService := service.NewDepartmentService(deptRepo, cacheClient)

	// Departments are read-only reference data; make sure the canonical
	// set exists before serving requests.
	if err := departmentService.SeedDefaults(context.Background()); err != nil {
		zlog.Fatalw("seed departments", "error", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	messageHandler := handler.NewMessageHandler(deliveryService, inboxService, messageService)
	notificationHandler := handler.NewNotificationHandler(inboxService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)

	// Register routes
	router.Register(
		e,
		cfg,
		zlog,
		authHandler,
		messageHandler,
		notificationHandler,
		departmentHandler,
	)

	addr := ":" + cfg.ServerPort
	zlog.Infow("starting server", "addr", addr, "storage", cfg.StorageBackend)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		zlog.Fatalw("server start", "error", err)
	}
}

func newBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.StorageBackend == "s3" {
		return storage.NewS3Store(context.Background(), storage.S3Options{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewLocalStore(cfg.UploadDir)
}
