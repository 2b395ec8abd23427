package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/config"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/cache"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/jobs"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/realtime"
	infrarepos "github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/storage"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/handlers"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/middleware"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/crypto"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/jwt"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	newStorage = func(ctx context.Context, cfg config.StorageConfig) (repositories.ObjectStorage, error) {
		return storage.NewS3Storage(ctx, cfg)
	}
	runServer = func(srv *http.Server) error { return srv.ListenAndServe() }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	crypto.SetCost(cfg.Server.BcryptCost)

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer func() { _ = redis.Close() }()
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Connected to PostgreSQL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	// Repositories
	userRepo := infrarepos.NewUserRepository(db)
	projectRepo := infrarepos.NewProjectRepository(db)
	investmentRepo := infrarepos.NewInvestmentRepository(db)
	documentRepo := infrarepos.NewKYCDocumentRepository(db)
	notificationRepo := infrarepos.NewNotificationRepository(db)
	uow := infrarepos.NewUnitOfWork(db)

	responseCache, err := cache.New(cfg.Cache.Backend, cfg.Cache.TTL, cfg.Cache.MaxEntries)
	if err != nil {
		return fmt.Errorf("failed to initialize response cache: %w", err)
	}

	// Change feed: events go through Redis so every instance sees every change
	hub := realtime.NewHub(cfg.Realtime.BufferSize)
	defer hub.Close()
	relay := realtime.NewRedisRelay(hub, cfg.Realtime.RedisChannel)
	if err := relay.Start(ctx); err != nil {
		return fmt.Errorf("failed to start realtime relay: %w", err)
	}
	defer relay.Stop()

	objectStorage, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	bounds := validation.Bounds{
		Min:      cfg.Investment.MinAmount,
		Max:      cfg.Investment.MaxAmount,
		Currency: cfg.Investment.Currency,
	}

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, redis.NewTokenBlocklist(), relay)
	projectUsecase := usecases.NewProjectUsecase(projectRepo, investmentRepo, objectStorage, relay, cfg.Storage.ProjectBucket, cfg.Storage.MaxUploadBytes)
	investmentUsecase := usecases.NewInvestmentUsecase(uow, projectRepo, investmentRepo, notificationRepo, relay, bounds)
	kycUsecase := usecases.NewKYCUsecase(uow, userRepo, documentRepo, notificationRepo, objectStorage, relay, cfg.Storage.KYCBucket, cfg.Storage.MaxUploadBytes)
	notificationUsecase := usecases.NewNotificationUsecase(notificationRepo)
	marketplaceUsecase := usecases.NewMarketplaceUsecase(projectRepo, relay, responseCache, cfg.Cache.TTL, cfg.Realtime.RetryDelay)
	reconcileJob := jobs.NewFundingReconcileJob(projectRepo, investmentRepo, userRepo, notificationRepo, relay)
	adminUsecase := usecases.NewAdminUsecase(userRepo, investmentRepo, reconcileJob, cfg.Investment.Currency)

	if err := marketplaceUsecase.Start(ctx); err != nil {
		// the live list keeps following changes and reloads on the next refresh
		logger.Warn(ctx, "Marketplace initial load failed", zap.Error(err))
	}
	defer marketplaceUsecase.Close()

	// Background jobs
	scheduler := jobs.NewScheduler()
	if err := scheduler.Register(cfg.Jobs.ReconcileSchedule, reconcileJob); err != nil {
		return fmt.Errorf("failed to schedule jobs: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         handlers.NewAuthHandler(authUsecase),
		projectHandler:      handlers.NewProjectHandler(projectUsecase),
		marketplaceHandler:  handlers.NewMarketplaceHandler(marketplaceUsecase),
		investmentHandler:   handlers.NewInvestmentHandler(investmentUsecase),
		kycHandler:          handlers.NewKYCHandler(kycUsecase),
		notificationHandler: handlers.NewNotificationHandler(notificationUsecase),
		adminHandler:        handlers.NewAdminHandler(adminUsecase),
		realtimeHandler:     handlers.NewRealtimeHandler(relay, projectUsecase, cfg.Server.AllowedOrigins),
		authMiddleware:      middleware.AuthMiddleware(authUsecase),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info(context.Background(), "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(context.Background(), "Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(context.Background(), "Agro crowdfunding backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)

	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
