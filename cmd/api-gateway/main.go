package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/edudocs-api/api/swagger"
	"github.com/noah-isme/edudocs-api/internal/handler"
	internalmiddleware "github.com/noah-isme/edudocs-api/internal/middleware"
	"github.com/noah-isme/edudocs-api/internal/realtime"
	"github.com/noah-isme/edudocs-api/internal/repository"
	"github.com/noah-isme/edudocs-api/internal/service"
	"github.com/noah-isme/edudocs-api/pkg/cache"
	"github.com/noah-isme/edudocs-api/pkg/config"
	"github.com/noah-isme/edudocs-api/pkg/database"
	"github.com/noah-isme/edudocs-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edudocs-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edudocs-api/pkg/middleware/requestid"
	"github.com/noah-isme/edudocs-api/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// @title EduDocs API
// @version 1.0.0
// @description School document requests, password reset requests and notifications
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.Migrate(db, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, falling back to in-process cache and broker", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	blobs, err := storage.NewLocalStorage(cfg.Attachments.StorageDir)
	if err != nil {
		logr.Fatal("failed to init attachment storage", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Directory.CacheTTL, logr, redisClient != nil)
	directory := service.NewDirectoryService(userRepo, cacheSvc, cfg.Directory.CacheTTL, logr)
	broker := realtime.New(redisClient, cfg.Realtime.Channel, logr)

	notifications := service.NewNotificationService(notificationRepo, metrics, logr, service.NotificationConfig{
		Workers:    cfg.Notifications.Workers,
		Buffer:     cfg.Notifications.Buffer,
		Retries:    cfg.Notifications.Retries,
		RetryDelay: cfg.Notifications.RetryDelay,
		BatchSize:  cfg.Batch.MaxSize,
	})
	notifications.Start(context.Background())

	authSvc := service.NewAuthService(userRepo, auditRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "edudocs-api",
	})
	requestSvc := service.NewRequestService(requestRepo, batchRepo, blobs,
		storage.NewSignedURLSigner(cfg.Attachments.SignedURLSecret, cfg.Attachments.SignedURLTTL),
		directory, validate, logr,
		service.RequestServiceConfig{
			MaxFileSize:  cfg.Attachments.MaxFileSizeBytes,
			AllowedMIMEs: cfg.Attachments.AllowedMIMEs,
			BatchSize:    cfg.Batch.MaxSize,
			DownloadPath: cfg.APIPrefix + "/requests",
		},
		service.WithRequestEvents(notifications, broker, auditRepo),
		service.WithRequestMetrics(metrics),
	)
	resetSvc := service.NewPasswordResetService(resetRepo, batchRepo, directory, notifications, broker, auditRepo, metrics, validate, logr, cfg.Batch.MaxSize)
	dashboardSvc := service.NewDashboardService(requestRepo, resetRepo, batchRepo, broker, metrics, logr, cfg.Dashboard.RecentLimit, cfg.Batch.MaxSize)
	exportSvc := service.NewExportService(requestSvc, logr, nil, nil)
	streamSvc := service.NewStreamService(requestSvc, broker, metrics, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.MaxMultipartMemory = cfg.Attachments.MaxFileSizeBytes

	metricsHandler := handler.NewMetricsHandler(metrics, readinessChecks(db, redisClient)...)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:           handler.NewAuthHandler(authSvc),
		Requests:       handler.NewRequestHandler(requestSvc, exportSvc),
		Attachments:    handler.NewAttachmentHandler(requestSvc),
		PasswordResets: handler.NewPasswordResetHandler(resetSvc),
		Dashboard:      handler.NewDashboardHandler(dashboardSvc),
		Notifications:  handler.NewNotificationHandler(notifications),
		Stream:         handler.NewStreamHandler(streamSvc).CloseOnShutdown(ctx),
		Directory:      handler.NewDirectoryHandler(directory),
	}, authSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	if err := notifications.Drain(shutdownCtx); err != nil {
		logr.Warn("notification queue did not drain", zap.Error(err))
	}
	notifications.Stop()
}

func readinessChecks(db *sqlx.DB, client *redis.Client) []handler.ReadinessCheck {
	checks := []handler.ReadinessCheck{{Name: "postgres", Probe: db.PingContext}}
	if client != nil {
		checks = append(checks, handler.ReadinessCheck{Name: "redis", Probe: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}})
	}
	return checks
}
