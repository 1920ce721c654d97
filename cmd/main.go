package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"

	redisCache "github.com/Dee-Olulo/House-hunting-platform/internal/adapter/cache/redis"
	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/email"
	grpcAdapter "github.com/Dee-Olulo/House-hunting-platform/internal/adapter/grpc"
	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/handler"
	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/router"
	natsAdapter "github.com/Dee-Olulo/House-hunting-platform/internal/adapter/messaging/nats"
	mongoRepo "github.com/Dee-Olulo/House-hunting-platform/internal/adapter/repository/mongodb"
	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/storage/s3"
	"github.com/Dee-Olulo/House-hunting-platform/internal/config"
	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/metrics"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/tracer"
	"github.com/Dee-Olulo/House-hunting-platform/internal/usecase"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Logger and configuration
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger = appLogger.With(zap.String("service", cfg.ServiceName))
	appLogger.Info("Application starting...",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Tracing and metrics
	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()
	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)

	// 3. MongoDB
	startCtx, cancelStart := context.WithTimeout(ctx, startupTimeout)
	defer cancelStart()

	mongoClient, err := mongo.Connect(startCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	if err := mongoClient.Ping(startCtx, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	propertyRepo, err := mongoRepo.NewPropertyRepository(mongoClient.Database(cfg.MongoDatabase), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize PropertyRepository", zap.Error(err))
	}

	// 4. Redis cache
	redisClient, err := redisCache.NewRedisClient(startCtx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	propertyCache := redisCache.NewPropertyCache(redisClient, cfg.CacheTTL, appLogger)

	// 5. NATS
	publisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer publisher.Close()

	// 6. Object storage
	mediaStorage, err := s3.NewMediaStorage(startCtx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize media storage", zap.Error(err))
	}

	// 7. Email
	var notifier domain.Notifier = email.NopNotifier{}
	if cfg.SMTP.Host != "" {
		sender, err := email.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize SMTP sender", zap.Error(err))
		}
		notifier = email.NewSMTPNotifier(sender, cfg.AdminEmail, appLogger)
	} else {
		appLogger.Info("SMTP_HOST not set, moderation emails are disabled.")
	}

	// 8. Moderator and usecases
	moderator, err := moderation.New(cfg.ModerationConfig())
	if err != nil {
		appLogger.Fatal("Invalid moderation configuration", zap.Error(err))
	}
	deps := usecase.Dependencies{
		Repo:      propertyRepo,
		Cache:     propertyCache,
		Publisher: publisher,
		Notifier:  notifier,
		Storage:   mediaStorage,
		Moderator: moderator,
		Metrics:   metricsManager,
		Options: usecase.Options{
			AutoModerationEnabled:     cfg.AutoModerationEnabled,
			NotifyLandlordOnApproval:  cfg.NotifyLandlordOnApproval,
			NotifyLandlordOnRejection: cfg.NotifyLandlordOnRejection,
			NotifyAdminOnFlagged:      cfg.NotifyAdminOnFlagged,
		},
	}
	propertyUC := usecase.NewPropertyUsecase(deps, appLogger)
	moderationUC := usecase.NewModerationUsecase(deps, appLogger)

	// 9. HTTP API
	mux := router.NewRouter(router.Options{
		Property:   handler.NewPropertyHandler(propertyUC, appLogger),
		Moderation: handler.NewModerationHandler(moderationUC, appLogger),
		JWTSecret:  cfg.JWTSecret,
		Metrics:    metricsManager,
		Logger:     appLogger,
		Health: func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		},
	})
	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// 10. gRPC health and reflection
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	grpcSrv, healthServer := grpcAdapter.NewGRPCServer(appLogger, cfg.ServiceName)
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Error("gRPC server failed", zap.Error(err))
			stop()
		}
	}()
	healthServer.SetServingStatus(cfg.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// 11. Prometheus metrics
	metricsSrv := metrics.NewMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry)
	go func() {
		if err := metrics.StartMetricsServer(ctx, metricsSrv, appLogger); err != nil {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	// 12. Graceful shutdown
	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	healthServer.SetServingStatus(cfg.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	grpcSrv.GracefulStop()

	appLogger.Info("Application stopped")
}
