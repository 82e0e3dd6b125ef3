// Package app wires the dashboard backend together and runs it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SeanSoulong/admin-bay/internal/auth"
	"github.com/SeanSoulong/admin-bay/internal/config"
	"github.com/SeanSoulong/admin-bay/internal/event"
	handler "github.com/SeanSoulong/admin-bay/internal/handler/http"
	"github.com/SeanSoulong/admin-bay/internal/recordstore"
	"github.com/SeanSoulong/admin-bay/internal/repository/record"
	"github.com/SeanSoulong/admin-bay/internal/service"
	"github.com/SeanSoulong/admin-bay/internal/storage"
	"github.com/SeanSoulong/admin-bay/internal/storage/memory"
	storageminio "github.com/SeanSoulong/admin-bay/internal/storage/minio"
	"github.com/SeanSoulong/admin-bay/pkg/database"
	"github.com/SeanSoulong/admin-bay/pkg/health"
	pkgkafka "github.com/SeanSoulong/admin-bay/pkg/kafka"
	"github.com/SeanSoulong/admin-bay/pkg/middleware"
	"github.com/SeanSoulong/admin-bay/pkg/tracing"
)

// App wires together all dependencies and runs the dashboard backend.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	redis           *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing first so every later component picks up the global provider.
	tracingShutdown, err := tracing.InitTracer(ctx, tracingConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Redis record store.
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to redis",
		slog.String("addr", cfg.Redis().Addr()),
		slog.String("namespace", cfg.RecordNamespace),
	)

	records := recordstore.New(redisClient, cfg.RecordNamespace)

	// Blob store: MinIO when configured, otherwise the in-memory store.
	blobStore, err := newBlobStore(cfg, logger)
	if err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("init blob store: %w", err)
	}

	// Kafka producer for the audit trail.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	productRepo := record.NewProductRepository(records)
	reviewRepo := record.NewReviewRepository(records)
	cardRepo := record.NewLearningCardRepository(records, logger)
	userRepo := record.NewUserRepository(records)

	auditProducer := event.NewProducer(producer, logger)

	productService := service.NewProductService(productRepo, auditProducer, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, userRepo, auditProducer, logger)
	cardService := service.NewLearningCardService(cardRepo, auditProducer, logger)
	userService := service.NewUserService(userRepo, logger)
	uploadService := service.NewUploadService(blobStore, logger)

	// Session gate.
	verifier, err := auth.NewTokenVerifier(cfg.SessionSecret)
	if err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("init token verifier: %w", err)
	}
	gate := auth.NewGate(cfg.AdminAllowedEmails)
	logger.Info("admin gate configured", slog.Int("allowed_emails", gate.Size()))

	// Health checks. Kafka is non-critical: the audit trail degrades but the
	// dashboard keeps working without it.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.RegisterCritical("blob_store", blobStore.Ping)
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		Products:   handler.NewProductHandler(productService, logger),
		Reviews:    handler.NewReviewHandler(reviewService, logger),
		Cards:      handler.NewLearningCardHandler(cardService, logger),
		Users:      handler.NewUserHandler(userService, logger),
		Uploads:    handler.NewUploadHandler(uploadService, logger),
		Health:     healthHandler,
		Verifier:   verifier,
		Gate:       gate,
		CORS:       corsCfg,
		PprofCIDRs: cfg.PprofAllowedCIDRs,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		redis:           redisClient,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// newBlobStore builds the configured blob store behind a circuit breaker.
func newBlobStore(cfg *config.Config, logger *slog.Logger) (storage.BlobStore, error) {
	var store storage.BlobStore

	if cfg.MinioEndpoint != "" {
		s, err := storageminio.New(storageminio.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			BaseURL:   cfg.BlobBaseURL,
			UseSSL:    cfg.MinioUseSSL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to minio: %w", err)
		}
		store = s
		logger.Info("blob store ready",
			slog.String("backend", "minio"),
			slog.String("endpoint", cfg.MinioEndpoint),
			slog.String("bucket", cfg.MinioBucket),
		)
	} else {
		baseURL := cfg.BlobBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", cfg.HTTPPort)
		}
		store = memory.New(baseURL, cfg.MinioBucket)
		logger.Warn("blob store ready",
			slog.String("backend", "memory"),
			slog.String("note", "uploads are lost on restart"),
		)
	}

	return storage.NewCircuitBreakerStore(store, storage.DefaultBreakerConfig("blob-store"), logger), nil
}

func tracingConfig(cfg *config.Config) tracing.Config {
	tc := tracing.DefaultConfig("admin-bay")
	tc.Environment = cfg.Environment
	tc.OTLPEndpoint = cfg.TracingOTLPEndpoint
	tc.SampleRate = cfg.TracingSampleRate
	tc.Enabled = cfg.TracingEnabled
	return tc
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
