package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	financeapp "github.com/crm/backend/internal/application/finance"
	identityapp "github.com/crm/backend/internal/application/identity"
	leadapp "github.com/crm/backend/internal/application/lead"
	messagingapp "github.com/crm/backend/internal/application/messaging"
	uploadapp "github.com/crm/backend/internal/application/upload"
	"github.com/crm/backend/internal/domain/messaging"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/event"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/migration"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/storage"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/crm/backend/migrations"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	rootCtx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = telemetry.BridgeLogger(log, loggerProvider, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Telemetry.LogsLevel))

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database.DBName), log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(rootCtx, db.DB, meterProvider, telemetry.DBMetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := applySchema(db, log); err != nil {
			log.Fatal("Failed to apply schema", zap.Error(err))
		}
	}

	// Redis backs the token blacklist and the idempotency store when available
	redisClient, err := cache.Connect(rootCtx, cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	idempotencyStore := cache.NewIdempotencyStore(redisClient)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	teamRepo := persistence.NewGormTeamRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	noteRepo := persistence.NewGormNoteRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)

	// Domain events are logged as an activity trail
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogger(log))
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	objectStorage, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(identityapp.UserServiceConfig{
		UserRepo:       userRepo,
		TeamRepo:       teamRepo,
		Blacklist:      blacklist,
		SessionTTL:     cfg.JWT.RefreshTokenExpiration,
		EventPublisher: eventBus,
		Logger:         log,
	})
	leadService := leadapp.NewLeadService(leadapp.ServiceConfig{
		LeadRepo:       leadRepo,
		NoteRepo:       noteRepo,
		Users:          userRepo,
		TxScope:        persistence.NewGormLeadTransactionScope(db.DB),
		EventPublisher: eventBus,
		Logger:         log,
	})
	transactionService := financeapp.NewTransactionService(financeapp.TransactionServiceConfig{
		Repo:        transactionRepo,
		Idempotency: idempotencyStore,
		IdemConfig: shared.IdempotencyConfig{
			Enabled: cfg.Idempotency.Enabled,
			TTL:     cfg.Idempotency.TTL,
		},
		Logger: log,
	})
	logoService := uploadapp.NewLogoService(objectStorage, uploadapp.Config{
		MaxSize:   cfg.Storage.MaxLogoSize,
		URLExpiry: cfg.Storage.PresignExpiration,
	}, log)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Lead:        handler.NewLeadHandler(leadService),
		Transaction: handler.NewTransactionHandler(transactionService, cfg.Idempotency.HeaderName),
		Canned:      handler.NewMessageHandler(messagingapp.NewMessageService(messaging.KindCanned, messageRepo, log)),
		Template:    handler.NewMessageHandler(messagingapp.NewMessageService(messaging.KindTemplate, messageRepo, log)),
		Upload:      handler.NewUploadHandler(logoService),
		System:      handler.NewSystemHandler(db, version),
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.Enabled = cfg.Telemetry.Enabled
	if cfg.Telemetry.ServiceName != "" {
		tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	}

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(tracingCfg),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       cfg.Telemetry.MetricsEnabled,
			Logger:        log,
		}),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	var limiters []*middleware.RateLimiter
	var authLimit gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		apiLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, apiLimiter, authLimiter)
		engine.Use(middleware.RateLimit(apiLimiter))
		authLimit = middleware.AuthRateLimit(authLimiter)
	}

	jwtCfg := middleware.DefaultJWTConfig(authService)
	jwtCfg.Logger = log
	router.Mount(engine, handlers, authLimit, router.WithMiddleware(
		middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		middleware.TracingAttributeInjector(),
	))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	for _, l := range limiters {
		l.Stop()
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if closer, ok := idempotencyStore.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	log.Info("Server exited gracefully")
	_ = logger.Sync(log)
	if err := loggerProvider.Shutdown(ctx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}
}

// applySchema runs the embedded SQL migrations on the server's connection.
func applySchema(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	// Not closed: the postgres driver would close sqlDB with it.
	m, err := migration.New(sqlDB, migration.FromFS(migrations.FS, "."), log)
	if err != nil {
		return err
	}
	return m.Up()
}
