package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskflow/backend/api/handler"
	"github.com/taskflow/backend/internal/config"
	"github.com/taskflow/backend/internal/infrastructure/cleanup"
	"github.com/taskflow/backend/internal/infrastructure/content"
	"github.com/taskflow/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskflow/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskflow/backend/internal/infrastructure/redis"
	"github.com/taskflow/backend/internal/middleware"
	"github.com/taskflow/backend/internal/router"
	"github.com/taskflow/backend/internal/services"
	"github.com/taskflow/backend/internal/services/lifecycle"
	"github.com/taskflow/backend/pkg/httpcontext"
	"github.com/taskflow/backend/pkg/logger"
	"github.com/taskflow/backend/repository/postgres"
	redisRepo "github.com/taskflow/backend/repository/redis"
	authUC "github.com/taskflow/backend/usecase/auth"
	syncUC "github.com/taskflow/backend/usecase/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	contentStore, err := content.NewDiskStore(cfg.Content.Dir, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to open content store", zap.Error(err))
	}

	cleanupQueue, err := cleanup.Open(cfg.Cleanup.Path, "cleanup")
	if err != nil {
		zapLogger.Fatal("failed to open cleanup queue", zap.Error(err))
	}
	manager.Register("cleanup_queue", func(ctx context.Context) error {
		return cleanupQueue.Close()
	})

	mon := monitor.New(pool, redisClient, cleanupQueue, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	teamRepo := postgres.NewTeamRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	cleanupProcessor := services.NewCleanupProcessor(
		cleanupQueue,
		contentStore,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Cleanup.Interval,
			BatchSize:  cfg.Cleanup.BatchSize,
			MaxRetries: cfg.Cleanup.MaxRetry,
		},
	)
	cleanupProcessor.Start()
	manager.Register("cleanup_processor", func(ctx context.Context) error {
		cleanupProcessor.Stop(ctx)
		return nil
	})

	cleanupBridge := services.NewCleanupBridge(cleanupQueue)

	authUseCase := authUC.New(userRepo, teamRepo, projectRepo, taskRepo, sessionRepo, authUC.Config{
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		SessionTTL: cfg.JWT.SessionTTL,
	}, zapLogger)
	syncUseCase := syncUC.New(projectRepo, taskRepo, contentStore, cleanupBridge, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Sync:   apiHandler.NewSyncHandler(syncUseCase, ctxAdapter, zapLogger),
		Upload: apiHandler.NewUploadHandler(contentStore, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	teamScope := middleware.TeamScope(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, teamScope)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
