package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHttp "github.com/chatterbox/backend/internal/api/http"
	"github.com/chatterbox/backend/internal/api/ws"
	"github.com/chatterbox/backend/internal/blacklist"
	"github.com/chatterbox/backend/internal/cache"
	"github.com/chatterbox/backend/internal/config"
	"github.com/chatterbox/backend/internal/db"
	"github.com/chatterbox/backend/internal/guard"
	"github.com/chatterbox/backend/internal/queue/asynqserver"
	"github.com/chatterbox/backend/internal/repository"
	"github.com/chatterbox/backend/internal/server"
	"github.com/chatterbox/backend/internal/service"
	"github.com/chatterbox/backend/internal/worker"
	"github.com/chatterbox/backend/pkg/auth"
	"github.com/chatterbox/backend/pkg/hash"
	"github.com/chatterbox/backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.Env)
	defer appLogger.Sync() //nolint:errcheck

	appLogger.Info("starting backend api", zap.String("env", cfg.Env))

	// Init database
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Error("mysql connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			appLogger.Error("error when closing", zap.Error(err))
		}
	}()
	appLogger.Info("mysql connection done")

	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		appLogger.Error("redis connect problem", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("redis connection done")

	hasher := hash.NewBcryptHasher(cfg.Auth.BcryptCost)

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		appLogger.Error("auth manager creation err", zap.Error(err))
		return
	}

	registry, err := blacklist.New(cfg.Blacklist, redisClient)
	if err != nil {
		appLogger.Error("blacklist creation err", zap.Error(err))
		return
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The in-memory registry needs its periodic sweep; redis expires keys
	// on its own.
	if memoryRegistry, ok := registry.(*blacklist.Memory); ok {
		go memoryRegistry.Run(rootCtx, cfg.Blacklist.SweepInterval)
	}

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbMySQL)
	services := service.NewServices(service.Deps{
		Config:       cfg,
		Hasher:       hasher,
		TokenManager: tokenManager,
		Blacklist:    registry,
		Repos:        repos,
	})

	requestGuard := guard.New(tokenManager, registry, services.Auth)
	hub := ws.NewHub(requestGuard, cfg.Auth.AccessCookieName)
	go hub.Run(rootCtx)

	handlers := apiHttp.NewHandlers(services, requestGuard, hub, cfg)

	// Maintenance queue
	workers := worker.NewWorkers(worker.Deps{Repos: repos, Config: cfg})
	queueServer, queueMux := asynqserver.New(cfg.Cache, workers)
	go func() {
		if err := queueServer.Run(queueMux); err != nil {
			appLogger.Error("asynq server stopped", zap.Error(err))
		}
	}()

	scheduler, err := asynqserver.NewScheduler(cfg.Cache, cfg.Maintenance)
	if err != nil {
		appLogger.Error("scheduler creation err", zap.Error(err))
		return
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			appLogger.Error("asynq scheduler stopped", zap.Error(err))
		}
	}()

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started")

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	scheduler.Shutdown()
	queueServer.Shutdown()
	cancel()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}

	appLogger.Info("app stopped")
}
