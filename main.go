package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storefront_server/api"
	"storefront_server/config"
	"storefront_server/database"
	"storefront_server/services"
	"storefront_server/structs"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if cfg.Catalog.Store != "memory" {
		if err := database.Initialize(cfg.Database, logger); err != nil {
			logger.Fatal("Failed to initialize database", gecho.Field("error", err))
		}
	}
}

func main() {
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient = services.NewRedisClient(cfg.Cache)
	}

	sm, err := services.NewServiceManager(logger, cfg, database.GetInstance(), redisClient)
	if err != nil {
		logger.Fatal("Failed to initialize services", gecho.Field("error", err))
	}
	if sm.CacheService.Enabled() {
		if err := sm.CacheService.Ping(); err != nil {
			logger.Warn("Cache is unreachable, continuing without it until it recovers", gecho.Field("error", err))
		}
	}

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, logger, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Setup graceful shutdown BEFORE starting the server
	done := setupGracefulShutdown(logger, server, sm)

	logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port),
		gecho.Field("catalog_store", cfg.Catalog.Store),
		gecho.Field("cache_enabled", sm.CacheService.Enabled()),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", gecho.Field("error", err))
	}
	<-done
}

// setupGracefulShutdown drains in-flight requests on SIGINT/SIGTERM and then
// releases the database and cache connections. The returned channel closes
// once cleanup is finished.
func setupGracefulShutdown(logger *gecho.Logger, server *http.Server, sm *services.ServiceManager) <-chan struct{} {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	logger.Info("Graceful shutdown handler initialized")

	go func() {
		defer close(done)
		sig := <-c
		logger.Info("Received shutdown signal", gecho.Field("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown failed", gecho.Field("error", err))
		}
		if err := sm.CacheService.Close(); err != nil {
			logger.Error("Failed to close cache client", gecho.Field("error", err))
		}
		if err := database.CloseInstance(); err != nil {
			logger.Error("Failed to close database", gecho.Field("error", err))
		}
	}()
	return done
}
