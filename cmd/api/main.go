package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"sima/internal/auth"
	"sima/internal/cache"
	"sima/internal/config"
	"sima/internal/consul"
	"sima/internal/database"
	"sima/internal/kafka"
	"sima/internal/logger"
	"sima/internal/server"
	"sima/internal/storage"
)

func main() {
	log := logger.New()
	logger.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	issuer, err := auth.NewIssuer(cfg.SecretKey)
	if err != nil {
		slog.Error("Token signing key unavailable", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting SIMA API", "port", cfg.Port, "env", cfg.Env, "token_ttl", cfg.TokenTTL.String())

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(startupCtx, cfg.DatabaseURL, database.DefaultOptions())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(startupCtx); err != nil {
		slog.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	deps := server.Deps{DB: db, Issuer: issuer}

	if cacheCfg, ok := cache.LoadConfig(); ok {
		store := cache.New(cacheCfg)
		if err := store.Ping(startupCtx); err != nil {
			slog.Warn("Cache unavailable, product cache disabled", "driver", cacheCfg.Driver, "addr", cacheCfg.Addr, "error", err)
		} else {
			deps.Cache = store
			deps.CacheTTL = cacheCfg.TTL
			slog.Info("Product cache enabled", "driver", cacheCfg.Driver, "ttl", cacheCfg.TTL.String())
		}
	}

	storageCfg, err := storage.LoadConfig()
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		slog.Info("Object storage not configured, image endpoints disabled")
	case err != nil:
		slog.Error("Invalid storage configuration", "error", err)
		os.Exit(1)
	default:
		svc, err := storage.New(startupCtx, storageCfg)
		if err != nil {
			slog.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
		if err := svc.EnsureBucketExists(startupCtx); err != nil {
			slog.Warn("Failed to ensure bucket exists", "bucket", storageCfg.Bucket, "error", err)
		}
		deps.Storage = svc
	}

	var producer *kafka.Producer
	kafkaCfg, err := kafka.LoadConfig()
	switch {
	case errors.Is(err, kafka.ErrDisabled):
		slog.Info("Kafka publishing disabled")
	case err != nil:
		slog.Error("Invalid Kafka configuration", "error", err)
		os.Exit(1)
	default:
		producer, err = kafka.NewProducer(kafkaCfg, log)
		if err != nil {
			slog.Error("Failed to create Kafka producer", "error", err)
			os.Exit(1)
		}
		deps.Events = producer
	}

	apiServer := server.New(cfg, deps).HTTPServer()

	var (
		registry  *consul.Client
		serviceID string
	)
	if consulCfg, ok := consul.LoadConfig(); ok {
		registry, err = consul.NewClient(consulCfg)
		if err != nil {
			slog.Error("Failed to create Consul client", "error", err)
			os.Exit(1)
		}
		serviceID, err = registry.Register(cfg.Port)
		if err != nil {
			slog.Warn("Consul registration failed", "error", err)
			registry = nil
		}
	}

	go func() {
		slog.Info("SIMA API listening", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully, press Ctrl+C again to force")

	if registry != nil {
		if err := registry.Deregister(serviceID); err != nil {
			slog.Warn("Failed to deregister from Consul", "error", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	if producer != nil {
		producer.Close()
	}

	slog.Info("SIMA API stopped")
}
