package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/auth"
	"github.com/escuela-dev/escuela/internal/config"
	"github.com/escuela-dev/escuela/internal/logger"
	"github.com/escuela-dev/escuela/internal/router"
	"github.com/escuela-dev/escuela/internal/scheduler"
	"github.com/escuela-dev/escuela/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogMode)

	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	gin.SetMode(cfg.GinMode)

	if err = db.ConnectDatabase(cfg.DBDriver, cfg.DSN); err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err = db.MigrateDatabase(); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}

	if err = auth.InitJWTSecret(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute); err != nil {
		zlog.Fatal("Failed to initialize JWT", zap.Error(err))
	}

	if cfg.RedisAddr != "" {
		client, err := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

		if err != nil {
			zlog.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()

		auth.SetRevoker(auth.NewRedisRevoker(client))
		zlog.Info("Token revocation backed by redis", zap.String("addr", cfg.RedisAddr))
	} else {
		zlog.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
	}

	services.ConfigureWebhooks(cfg.DiscordWebhookURL, cfg.SlackWebhookURL)

	scheduler.Initialize(scheduler.DefaultJobs()...)
	defer scheduler.Shutdown()

	if err = os.MkdirAll(cfg.StaticDir, 0o755); err != nil {
		zlog.Fatal("Failed to create static directory", zap.String("dir", cfg.StaticDir), zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(cfg, zlog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server listening", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}
