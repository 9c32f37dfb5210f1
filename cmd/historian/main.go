// cmd/historian/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/colortrick/internal/cache"
	"github.com/jason-s-yu/colortrick/internal/config"
	"github.com/jason-s-yu/colortrick/internal/database"
	"github.com/jason-s-yu/colortrick/internal/historian"
	"github.com/jason-s-yu/colortrick/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if cfg.RedisAddr == "" || cfg.DatabaseURL == "" {
		logger.Fatal("historian needs both REDIS_ADDR and DATABASE_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		logger.Fatalf("migrate: %v", err)
	}

	svc := historian.NewService(cache.NewQueue(rdb, cfg.QueueName), db, cfg.HistorianBatchSize, cfg.HistorianFlush, logger)
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	srv := &http.Server{
		Addr:              cfg.HistorianAddr,
		Handler:           historian.Router(svc, logger, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("http shutdown")
		}
	}()

	logger.Infof("Historian listening on %s, draining %q", cfg.HistorianAddr, cfg.QueueName)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server exited: %v", err)
		stop()
	}
	<-done
}
